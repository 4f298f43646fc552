package automation

import (
	"bufio"
	"fmt"
	"io"
)

// LinePrompter prints a message and waits for a newline.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads confirmations from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Confirm(msg string) error {
	fmt.Fprintln(p.out, msg)
	_, err := p.in.ReadString('\n')
	return err
}
