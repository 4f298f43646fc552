package automation

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// XdotoolPointer drives an X11 pointer through the xdotool binary.
type XdotoolPointer struct {
	run func(args ...string) ([]byte, error)
}

// NewXdotoolPointer fails when xdotool is not on PATH.
func NewXdotoolPointer() (*XdotoolPointer, error) {
	bin, err := exec.LookPath("xdotool")
	if err != nil {
		return nil, fmt.Errorf("xdotool not available: %w", err)
	}
	return &XdotoolPointer{run: func(args ...string) ([]byte, error) {
		return exec.Command(bin, args...).Output()
	}}, nil
}

func (x *XdotoolPointer) Position() (Point, error) {
	out, err := x.run("getmouselocation", "--shell")
	if err != nil {
		return Point{}, err
	}
	var p Point
	var seenX, seenY bool
	for _, line := range strings.Split(string(out), "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		switch key {
		case "X":
			p.X, seenX = n, true
		case "Y":
			p.Y, seenY = n, true
		}
	}
	if !seenX || !seenY {
		return Point{}, fmt.Errorf("unexpected getmouselocation output %q", out)
	}
	return p, nil
}

func (x *XdotoolPointer) MoveTo(p Point) error {
	_, err := x.run("mousemove", strconv.Itoa(p.X), strconv.Itoa(p.Y))
	return err
}

func (x *XdotoolPointer) Click() error {
	_, err := x.run("click", "1")
	return err
}

func (x *XdotoolPointer) ScreenSize() (int, int, error) {
	out, err := x.run("getdisplaygeometry")
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected getdisplaygeometry output %q", out)
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}
