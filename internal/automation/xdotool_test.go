package automation

import (
	"errors"
	"reflect"
	"testing"
)

func fakeXdotool(outputs map[string]string, calls *[][]string) func(args ...string) ([]byte, error) {
	return func(args ...string) ([]byte, error) {
		*calls = append(*calls, args)
		out, ok := outputs[args[0]]
		if !ok {
			return nil, nil
		}
		if out == "ERR" {
			return nil, errors.New("exit status 1")
		}
		return []byte(out), nil
	}
}

func TestXdotoolPointer(t *testing.T) {
	var calls [][]string
	x := &XdotoolPointer{run: fakeXdotool(map[string]string{
		"getmouselocation":   "X=640\nY=480\nSCREEN=0\nWINDOW=1234\n",
		"getdisplaygeometry": "1920 1080\n",
	}, &calls)}

	p, err := x.Position()
	if err != nil || p != (Point{640, 480}) {
		t.Fatalf("unexpected position %v err=%v", p, err)
	}
	w, h, err := x.ScreenSize()
	if err != nil || w != 1920 || h != 1080 {
		t.Fatalf("unexpected size %dx%d err=%v", w, h, err)
	}
	if err := x.MoveTo(Point{10, 20}); err != nil {
		t.Fatalf("MoveTo returned error: %v", err)
	}
	if err := x.Click(); err != nil {
		t.Fatalf("Click returned error: %v", err)
	}
	if !reflect.DeepEqual(calls[2], []string{"mousemove", "10", "20"}) || !reflect.DeepEqual(calls[3], []string{"click", "1"}) {
		t.Fatalf("unexpected invocations %v", calls)
	}
}

func TestXdotoolPointerBadOutput(t *testing.T) {
	var calls [][]string
	x := &XdotoolPointer{run: fakeXdotool(map[string]string{
		"getmouselocation":   "garbage",
		"getdisplaygeometry": "ERR",
	}, &calls)}
	if _, err := x.Position(); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, _, err := x.ScreenSize(); err == nil {
		t.Fatalf("expected command error")
	}
}
