package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrSelectionCancelled = errors.New("device selection cancelled")

// FindDevice returns the first device whose name contains name, ignoring case.
func FindDevice(ctx Context, name string) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	want := strings.ToLower(name)
	for i := range devices {
		if strings.Contains(strings.ToLower(devices[i].Name), want) {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("no capture device matching %q", name)
}

// SelectDevice presents an interactive device picker on the terminal.
// With a single device it returns that device without prompting.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, errors.New("no capture devices found")
	}
	if len(devices) == 1 {
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	p := &picker{devices: devices}
	i, err := p.run(os.Stdin, os.Stdout)
	if err != nil {
		return nil, err
	}
	return &devices[i], nil
}

type picker struct {
	devices []DeviceInfo
	cursor  int
}

func (p *picker) render(w io.Writer) {
	fmt.Fprint(w, "\r\x1b[J")
	fmt.Fprint(w, "Select microphone (↑/↓, Enter to confirm):\r\n\r\n")
	for i, d := range p.devices {
		tag := ""
		if IsBluetooth(d.Name) {
			tag = " \x1b[33m[bluetooth: lower quality]\x1b[0m"
		}
		if i == p.cursor {
			fmt.Fprintf(w, "  \x1b[1;36m▶ %s%s\x1b[0m\r\n", d.Name, tag)
		} else {
			fmt.Fprintf(w, "    %s%s\r\n", d.Name, tag)
		}
	}
}

// key applies one keypress. It reports whether the selection is final.
func (p *picker) key(in []byte) (bool, error) {
	up, down := false, false
	switch {
	case len(in) == 1 && in[0] == '\r':
		return true, nil
	case len(in) == 1 && (in[0] == 3 || in[0] == 'q'):
		return true, ErrSelectionCancelled
	case len(in) == 1 && in[0] == 'k':
		up = true
	case len(in) == 1 && in[0] == 'j':
		down = true
	case len(in) == 3 && in[0] == 0x1b && in[1] == '[':
		up, down = in[2] == 'A', in[2] == 'B'
	}
	if up && p.cursor > 0 {
		p.cursor--
	}
	if down && p.cursor < len(p.devices)-1 {
		p.cursor++
	}
	return false, nil
}

func (p *picker) run(r io.Reader, w io.Writer) (int, error) {
	p.render(w)
	buf := make([]byte, 3)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return 0, fmt.Errorf("reading input: %w", err)
		}
		done, err := p.key(buf[:n])
		if done {
			fmt.Fprint(w, "\r\n")
			return p.cursor, err
		}
		fmt.Fprintf(w, "\x1b[%dA", len(p.devices)+2)
		p.render(w)
	}
}
