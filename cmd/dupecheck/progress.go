package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// terminalProgress writes a single progress line, overwriting it in
// place with a carriage return and padding with spaces so a shorter
// message erases the remains of a longer one.
type terminalProgress struct {
	out     io.Writer
	cols    int
	lastLen int
}

// newTerminalProgress sizes a progress line for the terminal behind out.
func newTerminalProgress(out *os.File) (*terminalProgress, error) {
	width, _, err := term.GetSize(int(out.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to query terminal size: %w", err)
	}
	return &terminalProgress{out: out, cols: width - 1}, nil
}

// Update writes message truncated to the terminal width.
func (tp *terminalProgress) Update(message string) {
	part := message
	if len(part) > tp.cols {
		part = part[:tp.cols]
	}
	if len(part) < tp.lastLen {
		part += strings.Repeat(" ", tp.lastLen-len(part))
		if len(part) > tp.cols {
			part = part[:tp.cols]
		}
	}
	fmt.Fprintf(tp.out, "%s\r", part)

	tp.lastLen = max(tp.lastLen, len(message))
	tp.lastLen = min(tp.lastLen, tp.cols)
}

// Clear erases any leftover progress text.
func (tp *terminalProgress) Clear() {
	if tp.lastLen == 0 {
		return
	}
	fmt.Fprintf(tp.out, "%s\r", strings.Repeat(" ", tp.lastLen))
	tp.lastLen = 0
}
