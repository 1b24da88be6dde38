package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalProgress_TruncatesToWidth(t *testing.T) {
	var buf bytes.Buffer
	tp := &terminalProgress{out: &buf, cols: 10}

	tp.Update("a message far wider than ten columns")
	assert.Equal(t, "a message \r", buf.String())
}

func TestTerminalProgress_PadsShorterMessages(t *testing.T) {
	var buf bytes.Buffer
	tp := &terminalProgress{out: &buf, cols: 40}

	tp.Update("a long first message")
	buf.Reset()
	tp.Update("short")

	// The shorter message is padded so the leftovers of the longer one
	// are overwritten.
	assert.Equal(t, "short"+strings.Repeat(" ", 15)+"\r", buf.String())
}

func TestTerminalProgress_Clear(t *testing.T) {
	var buf bytes.Buffer
	tp := &terminalProgress{out: &buf, cols: 40}

	tp.Update("working")
	buf.Reset()
	tp.Clear()
	assert.Equal(t, strings.Repeat(" ", 7)+"\r", buf.String())

	buf.Reset()
	tp.Clear()
	assert.Empty(t, buf.String(), "a cleared line is not cleared twice")
}
