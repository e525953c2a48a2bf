package logging

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Anything exposing Fd(), such as an
// *os.File, is checked; every other writer is treated as a pipe.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colors should be written to w.
//
// NO_COLOR (https://no-color.org) and TERM=dumb always disable color.
// CLICOLOR_FORCE enables it for pipes, e.g. `deploytool | less -R`.
func SupportsColor(w io.Writer) bool {
	return colorEnabled(IsTTY(w))
}

func colorEnabled(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	if v := os.Getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	return isTTY
}

// Painter returns a color for text written to w. Color is switched on or off
// per writer, independent of the process-wide color.NoColor.
func Painter(w io.Writer, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if SupportsColor(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
