package ui

import (
	"fmt"
	"io"
)

// OK prints a success line.
func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Success.Render(Current().SymDone+" "+msg))
}

// Fail prints an error line.
func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Error.Render("✖ "+msg))
}

// Notice prints a notification message as-is, in the accent colour.
func Notice(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Accent.Render(msg))
}
