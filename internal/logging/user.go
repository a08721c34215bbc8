package logging

import (
	"fmt"
	"io"
	"os"
)

// Status lines for people, kept apart from the structured log. The root
// command points both writers at stderr so stdout only carries results.
var (
	UserOut io.Writer = os.Stdout
	UserErr io.Writer = os.Stderr
)

// SetUserOutput redirects status lines. Nil writers keep the current one.
func SetUserOutput(out, errOut io.Writer) {
	if out != nil {
		UserOut = out
	}
	if errOut != nil {
		UserErr = errOut
	}
}

func userLine(w io.Writer, marker, format string, args []interface{}) {
	fmt.Fprintf(w, marker+" "+format+"\n", args...)
}

// UserInfo prints an ℹ line to UserOut.
func UserInfo(format string, args ...interface{}) { userLine(UserOut, "ℹ", format, args) }

// UserSuccess prints a ✓ line to UserOut.
func UserSuccess(format string, args ...interface{}) { userLine(UserOut, "✓", format, args) }

// UserWarning prints a ⚠ line to UserErr.
func UserWarning(format string, args ...interface{}) { userLine(UserErr, "⚠", format, args) }

// UserError prints a ✗ line to UserErr.
func UserError(format string, args ...interface{}) { userLine(UserErr, "✗", format, args) }
