// Package tui is the interactive sandbox picker behind
// "wolfi-dev sandbox pick".
//
// Sandboxes are listed newest first under day headers ("Today",
// "Yesterday", "3 days ago", then dates). The cursor never rests on a
// header.
//
//	result, err := tui.RunPicker(sandboxes, time.Now())
//	switch result.Action {
//	case tui.ActionOpen:   // shell in result.Sandbox.Path
//	case tui.ActionNew:    // create a sandbox first
//	case tui.ActionDelete: // remove result.Sandbox
//	}
//
// SimplePicker renders the same list as plain text when stdout is not a
// terminal.
package tui
