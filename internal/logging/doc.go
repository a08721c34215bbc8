// Package logging holds the global slog logger and the user-facing status
// lines of wolfi-dev.
//
// Structured logs go through a tint text handler (coloured only on a
// terminal) or, with --json, slog's JSON handler. Every external command is
// logged at debug level, so -v shows exactly what ran:
//
//	logging.Debug("exec", "cmd", system.CommandLine(name, args...))
//
// Status lines carry a marker and are meant for people:
//
//	logging.UserInfo("Probing upstream for %s...", pkg)   // ℹ
//	logging.UserSuccess("Created branch %s", branch)      // ✓
//	logging.UserWarning("Failed to remove %s", name)      // ⚠
//	logging.UserError("%s", err)                          // ✗
//
// UserInfo and UserSuccess write to UserOut, the others to UserErr. The CLI
// sends both to stderr.
package logging
