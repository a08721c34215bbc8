// Package sandbox creates and manages disposable working directories.
//
// A sandbox is a uniquely named directory below a root (the OS temp dir by
// default) that isolates one workflow invocation's files:
//
//	wolfi-dev-20261018-142501-k3v9q0ax
//
// The name is a seconds-resolution timestamp plus an eight character
// random suffix. Create uses an exclusive mkdir and draws a new suffix when
// a name is taken, so any number of sandboxes created in the same second
// get distinct paths.
//
// Sandboxes are never removed implicitly. Prune backs the
// "sandbox prune" command.
package sandbox
