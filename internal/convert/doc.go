// Package convert turns an Alpine APKBUILD into a Wolfi package recipe on
// a fresh working branch.
//
// The upstream sections are probed concurrently. A conversion stops before
// any side effect when no section has the package, when any probe fails to
// decide, or when a recipe of the same name is already published. The
// branch is then prepared, melange converts the APKBUILD into a scratch
// directory, the result is moved into the clone and normalised with yam.
//
// The scratch directory is removed when Convert returns unless
// KeepScratch is set.
package convert
