// Package probe answers "does this URL exist?" with three outcomes.
//
// A probe either finds the resource, learns that it is absent (HTTP 404 or
// 410), or fails to decide. Callers must treat Failed differently from
// NotFound: a flaky network must never look like a missing package.
package probe
