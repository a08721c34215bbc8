// Package recipe reads melange package recipes.
//
// Only the fields wolfi-dev inspects after a conversion are modelled: the
// package block, the build environment and the pipeline step names. The
// file on disk is never rewritten from this model.
package recipe
