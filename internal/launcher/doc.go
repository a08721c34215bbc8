// Package launcher starts the interactive Wolfi build environments.
//
// Three variants exist:
//
//	shell   docker run --rm -i[t] -v <project>:/work -w /work ... wolfi-base
//	sdk     make dev-container-wolfi in the project
//	local   make local-wolfi in the project, after creating packages/ and
//	        a local melange signing key
//
// A project is a directory whose Makefile has a local-wolfi target. When
// the working directory is not one, the upstream sources are fetched into
// a new sandbox and the package repository clone is used instead.
//
// The variant's image is refreshed according to the pull policy before
// anything else runs.
package launcher
