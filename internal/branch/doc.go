// Package branch prepares a working branch on the user's fork of the
// package repository.
//
// The sequence is:
//
//  1. sync the fork's default branch from upstream (gh repo sync)
//  2. if upstream already has the branch, sync it into the fork too
//  3. clone the fork into a new sandbox
//  4. switch to the branch when origin has it, otherwise create it
//  5. point origin at the fork's SSH URL
//  6. push with upstream tracking
//  7. set pull.rebase for the clone
//
// The branch name and GitHub username are checked first; a missing value
// fails with no command run and no directory created.
package branch
