// Package git wraps the git commands the branch and fetch workflows need.
//
// Commands that users expect to watch (clone, switch, push) stream to the
// terminal. Queries (show-ref, ls-remote) are run quietly and report their
// answer through the exit status:
//
//	show-ref --verify --quiet   exit 1   ref missing
//	ls-remote --exit-code       exit 2   no matching head
//
// Any other failure is returned as a CommandFailed error carrying git's exit
// code.
package git
