// Package gitctx reads the unstaged state of a local git working tree.
//
// [Validate] confirms that a directory belongs to a usable working tree by
// running git status. [Collector.Unstaged] lists every file with unstaged
// modifications and retrieves the literal diff for each one, in the order git
// reports them. Files whose diff cannot be retrieved, or whose diff is empty,
// are skipped; failing to obtain the listing itself is fatal.
//
// Every git invocation goes through a [Runner], so tests can substitute a fake
// for the real binary. Only read-only git commands are issued.
package gitctx
