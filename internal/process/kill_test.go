package process

// Notes:
// - Real kill behavior is covered by the browser integration tests; here we
//   only check that bogus PIDs are ignored without panicking.

import "testing"

func TestKillProcessGroup_IgnoresInvalidPID(t *testing.T) {
	t.Parallel()

	// Zero and negative PIDs would target the caller's own group or an
	// arbitrary process; they must be no-ops.
	for _, pid := range []int{0, -1, 999999999} {
		KillProcessGroup(pid)
	}
}
