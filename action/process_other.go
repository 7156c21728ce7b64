//go:build !unix

package action

// Without signal 0 liveness is unknown, so a lock is never taken over.
func processAlive(int) bool { return true }
