//go:build !linux && !darwin && !windows

package cpu

import "runtime"

// SetupWorkerAffinity only locks the goroutine to its OS thread on
// platforms without CPU pinning support.
func SetupWorkerAffinity(workerID int) (int, func(), error) {
	runtime.LockOSThread()
	return -1, runtime.UnlockOSThread, nil
}
