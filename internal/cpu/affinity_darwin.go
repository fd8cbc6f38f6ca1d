//go:build darwin

package cpu

import "runtime"

// SetupWorkerAffinity locks the goroutine to an OS thread. macOS offers no
// way to pin a thread to a CPU, so the reported CPU is always -1.
func SetupWorkerAffinity(workerID int) (int, func(), error) {
	runtime.LockOSThread()
	return -1, runtime.UnlockOSThread, nil
}
