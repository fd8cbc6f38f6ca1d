//go:build windows

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// pinToCore restricts the current OS thread to CPU workerID modulo the CPU
// count. The caller must hold runtime.LockOSThread.
func pinToCore(workerID int) (int, error) {
	core := abs(workerID) % min(runtime.NumCPU(), 64)

	prev, _, err := setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), uintptr(1)<<core)
	if prev == 0 {
		return -1, fmt.Errorf("set affinity to cpu %d: %w", core, err)
	}
	return core, nil
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to one CPU. See the linux variant for the contract.
func SetupWorkerAffinity(workerID int) (int, func(), error) {
	runtime.LockOSThread()

	core, err := pinToCore(workerID)
	if err != nil {
		runtime.UnlockOSThread()
		return -1, nil, err
	}
	return core, runtime.UnlockOSThread, nil
}
