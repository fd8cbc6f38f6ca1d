//go:build linux

package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// allowedCPUs lists the CPUs the calling thread may run on, in ascending
// order. Inside a cpuset cgroup these are not necessarily 0..n-1.
func allowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	return members(set), nil
}

func members(set unix.CPUSet) []int {
	cpus := make([]int, 0, set.Count())
	for i := 0; len(cpus) < set.Count(); i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus
}

// pinToCore restricts the current OS thread to a single CPU chosen from the
// allowed set by workerID. The caller must hold runtime.LockOSThread.
func pinToCore(workerID int, allowed unix.CPUSet) (int, error) {
	cpus := members(allowed)
	if len(cpus) == 0 {
		return -1, fmt.Errorf("no cpu available to the process")
	}

	core := cpus[abs(workerID)%len(cpus)]

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return -1, fmt.Errorf("set affinity to cpu %d: %w", core, err)
	}
	return core, nil
}

// SetupWorkerAffinity locks the calling goroutine to its OS thread and pins
// that thread to one CPU. It returns the CPU chosen and a release function
// that must run on the same goroutine; release restores the thread's
// previous affinity before unlocking it. On failure the thread is already
// unlocked.
func SetupWorkerAffinity(workerID int) (int, func(), error) {
	runtime.LockOSThread()

	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		runtime.UnlockOSThread()
		return -1, nil, fmt.Errorf("read affinity: %w", err)
	}

	core, err := pinToCore(workerID, prev)
	if err != nil {
		runtime.UnlockOSThread()
		return -1, nil, err
	}

	release := func() {
		// A thread whose mask cannot be restored stays locked and dies with
		// its goroutine instead of rejoining the scheduler pinned.
		if unix.SchedSetaffinity(0, &prev) == nil {
			runtime.UnlockOSThread()
		}
	}
	return core, release, nil
}
