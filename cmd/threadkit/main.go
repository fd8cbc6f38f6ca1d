// Command threadkit drives the thread pool with small verifiable workloads
// and prints a report of what happened.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
