// Package cpu binds pool workers to operating system threads and, where the
// platform allows it, to individual CPUs.
package cpu
