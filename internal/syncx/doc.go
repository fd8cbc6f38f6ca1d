// Package syncx holds the deadline-aware synchronization primitives shared by
// the blocking queue and the future: an absolute Deadline, a Mutex whose
// acquisition can time out, and a Cond whose waits can time out.
//
// The standard library's sync.Mutex and sync.Cond cannot bound how long a
// caller blocks. Every blocking operation in this module converts its
// relative timeout to a Deadline once, at entry, and hands the same Deadline
// to the lock and to every subsequent wait.
package syncx
