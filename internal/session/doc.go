// Package session manages PTY-backed shell processes: spawning a shell
// inside a cross-platform pseudo-terminal, streaming its output to whatever
// client is currently attached, buffering that output in a bounded ring
// while no client is attached, and reaping sessions detached for too long.
//
// One Session wraps one child process. Manager owns the concurrent map of
// live sessions and the background reaper.
package session
