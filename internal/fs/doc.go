// Package fs offloads filesystem operations to a dedicated asyncworker
// engine. Callers never touch the filesystem themselves: every operation is
// marshalled into a fixed-size Params block, executed by the Backend on the
// worker goroutine and its result read back by the caller's completion.
//
// Paths are limited to PathLength-1 bytes and are rejected before a job is
// queued. Reads and writes move at most IOBufferSize bytes per job; larger
// requests are split by the Service.
//
// File and directory handles are small integers owned by the Backend. They
// are only touched on the worker goroutine.
package fs
