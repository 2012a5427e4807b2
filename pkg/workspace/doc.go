// Package workspace is the file-system collaborator the core hands its
// artifacts to. It resolves output names relative to one working
// directory, creates the skeleton directories, and writes every file
// atomically (temp file + rename) so an interrupted run never leaves a
// half-written artifact behind. The version map is the only output
// merged with prior state; the read-merge-write happens here. The merge
// itself is not crash-safe across the read/write gap — a concurrent
// writer could be lost — but runs are single-process by contract.
package workspace
