// Package artifacts derives the supporting outputs of a Brinefile run
// from the same document model the manifest generator consumes: the
// README body and the pinned-version map. The version map is the one
// artifact merged with prior on-disk state instead of overwritten, so
// incremental re-runs keep entries from other documents intact.
package artifacts
