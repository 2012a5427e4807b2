// Package manifest renders a validated Brinefile document into Salt
// state text (the init.sls body). Rendering is a pure function of the
// Document: blocks come out in a fixed order and repeated runs on the
// same Document produce byte-identical text. The generator assumes the
// Document already validated; any inconsistency it meets is an
// InternalConsistencyError, never skipped.
package manifest
