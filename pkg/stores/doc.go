// Package stores persists the generation-run history in SQLite with
// WAL mode and embedded migrations. The history is an audit trail, not
// an input: generation never depends on it, and recording failures are
// reported but never fail a run.
package stores
