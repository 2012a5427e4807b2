// Package telemetry provides structured logging for the brine CLI,
// wrapping zerolog with component loggers and context plumbing so every
// stage of a run logs under the same run ID.
package telemetry
