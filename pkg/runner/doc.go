// Package runner fans package inspections out over a worker pool and
// partitions the outcomes into a Report.
//
// Every identifier read from the manifest gets exactly one worker and
// produces exactly one Outcome. Worker failures, including panics, become
// Outcome data; Run only returns an error when the manifest cannot be read.
package runner
