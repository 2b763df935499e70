// Package progress computes aggregated completion snapshots for workflow
// instances, e.g. to render a "3 of 7 questions answered" indicator without
// walking the instance graph in the caller.
package progress
