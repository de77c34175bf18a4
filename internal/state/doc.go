// Package state produces the platform snapshots pushed to dashboard
// clients: an in-memory stats accumulator, a sampler loop that publishes
// snapshots on a fixed cadence, and a threshold monitor that raises alerts.
package state
