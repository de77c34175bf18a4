// Package broadcast implements the real-time fan-out core of the platform
// dashboard: a connection registry, a snapshot-iterating dispatcher, and a
// periodic keep-alive loop.
//
// The Manager owns the set of live connections. Broadcasts iterate a
// point-in-time copy of the membership, so a client dropped mid-pass never
// corrupts delivery to the rest. One broken connection is logged, pruned,
// and forgotten; it never aborts a broadcast.
package broadcast
