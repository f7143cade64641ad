// Package poller implements the periodic market refresh.
//
// The poller:
//   - Fetches the market listing immediately on start, then every interval
//   - Bounds each fetch with its own timeout
//   - Hands complete snapshots to a SnapshotHandler (normally the asset registry)
//   - Reports failed fetches and waits for the next tick; it never retries early
//   - Discards a fetch that completes after Stop, so no snapshot lands late
package poller
