// Package market holds the asset registry: the latest market snapshot
// fetched from the provider, shared between the refresh poller and the
// view layer.
//
// The registry only ever holds one complete snapshot. Replace swaps it
// atomically and emits a Change describing what moved, so subscribers can
// push updates without diffing themselves.
package market
