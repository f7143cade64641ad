// Package server implements the HTTP view layer.
//
// It serves the derived market listing and watchlist commands as JSON, a
// rendered HTML page, and a websocket stream (/ws) that pushes snapshot,
// watchlist and refresh-error events to connected browsers.
//
// Every mutating request goes through the watchlist store; the server keeps
// no watchlist state of its own.
package server
