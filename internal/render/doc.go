// Package render turns listings, watchlists and asset details into
// markdown, and markdown into terminal output (glamour) or HTML (goldmark).
//
// Markdown is the single intermediate form: the CLI and the web page show
// the same tables.
package render
