package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Terminal renders markdown for a terminal. Style is a glamour standard
// style name ("dark", "light", "notty", ...); empty picks one from the
// environment.
func Terminal(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithEnvironmentConfig())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// markdown converts GFM tables. Raw HTML in the input is not emitted.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Linkify),
)

// HTML converts markdown to an HTML fragment.
func HTML(md string) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Page wraps markdown in a complete HTML document.
func Page(title, md string) ([]byte, error) {
	body, err := HTML(md)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, pageHead, html.EscapeString(title))
	buf.Write(body)
	buf.WriteString(pageTail)
	return buf.Bytes(), nil
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 72rem; padding: 0 1rem; }
table { border-collapse: collapse; width: 100%%; }
th, td { padding: .35rem .6rem; border-bottom: 1px solid #ddd; }
td:nth-child(8) { font-family: monospace; }
</style>
</head>
<body>
`

const pageTail = `<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (m) => { const ev = JSON.parse(m.data); if (ev.type !== "error") location.reload(); };
</script>
</body>
</html>
`
