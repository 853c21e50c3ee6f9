package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// cardTemplate is the markup handed to the renderer. html/template escapes
// every substituted value, so untrusted query input cannot inject markup.
var cardTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  html, body { width: {{.Width}}px; height: {{.Height}}px; }
  body {
    display: flex;
    flex-direction: column;
    justify-content: center;
    padding: 80px;
    font-family: -apple-system, 'Segoe UI', Roboto, sans-serif;
    background: {{.Background}};
    color: {{.Foreground}};
  }
  .title {
    font-size: 72px;
    font-weight: 700;
    line-height: 1.15;
    overflow: hidden;
    display: -webkit-box;
    -webkit-line-clamp: 3;
    -webkit-box-orient: vertical;
  }
  .meta {
    margin-top: 48px;
    display: flex;
    justify-content: space-between;
    align-items: baseline;
    font-size: 32px;
    opacity: 0.8;
  }
</style>
</head>
<body>
  <div class="title">{{.Title}}</div>
  <div class="meta">
    <span>{{.Author}}</span>
    <span>{{.Website}}</span>
  </div>
</body>
</html>`))

type cardData struct {
	Title      string
	Author     string
	Website    string
	Width      int
	Height     int
	Background string
	Foreground string
}

// HTML renders the themed card markup for these parameters.
func (p *Params) HTML() (string, error) {
	g := p.Geometry()
	data := cardData{
		Title:      p.Title,
		Author:     p.Author,
		Website:    p.Website,
		Width:      g.Width,
		Height:     g.Height,
		Background: "#ffffff",
		Foreground: "#1a1a1a",
	}
	if p.Theme == ThemeDark {
		data.Background = "#1a1a1a"
		data.Foreground = "#f5f5f5"
	}

	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute card template: %w", err)
	}
	return buf.String(), nil
}
