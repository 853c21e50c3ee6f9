package render

import (
	"fmt"
	"strings"
)

// Geometry is the pixel size the renderer is asked to produce.
type Geometry struct {
	Width  int
	Height int
}

// DefaultGeometry is the standard Open Graph preview size.
func DefaultGeometry() Geometry {
	return Geometry{Width: 1200, Height: 630}
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const maxParamLength = 200

// Params is the validated set of inputs for one preview image.
type Params struct {
	Title   string
	Author  string
	Website string
	Theme   Theme
}

// NewParams validates and defaults raw query values. Title is mandatory,
// theme defaults to light.
func NewParams(title, author, website, theme string) (*Params, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	th := Theme(strings.TrimSpace(theme))
	if th == "" {
		th = ThemeLight
	}
	if th != ThemeLight && th != ThemeDark {
		return nil, fmt.Errorf("theme must be %q or %q", ThemeLight, ThemeDark)
	}

	p := &Params{
		Title:   title,
		Author:  strings.TrimSpace(author),
		Website: strings.TrimSpace(website),
		Theme:   th,
	}
	for name, value := range p.Map() {
		if len(value) > maxParamLength {
			return nil, fmt.Errorf("%s exceeds %d characters", name, maxParamLength)
		}
	}
	return p, nil
}

// Map returns the full effective parameter set used for cache identity.
// Every field participates so that any change produces a new key.
func (p *Params) Map() map[string]string {
	return map[string]string{
		"title":   p.Title,
		"author":  p.Author,
		"website": p.Website,
		"theme":   string(p.Theme),
	}
}

// Key returns the cache identity for these parameters.
func (p *Params) Key() string {
	return DeriveKey(p.Map())
}

// Geometry returns the target raster size for these parameters.
func (p *Params) Geometry() Geometry {
	return DefaultGeometry()
}
