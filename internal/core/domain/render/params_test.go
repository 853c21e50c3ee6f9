package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cardforge/og-render/internal/core/domain/render"
)

func TestNewParamsRequiresTitle(t *testing.T) {
	_, err := render.NewParams("", "a", "w", "light")
	require.Error(t, err)

	_, err = render.NewParams("   ", "a", "w", "light")
	require.Error(t, err)
}

func TestNewParamsThemeDefaultsToLight(t *testing.T) {
	p, err := render.NewParams("t", "", "", "")
	require.NoError(t, err)
	require.Equal(t, render.ThemeLight, p.Theme)
}

func TestNewParamsRejectsUnknownTheme(t *testing.T) {
	_, err := render.NewParams("t", "", "", "sepia")
	require.Error(t, err)
}

func TestNewParamsRejectsOversizedValues(t *testing.T) {
	_, err := render.NewParams(strings.Repeat("x", 201), "", "", "dark")
	require.Error(t, err)
}

func TestParamsKeyIncludesEveryField(t *testing.T) {
	base, err := render.NewParams("t", "a", "w", "light")
	require.NoError(t, err)

	dark, err := render.NewParams("t", "a", "w", "dark")
	require.NoError(t, err)

	require.NotEqual(t, base.Key(), dark.Key())
}

func TestHTMLEscapesUntrustedInput(t *testing.T) {
	p, err := render.NewParams(`<script>alert("x")</script>`, "a & b", "w", "light")
	require.NoError(t, err)

	html, err := p.HTML()
	require.NoError(t, err)
	require.NotContains(t, html, "<script>alert")
	require.Contains(t, html, "&lt;script&gt;")
	require.Contains(t, html, "a &amp; b")
}

func TestHTMLThemeSwitchesColors(t *testing.T) {
	light, err := render.NewParams("t", "", "", "light")
	require.NoError(t, err)
	dark, err := render.NewParams("t", "", "", "dark")
	require.NoError(t, err)

	lightHTML, err := light.HTML()
	require.NoError(t, err)
	darkHTML, err := dark.HTML()
	require.NoError(t, err)

	require.NotEqual(t, lightHTML, darkHTML)
	require.Contains(t, darkHTML, "#1a1a1a")
}

func TestDefaultGeometry(t *testing.T) {
	g := render.DefaultGeometry()
	require.Equal(t, 1200, g.Width)
	require.Equal(t, 630, g.Height)
}
