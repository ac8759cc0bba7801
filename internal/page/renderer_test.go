package page_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/welcome/internal/assets"
	"github.com/mtlprog/welcome/internal/domain"
	"github.com/mtlprog/welcome/internal/page"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newRenderer(t *testing.T, opts ...page.Option) *page.Renderer {
	t.Helper()
	opts = append([]page.Option{page.WithClock(func() time.Time { return fixedNow })}, opts...)
	r, err := page.NewRenderer(opts...)
	require.NoError(t, err)
	return r
}

func render(t *testing.T, r *page.Renderer, s domain.Settings) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, s))
	return buf.String()
}

func TestRender_NameInTitleHeadingFooter(t *testing.T) {
	r := newRenderer(t)

	for _, name := range []string{"Acme", "My Shop", "Bücherei", "x"} {
		out := render(t, r, domain.Settings{AppName: name, Locale: "en"})

		assert.Contains(t, out, "<title>"+name+"</title>")
		assert.Contains(t, out, "Welcome to "+name+"</h1>")
		assert.Contains(t, out, "&copy; 2026 "+name+". All rights reserved.")
	}
}

func TestRender_DefaultName(t *testing.T) {
	r := newRenderer(t)

	for _, name := range []string{"", "   "} {
		out := render(t, r, domain.Settings{AppName: name, Locale: "en"})

		assert.Contains(t, out, "<title>Laravel</title>")
		assert.Contains(t, out, "Welcome to Laravel</h1>")
	}
}

func TestRender_LangAttribute(t *testing.T) {
	r := newRenderer(t)

	tests := map[string]string{
		"en":         `<html lang="en">`,
		"en_US":      `<html lang="en-US">`,
		"zh_Hant_TW": `<html lang="zh-Hant-TW">`,
		"":           `<html lang="">`,
	}
	for locale, want := range tests {
		out := render(t, r, domain.Settings{AppName: "Acme", Locale: locale})
		assert.Contains(t, out, want, "locale %q", locale)
	}
}

func TestRender_FooterYear(t *testing.T) {
	for _, year := range []int{2026, 1999, 987} {
		now := time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
		r := newRenderer(t, page.WithClock(func() time.Time { return now }))

		out := render(t, r, domain.Settings{AppName: "Acme"})

		want := now.Format("2006")
		assert.Len(t, want, 4)
		assert.Contains(t, out, "&copy; "+want+" Acme.")
	}
}

func TestRender_StaticParagraph(t *testing.T) {
	out := render(t, newRenderer(t), domain.Settings{AppName: "Acme"})

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<p>Your application is now up and running!</p>")
	assert.Contains(t, out, `href="https://fonts.bunny.net/css?family=figtree:400,500,600&display=swap"`)
}

func TestRender_EmbeddedAssetTags(t *testing.T) {
	out := render(t, newRenderer(t), domain.Settings{AppName: "Acme"})

	assert.Contains(t, out, `<link rel="stylesheet" href="/build/assets/app-4ed993c7.css" />`)
	assert.Contains(t, out, `<script type="module" src="/build/assets/app-d4bc9a1e.js"></script>`)
}

func TestRender_Idempotent(t *testing.T) {
	r := newRenderer(t)
	s := domain.Settings{AppName: "Acme", Locale: "en_GB"}

	first := render(t, r, s)
	second := render(t, r, s)
	assert.Equal(t, first, second)

	var buf bytes.Buffer
	require.NoError(t, r.RenderAt(&buf, s, fixedNow))
	assert.Equal(t, first, buf.String())
}

func TestRender_EscapesName(t *testing.T) {
	out := render(t, newRenderer(t), domain.Settings{AppName: `<script>alert("x")</script>`, Locale: `en" onload="x`})

	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, `lang="en" onload`)
}

func TestRender_Concurrent(t *testing.T) {
	r := newRenderer(t)
	want := render(t, r, domain.Settings{AppName: "Acme"})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			if assert.NoError(t, r.Render(&buf, domain.Settings{AppName: "Acme"})) {
				assert.Equal(t, want, buf.String())
			}
		}()
	}
	wg.Wait()
}

func TestNewRenderer_Errors(t *testing.T) {
	_, err := page.NewRenderer(page.WithTemplate("{{ .Broken"))
	assert.ErrorContains(t, err, "parse welcome template")

	_, err = page.NewRenderer(page.WithEntries("resources/js/missing.js"))
	assert.ErrorIs(t, err, assets.ErrEntryNotFound)
}

func TestNewRenderer_CustomManifest(t *testing.T) {
	m, err := assets.ParseManifest(strings.NewReader(`{"src/main.ts": {"file": "main-abc.js", "isEntry": true}}`))
	require.NoError(t, err)

	r := newRenderer(t,
		page.WithManifest(m),
		page.WithEntries("src/main.ts"),
		page.WithAssetsBase("/static"),
	)

	out := render(t, r, domain.Settings{AppName: "Acme"})
	assert.Contains(t, out, `<script type="module" src="/static/main-abc.js"></script>`)
}

func TestRender_ExecuteErrorWritesNothing(t *testing.T) {
	r := newRenderer(t, page.WithTemplate("{{ .Missing }}"))

	var buf bytes.Buffer
	err := r.Render(&buf, domain.Settings{})
	assert.ErrorContains(t, err, "execute welcome template")
	assert.Zero(t, buf.Len())
}

func TestNewView(t *testing.T) {
	v := page.NewView(domain.Settings{AppName: "Acme", Locale: "pt_BR"}, fixedNow, "")

	assert.Equal(t, page.View{Lang: "pt-BR", Title: "Acme", AppName: "Acme", Year: "2026"}, v)
}
