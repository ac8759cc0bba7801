// Package page renders the welcome page.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/mtlprog/welcome/internal/assets"
	"github.com/mtlprog/welcome/internal/config"
	"github.com/mtlprog/welcome/internal/domain"
	"github.com/mtlprog/welcome/internal/static"
)

// Renderer executes the welcome template. It is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	assets template.HTML
	now    func() time.Time
}

type options struct {
	now      func() time.Time
	manifest *assets.Manifest
	base     string
	entries  []string
	source   string
}

// Option configures a Renderer.
type Option func(*options)

// WithClock sets the time source used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithManifest replaces the embedded build manifest.
func WithManifest(m *assets.Manifest) Option {
	return func(o *options) { o.manifest = m }
}

// WithEntries sets the manifest entries linked from the page head.
func WithEntries(entries ...string) Option {
	return func(o *options) { o.entries = entries }
}

// WithAssetsBase sets the URL prefix for built asset files.
func WithAssetsBase(base string) Option {
	return func(o *options) { o.base = base }
}

// WithTemplate replaces the embedded template source.
func WithTemplate(source string) Option {
	return func(o *options) { o.source = source }
}

// NewRenderer parses the template and resolves asset tags once.
func NewRenderer(opts ...Option) (*Renderer, error) {
	o := options{
		now:     time.Now,
		base:    config.AssetsBaseURL,
		entries: config.DefaultAssetEntries,
		source:  static.WelcomeHTML,
	}
	for _, opt := range opts {
		opt(&o)
	}

	tmpl, err := template.New("welcome").Parse(o.source)
	if err != nil {
		return nil, fmt.Errorf("parse welcome template: %w", err)
	}

	if o.manifest == nil {
		o.manifest, err = assets.LoadManifest(static.Build(), static.ManifestPath)
		if err != nil {
			return nil, fmt.Errorf("load build manifest: %w", err)
		}
	}

	tags, err := o.manifest.Tags(o.base, o.entries...)
	if err != nil {
		return nil, fmt.Errorf("resolve asset tags: %w", err)
	}

	return &Renderer{
		tmpl:   tmpl,
		assets: tags,
		now:    o.now,
	}, nil
}

// Render writes the page for s at the renderer's current time.
func (r *Renderer) Render(w io.Writer, s domain.Settings) error {
	return r.RenderAt(w, s, r.now())
}

// RenderAt writes the page for s as of now.
// Nothing is written to w if template execution fails.
func (r *Renderer) RenderAt(w io.Writer, s domain.Settings, now time.Time) error {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, NewView(s, now, r.assets)); err != nil {
		return fmt.Errorf("execute welcome template: %w", err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}
