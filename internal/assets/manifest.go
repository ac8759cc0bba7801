// Package assets resolves front-end entry points to the hashed files listed
// in a Vite build manifest and renders the matching <link> and <script> tags.
package assets

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/goccy/go-json"
)

// ErrEntryNotFound is returned when an entry point is missing from the manifest.
var ErrEntryNotFound = errors.New("entry not found in manifest")

// Chunk is a single manifest record.
type Chunk struct {
	File    string   `json:"file"`
	Name    string   `json:"name,omitempty"`
	Src     string   `json:"src,omitempty"`
	IsEntry bool     `json:"isEntry,omitempty"`
	CSS     []string `json:"css,omitempty"`
	Imports []string `json:"imports,omitempty"`
}

// Manifest maps source paths to build output chunks.
type Manifest struct {
	chunks map[string]Chunk
}

// ParseManifest decodes a manifest.json document.
func ParseManifest(r io.Reader) (*Manifest, error) {
	chunks := make(map[string]Chunk)
	if err := json.NewDecoder(r).Decode(&chunks); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	for key, chunk := range chunks {
		if chunk.File == "" {
			return nil, fmt.Errorf("manifest entry %q has no file", key)
		}
	}

	return &Manifest{chunks: chunks}, nil
}

// LoadManifest reads and decodes the manifest at name inside fsys.
func LoadManifest(fsys fs.FS, name string) (*Manifest, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	return ParseManifest(f)
}

// Chunk returns the manifest record for an entry.
func (m *Manifest) Chunk(entry string) (Chunk, bool) {
	chunk, ok := m.chunks[entry]
	return chunk, ok
}

// Tags renders the head tags for entries: all preload links first, then
// stylesheets, then module scripts. Imported chunks are followed so their
// files are preloaded and their stylesheets linked. Each file is emitted
// once even if several entries share it.
func (m *Manifest) Tags(base string, entries ...string) (template.HTML, error) {
	t := tagSet{base: base, seen: make(map[string]bool)}
	visited := make(map[string]bool)

	for _, entry := range entries {
		chunk, ok := m.chunks[entry]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrEntryNotFound, entry)
		}

		if err := m.addImports(&t, chunk, visited); err != nil {
			return "", fmt.Errorf("entry %s: %w", entry, err)
		}

		if path.Ext(chunk.File) == ".css" {
			t.stylesheet(chunk.File)
		} else {
			t.script(chunk.File)
		}
		for _, css := range chunk.CSS {
			t.stylesheet(css)
		}
	}

	return t.html(), nil
}

// addImports walks chunk's static imports depth-first.
func (m *Manifest) addImports(t *tagSet, chunk Chunk, visited map[string]bool) error {
	for _, key := range chunk.Imports {
		if visited[key] {
			continue
		}
		visited[key] = true

		imported, ok := m.chunks[key]
		if !ok {
			return fmt.Errorf("%w: import %s", ErrEntryNotFound, key)
		}

		if err := m.addImports(t, imported, visited); err != nil {
			return err
		}

		t.preload(imported.File)
		for _, css := range imported.CSS {
			t.stylesheet(css)
		}
	}
	return nil
}

type tagSet struct {
	base        string
	seen        map[string]bool
	preloads    []string
	stylesheets []string
	scripts     []string
}

func (t *tagSet) href(file string) string {
	return template.HTMLEscapeString(joinURL(t.base, file))
}

func (t *tagSet) once(kind, file string) bool {
	key := kind + ":" + file
	if t.seen[key] {
		return false
	}
	t.seen[key] = true
	return true
}

func (t *tagSet) preload(file string) {
	if !t.once("preload", file) {
		return
	}
	if path.Ext(file) == ".css" {
		t.preloads = append(t.preloads, fmt.Sprintf(`<link rel="preload" as="style" href="%s" />`, t.href(file)))
		return
	}
	t.preloads = append(t.preloads, fmt.Sprintf(`<link rel="modulepreload" href="%s" />`, t.href(file)))
}

func (t *tagSet) stylesheet(file string) {
	t.preload(file)
	if t.once("stylesheet", file) {
		t.stylesheets = append(t.stylesheets, fmt.Sprintf(`<link rel="stylesheet" href="%s" />`, t.href(file)))
	}
}

func (t *tagSet) script(file string) {
	t.preload(file)
	if t.once("script", file) {
		t.scripts = append(t.scripts, fmt.Sprintf(`<script type="module" src="%s"></script>`, t.href(file)))
	}
}

func (t *tagSet) html() template.HTML {
	lines := make([]string, 0, len(t.preloads)+len(t.stylesheets)+len(t.scripts))
	lines = append(lines, t.preloads...)
	lines = append(lines, t.stylesheets...)
	lines = append(lines, t.scripts...)
	return template.HTML(strings.Join(lines, "\n"))
}

func joinURL(base, file string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(file, "/")
}
