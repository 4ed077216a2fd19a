package lib

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

//go:embed templates/index_weekly.html.tmpl
var templatesFS embed.FS

const defaultIndexTemplate = "templates/index_weekly.html.tmpl"

// IndexRenderer renders the weekly index page.
type IndexRenderer struct {
	tmpl *template.Template
}

// NewIndexRenderer loads the template at path, or the built-in one when path is empty.
func NewIndexRenderer(path string) (*IndexRenderer, error) {
	var tmpl *template.Template
	var err error
	if path == "" {
		tmpl, err = template.ParseFS(templatesFS, defaultIndexTemplate)
	} else {
		tmpl, err = template.ParseFiles(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load index template")
	}
	return &IndexRenderer{tmpl: tmpl}, nil
}

// Render executes the template with the given title.
func (r *IndexRenderer) Render(title string) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, struct{ Title string }{Title: title}); err != nil {
		return "", errors.Wrap(err, "failed to render index template")
	}
	return buf.String(), nil
}

// IndexResult describes what Generate did.
type IndexResult struct {
	Path    string
	Title   string
	Created bool
	// ExistingTitle is the <title> of the file found on disk when Created is false.
	ExistingTitle string
}

// IndexGenerator writes weekly index pages into a directory.
type IndexGenerator struct {
	renderer *IndexRenderer
	dir      string
}

// NewIndexGenerator creates an IndexGenerator writing into dir.
func NewIndexGenerator(renderer *IndexRenderer, dir string) *IndexGenerator {
	if dir == "" {
		dir = "."
	}
	return &IndexGenerator{renderer: renderer, dir: dir}
}

// Generate writes the index page for date unless a file with the same name already exists.
// An existing file is never modified.
func (g *IndexGenerator) Generate(date time.Time) (*IndexResult, error) {
	title, filename := IndexName(date)
	result := &IndexResult{Path: filepath.Join(g.dir, filename), Title: title}

	if _, err := os.Stat(result.Path); err == nil {
		result.ExistingTitle = readTitle(result.Path)
		return result, nil
	}

	html, err := g.renderer.Render(title)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(result.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			result.ExistingTitle = readTitle(result.Path)
			return result, nil
		}
		return nil, errors.Wrap(err, "failed to create index file")
	}
	defer f.Close()

	if _, err := f.WriteString(html); err != nil {
		return nil, errors.Wrap(err, "failed to write index file")
	}
	if err := f.Sync(); err != nil {
		return nil, errors.Wrap(err, "failed to write index file")
	}

	result.Created = true
	return result, nil
}

// readTitle returns the <title> of an HTML file, or "" when it cannot be read.
func readTitle(path string) string {
	f, err := os.Open(path)
	if err != nil {
		Log.WithError(err).Debug("cannot open existing index")
		return ""
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		Log.WithError(err).Debug("cannot parse existing index")
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
