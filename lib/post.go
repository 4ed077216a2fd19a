package lib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/k3a/html2text"
	"github.com/pkg/errors"
)

// Post is a normalized social-media post.
type Post struct {
	ID                string            `json:"id"`
	AuthorDisplayName string            `json:"author_display_name"`
	AuthorHandle      string            `json:"author_handle"`
	CreatedAt         time.Time         `json:"created_at"`
	BodyText          string            `json:"body_text"`
	URLs              map[string]string `json:"urls,omitempty"`
	QuotedPost        *Post             `json:"quoted_post,omitempty"`
}

// createdAtLayout renders timestamps as "2006-01-02 15:04:05+00:00".
const createdAtLayout = "2006-01-02 15:04:05-07:00"

// String renders the post for humans, quoted post included.
func (p *Post) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Post %s from %s (@%s) at %s:\n", p.ID, p.AuthorDisplayName, p.AuthorHandle, p.CreatedAt.Format(createdAtLayout))
	sb.WriteString(p.BodyText + "\n")

	if len(p.URLs) > 0 {
		sb.WriteString("\n---\nURLs:\n")
		for _, short := range p.sortedURLKeys() {
			fmt.Fprintf(&sb, "%s - %s\n", short, p.URLs[short])
		}
	}

	if p.QuotedPost != nil {
		fmt.Fprintf(&sb, "\n---\nQuoted %s\n", p.QuotedPost.String())
	}

	return sb.String()
}

func (p *Post) sortedURLKeys() []string {
	keys := make([]string, 0, len(p.URLs))
	for k := range p.URLs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var postTemplate = template.Must(template.New("post").Funcs(template.FuncMap{
	"paragraphs": func(s string) []string { return strings.Split(s, "\n") },
	"datetime":   func(t time.Time) string { return t.Format(time.RFC3339) },
	"display":    func(t time.Time) string { return t.Format(createdAtLayout) },
}).Parse(`<article class="post" id="post-{{.ID}}">
<header><strong>{{.AuthorDisplayName}}</strong> @{{.AuthorHandle}} <time datetime="{{datetime .CreatedAt}}">{{display .CreatedAt}}</time></header>
{{range paragraphs .BodyText}}<p>{{.}}</p>
{{end}}{{if .URLs}}<ul class="urls">
{{range $short, $target := .URLs}}<li><a href="{{$target}}">{{$short}}</a></li>
{{end}}</ul>
{{end}}{{if .QuotedPost}}<blockquote>
{{template "post" .QuotedPost}}
</blockquote>
{{end}}</article>`))

// ToHTML renders the post as an HTML fragment.
func (p *Post) ToHTML() (string, error) {
	var buf bytes.Buffer
	if err := postTemplate.Execute(&buf, p); err != nil {
		return "", errors.Wrap(err, "failed to render post")
	}
	return buf.String(), nil
}

// ToMD converts the HTML rendering of the post to Markdown format.
func (p *Post) ToMD() (string, error) {
	html, err := p.ToHTML()
	if err != nil {
		return "", err
	}
	converter := md.NewConverter("", true, nil)
	return converter.ConvertString(html)
}

// ToText converts the HTML rendering of the post to plain text format.
func (p *Post) ToText() (string, error) {
	html, err := p.ToHTML()
	if err != nil {
		return "", err
	}
	return html2text.HTML2Text(html), nil
}

// ToJSON converts the Post to a JSON string.
func (p *Post) ToJSON() (string, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteToFile writes the Post's content to a file in the specified format (html, md, txt or json).
func (p *Post) WriteToFile(path string, format string) error {
	var content string
	var err error
	switch format {
	case "html":
		content, err = p.ToHTML()
	case "md":
		content, err = p.ToMD()
	case "txt":
		content, err = p.ToText()
	case "json":
		content, err = p.ToJSON()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return err
	}
	return f.Sync()
}
