// Package web holds the embedded HTML views of the diary.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/isdelr/diary/internal/models"
)

//go:embed templates/*.html
var files embed.FS

const layout = "templates/layout.html"

// Page names accepted by Render.
const (
	PageLogin      = "login.html"
	PageRegister   = "register.html"
	PageCards      = "cards.html"
	PageCard       = "card.html"
	PageCreateCard = "create_card.html"
	PageActivity   = "activity.html"
)

// Form echoes submitted values back into a re-rendered form.
type Form struct {
	Email    string
	Title    string
	Subtitle string
	Text     string
}

// Page is the data passed to every view. Email is empty for anonymous clients.
type Page struct {
	Email  string
	Error  string
	Form   Form
	Cards  []models.Card
	Card   models.Card
	Events []models.Event
}

// Views renders pages wrapped in the shared layout.
type Views struct {
	pages map[string]*template.Template
}

// Load parses every page together with the layout.
func Load() (*Views, error) {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"date": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}

	v := &Views{pages: make(map[string]*template.Template)}
	for _, name := range names {
		if name == layout {
			continue
		}
		t, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(files, layout, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[path.Base(name)] = t
	}
	return v, nil
}

// Render executes page into w with the given status code. The page is
// rendered to a buffer first so a template error never leaves a half-written
// response.
func (v *Views) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
