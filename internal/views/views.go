// Package views renders the HTML pages from templates embedded in the binary.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"finance/internal/money"
)

//go:embed templates/*.html
var files embed.FS

var pageNames = []string{
	"apology", "buy", "cash", "history", "index",
	"login", "quote", "quoted", "register", "sell",
}

// Page is the data every template receives. Data holds the page specific
// values.
type Page struct {
	Title    string
	Flash    string
	LoggedIn bool
	Data     any
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"usd": money.FormatUSD,
		"abs": func(v int64) int64 {
			if v < 0 {
				return -v
			}
			return v
		},
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render executes into a buffer first so a template error never leaves a
// half written page behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
