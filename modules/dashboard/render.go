package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"adgenius-server/modules/adgen"
	"adgenius-server/modules/common/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pages rendered inside base.html
var pages = []string{"dashboard", "generate", "projects", "brandkit", "billing"}

// Flash - one-time notification shown above the page content
type Flash struct {
	Type    string // "success", "error"
	Message string
}

// PageData - everything a page template can read
type PageData struct {
	Title   string
	State   adgen.Snapshot
	Cost    int
	Flashes []Flash
	Data    map[string]any
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	templates map[string]*template.Template
}

var funcMap = template.FuncMap{
	"activeClass": func(current adgen.Tab, target string) string {
		if string(current) == target {
			return "nav-active"
		}
		return "nav-link"
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"sizeDisplay":     model.SizeDisplay,
	"platformDisplay": model.PlatformDisplay,
	"sizes":           func() []model.AdSize { return model.Sizes },
	"platforms":       func() []model.Platform { return model.Platforms },
	"upper":           strings.ToUpper,
	// downloadable reports whether the image is served from state rather
	// than a remote URL.
	"downloadable": func(url string) bool {
		return strings.HasPrefix(url, "data:")
	},
	// dataURL lets generated data-URI images through html/template.
	"dataURL": func(url string) template.URL {
		if strings.HasPrefix(url, "data:image/") || strings.HasPrefix(url, "https://") {
			return template.URL(url)
		}
		return ""
	},
}

// NewRenderer parses every page with the base layout and the card partial.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(
			templatesFS,
			"templates/base.html",
			"templates/card.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}

	return r, nil
}

// Page renders a full page with the given status.
func (rn *Renderer) Page(w http.ResponseWriter, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Printf("❌ [Dashboard] Failed to render %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
