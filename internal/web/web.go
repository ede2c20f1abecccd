package web

import (
	"embed"
	"html/template"
	"net/url"
)

//go:embed templates
var assets embed.FS

var funcMap = template.FuncMap{
	"pathEscape": url.PathEscape,
}

// Templates parses every page template together with the shared layout
// partials.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(assets, "templates/*.html")
}
