package view

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Render writes page as a complete HTML document.
func Render(w io.Writer, page Page) error {
	return pageTemplate.ExecuteTemplate(w, "index.html", page)
}
