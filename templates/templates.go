// Package templates хранит html-шаблоны страниц внутри бинаря, чтобы
// рендеринг не зависел от рабочего каталога процесса и тестов.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

func Load() *template.Template {
	return template.Must(template.ParseFS(files, "*.html"))
}
