package views

import (
  "embed"
  "html/template"
)

//go:embed *.html
var files embed.FS

// Templates parses every view. Each template is named after its file, eg. "signin.html".
func Templates() (*template.Template, error) {
  return template.New("").ParseFS(files, "*.html")
}
