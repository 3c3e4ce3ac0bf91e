package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var templateFiles embed.FS

// TemplatesFS exposes the embedded template bundle rooted at the templates
// directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
