package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/controls/*.tpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// StylesheetName is the file name of the default stylesheet inside AssetsFS.
const StylesheetName = "formflow.css"

// TemplatesFS exposes the built-in template bundle so callers can copy it or
// override individual templates through WithTemplatesFS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the default stylesheet for serving over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
