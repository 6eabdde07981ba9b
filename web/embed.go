// Package web holds the embedded templates and static assets.
package web

import "embed"

// TemplateFS contains all HTML templates.
//
//go:embed templates
var TemplateFS embed.FS

// StaticFS contains the stylesheet and scripts.
//
//go:embed static
var StaticFS embed.FS
