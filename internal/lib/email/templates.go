package email

import (
	"embed"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateMagicLink corresponds to templates/magic_link.html
	TemplateMagicLink Template = "magic_link"
)

//go:embed templates/*.html
var templateFS embed.FS
