package web

import "embed"

// Static holds the gallery's html templates and assets
//
//go:embed embed
var Static embed.FS
