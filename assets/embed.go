package assets

import (
	_ "embed"
)

// ViewerTemplate is the html/template source of the standalone video
// viewer document. It must stay self-contained: inline style, one inline
// script and a single media reference.
//
//go:embed viewer.html.tmpl
var ViewerTemplate string
