// Package pages embeds the portal's HTML templates and static assets.
package pages

import "embed"

// FS holds index.html, partials/*.html and static/**.
//
//go:embed *.html partials/*.html static
var FS embed.FS
