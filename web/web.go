// Package web holds the embedded browser shell served alongside the JSON API.
package web

import "embed"

//go:embed index.html static
var FS embed.FS
