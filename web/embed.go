// Package web holds the browser client served by the API.
package web

import "embed"

//go:embed static
var Assets embed.FS
