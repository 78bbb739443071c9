package webassets

import "embed"

// Files contains the embedded admin console assets.
//
//go:embed *.html
var Files embed.FS
