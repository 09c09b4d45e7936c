// Package web embeds the widget page served at /.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
