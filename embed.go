package pubgen

import "embed"

// EmbeddedAssets contains static assets shipped with the generator:
// theme.js and style.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
