package pubsite

import "embed"

// EmbeddedAssets contains the files every build ships unless the site
// provides its own: sw.js, register-sw.js and manifest.webmanifest.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
