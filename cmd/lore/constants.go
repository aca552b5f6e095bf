package main

import "time"

// Default limits for CLI commands.
const (
	DefaultListLimit   = 50
	DefaultExportLimit = 1000
	exportConcurrency  = 8
	flushTimeout       = 5 * time.Second
)

// Valid export formats.
var validFormats = []string{"json", "csv", "yaml"}
