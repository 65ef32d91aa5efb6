package main

// Default limits for CLI commands.
const (
	DefaultListLimit     = 30
	DefaultGenerateCount = 100
	ExportPageSize       = 200
)
