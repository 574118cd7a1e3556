package main

import "fmt"

// These variables are set via ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func versionString() string {
	s := Version
	if Commit != "" && Commit != "unknown" {
		s += fmt.Sprintf(" (commit %s)", Commit)
	}
	if BuildDate != "" && BuildDate != "unknown" {
		s += fmt.Sprintf(" built at %s", BuildDate)
	}
	return s
}
