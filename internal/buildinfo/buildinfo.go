// Package buildinfo exposes version information stamped at link time.
//
// The variables are meant to be set via -ldflags:
//
//	go build -ldflags "-X github.com/dkarlovs/habitsync/internal/buildinfo.buildVersion=v1.0.0 \
//	  -X 'github.com/dkarlovs/habitsync/internal/buildinfo.buildDate=$(date -u +%Y-%m-%d)' \
//	  -X github.com/dkarlovs/habitsync/internal/buildinfo.buildCommit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// PrintBuildData writes the stamped build metadata to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
