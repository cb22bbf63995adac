// Package buildinfo exposes values injected at link time.
//
// Example:
//
//	go build -ldflags "-X github.com/merrycards/merry/internal/buildinfo.Version=1.2.0 \
//	  -X github.com/merrycards/merry/internal/buildinfo.DefaultBaseURL=https://api.merry.cards"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version   = "N/A"
	BuildDate = "N/A"
	Commit    = "N/A"

	// DefaultBaseURL is the API endpoint compiled into the binary. Runtime
	// configuration may override it.
	DefaultBaseURL = "http://127.0.0.1:8000"
)

// PrintBuildData writes version, date, commit and the baked-in API endpoint to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
	fmt.Fprintf(w, "API endpoint: %s\n", DefaultBaseURL)
}
