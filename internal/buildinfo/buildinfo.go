// Package buildinfo exposes version details stamped at link time via
// -ldflags "-X github.com/staffdesk/staffdesk/internal/buildinfo.Version=...".
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Commit  = "N/A"
	Date    = "N/A"
)

// Print writes the build triple to w, one line per value.
func Print(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
	fmt.Fprintf(w, "Build date: %s\n", Date)
}
