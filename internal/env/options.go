// Package env holds the runtime configuration of the spyglass CLI.
package env

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const defaultArtifactsDir = "/tmp"

// Options are resolved once at startup and passed down explicitly.
type Options struct {
	// Enabled turns on writing the JSON report.
	Enabled bool

	// ArtifactsDir is where the report is written.
	ArtifactsDir string

	// RunID tags the report (e.g. a CI run id).
	RunID string

	// MetricsAddr is the listen address for /metrics in serve mode.
	MetricsAddr string

	Development bool
}

// Normalize applies defaults and returns a normalized copy.
func (o Options) Normalize() Options {
	out := o
	if strings.TrimSpace(out.ArtifactsDir) == "" {
		out.ArtifactsDir = defaultArtifactsDir
	}
	if strings.TrimSpace(out.RunID) == "" {
		out.RunID = time.Now().UTC().Format("20060102T150405Z")
	}
	if strings.TrimSpace(out.MetricsAddr) == "" {
		out.MetricsAddr = ":9464"
	}
	return out
}

// ReportPath returns the report file for this run.
func (o Options) ReportPath() string {
	v := o.Normalize()
	return filepath.Join(v.ArtifactsDir, fmt.Sprintf("spyglass-report.%s.json", SanitizeFilename(v.RunID)))
}

// SanitizeFilename maps s to a string safe to embed in a file name.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unnamed"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
