// Package version describes the running rnagen build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Release builds stamp these with -ldflags "-X".
var (
	Version   = "dev"
	Vcs       string
	Timestamp string
)

// GetUserAgent identifies the binary, e.g.
// rnagen/v0.3.0 (linux/amd64) 1a2b3c4/2026-05-01T10:00:00Z. Stamps left empty
// fall back to the VCS settings the go command embeds.
func GetUserAgent() string {
	vcs, ts := Vcs, Timestamp
	if vcs == "" || ts == "" {
		rev, at := buildStamp()
		if vcs == "" {
			vcs = rev
		}
		if ts == "" {
			ts = at
		}
	}
	return fmt.Sprintf("rnagen/%s (%s/%s) %s/%s", Version, runtime.GOOS, runtime.GOARCH, vcs, ts)
}

func buildStamp() (revision, at string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return revision, at
}
