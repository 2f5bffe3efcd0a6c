// Package version holds build information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// String describes the build in one line, e.g.
// "v0.3.0 (revision 1a2b3c4, go1.25.5 linux/amd64)".
func String() string {
	return fmt.Sprintf("%s (revision %s, %s %s/%s)", GetVersion(), Revision, GoVersion, GoOS, GoArch)
}

func getRevision() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return revisionOf(buildInfo.Settings)
}

func revisionOf(settings []debug.BuildSetting) string {
	rev := "unknown"
	modified := false

	for _, v := range settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value[:min(len(v.Value), 7)]

		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
