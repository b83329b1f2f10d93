// Package version holds build metadata. Release builds set the variables with
// -ldflags "-X github.com/Sumatoshi-tech/bstindex/pkg/version.Version=...".
package version

import (
	"fmt"
	"runtime/debug"
)

const unknown = "unknown"

// Build metadata.
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

const (
	settingRevision = "vcs.revision"
	settingTime     = "vcs.time"
	shortCommitLen  = 12
)

// InitBinaryVersion fills whatever -ldflags left unset from the module build
// info embedded by the Go toolchain.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case settingRevision:
			if Commit == unknown {
				Commit = setting.Value[:min(len(setting.Value), shortCommitLen)]
			}
		case settingTime:
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String formats the metadata for the version command.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
