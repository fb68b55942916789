// Package version carries the binary's build metadata.
package version

import "runtime/debug"

// Build metadata, overridable at link time via -ldflags:
//
//	-X github.com/Sumatoshi-tech/bloomfang/pkg/version.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// InitBinaryVersion fills in missing build metadata from the embedded VCS
// build info when the binary was not linked with explicit ldflags values.
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
		case "vcs.revision":
			if Commit == "none" {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}
