package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the short git SHA embedded at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	// Version is the semantic version or "dev".
	Version string
	// Commit is the source revision.
	Commit string
	// BuildTime is when the binary was built.
	BuildTime string
	// GoVersion is the toolchain that built the binary.
	GoVersion string
}

// Current returns the build metadata, filling gaps from the embedded build info.
func Current() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "dev" && build.Main.Version != "" && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}

	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "none" && len(setting.Value) >= 7 {
				info.Commit = setting.Value[:7]
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = setting.Value
			}
		}
	}

	return info
}

// Short returns only the semantic version string.
func Short() string {
	return Current().Version
}

// Full returns a human-readable version string.
func Full() string {
	info := Current()

	return fmt.Sprintf("version: %s, commit: %s, built at: %s, go: %s",
		info.Version, info.Commit, info.BuildTime, info.GoVersion)
}
