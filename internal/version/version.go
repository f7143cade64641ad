// Package version provides build-time version information.
//
// Release builds set the variables via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/coinwatch/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/coinwatch/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/coinwatch/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/coinwatch
//
// Binaries from `go install` carry no ldflags; for those the module
// version and VCS stamp recorded by the toolchain are used instead.
package version

import "runtime/debug"

// Build-time variables (set via ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the resolved version of the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
}

// Get resolves the version, preferring ldflags over embedded build info.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "unknown" && s.Value != "":
			info.Commit = s.Value[:min(len(s.Value), 7)]
		case s.Key == "vcs.time" && info.BuildTime == "unknown" && s.Value != "":
			info.BuildTime = s.Value
		}
	}
	return info
}

// String returns a formatted version string.
func String() string {
	info := Get()
	return info.Version + " (" + info.Commit + ") built " + info.BuildTime
}

// UserAgent identifies coinwatch to the market-data provider.
func UserAgent() string {
	return "coinwatch/" + Get().Version
}
