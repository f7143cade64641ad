package version

import (
	"runtime/debug"
	"testing"
)

func setBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	old := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = old })
}

func setVars(t *testing.T, v, c, b string) {
	t.Helper()
	oldV, oldC, oldB := Version, Commit, BuildTime
	Version, Commit, BuildTime = v, c, b
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })
}

func TestString(t *testing.T) {
	tests := []struct {
		name      string
		vars      [3]string
		buildInfo *debug.BuildInfo
		want      string
		wantUA    string
	}{
		{
			name:   "ldflags",
			vars:   [3]string{"1.2.3", "abc1234", "2024-03-01T12:00:00Z"},
			want:   "1.2.3 (abc1234) built 2024-03-01T12:00:00Z",
			wantUA: "coinwatch/1.2.3",
		},
		{
			name: "ldflags win over build info",
			vars: [3]string{"1.2.3", "abc1234", "2024-03-01T12:00:00Z"},
			buildInfo: &debug.BuildInfo{
				Main:     debug.Module{Version: "v0.9.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffffff"}},
			},
			want:   "1.2.3 (abc1234) built 2024-03-01T12:00:00Z",
			wantUA: "coinwatch/1.2.3",
		},
		{
			name: "go install",
			vars: [3]string{"dev", "unknown", "unknown"},
			buildInfo: &debug.BuildInfo{
				Main: debug.Module{Version: "v0.4.1"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
				},
			},
			want:   "v0.4.1 (0123456) built 2025-01-02T03:04:05Z",
			wantUA: "coinwatch/v0.4.1",
		},
		{
			name:      "devel build",
			vars:      [3]string{"dev", "unknown", "unknown"},
			buildInfo: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want:      "dev (unknown) built unknown",
			wantUA:    "coinwatch/dev",
		},
		{
			name:   "no build info",
			vars:   [3]string{"dev", "unknown", "unknown"},
			want:   "dev (unknown) built unknown",
			wantUA: "coinwatch/dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVars(t, tt.vars[0], tt.vars[1], tt.vars[2])
			setBuildInfo(t, tt.buildInfo)

			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := UserAgent(); got != tt.wantUA {
				t.Errorf("UserAgent() = %q, want %q", got, tt.wantUA)
			}
		})
	}
}
