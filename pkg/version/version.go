package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

const devVersion = "0.0.0-dev"

// Sobrescritos via -ldflags "-X .../pkg/version.Version=1.2.3" no build de release.
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(bi.Settings)
	}
}

// applyBuildInfo completa Version/Commit/BuildTime com as informações de VCS do binário.
// Uma versão definida por ldflags não é alterada.
func applyBuildInfo(settings []debug.BuildSetting) {
	if Version != "" && Version != devVersion {
		return
	}

	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if rev := vcs["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}
	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}
	if tag := strings.TrimPrefix(vcs["vcs.tag"], "v"); tag != "" {
		Version = tag
		if strings.EqualFold(vcs["vcs.modified"], "true") {
			Version += "-dirty"
		}
	}
}

// IsDevelopment reports whether v is an unreleased build.
func IsDevelopment(v string) bool {
	return v == "" || strings.HasSuffix(v, "-dev")
}

// FormatVersion retorna a versão com commit e horário do build, ex.:
// "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)".
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case BuildTime != "":
		commit := Commit
		if commit == "" {
			commit = "development"
		}
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, commit, BuildTime)
	default:
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	}
}
