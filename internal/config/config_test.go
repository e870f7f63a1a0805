//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/llehouerou/hisoka/internal/keymap"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/logs/hisoka.log",
			expected: filepath.Join(home, "logs", "hisoka.log"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/var/log/hisoka.log",
			expected: "/var/log/hisoka.log",
		},
		{
			name:     "relative path unchanged",
			input:    "logs/hisoka.log",
			expected: "logs/hisoka.log",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}
	if !strings.HasSuffix(paths[0], filepath.Join("hisoka", "config.toml")) {
		t.Errorf("first config path = %q, want the XDG config file", paths[0])
	}
	if paths[1] != "hisoka.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "hisoka.toml")
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}
	return path
}

func TestLoad_NoFiles(t *testing.T) {
	dir := t.TempDir()

	cfg, err := load([]string{filepath.Join(dir, "missing.toml")}, "")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if got := cfg.GetProtocol(); got != "auto" {
		t.Errorf("GetProtocol() = %q, want auto", got)
	}
	if got := cfg.GetLogConfig(); got.Level != "info" || got.File != "" {
		t.Errorf("GetLogConfig() = %+v, want info level and default file", got)
	}
	scan := cfg.GetScanConfig()
	if scan.Recursive || scan.IncludeAudio == nil || !*scan.IncludeAudio {
		t.Errorf("GetScanConfig() = %+v, want non-recursive with audio", scan)
	}
	if got := cfg.GetThemeConfig(); got.Message != "#ff5555" || got.Border != "" {
		t.Errorf("GetThemeConfig() = %+v", got)
	}
}

func TestLoad_BasicConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `
protocol = "Sixel"

[keys]
next = ["n", "l"]

[log]
level = "debug"
file = "~/hisoka-test.log"

[scan]
recursive = true
include_audio = false

[theme]
border = "#585858"
message = "#00ff00"
`)

	cfg, err := load([]string{path}, "")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.GetProtocol() != "sixel" {
		t.Errorf("GetProtocol() = %q, want sixel", cfg.GetProtocol())
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "hisoka-test.log"); cfg.GetLogConfig().File != want {
		t.Errorf("Log.File = %q, want %q", cfg.GetLogConfig().File, want)
	}
	if cfg.GetLogConfig().Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.GetLogConfig().Level)
	}

	scan := cfg.GetScanConfig()
	if !scan.Recursive || *scan.IncludeAudio {
		t.Errorf("GetScanConfig() = recursive %v audio %v", scan.Recursive, *scan.IncludeAudio)
	}

	theme := cfg.GetThemeConfig()
	if theme.Border != "#585858" || theme.Message != "#00ff00" || theme.Title != "" {
		t.Errorf("GetThemeConfig() = %+v", theme)
	}

	for _, b := range cfg.GetBindings() {
		switch b.Action {
		case keymap.ActionNext:
			if !slices.Equal(b.Keys, []string{"n", "l"}) {
				t.Errorf("next keys = %v", b.Keys)
			}
		case keymap.ActionQuit:
			if !slices.Equal(b.Keys, []string{"q"}) {
				t.Errorf("quit keys = %v, want default", b.Keys)
			}
		}
	}
}

func TestLoad_LaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	global := writeConfig(t, dir, "global.toml", `
protocol = "kitty"
[log]
level = "warn"
`)
	local := writeConfig(t, dir, "local.toml", `protocol = "none"`)
	explicit := writeConfig(t, dir, "explicit.toml", `
[log]
level = "trace"
`)

	cfg, err := load([]string{global, local}, explicit)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.GetProtocol() != "none" {
		t.Errorf("protocol = %q, want none from the local file", cfg.GetProtocol())
	}
	if cfg.GetLogConfig().Level != "trace" {
		t.Errorf("log level = %q, want trace from the explicit file", cfg.GetLogConfig().Level)
	}
}

func TestLoad_ExplicitMustExist(t *testing.T) {
	_, err := load(nil, filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("load() expected error for a missing explicit file")
	}
}

func TestLoad_DisabledLogFileKept(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `
[log]
file = "-"
`)

	cfg, err := load([]string{path}, "")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.GetLogConfig().File != LogDisabled {
		t.Errorf("Log.File = %q, want %q", cfg.GetLogConfig().File, LogDisabled)
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", "invalid = [[[")

	_, err := load([]string{path}, "")
	if err == nil {
		t.Error("load() expected error for invalid TOML, got nil")
	}
}

func TestLoad_InvalidProtocol(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `protocol = "vga"`)

	_, err := load([]string{path}, "")
	if err == nil || !strings.Contains(err.Error(), "protocol") {
		t.Errorf("load() error = %v, want protocol error", err)
	}
}

func TestLoad_LocalFileInWorkingDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	writeConfig(t, tmpDir, "hisoka.toml", `protocol = "iterm"`)

	cfg, err := load([]string{filepath.Join(tmpDir, "missing.toml"), "hisoka.toml"}, "")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.GetProtocol() != "iterm" {
		t.Errorf("protocol = %q, want iterm", cfg.GetProtocol())
	}
}
