package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/verbridge/internal/fix"
	"github.com/danmuck/verbridge/internal/testutil/testlog"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadSettingsMissingFile(t *testing.T) {
	testlog.Start(t)
	cfg, err := LoadSettings(filepath.Join(t.TempDir(), SettingsFile))
	if err != nil {
		t.Fatalf("missing settings: %v", err)
	}
	if cfg.DefaultTarget != "" || cfg.Fixes != nil {
		t.Fatalf("expected zero settings, got %+v", cfg)
	}
	if cfg.Toggles() != nil {
		t.Fatalf("expected nil toggles")
	}
}

func TestLoadSettingsToggles(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, t.TempDir(), SettingsFile, `default_target = " 1.8 "

[fixes]
Movement = false
world = true
`)
	cfg, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultTarget != "1.8" {
		t.Fatalf("default_target: %q", cfg.DefaultTarget)
	}
	if got := strings.Join(cfg.FixDomains(), ","); got != "movement,world" {
		t.Fatalf("domains: %s", got)
	}
	toggles := cfg.Toggles()
	if toggles.Enabled(fix.Movement) {
		t.Fatalf("movement should be off")
	}
	if !toggles.Enabled(fix.World) || !toggles.Enabled(fix.Item) {
		t.Fatalf("world and item should be on")
	}
}

func TestLoadSettingsRejectsUnknownKey(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, t.TempDir(), SettingsFile, "default_targt = \"1.8\"\n")
	if _, err := LoadSettings(path); err == nil || !strings.Contains(err.Error(), "default_targt") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadSettingsParseError(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, t.TempDir(), SettingsFile, "default_target = \n")
	if _, err := LoadSettings(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestServersRoundTrip(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	path := writeFile(t, dir, ServersFile, `[[server]]
address = "Play.Example.net:25565"
version = "1.7"
`)
	store, err := LoadServers(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, ok := store.Lookup("play.example.net:25565"); !ok || v != "1.7" {
		t.Fatalf("lookup: %q %v", v, ok)
	}
	if err := store.Set("other:1", "1.9"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := LoadServers(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	entries := reloaded.Entries()
	if len(entries) != 2 || entries[0].Address != "other:1" || entries[1].Version != "1.7" {
		t.Fatalf("entries: %+v", entries)
	}
}

func TestServersMissingFileIsEmpty(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "nested", ServersFile)
	store, err := LoadServers(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(store.Entries()) != 0 {
		t.Fatalf("expected empty store")
	}
	if err := store.Set("a:1", "1.8"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("save into missing dir: %v", err)
	}
}

func TestServersValidation(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	cases := map[string]string{
		"no_version.toml": "[[server]]\naddress = \"a:1\"\n",
		"no_address.toml": "[[server]]\nversion = \"1.8\"\n",
		"duplicate.toml":  "[[server]]\naddress = \"a:1\"\nversion = \"1.8\"\n[[server]]\naddress = \"A:1\"\nversion = \"1.7\"\n",
	}
	for name, body := range cases {
		path := writeFile(t, dir, name, body)
		if _, err := LoadServers(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	store, _ := LoadServers(filepath.Join(dir, "none.toml"))
	if err := store.Set(" ", "1.8"); err == nil {
		t.Fatalf("expected empty address rejection")
	}
}

func TestTemplatesParse(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, SettingsFile)
	if err := WriteTemplate(settingsPath, "settings", false); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	if err := WriteTemplate(settingsPath, "settings", false); err == nil {
		t.Fatalf("expected exists error without overwrite")
	}
	if _, err := LoadSettings(settingsPath); err != nil {
		t.Fatalf("settings template invalid: %v", err)
	}
	serversPath := filepath.Join(dir, ServersFile)
	if err := WriteTemplate(serversPath, "servers", true); err != nil {
		t.Fatalf("write servers: %v", err)
	}
	if _, err := LoadServers(serversPath); err != nil {
		t.Fatalf("servers template invalid: %v", err)
	}
	if _, err := Template("mirage"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestLoadDaemonDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)
	t.Setenv("VERBRIDGE_NATIVE", "1.9")
	t.Setenv("VERBRIDGE_CORS_ORIGINS", "http://a,http://b")
	cfg, err := LoadDaemon()
	if err != nil {
		t.Fatalf("load daemon: %v", err)
	}
	if cfg.Native != "1.9" || cfg.Listen != ":25566" || cfg.ConfigDir != "." {
		t.Fatalf("unexpected daemon config: %+v", cfg)
	}
	if len(cfg.CorsOrigins) != 2 {
		t.Fatalf("cors origins: %v", cfg.CorsOrigins)
	}
}
