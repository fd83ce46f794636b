package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistry_MissingFile(t *testing.T) {
	decls, err := LoadRegistry(filepath.Join(t.TempDir(), RegistryFile))
	if err != nil {
		t.Fatalf("LoadRegistry() error: %v", err)
	}
	if len(decls) != 0 {
		t.Errorf("missing registry should yield no declarations, got %d", len(decls))
	}
}

func TestLoadRegistry_ParsesDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RegistryFile)
	content := `
[[engine]]
name = "proleap-json"
jar = "/opt/proleap/bridge.jar"
main = "com.astra.proleap.JsonCli"
default = true

[[engine]]
name = "renova"
jar = "/opt/renova/cli.jar"
main = "com.renova.proleap.CLI"
timeout_sec = 120
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	decls, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry() error: %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("got %d declarations, want 2", len(decls))
	}
	if decls[0].Name != "proleap-json" || !decls[0].Default {
		t.Errorf("first declaration = %+v, want proleap-json default", decls[0])
	}
	if decls[1].TimeoutSec != 120 {
		t.Errorf("second declaration timeout = %d, want 120", decls[1].TimeoutSec)
	}
}

func TestDefaultDeclaration(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "bridge.jar")
	if err := os.WriteFile(existing, []byte("jar"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("explicit default wins", func(t *testing.T) {
		decls := []Declaration{
			{Name: "a", Jar: existing},
			{Name: "b", Jar: "/nonexistent.jar", Default: true},
		}
		got, ok := DefaultDeclaration(decls)
		if !ok || got.Name != "b" {
			t.Errorf("DefaultDeclaration = %+v, %v; want b", got, ok)
		}
	})

	t.Run("first available otherwise", func(t *testing.T) {
		decls := []Declaration{
			{Name: "a", Jar: "/nonexistent.jar"},
			{Name: "b", Jar: existing},
		}
		got, ok := DefaultDeclaration(decls)
		if !ok || got.Name != "b" {
			t.Errorf("DefaultDeclaration = %+v, %v; want b", got, ok)
		}
	})

	t.Run("none usable", func(t *testing.T) {
		if _, ok := DefaultDeclaration(nil); ok {
			t.Error("empty registry should yield no default")
		}
	})
}

func TestEngineConfig_Defaults(t *testing.T) {
	d := Declaration{Name: "x", Jar: "/opt/x.jar"}
	cfg := d.EngineConfig()
	if cfg.Main != "com.astra.proleap.JsonCli" {
		t.Errorf("Main = %q, want JsonCli default", cfg.Main)
	}
	if cfg.TimeoutSec != 60 {
		t.Errorf("TimeoutSec = %d, want 60", cfg.TimeoutSec)
	}
}

func TestProleapID(t *testing.T) {
	tests := []struct {
		main string
		want string
	}{
		{"com.astra.proleap.JsonCli", "JsonCli"},
		{"com.renova.proleap.CLI", "RenovaCLI"},
		{"com.example.Other", "com.example.Other"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		p := &Proleap{}
		p.cfg.Main = tt.main
		if got := p.ID(); got != tt.want {
			t.Errorf("ID() with main %q = %q, want %q", tt.main, got, tt.want)
		}
	}
}

func TestLastJSONLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean object", `{"status":"ok"}`, `{"status":"ok"}`},
		{"stray banner", "WARNING: something\n{\"status\":\"ok\"}", `{"status":"ok"}`},
		// A blob that already starts { and ends } is returned whole,
		// even across lines; the per-line scan only engages when stray
		// text surrounds the output.
		{"whole blob returned as is", "{\"a\":1}\n{\"b\":2}", "{\"a\":1}\n{\"b\":2}"},
		{"last line wins amid noise", "banner\n{\"a\":1}\n{\"b\":2}\ndone", `{"b":2}`},
		{"no json", "log line only", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastJSONLine(tt.in); got != tt.want {
				t.Errorf("lastJSONLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddHints(t *testing.T) {
	if got := addHints("syntax error near EXEC DLI"); got == "syntax error near EXEC DLI" {
		t.Error("EXEC DLI errors should carry a hint")
	}
	if got := addHints("plain error"); got != "plain error" {
		t.Errorf("plain errors should pass through, got %q", got)
	}
}
