package engine

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"cobscan/internal/config"
)

// RegistryFile is the default filename for engine declarations.
const RegistryFile = "ENGINES.toml"

// Declaration describes one external parse engine bridge in ENGINES.toml.
type Declaration struct {
	// Name is a short identifier for the bridge
	Name string `toml:"name"`

	// Jar is the path to the bridge jar
	Jar string `toml:"jar"`

	// Main is the bridge main class
	Main string `toml:"main"`

	// Classpath is appended after the jar on the JVM classpath
	Classpath string `toml:"classpath,omitempty"`

	// JavaHome overrides the JVM used for this bridge
	JavaHome string `toml:"java_home,omitempty"`

	// TimeoutSec is the per-file parse timeout
	TimeoutSec int `toml:"timeout_sec,omitempty"`

	// Default marks the bridge used when none is selected explicitly
	Default bool `toml:"default,omitempty"`
}

// RegistryDoc is the root structure of ENGINES.toml.
type RegistryDoc struct {
	Engines []Declaration `toml:"engine"`
}

// Available reports whether the declared jar exists on disk.
func (d Declaration) Available() bool {
	if d.Jar == "" {
		return false
	}
	_, err := os.Stat(d.Jar)
	return err == nil
}

// EngineConfig converts a declaration into the runtime engine config,
// filling unset values from defaults.
func (d Declaration) EngineConfig() config.EngineConfig {
	cfg := config.EngineConfig{
		Jar:       d.Jar,
		Main:      d.Main,
		Classpath: d.Classpath,
		JavaHome:  d.JavaHome,
	}
	if cfg.Main == "" {
		cfg.Main = config.DefaultConfig().Engine.Main
	}
	cfg.TimeoutSec = d.TimeoutSec
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = config.DefaultConfig().Engine.TimeoutSec
	}
	return cfg
}

// LoadRegistry reads engine declarations from path. A missing file is
// not an error: it yields an empty registry.
func LoadRegistry(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var doc RegistryDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Engines, nil
}

// DefaultDeclaration picks the declaration to use when the config itself
// names no engine: an explicit default wins, otherwise the first
// available one.
func DefaultDeclaration(decls []Declaration) (Declaration, bool) {
	for _, d := range decls {
		if d.Default {
			return d, true
		}
	}
	for _, d := range decls {
		if d.Available() {
			return d, true
		}
	}
	return Declaration{}, false
}
