// Package testutil provides fixture loading shared by analyzer tests.
package testutil

import (
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

// Scenario is one end-to-end analyzer fixture: a source text plus the
// facts the analyzer must recover from it.
type Scenario struct {
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
	Source string `yaml:"source"`
	Expect Expect `yaml:"expect"`
}

// Expect holds the expected extraction results for a scenario.
type Expect struct {
	ProgramID  string            `yaml:"programId"`
	Paragraphs []ExpectParagraph `yaml:"paragraphs"`
	Copybooks  []string          `yaml:"copybooks"`
}

// ExpectParagraph is the expected fact bundle for one paragraph.
type ExpectParagraph struct {
	Name     string       `yaml:"name"`
	Performs []string     `yaml:"performs"`
	Calls    []ExpectCall `yaml:"calls"`
	IoOps    []ExpectIo   `yaml:"io_ops"`
}

// ExpectCall is one expected call reference.
type ExpectCall struct {
	Target  string `yaml:"target"`
	Dynamic bool   `yaml:"dynamic"`
}

// ExpectIo is one expected I/O operation.
type ExpectIo struct {
	Op         string `yaml:"op"`
	DatasetRef string `yaml:"dataset_ref"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads analyzer scenarios from a YAML fixture file.
func LoadScenarios(t *testing.T, path string) []Scenario {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", path, err)
	}
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		t.Fatalf("failed to parse fixture %s: %v", path, err)
	}
	if len(file.Scenarios) == 0 {
		t.Fatalf("fixture %s contains no scenarios", path)
	}
	return file.Scenarios
}
