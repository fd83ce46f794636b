package cobol

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cobscan/internal/artifact"
	"cobscan/internal/engine"
	"cobscan/internal/errors"
	"cobscan/internal/logging"
	"cobscan/internal/source"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel, Output: io.Discard})
}

const minimalProgram = `IDENTIFICATION DIVISION.
PROGRAM-ID. SAMPLE.
PROCEDURE DIVISION.
MAIN-PARA.
    PERFORM SUB-PARA.
SUB-PARA.
    CALL 'UTIL1'.
    OPEN INPUT CUSTFILE.
`

// stubEngine satisfies engine.Engine for tests.
type stubEngine struct {
	st  *engine.Structure
	err error
}

func (s stubEngine) ID() string { return "JsonCli" }

func (s stubEngine) Parse(ctx context.Context, path string, format source.Format) (*engine.Structure, error) {
	return s.st, s.err
}

func TestAnalyze_HeuristicMinimalProgram(t *testing.T) {
	doc := source.New(minimalProgram, source.Variable)
	a := New(nil, 4, testLogger())

	result, err := a.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if result.Status != artifact.StatusOK {
		t.Errorf("Status = %q, want ok", result.Status)
	}
	if result.Engine != engine.HeuristicID {
		t.Errorf("Engine = %q, want %q", result.Engine, engine.HeuristicID)
	}
	if result.ProgramID != "SAMPLE" {
		t.Errorf("ProgramID = %q, want SAMPLE", result.ProgramID)
	}

	want := []artifact.Paragraph{
		{Name: "MAIN-PARA", Performs: []string{"SUB-PARA"}},
		{
			Name:  "SUB-PARA",
			Calls: []artifact.Call{{Target: "UTIL1", Dynamic: false}},
			IoOps: []artifact.IoOp{{Op: "OPEN", DatasetRef: "CUSTFILE", Fields: []string{}}},
		},
	}
	if diff := cmp.Diff(want, result.Paragraphs); diff != "" {
		t.Errorf("Paragraphs mismatch (-want +got):\n%s", diff)
	}

	if len(result.Copybooks) != 0 {
		t.Errorf("Copybooks = %v, want empty", result.Copybooks)
	}
	if !result.Divisions.Procedure.Present || !result.Divisions.Identification.Present {
		t.Error("identification and procedure divisions should be detected")
	}
}

func TestAnalyze_FallbackThreeParagraphs(t *testing.T) {
	// With no engine available the heuristic-only run must still find
	// all well-formed paragraph headers with correct boundaries.
	doc := source.New(threeParaText, source.Variable)
	a := New(nil, 8, testLogger())

	result, err := a.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if len(result.Paragraphs) != 3 {
		t.Fatalf("got %d paragraphs, want 3", len(result.Paragraphs))
	}
	if result.Paragraphs[0].Name != "MAIN-PARA" {
		t.Errorf("first paragraph = %q, want MAIN-PARA", result.Paragraphs[0].Name)
	}
	if diff := cmp.Diff([]string{"SUB-ONE"}, result.Paragraphs[0].Performs); diff != "" {
		t.Errorf("MAIN-PARA performs mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_EngineFiltersParagraphs(t *testing.T) {
	text := "MAIN-PARA.\n    PERFORM SUB-ONE.\nSTRAY-LABEL.\nSUB-ONE.\n    STOP RUN.\n"
	doc := source.New(text, source.Variable)
	eng := stubEngine{st: &engine.Structure{
		ProgramID:      "FILTERED",
		Divisions:      engine.DivisionFlags{Procedure: true},
		ParagraphNames: []string{"MAIN-PARA", "SUB-ONE"},
	}}
	a := New(eng, 2, testLogger())

	result, err := a.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if result.Engine != "JsonCli" {
		t.Errorf("Engine = %q, want JsonCli", result.Engine)
	}
	if result.ProgramID != "FILTERED" {
		t.Errorf("ProgramID = %q, want FILTERED", result.ProgramID)
	}
	if len(result.Paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2 (stray label filtered)", len(result.Paragraphs))
	}
	if !result.Divisions.Procedure.Present {
		t.Error("procedure presence should come from the engine")
	}
	if result.Divisions.Identification.Present {
		t.Error("identification should stay absent when the engine says so")
	}
}

func TestAnalyze_EngineRejectionIsTerminal(t *testing.T) {
	doc := source.New(minimalProgram, source.Variable)
	eng := stubEngine{err: errors.Newf(errors.ExternalParseFailed, "line 12: unexpected token")}
	a := New(eng, 2, testLogger())

	_, err := a.Analyze(context.Background(), doc)
	if err == nil {
		t.Fatal("engine rejection should fail the run")
	}
	if errors.CodeOf(err) != errors.ExternalParseFailed {
		t.Errorf("error code = %v, want %v", errors.CodeOf(err), errors.ExternalParseFailed)
	}
}

func TestAnalyze_Notes(t *testing.T) {
	doc := source.New(minimalProgram, source.Variable)
	a := New(nil, 1, testLogger())

	result, err := a.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	joined := strings.Join(result.Notes, "\n")
	for _, want := range []string{"sourceFormat=VARIABLE", "engine=heuristic", "paragraphs.count=2", "copybooks.count=0"} {
		if !strings.Contains(joined, want) {
			t.Errorf("notes missing %q: %v", want, result.Notes)
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	doc := source.New(minimalProgram, source.Variable)

	run := func(workers int) string {
		a := New(nil, workers, testLogger())
		result, err := a.Analyze(context.Background(), doc)
		if err != nil {
			t.Fatalf("Analyze() error: %v", err)
		}
		out, err := artifact.Encode(result)
		if err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		return string(out)
	}

	first := run(1)
	// Output must not depend on extraction parallelism or repetition.
	for _, workers := range []int{1, 4, 16} {
		if got := run(workers); got != first {
			t.Errorf("output varies with %d workers:\n%s\n%s", workers, first, got)
		}
	}
}

func TestAnalyze_DuplicateLabelDiagnosticInNotes(t *testing.T) {
	text := "DUP.\n    MOVE A TO B.\nDUP.\n    STOP RUN.\n"
	doc := source.New(text, source.Variable)
	a := New(nil, 2, testLogger())

	result, err := a.Analyze(context.Background(), doc)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	found := false
	for _, note := range result.Notes {
		if strings.Contains(note, "duplicate paragraph label DUP") {
			found = true
		}
	}
	if !found {
		t.Errorf("duplicate label should surface in notes, got %v", result.Notes)
	}
}
