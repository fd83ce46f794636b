// Package engine wraps the external structural parse engines. An engine
// is the authoritative source of program structure; when none is
// configured the analyzer degrades to heuristic extraction, and that
// degradation is never an error by itself.
package engine

import (
	"context"

	"cobscan/internal/source"
)

// DivisionFlags carries the four presence booleans from an
// authoritative parse.
type DivisionFlags struct {
	Identification bool
	Environment    bool
	Data           bool
	Procedure      bool
}

// Structure is the result handle an engine yields for a successfully
// parsed compilation unit.
type Structure struct {
	ProgramID      string
	Divisions      DivisionFlags
	ParagraphNames []string
}

// Engine parses a single compilation unit and exposes its structure.
// Parse returns ExternalParseFailed when the engine ran and rejected the
// source; that failure is terminal for the run because the engine is the
// sole source of syntactic validity confirmation.
type Engine interface {
	ID() string
	Parse(ctx context.Context, path string, format source.Format) (*Structure, error)
}

// HeuristicID is the engine identifier reported when no external engine
// was consulted.
const HeuristicID = "heuristic"
