package cobol

import (
	"regexp"
	"strings"

	"cobscan/internal/artifact"
	"cobscan/internal/engine"
	"cobscan/internal/source"
)

var (
	divisionRe  = regexp.MustCompile(`(?i)\b(IDENTIFICATION|ENVIRONMENT|DATA|PROCEDURE)\s+DIVISION\s*\.`)
	programIDRe = regexp.MustCompile(`(?i)\bPROGRAM-ID\s*\.\s*([A-Za-z0-9][A-Za-z0-9-]*)`)
)

// DetectDivisions reports division presence from the text alone. Used
// when no authoritative parse is available; presence means the header
// line was located, nothing more.
func DetectDivisions(doc *source.Document) artifact.Divisions {
	var d artifact.Divisions
	for _, line := range doc.Lines() {
		if line.Comment {
			continue
		}
		for _, m := range divisionRe.FindAllStringSubmatch(line.Text, -1) {
			switch strings.ToUpper(m[1]) {
			case "IDENTIFICATION":
				d.Identification.Present = true
			case "ENVIRONMENT":
				d.Environment.Present = true
			case "DATA":
				d.Data.Present = true
			case "PROCEDURE":
				d.Procedure.Present = true
			}
		}
	}
	return d
}

// DivisionsFromEngine converts authoritative flags to the artifact
// shape. A division the engine could not expose stays absent; that is a
// best-effort signal, never an error.
func DivisionsFromEngine(f engine.DivisionFlags) artifact.Divisions {
	return artifact.Divisions{
		Identification: artifact.Division{Present: f.Identification},
		Environment:    artifact.Division{Present: f.Environment},
		Data:           artifact.Division{Present: f.Data},
		Procedure:      artifact.Division{Present: f.Procedure},
	}
}

// DetectProgramID extracts the PROGRAM-ID heuristically. Best-effort:
// an empty result is fine.
func DetectProgramID(doc *source.Document) string {
	for _, line := range doc.Lines() {
		if line.Comment {
			continue
		}
		if m := programIDRe.FindStringSubmatch(line.Text); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}
