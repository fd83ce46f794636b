package cobol

import (
	"regexp"
	"strings"

	"cobscan/internal/artifact"
)

var (
	// performRe captures PERFORM targets; a THRU range contributes its
	// two endpoints only, never the paragraphs lexically between them.
	performRe = regexp.MustCompile(`(?i)\bPERFORM\s+([A-Za-z0-9][A-Za-z0-9-]*)(?:\s+THRU\s+([A-Za-z0-9][A-Za-z0-9-]*))?`)

	// callRe captures CALL targets: a quoted literal is a static
	// program name, a bare identifier is resolved at run time.
	callRe = regexp.MustCompile(`(?i)\bCALL\s+(?:'([^']+)'|"([^"]+)"|([A-Za-z0-9][A-Za-z0-9-]*))`)

	// ioRe captures file operations; the open-mode qualifier is
	// consumed so the dataset token lands in the capture, but the mode
	// itself is not retained in the output.
	ioRe = regexp.MustCompile(`(?i)\b(OPEN|READ|WRITE|REWRITE|CLOSE)\s+(?:(?:INPUT|OUTPUT|I-O|EXTEND)\s+)?([A-Za-z0-9][A-Za-z0-9-]*)`)
)

// Facts are the extraction results for one paragraph body. Zero matches
// leave the slices nil; the assembler serializes them as empty lists.
type Facts struct {
	Performs []string
	Calls    []artifact.Call
	IoOps    []artifact.IoOp
}

// ExtractFacts scans one paragraph body. The body is a slice of the
// original text bounded by the paragraph span, so matches can never
// bleed into a neighboring paragraph.
func ExtractFacts(body string) Facts {
	return Facts{
		Performs: scanPerforms(body),
		Calls:    scanCalls(body),
		IoOps:    scanIo(body),
	}
}

func scanPerforms(body string) []string {
	var out []string
	for _, m := range performRe.FindAllStringSubmatch(body, -1) {
		out = append(out, strings.ToUpper(m[1]))
		if m[2] != "" {
			out = append(out, strings.ToUpper(m[2]))
		}
	}
	return out
}

func scanCalls(body string) []artifact.Call {
	var out []artifact.Call
	for _, m := range callRe.FindAllStringSubmatch(body, -1) {
		// A match satisfies exactly one alternative: quoted means a
		// static target, a bare identifier means dynamic.
		switch {
		case m[1] != "":
			out = append(out, artifact.Call{Target: strings.ToUpper(m[1]), Dynamic: false})
		case m[2] != "":
			out = append(out, artifact.Call{Target: strings.ToUpper(m[2]), Dynamic: false})
		case m[3] != "":
			out = append(out, artifact.Call{Target: strings.ToUpper(m[3]), Dynamic: true})
		}
	}
	return out
}

func scanIo(body string) []artifact.IoOp {
	var out []artifact.IoOp
	for _, m := range ioRe.FindAllStringSubmatch(body, -1) {
		out = append(out, artifact.IoOp{
			Op:         strings.ToUpper(m[1]),
			DatasetRef: strings.ToUpper(m[2]),
			Fields:     []string{},
		})
	}
	return out
}
