package cobol

import (
	"regexp"
	"strings"

	"cobscan/internal/source"
)

// copyRe matches a COPY directive and captures the dependency name.
// Copybooks can be pulled in anywhere (usually the Data Division), so the
// scan covers the whole document, not paragraph bodies.
var copyRe = regexp.MustCompile(`(?i)\bCOPY\s+([A-Za-z0-9_-]+)`)

// ScanCopybooks returns every copybook name referenced by non-comment
// lines, uppercased, deduplicated, in order of first occurrence. A COPY
// keyword with no identifier-shaped token after it yields nothing.
func ScanCopybooks(doc *source.Document) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range doc.Lines() {
		if line.Comment {
			continue
		}
		for _, m := range copyRe.FindAllStringSubmatch(line.Text, -1) {
			name := strings.ToUpper(m[1])
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
