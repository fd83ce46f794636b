package cobol

import (
	"fmt"
	"regexp"
	"strings"

	"cobscan/internal/source"
)

var (
	// headerRe recognizes a paragraph header: a line holding solely a
	// label (letters/digits/hyphen, starting with a letter or digit)
	// followed by a period.
	headerRe = regexp.MustCompile(`^[ \t]*([A-Za-z0-9][A-Za-z0-9-]*)[ \t]*\.[ \t]*$`)
	// sectionRe excludes section headers, which share the same line shape.
	sectionRe = regexp.MustCompile(`(?i)\bSECTION[ \t]*\.[ \t]*$`)
)

// NameList is a tagged variant distinguishing where a paragraph name
// list came from: an authoritative external parse, or the textual
// heuristic. Callers cannot forget which path was taken.
type NameList struct {
	names         []string
	authoritative bool
}

// AuthoritativeNames wraps names obtained from a successful external
// parse. The list filters textually-detected headers; an empty
// authoritative list disables filtering rather than suppressing every
// paragraph, since older bridges omit the paragraph enumeration.
func AuthoritativeNames(names []string) NameList {
	return NameList{names: names, authoritative: true}
}

// HeuristicNames marks that no authoritative list is available: every
// textually-detected header counts as a paragraph boundary.
func HeuristicNames() NameList {
	return NameList{}
}

// Authoritative reports which path produced this list.
func (n NameList) Authoritative() bool { return n.authoritative }

// filterSet returns the uppercase name set to filter with, or nil when
// all textual headers should be kept.
func (n NameList) filterSet() map[string]struct{} {
	if !n.authoritative || len(n.names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(n.names))
	for _, name := range n.names {
		set[strings.ToUpper(name)] = struct{}{}
	}
	return set
}

// Header is one recognized paragraph header line.
type Header struct {
	Name      string // normalized to uppercase
	LineStart int    // byte offset of the header line start
	BodyStart int    // byte offset just past the header period
}

// Span is the body owned by one paragraph: [Start, End) into the
// original document text. End is the start of the next recognized header
// line, or the document end for the last paragraph.
type Span struct {
	Name  string
	Start int
	End   int
}

// Index is the ordered paragraph index for one document.
type Index struct {
	Spans []Span
	// Diagnostics surfaces anomalies such as duplicate labels; they are
	// appended to the artifact notes rather than failing the run.
	Diagnostics []string
}

// DetectHeaders scans the document for paragraph header lines in
// document order. Comment lines and SECTION headers never qualify.
func DetectHeaders(doc *source.Document) []Header {
	var headers []Header
	for _, line := range doc.Lines() {
		if line.Comment {
			continue
		}
		if sectionRe.MatchString(line.Text) {
			continue
		}
		m := headerRe.FindStringSubmatchIndex(line.Text)
		if m == nil {
			continue
		}
		name := strings.ToUpper(line.Text[m[2]:m[3]])
		// m[3] is the end of the label; the period follows optional blanks.
		period := strings.IndexByte(line.Text[m[3]:], '.')
		headers = append(headers, Header{
			Name:      name,
			LineStart: line.Start,
			BodyStart: line.Start + m[3] + period + 1,
		})
	}
	return headers
}

// BuildIndex computes the paragraph spans for the document. When names
// is authoritative, it filters the textual headers down to the known
// paragraphs; otherwise every detected header is a boundary. Duplicate
// labels keep the first occurrence's position with the last-seen span
// winning, and each duplicate is surfaced as a diagnostic.
func BuildIndex(doc *source.Document, names NameList) *Index {
	headers := DetectHeaders(doc)
	if set := names.filterSet(); set != nil {
		kept := headers[:0]
		for _, h := range headers {
			if _, ok := set[h.Name]; ok {
				kept = append(kept, h)
			}
		}
		headers = kept
	}

	idx := &Index{}
	position := make(map[string]int, len(headers))
	for i, h := range headers {
		end := doc.Len()
		if i+1 < len(headers) {
			end = headers[i+1].LineStart
		}
		span := Span{Name: h.Name, Start: h.BodyStart, End: end}
		if at, dup := position[h.Name]; dup {
			idx.Diagnostics = append(idx.Diagnostics,
				fmt.Sprintf("duplicate paragraph label %s; last occurrence wins", h.Name))
			idx.Spans[at] = span
			continue
		}
		position[h.Name] = len(idx.Spans)
		idx.Spans = append(idx.Spans, span)
	}
	return idx
}
