// Package source loads a COBOL compilation unit and exposes a
// line-addressable view of it. Classification never rewrites the text:
// every offset handed out refers to the original bytes, so span math in
// downstream scanners stays valid.
package source

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"cobscan/internal/errors"
)

// Format is the source reference format of a compilation unit.
type Format string

const (
	// Fixed is the classic 80-column reference format: columns 1-6 hold
	// sequence numbers and column 7 is the indicator column.
	Fixed Format = "FIXED"
	// Variable relaxes the column rules; comments are indicator-prefixed.
	Variable Format = "VARIABLE"
)

// ParseFormat maps a config string to a Format. Only VARIABLE selects
// variable format; anything else is FIXED.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(Variable)) {
		return Variable
	}
	return Fixed
}

// Line is one physical line of the document. Start and End are byte
// offsets into the original text; End excludes the line terminator.
type Line struct {
	Start   int
	End     int
	Text    string
	Comment bool
}

// Document is an immutable, loaded compilation unit.
type Document struct {
	Path   string // absolute path, empty for in-memory documents
	Format Format
	text   string
	lines  []Line
}

// Load reads the file at path into a Document. A path that does not
// resolve to a readable file is an InputNotFound error carrying the
// resolved absolute path, mirroring the process contract.
func Load(path string, format Format) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return nil, errors.Newf(errors.InputNotFound, "file not found: %s", abs)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.New(errors.InputNotFound, "file not readable: "+abs, err)
	}
	doc := New(string(data), format)
	doc.Path = abs
	return doc, nil
}

// New builds an in-memory Document. Used directly by tests and by
// callers that already hold the text.
func New(text string, format Format) *Document {
	d := &Document{Format: format, text: text}
	d.lines = splitLines(text, format)
	return d
}

// Text returns the full original text.
func (d *Document) Text() string { return d.text }

// Len returns the content length in bytes.
func (d *Document) Len() int { return len(d.text) }

// Lines returns the physical lines with their offsets and comment flags.
// Callers must not mutate the returned slice.
func (d *Document) Lines() []Line { return d.lines }

// Slice returns the text between two byte offsets.
func (d *Document) Slice(start, end int) string { return d.text[start:end] }

// Sha256 returns the hex content digest, used as the cache key.
func (d *Document) Sha256() string {
	sum := sha256.Sum256([]byte(d.text))
	return hex.EncodeToString(sum[:])
}

// splitLines cuts text into lines, recording offsets and classifying
// comments per the format rules.
func splitLines(text string, format Format) []Line {
	var lines []Line
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			if i == len(text) && i == start {
				break
			}
			raw := text[start:i]
			trimmed := strings.TrimSuffix(raw, "\r")
			lines = append(lines, Line{
				Start:   start,
				End:     start + len(trimmed),
				Text:    trimmed,
				Comment: isCommentLine(trimmed, format),
			})
			start = i + 1
		}
	}
	return lines
}

// isCommentLine reports whether a line is a full-line comment and must be
// excluded from structural scanning. For fixed format the indicator
// column (7th character) decides; short lines are not comments. Both
// formats additionally treat a line whose first non-blank character is an
// asterisk (or the floating *> marker) as a comment.
func isCommentLine(line string, format Format) bool {
	if format == Fixed && len(line) >= 7 {
		if line[6] == '*' || line[6] == '/' {
			return true
		}
	}
	t := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(t, "*") || strings.HasPrefix(t, "/")
}
