// Package tabular converts typed or pasted text into the triple rows
// the merge planner consumes: line-delimited concept names, or
// subject/relation/object rows in tab- or pipe-delimited form.
package tabular

import (
	"fmt"
	"strings"
)

// Row is one validated subject-relation-object entry.
type Row struct {
	Subject  string
	Relation string
	Object   string

	// Line is the 1-based source line, kept for error reporting.
	Line int
}

// InvalidRow records a row that failed validation. Invalid rows are
// reported and excluded; they never block valid rows.
type InvalidRow struct {
	Line   int
	Text   string
	Reason string
}

// RowSet is the result of parsing pasted row text.
type RowSet struct {
	Rows    []Row
	Invalid []InvalidRow
}

// ParseConceptList parses line-delimited concept names. Names are
// trimmed, blank lines dropped, and duplicates removed
// case-insensitively (first spelling wins).
func ParseConceptList(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

// ParseRows parses pasted subject/relation/object text. The delimiter
// is auto-detected per line, tab taking precedence over pipe (a pasted
// spreadsheet cell may legitimately contain "|"). A row is invalid when
// it does not split into exactly three fields or any field is blank
// after trimming.
func ParseRows(text string) *RowSet {
	set := &RowSet{}

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		fields := splitRow(line)
		if len(fields) != 3 {
			set.Invalid = append(set.Invalid, InvalidRow{
				Line:   lineNo,
				Text:   trimmed,
				Reason: fmt.Sprintf("expected 3 fields, got %d", len(fields)),
			})
			continue
		}

		row := Row{
			Subject:  strings.TrimSpace(fields[0]),
			Relation: strings.TrimSpace(fields[1]),
			Object:   strings.TrimSpace(fields[2]),
			Line:     lineNo,
		}
		if reason := blankField(row); reason != "" {
			set.Invalid = append(set.Invalid, InvalidRow{
				Line:   lineNo,
				Text:   trimmed,
				Reason: reason,
			})
			continue
		}
		set.Rows = append(set.Rows, row)
	}

	return set
}

// splitRow splits one line on its detected delimiter.
func splitRow(line string) []string {
	if strings.Contains(line, "\t") {
		return strings.Split(line, "\t")
	}
	return strings.Split(line, "|")
}

func blankField(row Row) string {
	switch {
	case row.Subject == "":
		return "subject is blank"
	case row.Relation == "":
		return "relation is blank"
	case row.Object == "":
		return "object is blank"
	}
	return ""
}
