package chunker

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Normative statement detection
// ---------------------------------------------------------------------------

// normativePattern matches the obligation keywords of statutory and
// treaty language.  The keywords must appear as whole words (typically
// "shall"/"must" in legal drafting, but the pattern is case-insensitive
// for robustness across document styles).
var normativePattern = regexp.MustCompile(
	`(?i)\b(SHALL\s+NOT|MUST\s+NOT|SHALL|MUST|SHOULD\s+NOT|SHOULD|REQUIRED|PROHIBITED|RECOMMENDED|MAY|ENTITLED)\b`,
)

// NormativeStatement holds a detected binding or permissive statement.
type NormativeStatement struct {
	Text       string // The full sentence or clause containing the keyword.
	Keyword    string // The matched keyword (e.g. "SHALL", "MUST NOT").
	Level      string // "mandatory", "recommended", or "permissive".
	LineNumber int    // Zero-based line index within the input text.
}

// DetectNormativeStatements scans text line by line and returns every
// line that contains an obligation keyword.
func DetectNormativeStatements(text string) []NormativeStatement {
	lines := strings.Split(text, "\n")
	var stmts []NormativeStatement

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		matches := normativePattern.FindAllString(trimmed, -1)
		if len(matches) == 0 {
			continue
		}
		// Use the first (strongest) keyword found on the line.
		kw := strings.ToUpper(matches[0])
		stmts = append(stmts, NormativeStatement{
			Text:       trimmed,
			Keyword:    kw,
			Level:      normativeLevel(kw),
			LineNumber: i,
		})
	}
	return stmts
}

// IsNormative reports whether text contains at least one obligation
// keyword.
func IsNormative(text string) bool {
	return normativePattern.MatchString(text)
}

// normativeLevel maps a keyword to its obligation level.
func normativeLevel(keyword string) string {
	switch strings.ToUpper(strings.TrimSpace(keyword)) {
	case "SHALL", "SHALL NOT", "MUST", "MUST NOT", "REQUIRED", "PROHIBITED":
		return "mandatory"
	case "SHOULD", "SHOULD NOT", "RECOMMENDED":
		return "recommended"
	case "MAY", "ENTITLED":
		return "permissive"
	default:
		return "mandatory"
	}
}

// ---------------------------------------------------------------------------
// Legal citation detection
// ---------------------------------------------------------------------------

// citationPatterns match references to formal legal instruments as
// cited in news coverage, policy analysis and the instruments
// themselves.
var citationPatterns = []*regexp.Regexp{
	// UN Security Council: "Resolution 2231", "UNSC Resolution 1973"
	regexp.MustCompile(`\b(?:UNSC\s+)?Resolution\s+\d{3,4}\b`),
	// EU directives: "Directive 2009/28/EC", "Directive 2014/24/EU"
	regexp.MustCompile(`\bDirective\s+\d{4}/\d+(?:/(?:EC|EU|EEC))?`),
	// EU regulations: "Regulation (EU) No 833/2014", "Regulation (EC) 1907/2006"
	regexp.MustCompile(`\bRegulation\s+\(E[UC]\)\s+(?:No\s+)?\d+/\d+`),
	// US executive orders: "Executive Order 13662"
	regexp.MustCompile(`\bExecutive\s+Order\s+\d+`),
	// US public laws: "Public Law 113-235"
	regexp.MustCompile(`\bPublic\s+Law\s+\d+-\d+`),
	// Congressional bills: "H.R. 1234", "S. 2155"
	regexp.MustCompile(`\b(?:H\.R\.|S\.)\s*\d+\b`),
}

// LegalCitation holds a detected citation of a legal instrument.
type LegalCitation struct {
	Citation   string // The matched citation text (e.g. "Resolution 2231").
	Instrument string // "resolution", "directive", "regulation", "executive-order", "public-law", "bill".
	Offset     int    // Byte offset of the match within the input text.
}

// DetectLegalCitations scans text and returns all legal-instrument
// citations found.
func DetectLegalCitations(text string) []LegalCitation {
	instruments := []string{
		"resolution", "directive", "regulation", "executive-order", "public-law", "bill",
	}

	var cites []LegalCitation
	for i, re := range citationPatterns {
		matches := re.FindAllStringIndex(text, -1)
		for _, loc := range matches {
			cites = append(cites, LegalCitation{
				Citation:   text[loc[0]:loc[1]],
				Instrument: instruments[i],
				Offset:     loc[0],
			})
		}
	}
	return cites
}

// HasLegalCitation reports whether text cites any legal instrument.
func HasLegalCitation(text string) bool {
	for _, re := range citationPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Table preservation
// ---------------------------------------------------------------------------

// TableChunk holds a detected table block and its surrounding context.
type TableChunk struct {
	Content    string // The full table text, preserved as-is.
	StartLine  int    // Zero-based line index where the table begins.
	EndLine    int    // Zero-based line index where the table ends (exclusive).
	HasHeaders bool   // Whether a header separator row was detected.
}

// DetectTables scans text and identifies contiguous blocks that appear
// to be tabular data.  Tables are preserved as atomic units so that
// the chunker does not split them across chunk boundaries.
func DetectTables(text string) []TableChunk {
	lines := strings.Split(text, "\n")
	var tables []TableChunk

	i := 0
	for i < len(lines) {
		// Look for the start of a table.
		if isTableLine(lines[i]) {
			start := i
			hasHeaders := false
			for i < len(lines) && isTableLine(lines[i]) {
				if isHeaderSeparator(lines[i]) {
					hasHeaders = true
				}
				i++
			}
			// Require at least 2 table-like lines.
			if i-start >= 2 {
				content := strings.Join(lines[start:i], "\n")
				tables = append(tables, TableChunk{
					Content:    content,
					StartLine:  start,
					EndLine:    i,
					HasHeaders: hasHeaders,
				})
			}
			continue
		}
		i++
	}
	return tables
}

// PreserveTableChunks examines text and returns a list of text
// fragments where tables are kept as single atomic pieces and the
// remaining prose is split normally.  The returned fragments are in
// document order.
func PreserveTableChunks(text string) []string {
	tables := DetectTables(text)
	if len(tables) == 0 {
		return []string{text}
	}

	lines := strings.Split(text, "\n")
	var fragments []string
	cursor := 0

	for _, tbl := range tables {
		// Prose before this table.
		if cursor < tbl.StartLine {
			prose := strings.TrimSpace(strings.Join(lines[cursor:tbl.StartLine], "\n"))
			if prose != "" {
				fragments = append(fragments, prose)
			}
		}
		// The table itself (atomic).
		fragments = append(fragments, tbl.Content)
		cursor = tbl.EndLine
	}

	// Remaining prose after the last table.
	if cursor < len(lines) {
		prose := strings.TrimSpace(strings.Join(lines[cursor:], "\n"))
		if prose != "" {
			fragments = append(fragments, prose)
		}
	}

	return fragments
}

// ---------------------------------------------------------------------------
// Table detection helpers
// ---------------------------------------------------------------------------

// isTableLine reports whether a line looks like part of a table.
func isTableLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	// Markdown-style pipe tables.
	if strings.Contains(trimmed, "|") {
		return true
	}
	// Tab-delimited columns (at least two tabs).
	if strings.Count(trimmed, "\t") >= 2 {
		return true
	}
	// Separator rows.
	if isHeaderSeparator(trimmed) {
		return true
	}
	return false
}

// isHeaderSeparator detects markdown-style header separators like
// "|---|---|" or "------".
func isHeaderSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	// Remove pipe characters and spaces, see if the rest is all dashes.
	cleaned := strings.ReplaceAll(trimmed, "|", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ":", "") // alignment markers
	if len(cleaned) < 3 {
		return false
	}
	for _, r := range cleaned {
		if r != '-' {
			return false
		}
	}
	return true
}
