package parser

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ---------------------------------------------------------------------------
// Registry tests
// ---------------------------------------------------------------------------

func TestRegistryBuiltInParsers(t *testing.T) {
	reg := NewRegistry()

	formats := []string{"txt", "md", "markdown", "pdf", "docx", "pptx", "xlsx"}

	for _, format := range formats {
		t.Run(format, func(t *testing.T) {
			p, err := reg.Get(format)
			if err != nil {
				t.Fatalf("Get(%q) returned error: %v", format, err)
			}
			if p == nil {
				t.Fatalf("Get(%q) returned nil parser", format)
			}
			// Verify the parser supports the expected format.
			found := false
			for _, f := range p.SupportedFormats() {
				if f == format {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("parser for %q does not list %q in SupportedFormats(): %v",
					format, format, p.SupportedFormats())
			}
		})
	}
}

func TestRegistryUnknown(t *testing.T) {
	reg := NewRegistry()

	unknownFormats := []string{"csv", "json", "html", "rtf", "odt", ""}
	for _, format := range unknownFormats {
		t.Run("format_"+format, func(t *testing.T) {
			p, err := reg.Get(format)
			if err == nil {
				t.Errorf("Get(%q) expected error for unknown format, got parser: %v", format, p)
			}
			if p != nil {
				t.Errorf("Get(%q) expected nil parser for unknown format", format)
			}
		})
	}
}

func TestRegistryCustomParser(t *testing.T) {
	reg := NewRegistry()

	// Before registration, "custom" should fail.
	_, err := reg.Get("custom")
	if err == nil {
		t.Fatal("expected error for unregistered format")
	}

	// Register a custom parser and verify retrieval.
	reg.Register("custom", &TextParser{})
	p, err := reg.Get("custom")
	if err != nil {
		t.Fatalf("Get(\"custom\") after Register returned error: %v", err)
	}
	if p == nil {
		t.Fatal("Get(\"custom\") returned nil after Register")
	}
}

// ---------------------------------------------------------------------------
// splitPageIntoSections tests
// ---------------------------------------------------------------------------

func TestSplitPageIntoSections(t *testing.T) {
	text := `PREAMBLE
The parties to this treaty affirm their commitment to open trade.

Article 1 Scope
This treaty applies to all exports between the parties.

Article 2 Definitions
"Sanction" means any restrictive measure adopted by a party.`

	sections := splitPageIntoSections(text, 1)

	if len(sections) < 3 {
		t.Fatalf("expected at least 3 sections, got %d", len(sections))
	}

	if sections[0].Heading != "PREAMBLE" {
		t.Errorf("section[0].Heading = %q, want %q", sections[0].Heading, "PREAMBLE")
	}
	if sections[0].PageNumber != 1 {
		t.Errorf("section[0].PageNumber = %d, want 1", sections[0].PageNumber)
	}
	if sections[0].Content == "" {
		t.Error("section[0].Content should not be empty")
	}

	if sections[1].Heading != "Article 1 Scope" {
		t.Errorf("section[1].Heading = %q, want %q", sections[1].Heading, "Article 1 Scope")
	}
	if sections[1].Content == "" {
		t.Error("section[1].Content should contain scope text")
	}

	if sections[2].Heading != "Article 2 Definitions" {
		t.Errorf("section[2].Heading = %q, want %q", sections[2].Heading, "Article 2 Definitions")
	}
	if sections[2].Type != "definition" {
		t.Errorf("section[2].Type = %q, want %q", sections[2].Type, "definition")
	}
}

func TestSplitPageIntoSectionsEmptyText(t *testing.T) {
	sections := splitPageIntoSections("", 1)
	if len(sections) != 0 {
		t.Errorf("expected 0 sections for empty text, got %d", len(sections))
	}
}

func TestSplitPageIntoSectionsNoHeadings(t *testing.T) {
	text := "This is just a regular paragraph with no headings at all."
	sections := splitPageIntoSections(text, 5)

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].PageNumber != 5 {
		t.Errorf("section[0].PageNumber = %d, want 5", sections[0].PageNumber)
	}
	// Headingless text goes through the main loop, so classifySectionType
	// determines the type. Generic text without keywords returns "section".
	if sections[0].Type != "section" {
		t.Errorf("section[0].Type = %q, want %q", sections[0].Type, "section")
	}
}

func TestSplitPageIntoSectionsWhitespaceOnly(t *testing.T) {
	sections := splitPageIntoSections("   \n\n   \n  ", 1)
	if len(sections) != 0 {
		t.Errorf("expected 0 sections for whitespace-only text, got %d", len(sections))
	}
}

// ---------------------------------------------------------------------------
// isLikelyHeading tests
// ---------------------------------------------------------------------------

func TestIsLikelyHeading(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		// All-caps headings
		{"all_caps_short", "PREAMBLE", true},
		{"all_caps_multi_word", "GENERAL PROVISIONS", true},
		{"all_caps_too_short", "AB", false},

		// Numbered sections
		{"numbered_1.1", "1.1 Scope", true},
		{"numbered_1.2.3", "1.2.3 Reporting Obligations", true},
		{"numbered_single_dot", "3. Overview", true},

		// Keyword prefixes
		{"section_prefix", "Section 5 General", true},
		{"article_prefix", "Article III Obligations", true},
		{"chapter_prefix", "Chapter 2 Institutions", true},
		{"part_prefix", "Part A Summary", true},
		{"annex_prefix", "Annex II Tariff Schedules", true},
		{"schedule_prefix", "Schedule 1 Restricted Goods", true},

		// Not headings
		{"regular_sentence", "This is a regular sentence.", false},
		{"lowercase_text", "some regular content here", false},
		{"mixed_case", "The minister announced new measures...", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isLikelyHeading(tt.line)
			if got != tt.want {
				t.Errorf("isLikelyHeading(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsLikelyHeadingLongAllCaps(t *testing.T) {
	buf := make([]byte, 101)
	for i := range buf {
		buf[i] = 'A'
	}
	if isLikelyHeading(string(buf)) {
		t.Error("all-caps line over 100 chars should not be a heading")
	}
}

// ---------------------------------------------------------------------------
// classifySectionType tests
// ---------------------------------------------------------------------------

func TestClassifySectionType(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		content string
		want    string
	}{
		{"definition_heading", "Definitions", "These terms carry the meanings below.", "definition"},
		{"definition_content", "Glossary", "For the purposes of this treaty, a party is a signatory state.", "definition"},
		{"normative_shall", "Obligations", "Each party shall notify the commission.", "normative"},
		{"normative_must", "Compliance", "Importers must declare the origin of goods.", "normative"},
		{"normative_prohibited", "Restrictions", "Re-export of listed goods is prohibited.", "normative"},
		{"table_pipes", "Data", "Col1 | Col2 | Col3 | Col4 | Col5", "table"},
		{"table_tabs", "Data", "A\tB\tC\tD\tE", "table"},
		{"table_heading", "Table 1", "Some content", "table"},
		{"annex_heading", "Annex II", "Supplementary provisions.", "annex"},
		{"regular_section", "Introduction", "This report reviews recent trade policy.", "section"},
		{"empty_heading", "", "Just some text without keywords.", "section"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySectionType(tt.heading, tt.content)
			if got != tt.want {
				t.Errorf("classifySectionType(%q, %q) = %q, want %q",
					tt.heading, tt.content, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// detectHeadingLevel tests
// ---------------------------------------------------------------------------

func TestDetectHeadingLevel(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		want    int
	}{
		{"single_number_dot", "1. Introduction", 1},
		{"two_levels", "1.2 Scope", 1},
		{"three_levels", "1.2.3 Detailed", 2},
		{"four_levels", "1.2.3.4 Deep", 3},
		{"all_caps", "PREAMBLE", 1},
		{"mixed_case_no_number", "Summary", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectHeadingLevel(tt.heading)
			if got != tt.want {
				t.Errorf("detectHeadingLevel(%q) = %d, want %d", tt.heading, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TextParser tests
// ---------------------------------------------------------------------------

func TestTextParser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "briefing.txt")
	content := "The cabinet approved the revised fuel subsidy on Tuesday."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := (&TextParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}
	if result.Sections[0].Heading != "briefing.txt" {
		t.Errorf("Heading = %q, want %q", result.Sections[0].Heading, "briefing.txt")
	}
	if result.Sections[0].Content != content {
		t.Errorf("Content = %q, want %q", result.Sections[0].Content, content)
	}
	if result.Method != "native" {
		t.Errorf("Method = %q, want %q", result.Method, "native")
	}
}

func TestTextParserEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := (&TextParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Sections) != 0 {
		t.Errorf("expected 0 sections for empty file, got %d", len(result.Sections))
	}
}

// ---------------------------------------------------------------------------
// MarkdownParser tests
// ---------------------------------------------------------------------------

func TestMarkdownParser(t *testing.T) {
	md := `# Treaty Overview
The water-sharing treaty was signed in Geneva.

## Obligations
Each party shall reduce withdrawals by ten percent.

Regular follow-up paragraph.
`
	path := filepath.Join(t.TempDir(), "treaty.md")
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := (&MarkdownParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}

	if result.Sections[0].Heading != "Treaty Overview" {
		t.Errorf("section[0].Heading = %q, want %q", result.Sections[0].Heading, "Treaty Overview")
	}
	if result.Sections[0].Level != 1 {
		t.Errorf("section[0].Level = %d, want 1", result.Sections[0].Level)
	}

	if result.Sections[1].Heading != "Obligations" {
		t.Errorf("section[1].Heading = %q, want %q", result.Sections[1].Heading, "Obligations")
	}
	if result.Sections[1].Level != 2 {
		t.Errorf("section[1].Level = %d, want 2", result.Sections[1].Level)
	}
	if result.Sections[1].Type != "normative" {
		t.Errorf("section[1].Type = %q, want %q (content has 'shall')", result.Sections[1].Type, "normative")
	}
}

func TestMarkdownParserFencedCode(t *testing.T) {
	md := "# Notes\nBefore fence.\n```\n# not a heading\n```\nAfter fence.\n"
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := (&MarkdownParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section (fence must not split), got %d", len(result.Sections))
	}
	if result.Sections[0].Heading != "Notes" {
		t.Errorf("Heading = %q, want %q", result.Sections[0].Heading, "Notes")
	}
}

func TestMarkdownParserNoHeadings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.md")
	if err := os.WriteFile(path, []byte("Just a paragraph.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := (&MarkdownParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}
	if result.Sections[0].Heading != "" {
		t.Errorf("Heading = %q, want empty", result.Sections[0].Heading)
	}
}

func TestParseATXHeading(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantLevel int
		wantText  string
		wantOK    bool
	}{
		{"h1", "# Title", 1, "Title", true},
		{"h3", "### Deep Title", 3, "Deep Title", true},
		{"closed", "## Title ##", 2, "Title", true},
		{"no_space", "#5 ranked", 0, "", false},
		{"too_deep", "####### Seven", 0, "", false},
		{"hash_only", "##", 0, "", false},
		{"plain", "not a heading", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, text, ok := parseATXHeading(tt.line)
			if ok != tt.wantOK || level != tt.wantLevel || text != tt.wantText {
				t.Errorf("parseATXHeading(%q) = (%d, %q, %v), want (%d, %q, %v)",
					tt.line, level, text, ok, tt.wantLevel, tt.wantText, tt.wantOK)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// DOCXParser tests
// ---------------------------------------------------------------------------

const docxBodyXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Policy Summary</w:t></w:r></w:p>
    <w:p><w:r><w:t>The ministry announced new export tariffs.</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Country</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Tariff</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func writeTestDOCX(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDOCXParser(t *testing.T) {
	path := writeTestDOCX(t, docxBodyXML)

	result, err := (&DOCXParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(result.Sections))
	}

	var headed, table *Section
	for i := range result.Sections {
		switch result.Sections[i].Type {
		case "table":
			table = &result.Sections[i]
		default:
			headed = &result.Sections[i]
		}
	}

	if headed == nil {
		t.Fatal("missing text section")
	}
	if headed.Heading != "Policy Summary" {
		t.Errorf("Heading = %q, want %q", headed.Heading, "Policy Summary")
	}
	if headed.Content != "The ministry announced new export tariffs." {
		t.Errorf("Content = %q", headed.Content)
	}
	if headed.Level != 1 {
		t.Errorf("Level = %d, want 1", headed.Level)
	}

	if table == nil {
		t.Fatal("missing table section")
	}
	if table.Content != "| Country | Tariff |\n" {
		t.Errorf("table Content = %q", table.Content)
	}
}

func TestDOCXParserMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = (&DOCXParser{}).Parse(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for DOCX without word/document.xml")
	}
}

func TestHeadingStyleLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Title", 1},
		{"Heading1", 1},
		{"Heading2", 2},
		{"Heading3", 3},
		{"heading4", 4},
		{"SomeStyle", 1},
	}

	for _, tt := range tests {
		if got := headingStyleLevel(tt.style); got != tt.want {
			t.Errorf("headingStyleLevel(%q) = %d, want %d", tt.style, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// PPTXParser tests
// ---------------------------------------------------------------------------

func slideXML(lines ...string) string {
	b := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
		`<p:cSld><p:spTree>`
	for _, line := range lines {
		b += `<p:sp><p:txBody><a:p><a:r><a:t>` + line + `</a:t></a:r></a:p></p:txBody></p:sp>`
	}
	b += `</p:spTree></p:cSld></p:sld>`
	return b
}

func writeTestPPTX(t *testing.T, slides map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range slides {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPPTXParser(t *testing.T) {
	path := writeTestPPTX(t, map[string]string{
		// Out of lexical order on purpose: slide10 sorts after slide2.
		"ppt/slides/slide10.xml": slideXML("Annex: tariff schedule"),
		"ppt/slides/slide2.xml":  slideXML("Sanctions update", "Three entities delisted."),
		"ppt/slides/slide1.xml":  slideXML("Trade Policy Briefing"),
	})

	result, err := (&PPTXParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.Method != "native" {
		t.Errorf("Method = %q, want %q", result.Method, "native")
	}
	if len(result.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(result.Sections))
	}

	wantHeadings := []string{"Slide 1", "Slide 2", "Slide 10"}
	wantPages := []int{1, 2, 10}
	for i, sec := range result.Sections {
		if sec.Heading != wantHeadings[i] {
			t.Errorf("section[%d].Heading = %q, want %q", i, sec.Heading, wantHeadings[i])
		}
		if sec.PageNumber != wantPages[i] {
			t.Errorf("section[%d].PageNumber = %d, want %d", i, sec.PageNumber, wantPages[i])
		}
	}

	if want := "Sanctions update\nThree entities delisted."; result.Sections[1].Content != want {
		t.Errorf("section[1].Content = %q, want %q", result.Sections[1].Content, want)
	}
}

func TestPPTXParserNoSlides(t *testing.T) {
	path := writeTestPPTX(t, map[string]string{
		"ppt/presentation.xml": `<p:presentation/>`,
	})

	_, err := (&PPTXParser{}).Parse(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for PPTX without slides")
	}
}

func TestPPTXParserSkipsEmptySlides(t *testing.T) {
	path := writeTestPPTX(t, map[string]string{
		"ppt/slides/slide1.xml": slideXML(),
		"ppt/slides/slide2.xml": slideXML("Resolution 2417 recap"),
	})

	result, err := (&PPTXParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}
	if result.Sections[0].PageNumber != 2 {
		t.Errorf("PageNumber = %d, want 2", result.Sections[0].PageNumber)
	}
}

// ---------------------------------------------------------------------------
// XLSXParser tests
// ---------------------------------------------------------------------------

func TestXLSXParser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariffs.xlsx")

	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "Country"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B1", "Tariff"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "A2", "Atlantia"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B2", "12%"); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result, err := (&XLSXParser{}).Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}

	sec := result.Sections[0]
	if sec.Type != "table" {
		t.Errorf("Type = %q, want %q", sec.Type, "table")
	}
	if sec.Heading != "Sheet1" {
		t.Errorf("Heading = %q, want %q", sec.Heading, "Sheet1")
	}
	if sec.Metadata["row_count"] != "2" {
		t.Errorf("row_count = %q, want %q", sec.Metadata["row_count"], "2")
	}
	if want := "| Country | Tariff |\n| Atlantia | 12% |\n"; sec.Content != want {
		t.Errorf("Content = %q, want %q", sec.Content, want)
	}
}
