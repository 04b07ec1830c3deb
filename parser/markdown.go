package parser

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// MarkdownParser handles Markdown (.md, .markdown) files, splitting on
// ATX headings. Fenced code blocks are kept intact inside their section.
type MarkdownParser struct{}

func (p *MarkdownParser) SupportedFormats() []string { return []string{"md", "markdown"} }

func (p *MarkdownParser) Parse(ctx context.Context, path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading markdown file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return &ParseResult{Method: "native"}, nil
	}

	var sections []Section
	var currentContent strings.Builder
	var currentHeading string
	currentLevel := 0
	inFence := false

	flush := func() {
		content := strings.TrimSpace(currentContent.String())
		if content == "" && currentHeading == "" {
			return
		}
		sections = append(sections, Section{
			Heading: currentHeading,
			Content: content,
			Level:   currentLevel,
			Type:    classifySectionType(currentHeading, content),
		})
		currentContent.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			currentContent.WriteString(line)
			currentContent.WriteString("\n")
			continue
		}

		if !inFence {
			if level, heading, ok := parseATXHeading(trimmed); ok {
				flush()
				currentHeading = heading
				currentLevel = level
				continue
			}
		}

		currentContent.WriteString(line)
		currentContent.WriteString("\n")
	}
	flush()

	if len(sections) == 0 {
		sections = append(sections, Section{
			Content: text,
			Level:   1,
			Type:    "paragraph",
		})
	}

	return &ParseResult{
		Sections: sections,
		Method:   "native",
	}, nil
}

// parseATXHeading returns the level and text of an ATX heading line
// ("# Title" through "###### Title"), or ok=false for anything else.
func parseATXHeading(line string) (int, string, bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, "", false
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 {
		return 0, "", false
	}
	rest := line[level:]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return 0, "", false
	}
	heading := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rest), "#"))
	if heading == "" {
		return 0, "", false
	}
	return level, heading, true
}
