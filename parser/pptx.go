package parser

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// PPTXParser handles slide decks such as briefing presentations. Each slide
// becomes one section so page-level citations point at slide numbers.
type PPTXParser struct{}

func (p *PPTXParser) SupportedFormats() []string { return []string{"pptx"} }

func (p *PPTXParser) Parse(ctx context.Context, path string) (*ParseResult, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening PPTX: %w", err)
	}
	defer r.Close()

	fileIndex := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileIndex[f.Name] = f
	}

	type slideFile struct {
		num  int
		file *zip.File
	}
	var slides []slideFile
	for name, f := range fileIndex {
		if strings.HasPrefix(name, "ppt/slides/slide") && strings.HasSuffix(name, ".xml") {
			num, ok := slideNumber(name)
			if !ok {
				continue
			}
			slides = append(slides, slideFile{num: num, file: f})
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("no slides found in PPTX")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var sections []Section
	for _, s := range slides {
		text, err := extractSlideText(s.file)
		if err != nil {
			return nil, fmt.Errorf("parsing slide %d: %w", s.num, err)
		}
		if text == "" {
			continue
		}
		sections = append(sections, Section{
			Heading:    fmt.Sprintf("Slide %d", s.num),
			Content:    text,
			Level:      1,
			PageNumber: s.num,
			Type:       "section",
		})
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no text found in PPTX")
	}

	return &ParseResult{
		Sections: sections,
		Method:   "native",
	}, nil
}

// slideNumber pulls N out of "ppt/slides/slideN.xml".
func slideNumber(name string) (int, bool) {
	base := strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml")
	var num int
	if _, err := fmt.Sscanf(base, "%d", &num); err != nil {
		return 0, false
	}
	return num, true
}

type pptxSlide struct {
	XMLName xml.Name `xml:"sld"`
	CSld    pptxCSld `xml:"cSld"`
}

type pptxCSld struct {
	SpTree pptxSpTree `xml:"spTree"`
}

type pptxSpTree struct {
	SPs []pptxSP `xml:"sp"`
}

type pptxSP struct {
	TxBody *pptxTxBody `xml:"txBody"`
}

type pptxTxBody struct {
	Paras []pptxPara `xml:"p"`
}

type pptxPara struct {
	Runs []pptxRun `xml:"r"`
}

type pptxRun struct {
	Text string `xml:"t"`
}

func extractSlideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	var slide pptxSlide
	if err := xml.Unmarshal(data, &slide); err != nil {
		return "", err
	}

	var lines []string
	for _, sp := range slide.CSld.SpTree.SPs {
		if sp.TxBody == nil {
			continue
		}
		for _, para := range sp.TxBody.Paras {
			var b strings.Builder
			for _, run := range para.Runs {
				b.WriteString(run.Text)
			}
			if line := strings.TrimSpace(b.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
