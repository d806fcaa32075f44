package extraction

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// docxParts are the XML members of the DOCX container that carry
// visible text: the body plus up to three headers and footers.
var docxParts = []string{
	"word/document.xml",
	"word/header1.xml",
	"word/header2.xml",
	"word/header3.xml",
	"word/footer1.xml",
	"word/footer2.xml",
	"word/footer3.xml",
}

// DocxExtractor reads the DOCX ZIP container and concatenates the text
// runs of the document body, headers and footers. Paragraph boundaries
// become newlines.
type DocxExtractor struct{}

// NewDocxExtractor returns the DOCX extractor.
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

func (e *DocxExtractor) Name() string { return "DOCX Extractor" }

func (e *DocxExtractor) SupportedExtensions() []string { return []string{"docx"} }

func (e *DocxExtractor) Extract(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", corruptedErr(fmt.Sprintf("invalid DOCX structure: %v", err), err)
	}
	defer archive.Close()

	var text strings.Builder
	for _, part := range docxParts {
		partText, err := extractArchivePart(&archive.Reader, part)
		if err != nil {
			return "", err
		}
		text.WriteString(partText)
	}

	return text.String(), nil
}

// extractArchivePart parses one XML member; a missing member yields
// empty text.
func extractArchivePart(archive *zip.Reader, name string) (string, error) {
	file, err := archive.Open(name)
	if err != nil {
		return "", nil
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", ioErr(err)
	}

	return extractTextFromXML(content)
}

// extractTextFromXML pulls the character data of <w:t> runs, emitting
// a newline at each </w:p> paragraph end.
func extractTextFromXML(content []byte) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(content)))

	var text strings.Builder
	inTextRun := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", failedErr(fmt.Sprintf("XML parse error: %v", err), err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.CharData:
			if inTextRun {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				text.WriteByte('\n')
			}
		}
	}

	return text.String(), nil
}
