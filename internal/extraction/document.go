package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/rankcore/internal/fetch"
)

// DocumentText sniffs the true document type from the bytes and extracts
// plain text accordingly. Supported: PDF, DOCX, HTML, plain text/markdown.
func DocumentText(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &EmptyDocumentError{Source: name}
	}

	switch {
	case isPDF(data):
		return pdfText(name, data)
	case isZip(data):
		return docxText(name, data)
	case looksLikeHTML(data):
		text, err := fetch.ExtractMainText(string(data), fetch.ResumePageSelectors())
		if err != nil {
			return "", &UnsupportedFormatError{Name: name, Detail: "HTML parse failed", Cause: err}
		}
		return text, nil
	case isProbablyText(data):
		return CleanText(string(data)), nil
	}

	return "", &UnsupportedFormatError{Name: name, Detail: "unrecognized binary content"}
}

// isPDF reports whether the bytes start with the PDF magic header.
func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

// isZip reports whether the bytes start with a ZIP local file header
// (DOCX is an OpenXML zip container).
func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func looksLikeHTML(b []byte) bool {
	head := b
	if len(head) > 2048 {
		head = head[:2048]
	}
	s := strings.ToLower(strings.TrimSpace(string(head)))
	return strings.HasPrefix(s, "<!doctype") ||
		strings.HasPrefix(s, "<html") ||
		(strings.Contains(s, "<html") && strings.Contains(s, "<body"))
}

// isProbablyText reports whether most bytes are printable with no NULs.
func isProbablyText(b []byte) bool {
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func pdfText(name string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &UnsupportedFormatError{Name: name, Detail: "PDF parse failed", Cause: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &UnsupportedFormatError{Name: name, Detail: "PDF text extraction failed", Cause: err}
	}

	textBytes, err := io.ReadAll(plain)
	if err != nil {
		return "", &UnsupportedFormatError{Name: name, Detail: "PDF read failed", Cause: err}
	}

	text := CleanText(string(textBytes))
	if text == "" {
		return "", &EmptyDocumentError{Source: name}
	}
	return text, nil
}

// docxText extracts text from word/document.xml, gathering <w:t> elements.
func docxText(name string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &UnsupportedFormatError{Name: name, Detail: "not a valid zip container", Cause: err}
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", &UnsupportedFormatError{Name: name, Detail: "zip does not look like a DOCX document"}
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", &UnsupportedFormatError{Name: name, Detail: "failed to open document.xml", Cause: err}
	}
	defer func() { _ = rc.Close() }()

	text, err := openXMLText(rc)
	if err != nil {
		return "", &UnsupportedFormatError{Name: name, Detail: "failed to parse document.xml", Cause: err}
	}

	text = CleanText(text)
	if text == "" {
		return "", &EmptyDocumentError{Source: name}
	}
	return text, nil
}

// openXMLText walks WordprocessingML, collecting <w:t> runs and inserting
// line breaks at paragraph boundaries.
func openXMLText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("xml decode: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if el.Name.Local == "t" {
				inText = false
			}
			if el.Name.Local == "p" {
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}

	return sb.String(), nil
}

var multiSpaceRe = regexp.MustCompile(`[ \t]+`)
var multiBlankRe = regexp.MustCompile(`\n\n\n+`)

// CleanText normalizes line endings, collapses runs of spaces inside lines,
// and caps consecutive blank lines at two, preserving document structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			cleaned = append(cleaned, "")
			continue
		}
		trimmed := strings.TrimLeft(line, " \t")
		indent := len(line) - len(trimmed)
		trimmed = multiSpaceRe.ReplaceAllString(trimmed, " ")
		if indent > 0 {
			trimmed = strings.Repeat(" ", indent) + trimmed
		}
		cleaned = append(cleaned, trimmed)
	}

	result := strings.Join(cleaned, "\n")
	result = multiBlankRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
