package extraction

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestDocumentText_PlainText(t *testing.T) {
	text, err := DocumentText("resume.txt", []byte("Jane Doe\nSoftware Engineer\n\n\n\nGo, Postgres"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSoftware Engineer\n\nGo, Postgres", text)
}

func TestDocumentText_HTML(t *testing.T) {
	html := []byte(`<!doctype html><html><body><main>Jane Doe, Engineer</main></body></html>`)

	text, err := DocumentText("resume.html", html)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe, Engineer")
}

func TestDocumentText_DOCX(t *testing.T) {
	docx := buildDOCX(t, `<?xml version="1.0"?>
		<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
			<w:body>
				<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
				<w:p><w:r><w:t>Software </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
			</w:body>
		</w:document>`)

	text, err := DocumentText("resume.docx", docx)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Software Engineer")
}

func TestDocumentText_ZipWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("unrelated.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("nope"))
	require.NoError(t, zw.Close())

	_, err = DocumentText("archive.zip", buf.Bytes())
	var formatErr *UnsupportedFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "archive.zip", formatErr.Name)
}

func TestDocumentText_Empty(t *testing.T) {
	_, err := DocumentText("empty.txt", nil)

	var emptyErr *EmptyDocumentError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, "empty.txt", emptyErr.Source)
}

func TestDocumentText_UnknownBinary(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0xFF, 0xFE, 0x00, 0x10}

	_, err := DocumentText("mystery.bin", data)
	var formatErr *UnsupportedFormatError
	require.True(t, errors.As(err, &formatErr))
}

func TestSniffers(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		isPDF bool
		isZip bool
	}{
		{"pdf header", []byte("%PDF-1.7 ..."), true, false},
		{"zip header", []byte{'P', 'K', 3, 4, 0}, false, true},
		{"plain", []byte("hello"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPDF(tt.data); got != tt.isPDF {
				t.Errorf("isPDF = %v, want %v", got, tt.isPDF)
			}
			if got := isZip(tt.data); got != tt.isZip {
				t.Errorf("isZip = %v, want %v", got, tt.isZip)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"crlf normalized", "a\r\nb\r", "a\nb"},
		{"inner spaces collapsed", "a    b\tc", "a b c"},
		{"blank runs capped", "a\n\n\n\n\nb", "a\n\nb"},
		{"indent preserved", "  lead\nplain", "  lead\nplain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
