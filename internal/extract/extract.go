package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MIME types accepted for resume upload. Anything else is rejected before
// extraction is attempted.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedType is returned for uploads that are neither PDF nor DOCX.
var ErrUnsupportedType = errors.New("unsupported file type: only PDF and DOCX are accepted")

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	ExtractText(r io.ReaderAt, size int64, mimeType string) (string, error)
}

// DocumentExtractor extracts text from PDF and DOCX resumes.
type DocumentExtractor struct{}

func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Supported reports whether the MIME type can be extracted.
func Supported(mimeType string) bool {
	return mimeType == MimePDF || mimeType == MimeDOCX
}

func (e *DocumentExtractor) ExtractText(r io.ReaderAt, size int64, mimeType string) (string, error) {
	switch mimeType {
	case MimePDF:
		return extractPDF(r, size)
	case MimeDOCX:
		return extractDOCX(r, size)
	default:
		return "", ErrUnsupportedType
	}
}

func extractPDF(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read PDF page %d: %w", pageNum, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}

// docx body XML: we only care about text runs (w:t) and paragraph breaks (w:p).
func extractDOCX(r io.ReaderAt, size int64) (string, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var document io.ReadCloser
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open DOCX document: %w", err)
			}
			break
		}
	}
	if document == nil {
		return "", errors.New("DOCX archive has no word/document.xml")
	}
	defer document.Close()

	decoder := xml.NewDecoder(document)
	var b strings.Builder
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse DOCX document: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
			if t.Name.Local == "p" {
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}
