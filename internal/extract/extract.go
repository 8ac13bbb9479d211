package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOC  = "application/msword"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Format identifies the extraction strategy chosen for a document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatWord Format = "word"
	FormatText Format = "text"
)

// ErrUnsupportedFormat reports bytes the extractor cannot interpret.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is an uploaded payload with its declared media type.
type Document struct {
	FileName string
	MimeType string
	Data     []byte
}

// Extraction is the format-specific result fed to the model invocation.
// PDF documents keep their raw bytes as a multimodal attachment; the
// reasoning service performs its own text and layout understanding, which
// preserves tables and columns that local extraction would mangle. All
// other formats carry plain text.
type Extraction struct {
	Format         Format
	Text           string
	Attachment     []byte
	AttachmentMIME string
	Pages          int
}

// Extract converts raw document bytes into an Extraction. Pure function of
// the input; no I/O side effects.
func Extract(doc Document) (Extraction, error) {
	switch normalizeMimeType(doc.MimeType, doc.FileName, doc.Data) {
	case mimePDF:
		return extractPDF(doc.Data)
	case mimeDOC, mimeDOCX:
		return extractWord(doc.Data)
	default:
		return extractText(doc.Data), nil
	}
}

// extractPDF verifies the payload is a readable PDF and passes the raw
// bytes through as an attachment. Text decoding is deliberately deferred
// to the reasoning service.
func extractPDF(data []byte) (Extraction, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: unreadable pdf: %v", ErrUnsupportedFormat, err)
	}
	return Extraction{
		Format:         FormatPDF,
		Attachment:     data,
		AttachmentMIME: mimePDF,
		Pages:          pdfReader.NumPage(),
	}, nil
}

func extractWord(data []byte) (Extraction, error) {
	if len(data) == 0 {
		return Extraction{}, fmt.Errorf("%w: empty word document", ErrUnsupportedFormat)
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: corrupt archive: %v", ErrUnsupportedFormat, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Extraction{}, fmt.Errorf("%w: document.xml not found", ErrUnsupportedFormat)
	}

	rc, err := docFile.Open()
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	return Extraction{
		Format: FormatWord,
		Text:   stripDocxXML(string(raw)),
	}, nil
}

// extractText decodes bytes as UTF-8. Invalid byte sequences are replaced
// with U+FFFD one byte at a time, never dropped, so offsets into the
// decoded text stay aligned with the source document.
func extractText(data []byte) Extraction {
	var buf strings.Builder
	buf.Grow(len(data))
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
			i++
			continue
		}
		buf.WriteRune(r)
		i += size
	}
	return Extraction{
		Format: FormatText,
		Text:   buf.String(),
	}
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != "" && clean != "application/zip" && clean != "application/octet-stream" {
		return clean
	}

	if clean == "application/zip" {
		if mapped := mapOOXMLFromZip(data); mapped != "" {
			return mapped
		}
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf":
		return mimePDF
	case ".doc":
		return mimeDOC
	case ".docx":
		return mimeDOCX
	default:
		return clean
	}
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}
