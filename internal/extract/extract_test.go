package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPlainText(t *testing.T) {
	ext, err := Extract(Document{
		FileName: "contract.txt",
		MimeType: "text/plain; charset=utf-8",
		Data:     []byte("Employees receive 15 working days leave."),
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ext.Format != FormatText {
		t.Fatalf("expected format text, got %q", ext.Format)
	}
	if ext.Text != "Employees receive 15 working days leave." {
		t.Fatalf("unexpected text: %q", ext.Text)
	}
	if len(ext.Attachment) != 0 {
		t.Fatalf("expected no attachment for text input")
	}
}

func TestExtractReplacesInvalidUTF8(t *testing.T) {
	data := []byte{'a', 0xff, 0xfe, 'b'}
	ext, err := Extract(Document{FileName: "notes.txt", MimeType: "text/plain", Data: data})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "a��b"
	if ext.Text != want {
		t.Fatalf("expected %q, got %q", want, ext.Text)
	}
}

func TestExtractUnknownMimeFallsBackToText(t *testing.T) {
	ext, err := Extract(Document{FileName: "blob.bin", MimeType: "", Data: []byte("raw content")})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ext.Format != FormatText {
		t.Fatalf("expected format text for unknown type, got %q", ext.Format)
	}
	if ext.Text != "raw content" {
		t.Fatalf("unexpected text: %q", ext.Text)
	}
}

func TestExtractDocx(t *testing.T) {
	docXML := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>15 working days leave</w:t></w:r></w:p><w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p></w:body></w:document>`
	data := buildDocx(t, docXML)

	ext, err := Extract(Document{
		FileName: "contract.docx",
		MimeType: mimeDOCX,
		Data:     data,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ext.Format != FormatWord {
		t.Fatalf("expected format word, got %q", ext.Format)
	}
	if !strings.Contains(ext.Text, "15 working days leave") {
		t.Fatalf("expected extracted text to contain clause, got %q", ext.Text)
	}
	if !strings.Contains(ext.Text, "\n") {
		t.Fatalf("expected paragraph break in %q", ext.Text)
	}
}

func TestExtractDocxCorruptArchive(t *testing.T) {
	_, err := Extract(Document{
		FileName: "contract.docx",
		MimeType: mimeDOCX,
		Data:     []byte("not a zip archive"),
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("other.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<x/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Extract(Document{FileName: "contract.docx", MimeType: mimeDOCX, Data: buf.Bytes()})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

// buildPDF assembles a minimal single-page PDF with a correct xref table;
// offsets are computed while writing so the table stays valid.
func buildPDF(t *testing.T) []byte {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for i, obj := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)
	return buf.Bytes()
}

func TestExtractWellFormedPDF(t *testing.T) {
	data := buildPDF(t)
	ext, err := Extract(Document{
		FileName: "contract.pdf",
		MimeType: mimePDF,
		Data:     data,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ext.Format != FormatPDF {
		t.Fatalf("expected format pdf, got %q", ext.Format)
	}
	if !bytes.Equal(ext.Attachment, data) {
		t.Fatalf("attachment must carry the raw pdf bytes unmodified")
	}
	if ext.AttachmentMIME != mimePDF {
		t.Fatalf("expected attachment mime %q, got %q", mimePDF, ext.AttachmentMIME)
	}
	if ext.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", ext.Pages)
	}
	if ext.Text != "" {
		t.Fatalf("pdf extraction must not decode text locally, got %q", ext.Text)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract(Document{
		FileName: "contract.pdf",
		MimeType: mimePDF,
		Data:     []byte("definitely not a pdf"),
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	docx := buildDocx(t, `<w:document/>`)

	cases := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     string
	}{
		{"pdf with params", "application/pdf; q=1", "contract.pdf", nil, mimePDF},
		{"zip contains docx", "application/zip", "contract.bin", docx, mimeDOCX},
		{"extension fallback pdf", "", "scan.PDF", nil, mimePDF},
		{"extension fallback docx", "application/octet-stream", "contract.docx", []byte("x"), mimeDOCX},
		{"plain passthrough", "text/plain", "a.txt", nil, "text/plain"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeMimeType(tc.mime, tc.fileName, tc.data); got != tc.want {
				t.Fatalf("normalizeMimeType = %q, want %q", got, tc.want)
			}
		})
	}
}
