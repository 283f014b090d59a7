package textextract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor membaca teks polos dari berkas PDF / DOCX / teks biasa.
// Ekstraksi bersifat best-effort: pemanggil mencatat kegagalan dan
// melanjutkan tanpa konten.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(data []byte, contentType, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf" || strings.Contains(contentType, "pdf"):
		return extractPDF(data)
	case ext == ".docx" || strings.Contains(contentType, "officedocument.wordprocessingml"):
		return extractDOCX(data)
	case ext == ".txt" || strings.HasPrefix(contentType, "text/"):
		return normalizeText(string(data)), nil
	default:
		return "", fmt.Errorf("tipe berkas tidak didukung untuk ekstraksi: %s", ext)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("gagal membuka pdf: %w", err)
	}

	var sb strings.Builder
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// halaman bermasalah dilewati, bukan gagal total
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := normalizeText(sb.String())
	if text == "" {
		return "", fmt.Errorf("pdf tidak memuat teks yang bisa diekstrak")
	}
	return text, nil
}

// extractDOCX membaca word/document.xml dari arsip zip dan mengumpulkan
// isi elemen w:t, satu baris per paragraf.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("gagal membuka docx: %w", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("gagal membuka document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("docx tidak memuat word/document.xml")
	}
	defer docXML.Close()

	decoder := xml.NewDecoder(docXML)
	var sb strings.Builder
	var inText bool
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("gagal membaca document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	text := normalizeText(sb.String())
	if text == "" {
		return "", fmt.Errorf("docx tidak memuat teks yang bisa diekstrak")
	}
	return text, nil
}

// normalizeText meratakan whitespace menjadi spasi tunggal
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
