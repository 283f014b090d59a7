package textextract_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"buku-saku-server/internal/textextract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PlainText(t *testing.T) {
	e := textextract.New()

	text, err := e.Extract([]byte("  baris satu\n\tbaris   dua  \n"), "text/plain", "catatan.txt")

	require.NoError(t, err)
	assert.Equal(t, "baris satu baris dua", text)
}

// Ekstensi menang atas content type generik.
func TestExtract_TxtByExtension(t *testing.T) {
	e := textextract.New()

	text, err := e.Extract([]byte("isi catatan"), "application/octet-stream", "catatan.txt")

	require.NoError(t, err)
	assert.Equal(t, "isi catatan", text)
}

func TestExtract_DOCX(t *testing.T) {
	e := textextract.New()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Prosedur pengelasan</w:t></w:r></w:p>
    <w:p><w:r><w:t>Bagian kedua</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(docXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	text, err := e.Extract(buf.Bytes(),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "prosedur.docx")

	require.NoError(t, err)
	assert.Contains(t, text, "Prosedur pengelasan")
	assert.Contains(t, text, "Bagian kedua")
}

func TestExtract_CorruptDOCX(t *testing.T) {
	e := textextract.New()

	_, err := e.Extract([]byte("bukan zip"), "", "rusak.docx")

	assert.Error(t, err)
}

func TestExtract_CorruptPDF(t *testing.T) {
	e := textextract.New()

	_, err := e.Extract([]byte("bukan pdf"), "application/pdf", "rusak.pdf")

	assert.Error(t, err)
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := textextract.New()

	_, err := e.Extract([]byte{0x50, 0x4b}, "application/zip", "arsip.zip")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tipe berkas tidak didukung")
}
