package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

// writeStatementPDF writes a minimal one-page PDF to dir and returns its
// path. Object offsets in the xref table are computed while writing so the
// file is byte-exact for strict readers.
func writeStatementPDF(t *testing.T, dir string) string {
	t.Helper()

	content := "BT /F1 12 Tf 72 720 Td (01/01/2023 Opening balance 1000.00) Tj ET"

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj("<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>")
	obj("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>")
	obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \r\n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \r\n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xref)

	path := filepath.Join(dir, "statement.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// encryptStatementPDF encrypts plain with the given user password, using
// RC4-128 so the page reader can open the result, and returns the new path.
func encryptStatementPDF(t *testing.T, plain, password string) string {
	t.Helper()

	out := filepath.Join(filepath.Dir(plain), "encrypted.pdf")
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	conf.EncryptUsingAES = false
	conf.EncryptKeyLength = 128
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	require.NoError(t, api.EncryptFile(plain, out, conf))
	return out
}
