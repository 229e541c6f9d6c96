// Package document opens bank statement PDFs and exposes them as pages of
// tables and text. It owns decryption and chunking; transaction semantics
// live in internal/domain/extract.
package document

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
)

// Horizontal gap thresholds in PDF points. Fragments closer than wordGap
// belong to the same word, fragments further apart than cellGap start a new
// table cell.
const (
	wordGap = 1.0
	cellGap = 12.0
)

// Info describes an open statement document. Title and Producer come from
// the PDF trailer and are empty when the document carries no metadata.
type Info struct {
	Path      string
	FileBytes int64
	Pages     int
	Encrypted bool
	Title     string
	Producer  string
}

// Handle is an open, readable (already decrypted) statement document.
// It satisfies extract.Source. Not safe for concurrent use; open one
// Handle per goroutine.
type Handle struct {
	path      string
	password  string
	reader    *pdf.Reader
	file      *os.File
	fileBytes int64
	encrypted bool
}

func (h *Handle) NumPages() int { return h.reader.NumPage() }

// Password returns the password that opened the document, empty for
// unencrypted documents. Chunk materialization needs it again.
func (h *Handle) Password() string { return h.password }

func (h *Handle) Info() Info {
	meta := h.reader.Trailer().Key("Info")
	return Info{
		Path:      h.path,
		FileBytes: h.fileBytes,
		Pages:     h.NumPages(),
		Encrypted: h.encrypted,
		Title:     meta.Key("Title").Text(),
		Producer:  meta.Key("Producer").Text(),
	}
}

func (h *Handle) Close() error {
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}

// PageTables reassembles the page's positioned text rows into a grid of
// cells, split on horizontal gaps. The whole page comes back as one table;
// deciding whether it is a transaction table is the extractor's job.
func (h *Handle) PageTables(page int) ([][][]string, error) {
	rows, err := h.pageRows(page)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := cellsFromRow(row)
		if len(cells) > 0 {
			table = append(table, cells)
		}
	}
	if len(table) == 0 {
		return nil, nil
	}
	return [][][]string{table}, nil
}

// PageText renders the page as plain lines, one per positioned row.
func (h *Handle) PageText(page int) (string, error) {
	rows, err := h.pageRows(page)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Join(cellsFromRow(row), " "))
	}
	return sb.String(), nil
}

func (h *Handle) pageRows(page int) (rows pdf.Rows, err error) {
	// The underlying reader panics on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page %d of %s: %v", page, h.path, r)
		}
	}()

	if page < 1 || page > h.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range for %s", page, h.path)
	}
	p := h.reader.Page(page)
	if p.V.IsNull() {
		return nil, nil
	}
	return p.GetTextByRow()
}

// cellsFromRow groups a row's text fragments into cells. Fragments are
// sorted by X, joined into words across sub-wordGap gaps, and split into a
// new cell across super-cellGap gaps.
func cellsFromRow(row *pdf.Row) []string {
	fragments := make([]pdf.Text, len(row.Content))
	copy(fragments, row.Content)
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].X < fragments[j].X
	})

	var cells []string
	var cell strings.Builder
	var prevEnd float64

	flush := func() {
		if s := strings.TrimSpace(cell.String()); s != "" {
			cells = append(cells, s)
		}
		cell.Reset()
	}

	for i, frag := range fragments {
		if frag.S == "" {
			continue
		}
		if i > 0 {
			gap := frag.X - prevEnd
			switch {
			case gap > cellGap:
				flush()
			case gap > wordGap:
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(frag.S)
		prevEnd = frag.X + frag.W
	}
	flush()

	return cells
}
