// Package validate checks pipeline inputs before any expensive work starts.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pdfMagic is the header every readable PDF starts with.
var pdfMagic = []byte("%PDF-")

// ValidationError reports a rejected input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// FilePath checks that path names an existing regular file.
func FilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &ValidationError{Field: "path", Msg: "empty path"}
	}
	st, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: "path", Msg: fmt.Sprintf("%s: %v", path, err)}
	}
	if st.IsDir() {
		return &ValidationError{Field: "path", Msg: path + " is a directory"}
	}
	return nil
}

// FileSize checks the file at path against a byte cap.
func FileSize(path string, maxBytes int64) error {
	st, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: "path", Msg: fmt.Sprintf("%s: %v", path, err)}
	}
	if st.Size() == 0 {
		return &ValidationError{Field: "file size", Msg: path + " is empty"}
	}
	if st.Size() > maxBytes {
		return &ValidationError{
			Field: "file size",
			Msg:   fmt.Sprintf("%s is %d bytes, limit is %d", path, st.Size(), maxBytes),
		}
	}
	return nil
}

// PDFFile checks extension and magic bytes.
func PDFFile(path string) error {
	if err := FilePath(path); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &ValidationError{Field: "file type", Msg: path + " does not have a .pdf extension"}
	}

	f, err := os.Open(path)
	if err != nil {
		return &ValidationError{Field: "path", Msg: fmt.Sprintf("%s: %v", path, err)}
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := f.Read(header); err != nil || string(header) != string(pdfMagic) {
		return &ValidationError{Field: "file type", Msg: path + " is not a PDF document"}
	}
	return nil
}

// Password rejects values that cannot be a usable PDF password. Empty is
// allowed; it means "no password supplied".
func Password(password string) error {
	if password != strings.TrimSpace(password) {
		return &ValidationError{Field: "password", Msg: "leading or trailing whitespace"}
	}
	if len(password) > 256 {
		return &ValidationError{Field: "password", Msg: "longer than 256 characters"}
	}
	return nil
}

// PageRange checks an inclusive 1-based range against a page count.
func PageRange(start, end, totalPages int) error {
	if start < 1 {
		return &ValidationError{Field: "page range", Msg: fmt.Sprintf("start %d is before page 1", start)}
	}
	if end < start {
		return &ValidationError{Field: "page range", Msg: fmt.Sprintf("end %d is before start %d", end, start)}
	}
	if end > totalPages {
		return &ValidationError{
			Field: "page range",
			Msg:   fmt.Sprintf("end %d is past the last page %d", end, totalPages),
		}
	}
	return nil
}

// DirectoryPath checks that path names an existing directory, creating it
// when create is set.
func DirectoryPath(path string, create bool) error {
	if strings.TrimSpace(path) == "" {
		return &ValidationError{Field: "directory", Msg: "empty path"}
	}
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) && create {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return &ValidationError{Field: "directory", Msg: fmt.Sprintf("create %s: %v", path, err)}
			}
			return nil
		}
		return &ValidationError{Field: "directory", Msg: fmt.Sprintf("%s: %v", path, err)}
	}
	if !st.IsDir() {
		return &ValidationError{Field: "directory", Msg: path + " is not a directory"}
	}
	return nil
}
