package document

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"
)

// DecryptionError reports a document that could not be opened for reading.
type DecryptionError struct {
	Path string
	Msg  string
	Err  error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decrypt %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("decrypt %s: %s", e.Path, e.Msg)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// wrappedPassword matches the password-"VALUE" convention used in
// statement delivery mails, where VALUE is the actual password.
var wrappedPassword = regexp.MustCompile(`(?i)^password-"?([^"]*)"?$`)

// Decryptor opens statement documents, trying caller-supplied and
// configured default passwords in order.
type Decryptor struct {
	passwordFile string
	logger       *slog.Logger
}

func NewDecryptor(passwordFile string, logger *slog.Logger) *Decryptor {
	return &Decryptor{passwordFile: passwordFile, logger: logger}
}

// LoadDefaultPassword reads the configured password file and returns its
// first non-empty line, unwrapped and unquoted. The second return is false
// when no file is configured, the file is unreadable, or it holds no value.
func (d *Decryptor) LoadDefaultPassword() (string, bool) {
	if d.passwordFile == "" {
		return "", false
	}

	f, err := os.Open(d.passwordFile)
	if err != nil {
		d.logger.Debug("password file not readable",
			slog.String("path", d.passwordFile),
			slog.Any("error", err))
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := wrappedPassword.FindStringSubmatch(line); m != nil {
			line = m[1]
		}
		line = strings.Trim(line, `"`)
		if line == "" {
			return "", false
		}
		return line, true
	}
	return "", false
}

// Open opens the document at path, decrypting it if needed. The caller
// password is tried first, then the configured default. Unencrypted
// documents open regardless of what passwords are available.
//
// The returned Handle owns an open file descriptor; callers must Close it.
func (d *Decryptor) Open(path, password string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecryptionError{Path: path, Msg: "open file", Err: err}
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &DecryptionError{Path: path, Msg: "stat file", Err: err}
	}

	var candidates []string
	if password != "" {
		candidates = append(candidates, password)
	}
	if def, ok := d.LoadDefaultPassword(); ok && def != password {
		candidates = append(candidates, def)
	}

	// The reader calls back for passwords until one works or it gets "".
	next := 0
	used := ""
	pw := func() string {
		if next >= len(candidates) {
			return ""
		}
		c := candidates[next]
		next++
		used = c
		return c
	}

	reader, err := pdf.NewReaderEncrypted(f, st.Size(), pw)
	if err != nil {
		f.Close()
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, &DecryptionError{
				Path: path,
				Msg:  fmt.Sprintf("no valid password among %d candidate(s)", len(candidates)),
				Err:  err,
			}
		}
		return nil, &DecryptionError{Path: path, Msg: "parse document", Err: err}
	}

	h := &Handle{
		path:      path,
		password:  used,
		reader:    reader,
		file:      f,
		fileBytes: st.Size(),
		encrypted: next > 0,
	}

	// A wrong-but-accepted password surfaces here as unreadable content.
	if err := verifyReadable(h); err != nil {
		h.Close()
		return nil, &DecryptionError{Path: path, Msg: "document unreadable after open", Err: err}
	}

	if h.encrypted {
		d.logger.Info("opened encrypted statement",
			slog.String("path", path),
			slog.Int("pages", h.NumPages()))
	}
	return h, nil
}

// IsEncrypted reports whether the document demands a password. It opens the
// file with only the empty password on offer.
func (d *Decryptor) IsEncrypted(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, &DecryptionError{Path: path, Msg: "open file", Err: err}
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return false, &DecryptionError{Path: path, Msg: "stat file", Err: err}
	}

	asked := false
	_, err = pdf.NewReaderEncrypted(f, st.Size(), func() string {
		asked = true
		return ""
	})
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return true, nil
		}
		return false, &DecryptionError{Path: path, Msg: "parse document", Err: err}
	}
	return asked, nil
}

func verifyReadable(h *Handle) error {
	if h.NumPages() < 1 {
		return errors.New("document has no pages")
	}
	_, err := h.pageRows(1)
	return err
}
