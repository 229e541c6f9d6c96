package health

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Check is one named readiness probe result.
type Check struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Checker verifies the process can actually do its work: temp space and
// report output must be writable, and the password file, when configured,
// must be readable.
type Checker struct {
	tempDir      string
	reportDir    string
	passwordFile string
}

func NewChecker(tempDir, reportDir, passwordFile string) *Checker {
	return &Checker{tempDir: tempDir, reportDir: reportDir, passwordFile: passwordFile}
}

// Run executes all probes. The second return is false when any probe fails.
func (c *Checker) Run() ([]Check, bool) {
	checks := []Check{
		probeWritable("temp_dir", c.tempDir),
		probeWritable("report_dir", c.reportDir),
	}
	if c.passwordFile != "" {
		checks = append(checks, probeReadable("password_file", c.passwordFile))
	}

	healthy := true
	for _, ch := range checks {
		if !ch.OK {
			healthy = false
		}
	}
	return checks, healthy
}

func probeWritable(name, dir string) Check {
	probe := filepath.Join(dir, ".probe_"+uuid.NewString())
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return Check{Name: name, Error: fmt.Sprintf("not writable: %v", err)}
	}
	os.Remove(probe)
	return Check{Name: name, OK: true}
}

func probeReadable(name, path string) Check {
	f, err := os.Open(path)
	if err != nil {
		return Check{Name: name, Error: fmt.Sprintf("not readable: %v", err)}
	}
	f.Close()
	return Check{Name: name, OK: true}
}
