package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/mazeharness/internal/fsutil"
)

// Debug mirror file names.
const (
	DebugRequestFileName = "last-request.json"
	DebugResultFileName  = "last-result.json"
)

// CopyRequestJSON copies the source request file into the attempt folder.
// Repeating the call overwrites the previous copy.
func CopyRequestJSON(sourcePath string, l Layout) error {
	if strings.TrimSpace(sourcePath) == "" {
		return errors.New("source request path is empty")
	}
	if l.RequestPath == "" {
		return errors.New("artifacts layout request path is empty")
	}

	src, err := filepath.Abs(sourcePath)
	if err != nil {
		return fmt.Errorf("resolve source request path: %w", err)
	}
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("source request file does not exist: %s: %w", src, err)
	}

	if err := fsutil.CopyFile(src, l.RequestPath); err != nil {
		return fmt.Errorf("copy request JSON to artifacts: %w", err)
	}
	return nil
}

// WriteResultJSON writes the result as indented JSON into the attempt folder.
func WriteResultJSON(r *Result, l Layout) error {
	if r == nil {
		return errors.New("result is nil")
	}
	if l.ResultPath == "" {
		return errors.New("artifacts layout result path is empty")
	}
	return writeJSON(l.ResultPath, r)
}

// ReadResultJSON loads a result file.
func ReadResultJSON(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result JSON: %w", err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode result JSON %s: %w", path, err)
	}
	return &r, nil
}

// DebugMirror writes last-request.json and last-result.json into a fixed
// folder so a developer iterating on one request always finds the latest pair
// in the same place.
type DebugMirror struct {
	Dir string
}

// NewDebugMirror resolves dir against projectRoot. An empty dir disables the
// mirror and returns nil.
func NewDebugMirror(projectRoot, dir string) *DebugMirror {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectRoot, dir)
	}
	return &DebugMirror{Dir: filepath.Clean(dir)}
}

// WriteRequest mirrors the decoded request. A nil mirror does nothing.
func (m *DebugMirror) WriteRequest(v any) error {
	if m == nil {
		return nil
	}
	return writeJSON(filepath.Join(m.Dir, DebugRequestFileName), v)
}

// WriteResult mirrors the result. A nil mirror does nothing.
func (m *DebugMirror) WriteResult(r *Result) error {
	if m == nil {
		return nil
	}
	return writeJSON(filepath.Join(m.Dir, DebugResultFileName), r)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := fsutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
