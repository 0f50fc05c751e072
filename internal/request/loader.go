package request

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source identifies where a request came from.
type Source string

const (
	SourceNone        Source = "none"
	SourceCommandLine Source = "command-line"
	SourceFallback    Source = "fallback"
)

// Options selects the request source.
//
// FlagCount is how many times -request appeared on the command line. A count
// other than zero or one is an error even when a path was captured.
type Options struct {
	FlagCount    int
	Path         string
	UseFallback  bool
	FallbackPath string
}

// Loaded is a successfully decoded request and its provenance.
type Loaded struct {
	Request *RunRequest
	// Path is absolute.
	Path   string
	Source Source
}

// Loader reads run requests from disk.
type Loader struct {
	// ReadFile is overridable for tests.
	ReadFile func(string) ([]byte, error)
}

// NewLoader returns a Loader reading from the OS file system.
func NewLoader() *Loader {
	return &Loader{ReadFile: os.ReadFile}
}

// Load resolves the request source and decodes it. The command-line path
// takes precedence; the fallback path is used only when the flag is absent
// and the fallback is enabled.
func (l *Loader) Load(opts Options) (*Loaded, error) {
	switch {
	case opts.FlagCount > 1:
		return nil, fmt.Errorf("%w: CLI argument '-request' must be provided once", ErrInvalidRequest)
	case opts.FlagCount == 1:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("%w: missing path value after '-request'", ErrInvalidRequest)
		}
		return l.LoadFromPath(opts.Path, SourceCommandLine)
	case opts.UseFallback:
		if strings.TrimSpace(opts.FallbackPath) == "" {
			return nil, fmt.Errorf("%w: missing request input; provide '-request <path>' or configure a fallback request path", ErrInvalidRequest)
		}
		loaded, err := l.LoadFromPath(opts.FallbackPath, SourceFallback)
		if err != nil {
			return nil, fmt.Errorf("fallback request path is invalid: %w", err)
		}
		return loaded, nil
	default:
		return nil, fmt.Errorf("%w: missing CLI argument '-request <path>'", ErrInvalidRequest)
	}
}

// LoadFromPath reads and decodes the request at path.
func (l *Loader) LoadFromPath(path string, src Source) (*Loaded, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: request path is empty", ErrInvalidRequest)
	}
	full, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve request path %q: %v", ErrInvalidRequest, path, err)
	}

	read := l.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: request file does not exist: %s", ErrInvalidRequest, full)
		}
		return nil, fmt.Errorf("%w: failed to read request file %s: %v", ErrInvalidRequest, full, err)
	}

	req, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid request JSON at %s: %w", full, err)
	}
	return &Loaded{Request: req, Path: full, Source: src}, nil
}

// Source reports which source Load will read from.
func (o Options) Source() Source {
	switch {
	case o.FlagCount > 0:
		return SourceCommandLine
	case o.UseFallback:
		return SourceFallback
	default:
		return SourceNone
	}
}
