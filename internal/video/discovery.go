package video

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vk/mazeharness/internal/fsutil"
)

// DefaultToolsDir is the project-local folder searched for ffmpeg.
const DefaultToolsDir = "tools/ffmpeg"

// ErrEncoderNotFound is returned when no candidate is executable.
var ErrEncoderNotFound = errors.New("ffmpeg executable not found")

// DiscoveryOptions controls where the encoder is looked for.
type DiscoveryOptions struct {
	// Override is an explicit path that is always tried first.
	Override    string
	ProjectRoot string
	// ToolsDir is relative to ProjectRoot unless absolute.
	ToolsDir string
	// PathEnv is the PATH value to search. Empty means os.Getenv("PATH").
	PathEnv string
	// SystemPaths replaces the built-in list of common install locations.
	SystemPaths []string
	// GOOS overrides runtime.GOOS.
	GOOS string
}

func (o DiscoveryOptions) goos() string {
	if o.GOOS != "" {
		return o.GOOS
	}
	return runtime.GOOS
}

func (o DiscoveryOptions) binaryName() string {
	if o.goos() == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (o DiscoveryOptions) systemPaths() []string {
	if o.SystemPaths != nil {
		return o.SystemPaths
	}
	switch o.goos() {
	case "windows":
		return []string{`C:\ffmpeg\bin`, `C:\Program Files\ffmpeg\bin`}
	case "darwin":
		return []string{"/opt/homebrew/bin", "/usr/local/bin", "/usr/bin"}
	default:
		return []string{"/usr/local/bin", "/usr/bin", "/snap/bin"}
	}
}

// Candidates returns the ordered, de-duplicated list of paths to try: the
// override, the project tools folder, PATH entries, then common system paths.
func Candidates(opts DiscoveryOptions) []string {
	name := opts.binaryName()
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		if p == "" {
			return
		}
		p = filepath.Clean(p)
		if seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	add(strings.TrimSpace(opts.Override))

	tools := opts.ToolsDir
	if tools == "" {
		tools = DefaultToolsDir
	}
	if !filepath.IsAbs(tools) && opts.ProjectRoot != "" {
		tools = filepath.Join(opts.ProjectRoot, tools)
	}
	if filepath.IsAbs(tools) {
		add(filepath.Join(tools, name))
		add(filepath.Join(tools, "bin", name))
	}

	pathEnv := opts.PathEnv
	if pathEnv == "" {
		pathEnv = os.Getenv("PATH")
	}
	for _, dir := range filepath.SplitList(pathEnv) {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		add(filepath.Join(dir, name))
	}

	for _, dir := range opts.systemPaths() {
		add(filepath.Join(dir, name))
	}
	return out
}

// Resolve returns the first executable candidate.
func Resolve(opts DiscoveryOptions) (string, error) {
	for _, c := range Candidates(opts) {
		if fsutil.IsExecutable(c) {
			return c, nil
		}
	}
	return "", ErrEncoderNotFound
}
