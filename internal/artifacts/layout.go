package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// File and folder names inside an attempt folder.
const (
	RequestFileName  = "request.json"
	ResultFileName   = "result.json"
	VideoFileName    = "video.mp4"
	FramesFolderName = "frames"

	// TimestampLayout is the Go layout for yyyyMMdd-HHmmss.
	TimestampLayout = "20060102-150405"

	// DefaultArtifactsDir is the artifacts root relative to the project root.
	DefaultArtifactsDir = "artifacts"
)

// Layout is the resolved set of absolute paths for one attempt.
type Layout struct {
	ProjectRoot   string
	ArtifactsRoot string
	AttemptFolder string
	RequestPath   string
	ResultPath    string
	VideoPath     string
	FramesDir     string
}

// Service creates attempt layouts under ProjectRoot/ArtifactsDir.
type Service struct {
	ProjectRoot  string
	ArtifactsDir string
}

// NewService returns a Service rooted at projectRoot. An empty artifactsDir
// selects DefaultArtifactsDir.
func NewService(projectRoot, artifactsDir string) *Service {
	if artifactsDir == "" {
		artifactsDir = DefaultArtifactsDir
	}
	return &Service{
		ProjectRoot:  projectRoot,
		ArtifactsDir: artifactsDir,
	}
}

// CreateLayout resolves the attempt paths and creates the artifacts root and
// the attempt folder. Only file system errors make it fail.
func (s *Service) CreateLayout(name string, now time.Time, attemptID uuid.UUID) (Layout, error) {
	root := s.ProjectRoot
	if root == "" {
		root = "."
	}
	projectRoot, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve project root %q: %w", root, err)
	}

	artifactsRoot := s.ArtifactsDir
	if !filepath.IsAbs(artifactsRoot) {
		artifactsRoot = filepath.Join(projectRoot, artifactsRoot)
	}

	folder := fmt.Sprintf("%s-%s-%s", SanitizeName(name), now.UTC().Format(TimestampLayout), attemptID.String())
	attemptFolder := filepath.Join(artifactsRoot, folder)

	if err := os.MkdirAll(attemptFolder, 0o755); err != nil {
		return Layout{}, fmt.Errorf("create artifacts folder %s: %w", attemptFolder, err)
	}

	return Layout{
		ProjectRoot:   projectRoot,
		ArtifactsRoot: artifactsRoot,
		AttemptFolder: attemptFolder,
		RequestPath:   filepath.Join(attemptFolder, RequestFileName),
		ResultPath:    filepath.Join(attemptFolder, ResultFileName),
		VideoPath:     filepath.Join(attemptFolder, VideoFileName),
		FramesDir:     filepath.Join(attemptFolder, FramesFolderName),
	}, nil
}

// Relative returns path relative to the project root using forward slashes.
// Paths that cannot be made relative are returned unchanged.
func (l Layout) Relative(path string) string {
	if l.ProjectRoot == "" || path == "" {
		return ""
	}
	rel, err := filepath.Rel(l.ProjectRoot, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
