package binding

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vk/mazeharness/internal/artifacts"
)

const (
	sceneNamePrefix    = "attempt"
	maxSceneNameLength = 64
	maxSceneNamePart   = 40
)

var sceneNameUnsafe = regexp.MustCompile(`[^a-z0-9-]+`)

// SceneName builds a unique scene name of the form
// attempt-{name}-{yyyyMMddHHmmss}-{id}, truncated to 64 characters. The name
// part is the artifacts folder name narrowed to [a-z0-9-].
func SceneName(requestName string, now time.Time, id uuid.UUID) string {
	part := artifacts.SanitizeName(requestName)
	part = strings.Trim(sceneNameUnsafe.ReplaceAllString(part, "-"), "-")
	if part == "" {
		part = sceneNamePrefix
	}
	if len(part) > maxSceneNamePart {
		part = part[:maxSceneNamePart]
	}

	name := fmt.Sprintf("%s-%s-%s-%s", sceneNamePrefix, part,
		now.UTC().Format("20060102150405"), strings.ReplaceAll(id.String(), "-", ""))
	if len(name) > maxSceneNameLength {
		name = name[:maxSceneNameLength]
	}
	return name
}
