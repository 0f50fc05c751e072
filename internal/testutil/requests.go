package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ScenarioMap is the 3x3 maze used by the end-to-end scenarios.
var ScenarioMap = [][]string{
	{"S", "E", "E"},
	{"W", "E", "E"},
	{"E", "E", "F"},
}

// Request is a run request fixture. Nil Map omits the field.
type Request struct {
	Name                 string     `json:"name"`
	SocketAddress        string     `json:"socketAddress"`
	TimeLimitSeconds     float64    `json:"levelCompletionLimitSeconds"`
	StartRotationDegrees float64    `json:"startRotationDegrees"`
	Map                  [][]string `json:"map,omitempty"`
}

// ValidRequest returns a request that passes validation.
func ValidRequest(name string) Request {
	return Request{
		Name:             name,
		SocketAddress:    "127.0.0.1:9000",
		TimeLimitSeconds: 30,
		Map:              ScenarioMap,
	}
}

// WriteRequest writes req as JSON into dir and returns the file path.
func WriteRequest(t *testing.T, dir, fileName string, req Request) string {
	t.Helper()
	data, err := json.MarshalIndent(req, "", "  ")
	require.NoError(t, err)
	return WriteFile(t, dir, fileName, string(data))
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
