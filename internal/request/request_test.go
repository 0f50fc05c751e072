package request

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJSON = `{
  "name": "Level 1",
  "socketAddress": "127.0.0.1:9000",
  "levelCompletionLimitSeconds": 30,
  "startRotationDegrees": 90,
  "map": [["S","E"],["W","F"]]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecode_CanonicalKeys(t *testing.T) {
	t.Parallel()

	got, err := Decode([]byte(validJSON))

	require.NoError(t, err)
	want := &RunRequest{
		Name:                 "Level 1",
		Endpoint:             "127.0.0.1:9000",
		TimeLimitSeconds:     30,
		StartRotationDegrees: 90,
		Map:                  [][]string{{"S", "E"}, {"W", "F"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Aliases(t *testing.T) {
	t.Parallel()

	got, err := Decode([]byte(`{"name":"a","endpoint":"h:1","timeLimitSeconds":2.5,"map":[["S","F"]]}`))

	require.NoError(t, err)
	assert.Equal(t, "h:1", got.Endpoint)
	assert.Equal(t, 2.5, got.TimeLimitSeconds)

	both, err := Decode([]byte(`{"socketAddress":"a:1","endpoint":"b:2","levelCompletionLimitSeconds":3,"timeLimitSeconds":4,"map":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "a:1", both.Endpoint)
	assert.Equal(t, 3.0, both.TimeLimitSeconds)
}

func TestDecode_StructuralFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
	}{
		{name: "empty", in: "   "},
		{name: "malformed", in: `{"name":`},
		{name: "not an object", in: `[1,2]`},
		{name: "null document", in: `null`},
		{name: "missing map", in: `{"name":"a","socketAddress":"h:1","levelCompletionLimitSeconds":1}`},
		{name: "null map", in: `{"name":"a","map":null}`},
		{name: "map wrong type", in: `{"name":"a","map":"S"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.in))
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *RunRequest {
		var r RunRequest
		require.NoError(t, json.Unmarshal([]byte(validJSON), &r))
		return &r
	}

	testCases := []struct {
		name    string
		mutate  func(r *RunRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*RunRequest) {}},
		{name: "blank name", mutate: func(r *RunRequest) { r.Name = "  " }, wantErr: "'name' is missing"},
		{name: "no endpoint", mutate: func(r *RunRequest) { r.Endpoint = "" }, wantErr: "'socketAddress' is missing"},
		{name: "bad endpoint", mutate: func(r *RunRequest) { r.Endpoint = "host:99999" }, wantErr: "'socketAddress' is invalid"},
		{name: "zero limit", mutate: func(r *RunRequest) { r.TimeLimitSeconds = 0 }, wantErr: "must be > 0"},
		{name: "empty map", mutate: func(r *RunRequest) { r.Map = [][]string{} }, wantErr: "'map' is missing or empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := base()
			tc.mutate(r)

			err := Validate(r)

			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	assert.ErrorIs(t, Validate(nil), ErrInvalidRequest)
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cliPath := writeFile(t, dir, "cli.json", validJSON)
	fallbackPath := writeFile(t, dir, "fallback.json", `{"name":"fb","socketAddress":"h:1","levelCompletionLimitSeconds":1,"map":[["S","F"]]}`)
	loader := NewLoader()

	t.Run("command line wins over fallback", func(t *testing.T) {
		loaded, err := loader.Load(Options{FlagCount: 1, Path: cliPath, UseFallback: true, FallbackPath: fallbackPath})

		require.NoError(t, err)
		assert.Equal(t, SourceCommandLine, loaded.Source)
		assert.Equal(t, cliPath, loaded.Path)
		assert.Equal(t, "Level 1", loaded.Request.Name)
	})

	t.Run("fallback when flag absent", func(t *testing.T) {
		loaded, err := loader.Load(Options{UseFallback: true, FallbackPath: fallbackPath})

		require.NoError(t, err)
		assert.Equal(t, SourceFallback, loaded.Source)
		assert.Equal(t, "fb", loaded.Request.Name)
	})

	t.Run("flag repeated", func(t *testing.T) {
		_, err := loader.Load(Options{FlagCount: 2, Path: cliPath})

		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "must be provided once")
	})

	t.Run("flag without value", func(t *testing.T) {
		_, err := loader.Load(Options{FlagCount: 1, Path: " "})

		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("no source", func(t *testing.T) {
		_, err := loader.Load(Options{})

		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "-request <path>")
	})

	t.Run("fallback enabled without path", func(t *testing.T) {
		_, err := loader.Load(Options{UseFallback: true})

		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("fallback file missing", func(t *testing.T) {
		_, err := loader.Load(Options{UseFallback: true, FallbackPath: filepath.Join(dir, "nope.json")})

		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "fallback request path is invalid")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(Options{FlagCount: 1, Path: filepath.Join(dir, "missing.json")})

		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.json", `{"name":`)

		_, err := loader.Load(Options{FlagCount: 1, Path: bad})

		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "invalid request JSON")
	})
}
