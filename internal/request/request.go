package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/mazeharness/internal/probe"
)

// ErrInvalidRequest marks any request loading or validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// RunRequest is the decoded run request.
type RunRequest struct {
	Name                 string     `json:"name"`
	Endpoint             string     `json:"socketAddress"`
	TimeLimitSeconds     float64    `json:"levelCompletionLimitSeconds"`
	StartRotationDegrees float64    `json:"startRotationDegrees"`
	Map                  [][]string `json:"map"`
}

// wireRequest accepts both the canonical keys and their aliases.
type wireRequest struct {
	Name                 string          `json:"name"`
	SocketAddress        string          `json:"socketAddress"`
	Endpoint             string          `json:"endpoint"`
	LevelLimit           *float64        `json:"levelCompletionLimitSeconds"`
	TimeLimit            *float64        `json:"timeLimitSeconds"`
	StartRotationDegrees float64         `json:"startRotationDegrees"`
	Map                  json.RawMessage `json:"map"`
}

// UnmarshalJSON decodes a request, accepting "endpoint" for "socketAddress"
// and "timeLimitSeconds" for "levelCompletionLimitSeconds". The canonical key
// wins when both are present.
func (r *RunRequest) UnmarshalJSON(data []byte) error {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := RunRequest{
		Name:                 w.Name,
		Endpoint:             w.SocketAddress,
		StartRotationDegrees: w.StartRotationDegrees,
	}
	if out.Endpoint == "" {
		out.Endpoint = w.Endpoint
	}
	switch {
	case w.LevelLimit != nil:
		out.TimeLimitSeconds = *w.LevelLimit
	case w.TimeLimit != nil:
		out.TimeLimitSeconds = *w.TimeLimit
	}

	if len(w.Map) == 0 || bytes.Equal(bytes.TrimSpace(w.Map), []byte("null")) {
		return errors.New("field 'map' is missing")
	}
	if err := json.Unmarshal(w.Map, &out.Map); err != nil {
		return fmt.Errorf("field 'map': %w", err)
	}

	*r = out
	return nil
}

// Decode parses request JSON.
func Decode(data []byte) (*RunRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: request JSON is empty", ErrInvalidRequest)
	}
	var r RunRequest
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return &r, nil
}

// Validate applies the field-level rules. It returns the first violation.
func Validate(r *RunRequest) error {
	if r == nil {
		return fmt.Errorf("%w: request is missing", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: request field 'name' is missing", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Endpoint) == "" {
		return fmt.Errorf("%w: request field 'socketAddress' is missing", ErrInvalidRequest)
	}
	if _, err := probe.ParseEndpoint(r.Endpoint); err != nil {
		return fmt.Errorf("%w: request field 'socketAddress' is invalid: %v", ErrInvalidRequest, err)
	}
	if r.TimeLimitSeconds <= 0 {
		return fmt.Errorf("%w: request field 'levelCompletionLimitSeconds' must be > 0", ErrInvalidRequest)
	}
	if len(r.Map) == 0 {
		return fmt.Errorf("%w: request field 'map' is missing or empty", ErrInvalidRequest)
	}
	return nil
}
