package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StatKind selects how a stat is rendered.
type StatKind string

const (
	StatProgress StatKind = "progress"
	StatNumber   StatKind = "number"
	StatText     StatKind = "text"
)

// DefaultProgressMax is used when a progress stat does not declare a max.
const DefaultProgressMax = 100

// ErrMalformedConfig marks a stat config that could not be decoded.
var ErrMalformedConfig = errors.New("malformed stat config")

// ConfigError reports which stat carried the malformed config.
type ConfigError struct {
	Stat int    // 1-based stat index
	Raw  string // config text as found in the response
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("stat%d config %q: %v", e.Stat, e.Raw, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StatConfig is the decoded rendering config of a stat. Max and Color are
// only meaningful for StatProgress.
type StatConfig struct {
	Kind  StatKind
	Max   float64
	Color string
}

type statConfigJSON struct {
	Type  string   `json:"type"`
	Max   *float64 `json:"max,omitempty"`
	Color string   `json:"color,omitempty"`
}

// DecodeStatConfig decodes the structured text found in a config sub-tag.
// Empty input decodes to a text stat.
func DecodeStatConfig(raw string) (StatConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatConfig{Kind: StatText}, nil
	}

	var in statConfigJSON
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return StatConfig{}, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	switch StatKind(strings.ToLower(strings.TrimSpace(in.Type))) {
	case StatProgress:
		cfg := StatConfig{Kind: StatProgress, Max: DefaultProgressMax, Color: in.Color}
		if in.Max != nil {
			if *in.Max <= 0 {
				return StatConfig{}, fmt.Errorf("%w: progress max must be positive, got %v", ErrMalformedConfig, *in.Max)
			}
			cfg.Max = *in.Max
		}
		return cfg, nil
	case StatNumber:
		return StatConfig{Kind: StatNumber}, nil
	case StatText, "":
		return StatConfig{Kind: StatText}, nil
	default:
		return StatConfig{}, fmt.Errorf("%w: unknown stat type %q", ErrMalformedConfig, in.Type)
	}
}

func (c StatConfig) MarshalJSON() ([]byte, error) {
	out := statConfigJSON{Type: string(c.Kind)}
	if out.Type == "" {
		out.Type = string(StatText)
	}
	if c.Kind == StatProgress {
		max := c.Max
		out.Max = &max
		out.Color = c.Color
	}
	return json.Marshal(out)
}

func (c *StatConfig) UnmarshalJSON(data []byte) error {
	cfg, err := DecodeStatConfig(string(data))
	if err != nil {
		return err
	}
	*c = cfg
	return nil
}
