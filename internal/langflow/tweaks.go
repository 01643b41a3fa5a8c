package langflow

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Tweaks parameterize specific flow nodes. The block is opaque to us and
// forwarded as-is on every run.
type Tweaks map[string]map[string]any

// LoadTweaks reads a tweaks block from a YAML file. A missing file is not an
// error; the flow then runs with no tweaks.
func LoadTweaks(path string) (Tweaks, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Tweaks{}, nil
		}
		return nil, fmt.Errorf("read tweaks file: %w", err)
	}
	var t Tweaks
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse tweaks file %s: %w", path, err)
	}
	if t == nil {
		t = Tweaks{}
	}
	return t, nil
}
