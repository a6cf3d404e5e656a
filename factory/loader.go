package factory

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Loader reads scenario files. The filesystem is injected so tests can use
// an in-memory one.
type Loader struct {
	fs      afero.Fs
	factory *ScenarioFactory
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs, factory: NewScenarioFactory()}
}

// Load reads one scenario, choosing the decoder by extension: .yaml and
// .yml are YAML, anything else is JSON.
func (l *Loader) Load(path string) (*Scenario, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var sc *Scenario
	if isYAML(path) {
		sc, err = l.factory.ParseYAML(data)
	} else {
		sc, err = l.factory.ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.ID == "" {
		sc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// LoadDir reads every .json, .yaml and .yml file directly inside dir, in
// name order. The first bad file stops the load.
func (l *Loader) LoadDir(dir string) ([]*Scenario, error) {
	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios in %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []*Scenario
	for _, e := range entries {
		if e.IsDir() || !isScenarioFile(e.Name()) {
			continue
		}
		sc, err := l.Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// LoadAny loads path as a directory of scenarios or a single file.
func (l *Loader) LoadAny(path string) ([]*Scenario, error) {
	isDir, err := afero.IsDir(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	if isDir {
		return l.LoadDir(path)
	}
	sc, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return []*Scenario{sc}, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func isScenarioFile(name string) bool {
	return isYAML(name) || strings.EqualFold(filepath.Ext(name), ".json")
}
