// Package scenario loads and runs declarative end-to-end checks for
// the notification hub. A scenario is a YAML file listing subscribe, fire and
// dispose steps together with the deliveries each listener must observe.
//
// Example:
//
//	name: two listeners across fires
//	engine: ">= 1.80.0"
//	steps:
//	  - subscribe: A
//	  - fire: 1
//	  - subscribe: B
//	  - fire: 2
//	expect:
//	  deliveries:
//	    A: [1, 2]
//	    B: [2]
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is wrapped by every parse and validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Step actions.
const (
	ActionSubscribe  = "subscribe"
	ActionFire       = "fire"
	ActionDispose    = "dispose"
	ActionDisposeHub = "dispose_hub"
)

// Scenario is one end-to-end check.
type Scenario struct {
	Name   string `yaml:"name"`
	Engine string `yaml:"engine,omitempty"`
	Steps  []Step `yaml:"steps"`
	Expect Expect `yaml:"expect"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// Step holds exactly one action.
type Step struct {
	Subscribe string `yaml:"subscribe,omitempty"`
	// Panics makes the subscribed listener panic after recording a delivery.
	Panics     bool      `yaml:"panics,omitempty"`
	Fire       yaml.Node `yaml:"fire,omitempty"`
	Dispose    string    `yaml:"dispose,omitempty"`
	DisposeHub bool      `yaml:"dispose_hub,omitempty"`
}

// Expect lists the observations a run must produce. Listeners that are not
// mentioned are not checked.
type Expect struct {
	Deliveries map[string][]any `yaml:"deliveries,omitempty"`
	Counts     map[string]int   `yaml:"counts,omitempty"`
	Panics     *int             `yaml:"panics,omitempty"`
}

// Action returns the single action the step performs.
func (st Step) Action() (string, error) {
	var actions []string
	if st.Subscribe != "" {
		actions = append(actions, ActionSubscribe)
	}
	if st.Fire.Kind != 0 {
		actions = append(actions, ActionFire)
	}
	if st.Dispose != "" {
		actions = append(actions, ActionDispose)
	}
	if st.DisposeHub {
		actions = append(actions, ActionDisposeHub)
	}

	if len(actions) != 1 {
		return "", fmt.Errorf("step must have exactly one action, got %d", len(actions))
	}
	if st.Panics && actions[0] != ActionSubscribe {
		return "", fmt.Errorf("panics is only valid on a subscribe step")
	}
	return actions[0], nil
}

// Payload decodes the value of a fire step. A bare `fire:` or `fire: null`
// yields nil.
func (st Step) Payload() (any, error) {
	var v any
	if err := st.Fire.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding fire payload: %w", err)
	}
	return v, nil
}

// Validate checks structural rules that do not depend on the host.
func (s Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: %q has no steps", ErrInvalidScenario, s.Name)
	}
	if s.Engine != "" {
		if _, err := semver.NewConstraint(s.Engine); err != nil {
			return fmt.Errorf("%w: engine %q: %v", ErrInvalidScenario, s.Engine, err)
		}
	}

	known := make(map[string]bool)
	for i, st := range s.Steps {
		action, err := st.Action()
		if err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i+1, err)
		}
		switch action {
		case ActionSubscribe:
			known[st.Subscribe] = true
		case ActionFire:
			if _, err := st.Payload(); err != nil {
				return fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i+1, err)
			}
		case ActionDispose:
			if !known[st.Dispose] {
				return fmt.Errorf("%w: step %d: dispose of unknown listener %q", ErrInvalidScenario, i+1, st.Dispose)
			}
		}
	}

	for name := range s.Expect.Deliveries {
		if !known[name] {
			return fmt.Errorf("%w: expected deliveries for unknown listener %q", ErrInvalidScenario, name)
		}
	}
	for name, n := range s.Expect.Counts {
		if !known[name] {
			return fmt.Errorf("%w: expected count for unknown listener %q", ErrInvalidScenario, name)
		}
		if n < 0 {
			return fmt.Errorf("%w: negative count for listener %q", ErrInvalidScenario, name)
		}
	}
	return nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, fmt.Errorf("%w: empty document", ErrInvalidScenario)
		}
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// Load reads the scenario at path. The file name, without extension, is used
// when the document has no name.
func Load(path string) (Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // scenario paths come from the operator
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario %q: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
// Sub-directories are not searched.
func LoadDir(dir string) ([]Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Collect loads scenarios from a mix of file and directory paths, in order.
func Collect(paths ...string) ([]Scenario, error) {
	var out []Scenario
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", p, err)
		}
		if info.IsDir() {
			found, err := LoadDir(p)
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
			continue
		}
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
