// Package boards holds the registry of known board identifiers used to
// validate `--board` selections.
package boards

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/cistage/internal/foundation/errors"
	"git.home.luguber.info/inful/cistage/internal/util/sets"
)

//go:embed boards.yaml
var builtin []byte

// Board describes one known board.
type Board struct {
	Name     string `yaml:"name"`
	Platform string `yaml:"platform"`
}

// Registry maps board identifiers to their descriptions.
type Registry struct {
	Boards map[string]Board `yaml:"boards"`
}

// Builtin returns the registry compiled into the binary.
func Builtin() (*Registry, error) {
	return Parse(builtin)
}

// Load reads a registry from a YAML file. An empty path yields the builtin registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read boards file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse boards file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return reg, nil
}

// Parse decodes registry YAML.
func Parse(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode board registry: %w", err)
	}
	if len(reg.Boards) == 0 {
		return nil, fmt.Errorf("board registry is empty")
	}
	return &reg, nil
}

// Has reports whether id is a known board.
func (r *Registry) Has(id string) bool {
	_, ok := r.Boards[id]
	return ok
}

// IDs returns all known identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := sets.New[string]()
	for id := range r.Boards {
		ids.Add(id)
	}
	return sets.Sorted(ids)
}

// Validate fails naming every identifier that is not in the registry.
// An empty selection is valid.
func (r *Registry) Validate(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	known := sets.New(r.IDs()...)
	unknown := sets.Sorted(sets.New(ids...).Difference(known))
	if len(unknown) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%s. Please search for the board types using `platformio boards` command",
		strings.Join(unknown, ", "))
	return ferrors.ValidationError(msg).
		WithContext("boards", unknown).
		Build()
}
