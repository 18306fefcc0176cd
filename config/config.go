package config

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pkg/errors"
)

// Node kinds accepted in definitions.
const (
	KindBranch = "branch"
	KindLeaf   = "leaf"
)

// A Definition is a whole tree read from YAML.
type Definition struct {
	Root NodeDef `yaml:"root"`
}

// A NodeDef describes one node. Kind selects which fields matter: leaves
// use Value, branches use Children. Percent is the share of the parent's
// traffic this node claims; leave it unset on all children of a branch to
// have the branch split evenly.
type NodeDef struct {
	Name     string    `yaml:"name"`
	Kind     string    `yaml:"kind"`
	Value    any       `yaml:"value,omitempty"`
	Percent  *int      `yaml:"percent,omitempty"`
	Rules    []string  `yaml:"rules,omitempty"`
	Children []NodeDef `yaml:"children,omitempty"`
}

// Load reads a Definition from r.
func Load(r io.Reader) (*Definition, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading tree definition")
	}
	var def Definition
	if err := yaml.Unmarshal(b, &def); err != nil {
		return nil, errors.Wrap(err, "parsing tree definition")
	}
	return &def, nil
}

// LoadFile reads a Definition from the YAML file at path.
func LoadFile(path string) (*Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree definition %s", path)
	}
	var def Definition
	if err := yaml.Unmarshal(b, &def); err != nil {
		return nil, errors.Wrapf(err, "parsing tree definition %s", path)
	}
	return &def, nil
}
