package config

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Bspfile represents the structure of the bsp.yaml configuration file.
type Bspfile struct {
	Version      string                    `yaml:"version"`
	Output       string                    `yaml:"output"`
	Backends     map[string]BackendDTO     `yaml:"backends"`
	Targets      map[string]TargetDTO      `yaml:"targets"`
	BuildTargets map[string]BuildTargetDTO `yaml:"buildTargets"`
}

// BackendDTO represents a command backend definition in the configuration.
type BackendDTO struct {
	Kinds       []string          `yaml:"kinds"`
	Cmd         []string          `yaml:"cmd"`
	Environment map[string]string `yaml:"environment"`
}

// TargetDTO represents a concrete target definition in the configuration.
type TargetDTO struct {
	Kind         string            `yaml:"kind"`
	Sources      []string          `yaml:"sources"`
	Dependencies []string          `yaml:"dependencies"`
	Attributes   map[string]string `yaml:"attributes"`
}

// BuildTargetDTO represents a build target definition.
//
// It is written either as a plain list of target addresses or as a mapping with
// displayName and targets keys.
type BuildTargetDTO struct {
	DisplayName string   `yaml:"displayName"`
	Targets     []string `yaml:"targets"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *BuildTargetDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		return node.Decode(&b.Targets)
	case yaml.MappingNode:
		type plain BuildTargetDTO
		return node.Decode((*plain)(b))
	default:
		return zerr.With(zerr.New("build target must be a list or a mapping"), "line", node.Line)
	}
}
