package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yml
var builtinPresets []byte

// Preset sizes a seeded social mesh.
type Preset struct {
	Name           string `yaml:"-"`
	Users          int    `yaml:"users"`
	PostsPerUser   int    `yaml:"posts_per_user"`
	FollowsPerUser int    `yaml:"follows_per_user"`
	LikesPerUser   int    `yaml:"likes_per_user"`
	Password       string `yaml:"password"`
}

type presetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Validate rejects presets that cannot produce a mesh.
func (p Preset) Validate() error {
	if p.Users <= 0 {
		return fmt.Errorf("preset %q: users must be positive", p.Name)
	}
	if p.PostsPerUser < 0 || p.FollowsPerUser < 0 || p.LikesPerUser < 0 {
		return fmt.Errorf("preset %q: per-user counts must not be negative", p.Name)
	}
	return nil
}

// LoadPresets parses a presets document.
func LoadPresets(r io.Reader) (map[string]Preset, error) {
	var file presetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	presets := make(map[string]Preset, len(file.Presets))
	for name, p := range file.Presets {
		p.Name = name
		if p.Password == "" {
			p.Password = DefaultPassword
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		presets[name] = p
	}
	return presets, nil
}

// BuiltinPresets returns the presets compiled into the binary.
func BuiltinPresets() (map[string]Preset, error) {
	return LoadPresets(bytes.NewReader(builtinPresets))
}

// LookupPreset finds a builtin preset by name.
func LookupPreset(name string) (Preset, error) {
	presets, err := BuiltinPresets()
	if err != nil {
		return Preset{}, err
	}
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %v)", name, presetNames(presets))
	}
	return p, nil
}

func presetNames(presets map[string]Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
