package level

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ledgegame/ledge/internal/core"
)

func init() {
	RegisterFormat(".yaml", ParseYAML)
	RegisterFormat(".yml", ParseYAML)
}

type yamlLevel struct {
	Name      string         `yaml:"name"`
	Spawn     *yamlVec       `yaml:"spawn,omitempty"`
	Platforms []yamlPlatform `yaml:"platforms"`
}

type yamlVec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type yamlPlatform struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	W     float64 `yaml:"w"`
	H     float64 `yaml:"h"`
	Color string  `yaml:"color,omitempty"`
}

// ParseYAML parses a YAML level file:
//
//	name: First steps
//	spawn: {x: 100, y: 0}
//	platforms:
//	  - {x: -40, y: 320, w: 600, h: 24, color: "#8a715a"}
//
// Spawn and platform colors are optional and fall back to DefaultSpawn and
// DefaultPlatformColor.
func ParseYAML(data []byte) (*Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("level: yaml unmarshal: %w", err)
	}

	lvl := &Level{
		Name:      yl.Name,
		Spawn:     DefaultSpawn,
		Platforms: make([]Platform, 0, len(yl.Platforms)),
	}
	if yl.Spawn != nil {
		lvl.Spawn = core.Vec{yl.Spawn.X, yl.Spawn.Y}
	}

	for i, p := range yl.Platforms {
		color := DefaultPlatformColor
		if p.Color != "" {
			parsed, err := core.ParseColor(p.Color)
			if err != nil {
				return nil, fmt.Errorf("level: platform %d: %w", i, err)
			}
			color = parsed
		}

		lvl.Platforms = append(lvl.Platforms, Platform{
			Rect:  core.NewRect(p.X, p.Y, p.W, p.H),
			Color: color,
		})
	}

	return lvl, nil
}
