package config

import "fmt"

// Preset represents a named search strength.
type Preset string

const (
	PresetFast   Preset = "fast"
	PresetNormal Preset = "normal"
	PresetDeep   Preset = "deep"
)

// Presets lists the known presets from weakest to strongest.
var Presets = []Preset{PresetFast, PresetNormal, PresetDeep}

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(s); p {
	case "", PresetFast, PresetNormal, PresetDeep:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown preset %q (want fast, normal or deep)", s)
	}
}

// ApplyPreset modifies the search and potential sections for a preset.
// PresetNormal restores the defaults; the empty preset leaves cfg alone.
func ApplyPreset(cfg *BotConfig, preset Preset) {
	def := DefaultBotConfig()
	switch preset {
	case PresetFast:
		cfg.Search.Depth = 3
		cfg.Search.BeamWidth = 100
		cfg.Search.ChildCap = 20
		cfg.Potential.Depth = 2
	case PresetNormal:
		cfg.Search.Depth = def.Search.Depth
		cfg.Search.BeamWidth = def.Search.BeamWidth
		cfg.Search.ChildCap = def.Search.ChildCap
		cfg.Potential.Depth = def.Potential.Depth
	case PresetDeep:
		cfg.Search.Depth = 10
		cfg.Search.BeamWidth = 2000
		cfg.Search.ChildCap = 100
		cfg.Potential.Depth = 4
	}
}
