package config

import (
	_ "embed"
)

//go:embed defaults/bot.yaml
var defaultBotYAML []byte

// DefaultBotConfig returns the default bot configuration.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		Search: SearchConfig{
			Depth:     6,
			BeamWidth: 1000,
			ChildCap:  0,
			Workers:   0,
		},
		Potential: PotentialConfig{
			Depth:    3,
			PerPiece: 1,
			Slack:    2,
		},
		Evaluator: EvaluatorConfig{
			Name: "features",
		},
		Run: RunConfig{
			Pieces: 100,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultBotYAML
}
