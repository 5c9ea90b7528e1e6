package game

import (
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/neural"
)

// evolutionConfig maps the YAML evolution section onto the evolver settings.
func evolutionConfig(cfg config.EvolutionConfig) neural.EvolutionConfig {
	return neural.EvolutionConfig{
		Elites:         cfg.Elites,
		Selection:      cfg.Selection,
		TournamentSize: cfg.TournamentSize,
		CrossoverRate:  cfg.CrossoverRate,
		Mutation: neural.MutationParams{
			Rate:      cfg.MutationRate,
			Sigma:     cfg.MutationSigma,
			ResetRate: cfg.ResetRate,
			MaxWeight: cfg.MaxWeight,
		},
	}
}
