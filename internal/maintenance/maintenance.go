// Package maintenance provides offline database housekeeping tasks.
package maintenance

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/internal/config"
	"github.com/RESA9399/emberfall/internal/storage"
)

// Run checks if any maintenance flags are set and executes the
// corresponding task. Returns true if a task ran, indicating the
// program should exit instead of serving.
func Run(cfg *config.Config, repo *storage.Repository) bool {
	if cfg.Storage.PruneEvents == "" {
		return false
	}

	age, err := time.ParseDuration(cfg.Storage.PruneEvents)
	if err != nil {
		log.Error().Err(err).Str("value", cfg.Storage.PruneEvents).Msg("Invalid prune-events duration")
		return true
	}

	cutoff := time.Now().Add(-age)
	log.Info().Time("cutoff", cutoff).Msg("Pruning old analytics events...")

	count, err := repo.PruneEventsBefore(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune analytics events")
	} else {
		log.Info().Int64("deleted", count).Msg("Prune finished")
	}

	return true
}
