package courtside

import (
	"log/slog"
	"math/rand/v2"
)

// WorldContext carries the collaborators a scene step may use. It is passed
// explicitly to every call that needs it.
type WorldContext struct {
	// Logger receives debug records for scores, despawns and blocker
	// respawns. nil discards them.
	Logger *slog.Logger
	// Rand drives random placement. nil falls back to a fixed seed so runs
	// stay reproducible.
	Rand *rand.Rand
}

func (ctx WorldContext) logger() *slog.Logger {
	if ctx.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return ctx.Logger
}

func (ctx WorldContext) rand() *rand.Rand {
	if ctx.Rand == nil {
		return rand.New(rand.NewPCG(1, 2))
	}
	return ctx.Rand
}
