package match

import (
	"context"
	"errors"
)

// ErrMalformedSource marks a historical source that could not be
// loaded or parsed. It is fatal: the service refuses to start on it.
var ErrMalformedSource = errors.New("malformed match history source")

// Source loads the raw historical match log, once, at startup.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}

// History exposes read operations over the derived, immutable match
// table. Implementations must be safe for concurrent readers.
type History interface {
	// Rows returns every derived row.
	Rows(ctx context.Context) ([]Row, error)
	// LatestByTeam returns the team's chronologically latest row.
	LatestByTeam(ctx context.Context, team string) (Row, bool, error)
	// LatestByMatchup returns the latest row where both team and
	// opponent match, from the team's perspective.
	LatestByMatchup(ctx context.Context, team, opponent string) (Row, bool, error)
	// ListByTeamDesc returns up to limit rows for the team, most
	// recent first.
	ListByTeamDesc(ctx context.Context, team string, limit int) ([]Row, error)
	// ListHeadToHeadDesc returns up to limit rows between the two
	// teams in either orientation, most recent first.
	ListHeadToHeadDesc(ctx context.Context, team, opponent string, limit int) ([]Row, error)
	// Teams returns the distinct team names, lexicographically sorted.
	Teams(ctx context.Context) ([]string, error)
	// Formations returns the distinct formation labels seen on either
	// side, lexicographically sorted.
	Formations(ctx context.Context) ([]string, error)
	// Defaults returns the dataset-wide mean form values.
	Defaults(ctx context.Context) (DefaultForms, error)
}
