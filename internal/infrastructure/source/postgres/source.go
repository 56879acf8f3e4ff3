// Package postgres loads the historical match log from a matches
// table, for deployments that keep the export in a database instead
// of a flat file.
package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/scudettolab/seriea-predictor/internal/domain/match"
)

const selectMatches = `
SELECT match_date, team, opponent, venue, formation, opp_formation,
       goals_for, goals_against, xg, xga
FROM matches
ORDER BY team, match_date`

type Source struct {
	db *sqlx.DB
}

func NewSource(db *sqlx.DB) *Source {
	return &Source{db: db}
}

type matchRow struct {
	MatchDate    time.Time `db:"match_date"`
	Team         string    `db:"team"`
	Opponent     string    `db:"opponent"`
	Venue        string    `db:"venue"`
	Formation    string    `db:"formation"`
	OppFormation string    `db:"opp_formation"`
	GoalsFor     int       `db:"goals_for"`
	GoalsAgainst int       `db:"goals_against"`
	XG           float64   `db:"xg"`
	XGA          float64   `db:"xga"`
}

func (s *Source) Load(ctx context.Context) ([]match.Record, error) {
	var rows []matchRow
	if err := s.db.SelectContext(ctx, &rows, selectMatches); err != nil {
		return nil, crerr.Wrapf(match.ErrMalformedSource, "select matches: %v", err)
	}
	if len(rows) == 0 {
		return nil, crerr.Wrap(match.ErrMalformedSource, "matches table is empty")
	}

	records := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		if row.GoalsFor < 0 || row.GoalsAgainst < 0 || row.XG < 0 || row.XGA < 0 {
			return nil, crerr.Wrapf(match.ErrMalformedSource,
				"negative metric for team=%s date=%s", row.Team, row.MatchDate.Format("2006-01-02"))
		}
		records = append(records, match.Record{
			Date:         row.MatchDate,
			Team:         row.Team,
			Opponent:     row.Opponent,
			Venue:        row.Venue,
			Formation:    row.Formation,
			OppFormation: row.OppFormation,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			XG:           row.XG,
			XGA:          row.XGA,
		})
	}

	return records, nil
}
