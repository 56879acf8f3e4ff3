// Package csv loads the historical match log from a flat CSV export.
package csv

import (
	"context"
	encsv "encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/scudettolab/seriea-predictor/internal/domain/match"
)

const dateLayout = "2006-01-02"

// requiredColumns must all be present in the header. Any other column
// (referee, attendance, possession and similar score-affecting
// metadata the trainer drops) is ignored.
var requiredColumns = []string{
	"date", "team", "opponent", "venue", "formation", "opp formation",
	"gf", "ga", "xg", "xga",
}

type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: strings.TrimSpace(path)}
}

func (s *Source) Load(ctx context.Context) ([]match.Record, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, crerr.Wrapf(match.ErrMalformedSource, "open %s: %v", s.path, err)
	}
	defer file.Close()

	reader := encsv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, crerr.Wrapf(match.ErrMalformedSource, "read header of %s: %v", s.path, err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := colIndex[name]; !ok {
			return nil, crerr.Wrapf(match.ErrMalformedSource, "%s: missing required column %q", s.path, name)
		}
	}

	var records []match.Record
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, crerr.Wrapf(match.ErrMalformedSource, "%s line %d: %v", s.path, line, err)
		}

		rec, err := parseRecord(row, colIndex)
		if err != nil {
			return nil, crerr.Wrapf(match.ErrMalformedSource, "%s line %d: %v", s.path, line, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, crerr.Wrapf(match.ErrMalformedSource, "%s: no match rows", s.path)
	}

	return records, nil
}

func parseRecord(row []string, colIndex map[string]int) (match.Record, error) {
	field := func(name string) string {
		idx := colIndex[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	date, err := time.Parse(dateLayout, field("date"))
	if err != nil {
		return match.Record{}, crerr.Newf("parse date %q: %v", field("date"), err)
	}

	gf, err := parseGoals(field("gf"))
	if err != nil {
		return match.Record{}, crerr.Newf("parse gf: %v", err)
	}
	ga, err := parseGoals(field("ga"))
	if err != nil {
		return match.Record{}, crerr.Newf("parse ga: %v", err)
	}
	xg, err := parseExpected(field("xg"))
	if err != nil {
		return match.Record{}, crerr.Newf("parse xg: %v", err)
	}
	xga, err := parseExpected(field("xga"))
	if err != nil {
		return match.Record{}, crerr.Newf("parse xga: %v", err)
	}

	team := field("team")
	opponent := field("opponent")
	if team == "" || opponent == "" {
		return match.Record{}, crerr.New("empty team or opponent")
	}

	return match.Record{
		Date:         date,
		Team:         team,
		Opponent:     opponent,
		Venue:        field("venue"),
		Formation:    field("formation"),
		OppFormation: field("opp formation"),
		GoalsFor:     gf,
		GoalsAgainst: ga,
		XG:           xg,
		XGA:          xga,
	}, nil
}

// parseGoals accepts both "2" and the "2.0" shape some exports use.
func parseGoals(raw string) (int, error) {
	if v, err := strconv.Atoi(raw); err == nil {
		if v < 0 {
			return 0, crerr.Newf("negative goal count %d", v)
		}
		return v, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	v := int(f)
	if float64(v) != f || v < 0 {
		return 0, crerr.Newf("invalid goal count %q", raw)
	}
	return v, nil
}

func parseExpected(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, crerr.Newf("negative expected goals %v", f)
	}
	return f, nil
}
