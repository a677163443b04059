package vectorindex

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/vedarag/internal/domain/filter"
	"github.com/kailas-cloud/vedarag/internal/domain/match"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Pgvector queries a table (id TEXT, embedding vector, metadata JSONB)
// ordered by cosine distance.
type Pgvector struct {
	db    *sqlx.DB
	table string
}

// NewPgvector creates a pgvector-backed index client.
func NewPgvector(conn *sqlx.DB, table string) (*Pgvector, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid pgvector table name %q", table)
	}
	return &Pgvector{db: conn, table: table}, nil
}

type pgRow struct {
	ID       string  `db:"id"`
	Score    float64 `db:"score"`
	Metadata []byte  `db:"metadata"`
}

// Query returns up to k nearest matches satisfying f.
func (p *Pgvector) Query(ctx context.Context, vector []float32, k int, f filter.Expression) ([]match.Match, error) {
	q, args := buildPgQuery(p.table, pgvector.NewVector(vector), k, f)

	var rows []pgRow
	if err := p.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("pgvector search %s: %w", p.table, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, r := range rows {
		m, err := rowToMatch(r)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sortMatches(out)
	return out, nil
}

func buildPgQuery(table string, vec pgvector.Vector, k int, f filter.Expression) (string, []any) {
	args := []any{vec, k}
	where := ""
	for i, c := range f.Must() {
		args = append(args, c.Key(), c.Value())
		if i == 0 {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf("metadata->>$%d = $%d", len(args)-1, len(args))
	}
	q := fmt.Sprintf(
		`SELECT id, 1 - (embedding <=> $1::vector) AS score, metadata FROM %s%s ORDER BY embedding <=> $1::vector LIMIT $2`,
		table, where,
	)
	return q, args
}

func rowToMatch(r pgRow) (match.Match, error) {
	meta := map[string]any{}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &meta); err != nil {
			return match.Match{}, fmt.Errorf("decode metadata for %s: %w", r.ID, err)
		}
	}
	return match.Match{ID: r.ID, Score: r.Score, Metadata: meta}, nil
}
