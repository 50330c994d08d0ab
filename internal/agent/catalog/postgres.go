package catalog

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

const selectMenuSQL = `
SELECT category, item_name, price, availability
FROM menu_items
ORDER BY id`

// Querier is the subset of *pgxpool.Pool used by PostgresSource.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the menu_items table.
type PostgresSource struct {
	db Querier
}

func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]Record, error) {
	rows, err := s.db.Query(ctx, selectMenuSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r     Record
			price int64
		)
		if err := rows.Scan(&r.Category, &r.ItemName, &price, &r.Availability); err != nil {
			return nil, err
		}
		r.Price = strconv.FormatInt(price, 10)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
