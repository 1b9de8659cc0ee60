// Package store provides the SQLite-backed repositories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sunviewgo/pkg/db"
	"sunviewgo/pkg/model"
)

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Airports ---

func (s *SQLiteStore) GetAirport(ctx context.Context, iata string) (*model.Airport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT iata, name, city, country, lat, lon, tz, created_at
		 FROM airports WHERE iata = ?`, strings.ToUpper(iata))

	a, err := scanAirport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return a, nil
}

func (s *SQLiteStore) SearchAirports(ctx context.Context, query string, limit int) ([]*model.Airport, error) {
	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + strings.ToUpper(query) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT iata, name, city, country, lat, lon, tz, created_at
		 FROM airports WHERE iata LIKE ? ORDER BY iata LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Airport
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveAirport(ctx context.Context, a *model.Airport) error {
	if a.IATA == "" {
		return fmt.Errorf("airport has no IATA code")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO airports (iata, name, city, country, lat, lon, tz)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.ToUpper(a.IATA), a.Name, a.City, a.Country, a.Lat, a.Lon, a.TZ)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAirport(row scanner) (*model.Airport, error) {
	var a model.Airport
	var createdAt sql.NullTime
	if err := row.Scan(&a.IATA, &a.Name, &a.City, &a.Country, &a.Lat, &a.Lon, &a.TZ, &createdAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}
	return &a, nil
}
