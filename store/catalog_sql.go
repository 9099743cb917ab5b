// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-dine/candidates"
	"github.com/danielhkuo/quickly-dine/models"
)

// SQLCatalog stores the restaurant catalog.
type SQLCatalog struct {
	db *sql.DB
}

func NewSQLCatalog(db *sql.DB) *SQLCatalog {
	return &SQLCatalog{db: db}
}

const restaurantColumns = `id, name, cuisine, description, image, price_range, rating,
	dietary_options, spice_level, tags, address, city, state, zip, latitude, longitude,
	source, external_id`

// Candidates scans the catalog in rating order and applies f until limit
// rows match. Set membership on JSON columns is evaluated in Go so both
// drivers share one query.
func (s *SQLCatalog) Candidates(ctx context.Context, f candidates.Filter, limit int) ([]models.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+restaurantColumns+` FROM restaurant
		ORDER BY rating DESC, name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	out := []models.Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		if !f.Matches(r) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, rows.Err()
}

func (s *SQLCatalog) FindRestaurant(ctx context.Context, id string) (models.Restaurant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+restaurantColumns+` FROM restaurant WHERE id = $1`, id)
	r, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Restaurant{}, ErrNotFound
	}
	return r, err
}

func (s *SQLCatalog) FindRestaurants(ctx context.Context, ids []string) (map[string]models.Restaurant, error) {
	out := make(map[string]models.Restaurant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+restaurantColumns+` FROM restaurant WHERE id IN (`+placeholders(1, len(ids))+`)
	`, toArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out[r.ID] = r
	}
	return out, rows.Err()
}

func (s *SQLCatalog) UpsertRestaurants(ctx context.Context, list []models.Restaurant) error {
	return withTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, r := range list {
			dietary, err := encodeList(r.DietaryOptions)
			if err != nil {
				return err
			}
			tags, err := encodeList(r.Tags)
			if err != nil {
				return err
			}
			source := r.Source
			if source == "" {
				source = models.SourceManual
			}

			_, err = tx.ExecContext(ctx, `
				INSERT INTO restaurant (`+restaurantColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
				ON CONFLICT (id) DO UPDATE SET
					name = excluded.name,
					cuisine = excluded.cuisine,
					description = excluded.description,
					image = excluded.image,
					price_range = excluded.price_range,
					rating = excluded.rating,
					dietary_options = excluded.dietary_options,
					spice_level = excluded.spice_level,
					tags = excluded.tags,
					address = excluded.address,
					city = excluded.city,
					state = excluded.state,
					zip = excluded.zip,
					latitude = excluded.latitude,
					longitude = excluded.longitude,
					source = excluded.source,
					external_id = excluded.external_id
			`, r.ID, r.Name, r.Cuisine, r.Description, r.Image, r.PriceRange, r.Rating,
				dietary, r.SpiceLevel, tags, r.Location.Address, r.Location.City, r.Location.State,
				r.Location.Zip, r.Location.Latitude, r.Location.Longitude, source, r.ExternalID)
			if err != nil {
				return fmt.Errorf("upsert restaurant %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLCatalog) CountRestaurants(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurant`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row scanner) (models.Restaurant, error) {
	var (
		r             models.Restaurant
		dietary, tags string
	)
	err := row.Scan(&r.ID, &r.Name, &r.Cuisine, &r.Description, &r.Image, &r.PriceRange, &r.Rating,
		&dietary, &r.SpiceLevel, &tags, &r.Location.Address, &r.Location.City, &r.Location.State,
		&r.Location.Zip, &r.Location.Latitude, &r.Location.Longitude, &r.Source, &r.ExternalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Restaurant{}, err
		}
		return models.Restaurant{}, fmt.Errorf("scan restaurant: %w", err)
	}
	if r.DietaryOptions, err = decodeList(dietary); err != nil {
		return models.Restaurant{}, err
	}
	if r.Tags, err = decodeList(tags); err != nil {
		return models.Restaurant{}, err
	}
	return r, nil
}
