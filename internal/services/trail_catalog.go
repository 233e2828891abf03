package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/validation"
	"github.com/szlakly/trailrec/pkg/models"
)

// CatalogStore is the database surface the catalog needs. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type CatalogStore interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// TrailCatalogService reads the static trail catalog. Catalog records are
// immutable during a recommendation run; derived annotations are never
// written back.
type TrailCatalogService struct {
	db       CatalogStore
	schema   *validation.TrailSchemaValidator
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewTrailCatalogService(db CatalogStore, logger *logrus.Logger) *TrailCatalogService {
	return &TrailCatalogService{
		db:       db,
		schema:   validation.NewTrailSchemaValidator(),
		validate: validator.New(),
		logger:   logger,
	}
}

// GetTrailsForCity returns every catalog trail for a city in catalog order.
// An empty result is not an error.
func (s *TrailCatalogService) GetTrailsForCity(ctx context.Context, city string) ([]models.Trail, error) {
	query := `
		SELECT id, name, city, region, length_km, difficulty, terrain_type, category, description
		FROM trails
		WHERE LOWER(city) = LOWER($1)
		ORDER BY id`

	rows, err := s.db.Query(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("failed to query trails for city %s: %w", city, err)
	}
	defer rows.Close()

	var trails []models.Trail
	for rows.Next() {
		var t models.Trail
		if err := rows.Scan(
			&t.ID, &t.Name, &t.City, &t.Region, &t.LengthKm,
			&t.Difficulty, &t.TerrainType, &t.Category, &t.Description,
		); err != nil {
			// One malformed row must not drop the rest of the catalog.
			s.logger.WithError(err).WithField("city", city).Warn("Skipping malformed trail row")
			continue
		}
		t.TerrainType = models.NormalizeTerrain(t.TerrainType)
		if t.Category == "" {
			t.Category = models.DeriveCategory(t.LengthKm, t.Difficulty)
		}
		if err := s.validate.Struct(&t); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"city":  city,
				"trail": t.Name,
			}).Warn("Skipping invalid trail row")
			continue
		}
		trails = append(trails, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trail rows: %w", err)
	}

	return trails, nil
}

// seedFile mirrors the JSON layout of a catalog seed export.
type seedFile struct {
	Trails []seedTrail `json:"trails"`
}

type seedTrail struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	LengthKm    float64 `json:"length_km"`
	Difficulty  int     `json:"difficulty"`
	TerrainType string  `json:"terrain_type"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
}

// LoadFromFile seeds the catalog table from a JSON export. The file is
// validated against the trail schema before any row is written; a file
// that fails validation leaves the catalog untouched.
func (s *TrailCatalogService) LoadFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog seed file: %w", err)
	}

	if err := s.schema.ValidateCatalog(data); err != nil {
		return 0, fmt.Errorf("catalog seed file failed schema validation: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("failed to decode catalog seed file: %w", err)
	}

	inserted := 0
	for _, st := range seed.Trails {
		category := st.Category
		if category == "" {
			category = models.DeriveCategory(st.LengthKm, st.Difficulty)
		}

		_, err := s.db.Exec(ctx, `
			INSERT INTO trails (id, name, city, region, length_km, difficulty, terrain_type, category, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (city, name) DO NOTHING`,
			uuid.New(), st.Name, st.City, st.Region, st.LengthKm,
			st.Difficulty, models.NormalizeTerrain(st.TerrainType), category, st.Description,
		)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"trail": st.Name,
				"city":  st.City,
			}).Warn("Failed to insert seed trail, continuing")
			continue
		}
		inserted++
	}

	s.logger.WithFields(logrus.Fields{
		"file":     path,
		"inserted": inserted,
		"total":    len(seed.Trails),
	}).Info("Trail catalog seeded")

	return inserted, nil
}
