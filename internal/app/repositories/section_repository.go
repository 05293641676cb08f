package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/classtrack/classtrack/internal/app/models"
	"github.com/classtrack/classtrack/internal/pkg/apperrors"
)

// sectionRepository is the PostgreSQL implementation of SectionRepository
type sectionRepository struct {
	db Querier
}

// Create inserts a new section
func (r *sectionRepository) Create(ctx context.Context, section *models.Section) error {
	query := `
		INSERT INTO sections (name, year_level)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, section.Name, section.YearLevel).
		Scan(&section.ID, &section.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating section: %w", err)
	}

	return nil
}

// GetByID retrieves a section by ID
func (r *sectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	query := `SELECT id, name, year_level, created_at FROM sections WHERE id = $1`

	var section models.Section
	err := r.db.QueryRow(ctx, query, id).Scan(
		&section.ID,
		&section.Name,
		&section.YearLevel,
		&section.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section: %w", err)
	}

	return &section, nil
}

// GetAll retrieves all sections ordered by year level then name
func (r *sectionRepository) GetAll(ctx context.Context) ([]*models.Section, error) {
	query := `SELECT id, name, year_level, created_at FROM sections ORDER BY year_level, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		var section models.Section
		if err := rows.Scan(
			&section.ID,
			&section.Name,
			&section.YearLevel,
			&section.CreatedAt,
		); err != nil {
			return nil, err
		}
		sections = append(sections, &section)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

// Count returns the number of sections
func (r *sectionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sections`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
