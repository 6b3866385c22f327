package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/mealshare/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const mealColumns = `id, title, summary, instructions, creator, creator_email, image, slug`

// MealRepository reads and writes the meals table.
type MealRepository struct {
	db DBTX
}

func NewMealRepository(db DBTX) *MealRepository {
	return &MealRepository{db: db}
}

func scanMeal(row pgx.CollectableRow) (model.Meal, error) {
	var m model.Meal
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Summary,
		&m.Instructions,
		&m.Creator,
		&m.CreatorEmail,
		&m.Image,
		&m.Slug,
	)
	return m, err
}

// ListMeals returns every stored meal in insertion order.
func (r *MealRepository) ListMeals(ctx context.Context) ([]model.Meal, error) {
	rows, err := r.db.Query(ctx, `SELECT `+mealColumns+` FROM meals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}

	meals, err := pgx.CollectRows(rows, scanMeal)
	if err != nil {
		return nil, fmt.Errorf("failed to collect meals: %w", err)
	}

	return meals, nil
}

// GetMealBySlug returns the meal with exactly this slug, or nil when there is none.
func (r *MealRepository) GetMealBySlug(ctx context.Context, slug string) (*model.Meal, error) {
	rows, err := r.db.Query(ctx, `SELECT `+mealColumns+` FROM meals WHERE slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal by slug: %w", err)
	}

	meal, err := pgx.CollectOneRow(rows, scanMeal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to collect meal with slug %s: %w", slug, err)
	}

	return &meal, nil
}

// InsertMeal stores meal and sets its ID.
func (r *MealRepository) InsertMeal(ctx context.Context, meal *model.Meal) error {
	stmt := `
		INSERT INTO meals
			(title, summary, instructions, creator, creator_email, image, slug)
		VALUES
			($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, stmt,
		meal.Title,
		meal.Summary,
		meal.Instructions,
		meal.Creator,
		meal.CreatorEmail,
		meal.Image,
		meal.Slug,
	).Scan(&meal.ID)
	if err != nil {
		return fmt.Errorf("failed to insert meal with slug %s: %w", meal.Slug, err)
	}

	return nil
}
