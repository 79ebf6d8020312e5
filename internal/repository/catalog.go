package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type Workout struct {
	ID              int64          `db:"id"`
	Name            string         `db:"name"`
	Description     string         `db:"description"`
	Category        string         `db:"category"`
	Difficulty      string         `db:"difficulty"`
	DurationMinutes int            `db:"duration_minutes"`
	CaloriesBurned  int            `db:"calories_burned"`
	Exercises       pq.StringArray `db:"exercises"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (w *Workout) toModel() *model.Workout {
	return &model.Workout{
		ID:              w.ID,
		Name:            w.Name,
		Description:     w.Description,
		Category:        w.Category,
		Difficulty:      w.Difficulty,
		DurationMinutes: w.DurationMinutes,
		CaloriesBurned:  w.CaloriesBurned,
		Exercises:       []string(w.Exercises),
		CreatedAt:       w.CreatedAt,
	}
}

type Meal struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Type        string         `db:"type"`
	Category    string         `db:"category"`
	Calories    int            `db:"calories"`
	Protein     float64        `db:"protein"`
	Carbs       float64        `db:"carbs"`
	Fat         float64        `db:"fat"`
	Ingredients pq.StringArray `db:"ingredients"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (m *Meal) toModel() *model.Meal {
	return &model.Meal{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Type:        m.Type,
		Category:    m.Category,
		Calories:    m.Calories,
		Protein:     m.Protein,
		Carbs:       m.Carbs,
		Fat:         m.Fat,
		Ingredients: []string(m.Ingredients),
		CreatedAt:   m.CreatedAt,
	}
}

var (
	workoutColumns = []string{
		"id", "name", "description", "category", "difficulty",
		"duration_minutes", "calories_burned", "exercises", "created_at",
	}
	mealColumns = []string{
		"id", "name", "description", "type", "category",
		"calories", "protein", "carbs", "fat", "ingredients", "created_at",
	}
)

func (r *Repository) ListWorkouts(ctx context.Context, filter model.WorkoutFilter) ([]*model.Workout, error) {
	where := squirrel.Eq{}
	if filter.Category != "" {
		where["category"] = filter.Category
	}
	if filter.Difficulty != "" {
		where["difficulty"] = filter.Difficulty
	}

	query, args, err := squirrel.
		Select(workoutColumns...).
		From("workouts").
		Where(where).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []Workout
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	out := make([]*model.Workout, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}

	return out, nil
}

func (r *Repository) GetWorkout(ctx context.Context, id int64) (*model.Workout, error) {
	query, args, err := squirrel.
		Select(workoutColumns...).
		From("workouts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var w Workout
	if err := r.db.GetContext(ctx, &w, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return w.toModel(), nil
}

func (r *Repository) CreateWorkout(ctx context.Context, w *model.Workout) error {
	query, args, err := squirrel.
		Insert("workouts").
		SetMap(workoutValues(w)).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build workout insert query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&w.ID, &w.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert workout: %w", err)
	}

	return nil
}

func (r *Repository) UpdateWorkout(ctx context.Context, w *model.Workout) error {
	query, args, err := squirrel.
		Update("workouts").
		SetMap(workoutValues(w)).
		Where(squirrel.Eq{"id": w.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execAffectingOne(ctx, query, args)
}

func (r *Repository) DeleteWorkout(ctx context.Context, id int64) error {
	query, args, err := squirrel.
		Delete("workouts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execAffectingOne(ctx, query, args)
}

func workoutValues(w *model.Workout) map[string]interface{} {
	return map[string]interface{}{
		"name":             w.Name,
		"description":      w.Description,
		"category":         w.Category,
		"difficulty":       w.Difficulty,
		"duration_minutes": w.DurationMinutes,
		"calories_burned":  w.CaloriesBurned,
		"exercises":        pq.Array(nonNilStrings(w.Exercises)),
	}
}

func (r *Repository) ListMeals(ctx context.Context, filter model.MealFilter) ([]*model.Meal, error) {
	where := squirrel.Eq{}
	if filter.Type != "" {
		where["type"] = filter.Type
	}
	if filter.Category != "" {
		where["category"] = filter.Category
	}

	query, args, err := squirrel.
		Select(mealColumns...).
		From("meals").
		Where(where).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []Meal
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	out := make([]*model.Meal, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}

	return out, nil
}

func (r *Repository) GetMeal(ctx context.Context, id int64) (*model.Meal, error) {
	query, args, err := squirrel.
		Select(mealColumns...).
		From("meals").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var m Meal
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return m.toModel(), nil
}

func (r *Repository) CreateMeal(ctx context.Context, m *model.Meal) error {
	query, args, err := squirrel.
		Insert("meals").
		SetMap(mealValues(m)).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build meal insert query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	return nil
}

func (r *Repository) UpdateMeal(ctx context.Context, m *model.Meal) error {
	query, args, err := squirrel.
		Update("meals").
		SetMap(mealValues(m)).
		Where(squirrel.Eq{"id": m.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execAffectingOne(ctx, query, args)
}

func (r *Repository) DeleteMeal(ctx context.Context, id int64) error {
	query, args, err := squirrel.
		Delete("meals").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execAffectingOne(ctx, query, args)
}

func mealValues(m *model.Meal) map[string]interface{} {
	return map[string]interface{}{
		"name":        m.Name,
		"description": m.Description,
		"type":        m.Type,
		"category":    m.Category,
		"calories":    m.Calories,
		"protein":     m.Protein,
		"carbs":       m.Carbs,
		"fat":         m.Fat,
		"ingredients": pq.Array(nonNilStrings(m.Ingredients)),
	}
}

func (r *Repository) execAffectingOne(ctx context.Context, query string, args []interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// nonNilStrings keeps NOT NULL array columns from receiving NULL.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
