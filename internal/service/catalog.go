package service

import (
	"context"
	"errors"
	"strings"

	"fittrack/internal/metrics"
	"fittrack/internal/model"
	"fittrack/internal/repository"
	"fittrack/pkg/logger"

	"go.uber.org/zap"
)

// Data source selection modes.
const (
	SourceModeLive   = "live"
	SourceModeStatic = "static"
	SourceModeAuto   = "auto"
)

const planDays = 7

// planCategories orders workout categories by preference for each goal.
var planCategories = map[string][]string{
	"weight_loss": {"cardio", "strength", "flexibility"},
	"muscle_gain": {"strength", "cardio", "flexibility"},
	"maintenance": {"strength", "flexibility", "cardio"},
}

// CatalogService serves workouts and meals from the live store, or from the
// static catalog when the store is down or static mode is configured.
type CatalogService struct {
	live     CatalogRepository
	fallback CatalogReader
	mode     string
}

func NewCatalogService(live CatalogRepository, fallback CatalogReader, mode string) *CatalogService {
	switch mode {
	case SourceModeLive, SourceModeStatic:
	default:
		mode = SourceModeAuto
	}

	return &CatalogService{
		live:     live,
		fallback: fallback,
		mode:     mode,
	}
}

// Source decides where the current request reads from.
func (s *CatalogService) Source(ctx context.Context) model.DataSource {
	switch s.mode {
	case SourceModeLive:
		return model.SourceLive
	case SourceModeStatic:
		return model.SourceStaticFallback
	}

	if s.live == nil {
		return model.SourceStaticFallback
	}
	if err := s.live.Ping(ctx); err != nil {
		logger.Logger().Warn("Catalog store unavailable, serving static data", zap.Error(err))
		return model.SourceStaticFallback
	}
	return model.SourceLive
}

func (s *CatalogService) reader(ctx context.Context) (CatalogReader, model.DataSource) {
	source := s.Source(ctx)
	if source == model.SourceLive {
		return s.live, source
	}
	metrics.RecordFallbackRead()
	return s.fallback, source
}

func (s *CatalogService) writable(ctx context.Context) error {
	if s.Source(ctx) != model.SourceLive {
		return ErrStoreUnavailable
	}
	return nil
}

func (s *CatalogService) ListWorkouts(ctx context.Context, filter model.WorkoutFilter) ([]*model.Workout, model.DataSource, error) {
	reader, source := s.reader(ctx)

	workouts, err := reader.ListWorkouts(ctx, filter)
	if err != nil {
		return nil, source, persistenceError("failed to list workouts", err)
	}
	return workouts, source, nil
}

func (s *CatalogService) GetWorkout(ctx context.Context, id int64) (*model.Workout, model.DataSource, error) {
	reader, source := s.reader(ctx)

	workout, err := reader.GetWorkout(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, source, ErrWorkoutNotFound
		}
		return nil, source, persistenceError("failed to get workout", err)
	}
	return workout, source, nil
}

func (s *CatalogService) CreateWorkout(ctx context.Context, w *model.Workout) error {
	if err := validateWorkout(w); err != nil {
		return err
	}
	if err := s.writable(ctx); err != nil {
		return err
	}

	if err := s.live.CreateWorkout(ctx, w); err != nil {
		return persistenceError("failed to create workout", err)
	}
	return nil
}

func (s *CatalogService) UpdateWorkout(ctx context.Context, w *model.Workout) error {
	if err := validateWorkout(w); err != nil {
		return err
	}
	if err := s.writable(ctx); err != nil {
		return err
	}

	if err := s.live.UpdateWorkout(ctx, w); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return persistenceError("failed to update workout", err)
	}
	return nil
}

func (s *CatalogService) DeleteWorkout(ctx context.Context, id int64) error {
	if err := s.writable(ctx); err != nil {
		return err
	}

	if err := s.live.DeleteWorkout(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return persistenceError("failed to delete workout", err)
	}
	return nil
}

func (s *CatalogService) ListMeals(ctx context.Context, filter model.MealFilter) ([]*model.Meal, model.DataSource, error) {
	reader, source := s.reader(ctx)

	meals, err := reader.ListMeals(ctx, filter)
	if err != nil {
		return nil, source, persistenceError("failed to list meals", err)
	}
	return meals, source, nil
}

func (s *CatalogService) GetMeal(ctx context.Context, id int64) (*model.Meal, model.DataSource, error) {
	reader, source := s.reader(ctx)

	meal, err := reader.GetMeal(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, source, ErrMealNotFound
		}
		return nil, source, persistenceError("failed to get meal", err)
	}
	return meal, source, nil
}

func (s *CatalogService) CreateMeal(ctx context.Context, m *model.Meal) error {
	if err := validateMeal(m); err != nil {
		return err
	}
	if err := s.writable(ctx); err != nil {
		return err
	}

	if err := s.live.CreateMeal(ctx, m); err != nil {
		return persistenceError("failed to create meal", err)
	}
	return nil
}

func (s *CatalogService) UpdateMeal(ctx context.Context, m *model.Meal) error {
	if err := validateMeal(m); err != nil {
		return err
	}
	if err := s.writable(ctx); err != nil {
		return err
	}

	if err := s.live.UpdateMeal(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMealNotFound
		}
		return persistenceError("failed to update meal", err)
	}
	return nil
}

func (s *CatalogService) DeleteMeal(ctx context.Context, id int64) error {
	if err := s.writable(ctx); err != nil {
		return err
	}

	if err := s.live.DeleteMeal(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMealNotFound
		}
		return persistenceError("failed to delete meal", err)
	}
	return nil
}

// GeneratePlan builds a seven day plan for goal. Workouts rotate through the
// goal's preferred categories and each day gets one meal of every type.
func (s *CatalogService) GeneratePlan(ctx context.Context, goal string) (*model.Plan, error) {
	categories, ok := planCategories[goal]
	if !ok {
		return nil, validationError("goal must be one of weight_loss, muscle_gain, maintenance")
	}

	workouts, _, err := s.ListWorkouts(ctx, model.WorkoutFilter{})
	if err != nil {
		return nil, err
	}
	meals, _, err := s.ListMeals(ctx, model.MealFilter{})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]*model.Workout)
	for _, w := range workouts {
		byCategory[w.Category] = append(byCategory[w.Category], w)
	}
	byType := make(map[string][]model.Meal)
	var mealTypes []string
	for _, m := range meals {
		if _, seen := byType[m.Type]; !seen {
			mealTypes = append(mealTypes, m.Type)
		}
		byType[m.Type] = append(byType[m.Type], *m)
	}

	plan := &model.Plan{Goal: goal, Days: make([]model.PlanDay, planDays)}
	for i := range plan.Days {
		day := model.PlanDay{Day: i + 1}

		if pool := pickWorkouts(byCategory, categories, i); len(pool) > 0 {
			day.Workout = pool[i%len(pool)]
		} else if len(workouts) > 0 {
			day.Workout = workouts[i%len(workouts)]
		}

		for _, t := range mealTypes {
			options := byType[t]
			day.Meals = append(day.Meals, options[i%len(options)])
		}

		plan.Days[i] = day
	}

	return plan, nil
}

// pickWorkouts returns the pool for day i. The goal's first category gets
// every other day and the remaining categories share the rest.
func pickWorkouts(byCategory map[string][]*model.Workout, categories []string, i int) []*model.Workout {
	category := categories[0]
	if i%2 == 1 && len(categories) > 1 {
		category = categories[1+(i/2)%(len(categories)-1)]
	}
	return byCategory[category]
}

func validateWorkout(w *model.Workout) error {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return validationError("workout name is required")
	}
	if w.Category == "" {
		return validationError("workout category is required")
	}
	if w.DurationMinutes < 0 || w.CaloriesBurned < 0 {
		return validationError("duration and calories cannot be negative")
	}
	return nil
}

func validateMeal(m *model.Meal) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return validationError("meal name is required")
	}
	if m.Type == "" {
		return validationError("meal type is required")
	}
	if m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return validationError("nutrition values cannot be negative")
	}
	return nil
}
