package repository

import (
	"context"
	"time"

	"fittrack/internal/model"
)

// StaticCatalog serves canned catalog records when the database is unavailable.
// It is read-only.
type StaticCatalog struct {
	workouts []model.Workout
	meals    []model.Meal
}

func NewStaticCatalog() *StaticCatalog {
	seeded := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	return &StaticCatalog{
		workouts: []model.Workout{
			{
				ID: 1, Name: "Full Body Starter", Category: "strength", Difficulty: "beginner",
				Description:     "Bodyweight circuit covering every major muscle group.",
				DurationMinutes: 30, CaloriesBurned: 220,
				Exercises: []string{"Squats", "Push-ups", "Glute bridges", "Plank"},
				CreatedAt: seeded,
			},
			{
				ID: 2, Name: "HIIT Cardio Blast", Category: "cardio", Difficulty: "intermediate",
				Description:     "Short intervals of high effort with active recovery.",
				DurationMinutes: 25, CaloriesBurned: 320,
				Exercises: []string{"Burpees", "Mountain climbers", "Jump squats", "High knees"},
				CreatedAt: seeded,
			},
			{
				ID: 3, Name: "Morning Yoga Flow", Category: "flexibility", Difficulty: "beginner",
				Description:     "Gentle flow to open hips and shoulders.",
				DurationMinutes: 20, CaloriesBurned: 90,
				Exercises: []string{"Sun salutation", "Downward dog", "Warrior II", "Child's pose"},
				CreatedAt: seeded,
			},
			{
				ID: 4, Name: "Upper Body Power", Category: "strength", Difficulty: "advanced",
				Description:     "Heavy compound lifts for chest, back and shoulders.",
				DurationMinutes: 50, CaloriesBurned: 380,
				Exercises: []string{"Bench press", "Pull-ups", "Overhead press", "Barbell rows"},
				CreatedAt: seeded,
			},
			{
				ID: 5, Name: "Steady State Run", Category: "cardio", Difficulty: "beginner",
				Description:     "Conversational pace run or brisk walk.",
				DurationMinutes: 40, CaloriesBurned: 300,
				Exercises: []string{"Warm-up walk", "Easy run", "Cool-down stretch"},
				CreatedAt: seeded,
			},
		},
		meals: []model.Meal{
			{
				ID: 1, Name: "Oats with Berries", Type: "breakfast", Category: "vegetarian",
				Description: "Rolled oats cooked in milk topped with mixed berries.",
				Calories:    350, Protein: 12, Carbs: 58, Fat: 8,
				Ingredients: []string{"Rolled oats", "Milk", "Blueberries", "Honey"},
				CreatedAt:   seeded,
			},
			{
				ID: 2, Name: "Egg White Omelette", Type: "breakfast", Category: "non-vegetarian",
				Description: "Fluffy egg whites with spinach and tomatoes.",
				Calories:    220, Protein: 24, Carbs: 6, Fat: 9,
				Ingredients: []string{"Egg whites", "Spinach", "Tomato", "Olive oil"},
				CreatedAt:   seeded,
			},
			{
				ID: 3, Name: "Grilled Chicken Salad", Type: "lunch", Category: "non-vegetarian",
				Description: "Lean chicken breast over greens with vinaigrette.",
				Calories:    420, Protein: 38, Carbs: 18, Fat: 20,
				Ingredients: []string{"Chicken breast", "Lettuce", "Cucumber", "Vinaigrette"},
				CreatedAt:   seeded,
			},
			{
				ID: 4, Name: "Chickpea Buddha Bowl", Type: "lunch", Category: "vegan",
				Description: "Roasted chickpeas, quinoa and vegetables with tahini.",
				Calories:    510, Protein: 19, Carbs: 68, Fat: 17,
				Ingredients: []string{"Chickpeas", "Quinoa", "Sweet potato", "Tahini"},
				CreatedAt:   seeded,
			},
			{
				ID: 5, Name: "Salmon with Vegetables", Type: "dinner", Category: "non-vegetarian",
				Description: "Baked salmon fillet with steamed broccoli.",
				Calories:    480, Protein: 36, Carbs: 14, Fat: 28,
				Ingredients: []string{"Salmon", "Broccoli", "Lemon", "Garlic"},
				CreatedAt:   seeded,
			},
			{
				ID: 6, Name: "Paneer Stir Fry", Type: "dinner", Category: "vegetarian",
				Description: "Cottage cheese cubes tossed with peppers.",
				Calories:    450, Protein: 26, Carbs: 20, Fat: 29,
				Ingredients: []string{"Paneer", "Bell peppers", "Onion", "Soy sauce"},
				CreatedAt:   seeded,
			},
			{
				ID: 7, Name: "Greek Yogurt Cup", Type: "snack", Category: "vegetarian",
				Description: "Plain greek yogurt with a handful of nuts.",
				Calories:    180, Protein: 15, Carbs: 10, Fat: 8,
				Ingredients: []string{"Greek yogurt", "Almonds"},
				CreatedAt:   seeded,
			},
		},
	}
}

func (s *StaticCatalog) ListWorkouts(_ context.Context, filter model.WorkoutFilter) ([]*model.Workout, error) {
	out := make([]*model.Workout, 0, len(s.workouts))
	for i := range s.workouts {
		w := s.workouts[i]
		if filter.Category != "" && w.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && w.Difficulty != filter.Difficulty {
			continue
		}
		w.Exercises = append([]string(nil), w.Exercises...)
		out = append(out, &w)
	}
	return out, nil
}

func (s *StaticCatalog) GetWorkout(_ context.Context, id int64) (*model.Workout, error) {
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			w := s.workouts[i]
			w.Exercises = append([]string(nil), w.Exercises...)
			return &w, nil
		}
	}
	return nil, ErrNotFound
}

func (s *StaticCatalog) ListMeals(_ context.Context, filter model.MealFilter) ([]*model.Meal, error) {
	out := make([]*model.Meal, 0, len(s.meals))
	for i := range s.meals {
		m := s.meals[i]
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		m.Ingredients = append([]string(nil), m.Ingredients...)
		out = append(out, &m)
	}
	return out, nil
}

func (s *StaticCatalog) GetMeal(_ context.Context, id int64) (*model.Meal, error) {
	for i := range s.meals {
		if s.meals[i].ID == id {
			m := s.meals[i]
			m.Ingredients = append([]string(nil), m.Ingredients...)
			return &m, nil
		}
	}
	return nil, ErrNotFound
}
