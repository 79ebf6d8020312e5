package model

import "time"

type Workout struct {
	ID              int64
	Name            string
	Description     string
	Category        string
	Difficulty      string
	DurationMinutes int
	CaloriesBurned  int
	Exercises       []string
	CreatedAt       time.Time
}

type WorkoutFilter struct {
	Category   string
	Difficulty string
}

type Meal struct {
	ID          int64
	Name        string
	Description string
	Type        string
	Category    string
	Calories    int
	Protein     float64
	Carbs       float64
	Fat         float64
	Ingredients []string
	CreatedAt   time.Time
}

type MealFilter struct {
	Type     string
	Category string
}

// DataSource names where catalog data was served from.
type DataSource string

const (
	SourceLive           DataSource = "live"
	SourceStaticFallback DataSource = "static"
)

type PlanDay struct {
	Day     int
	Workout *Workout
	Meals   []Meal
}

type Plan struct {
	Goal string
	Days []PlanDay
}
