package service

import (
	"sort"
	"strings"

	"fittrack/internal/model"
)

const (
	consistencyKingDescription = "Consistency King Badge"
	consistencyStreak          = 7
	consistencyCoins           = 50
)

type badgeTier struct {
	threshold int
	badge     model.Badge
}

var (
	dayCountTiers = []badgeTier{
		{1, model.Badge{ID: "day1", Name: "First Step", Description: "Tracked your first day"}},
		{5, model.Badge{ID: "day5", Name: "Getting Started", Description: "Tracked 5 days"}},
		{10, model.Badge{ID: "day10", Name: "Dedicated", Description: "Tracked 10 days"}},
		{30, model.Badge{ID: "day30", Name: "Habit Formed", Description: "Tracked 30 days"}},
	}

	workoutStreakTiers = []badgeTier{
		{3, model.Badge{ID: "streak3", Name: "3-Day Streak", Description: "Completed workouts 3 days in a row"}},
		{7, model.Badge{ID: "streak7", Name: "Week Warrior", Description: "Completed workouts 7 days in a row"}},
		{30, model.Badge{ID: "streak30", Name: "Monthly Master", Description: "Completed workouts 30 days in a row"}},
	}

	mealStreakTiers = []badgeTier{
		{3, model.Badge{ID: "meal_streak3", Name: "Clean Eater", Description: "Followed the meal plan 3 days in a row"}},
		{7, model.Badge{ID: "meal_streak7", Name: "Meal Plan Pro", Description: "Followed the meal plan 7 days in a row"}},
		{30, model.Badge{ID: "meal_streak30", Name: "Nutrition Master", Description: "Followed the meal plan 30 days in a row"}},
	}

	consistencyKingBadge = model.Badge{
		ID:          "consistency_king",
		Name:        "Consistency King",
		Description: "Held 7-day workout and meal plan streaks at the same time",
	}

	// Only ever detected from achievement ledger entries; nothing awards them yet.
	loggedAchievementBadges = []model.Badge{
		{ID: "comeback_kid", Name: "Comeback Kid", Description: "Came back after a break"},
		{ID: "early_bird", Name: "Early Bird", Description: "Tracked activity early in the morning"},
	}
)

// streakMilestones maps an exact streak length to its one-time coin bonus.
var streakMilestones = map[int]int{
	3:  10,
	7:  25,
	30: 100,
}

// computeStreaks walks the entries from the most recent day backwards and
// counts consecutive days for each flag, stopping at the first miss.
func computeStreaks(progress []model.ActivityEntry) model.Streaks {
	sorted := make([]model.ActivityEntry, len(progress))
	copy(sorted, progress)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	return model.Streaks{
		Workout: countStreak(sorted, func(e model.ActivityEntry) bool { return e.WorkoutCompleted }),
		Meal:    countStreak(sorted, func(e model.ActivityEntry) bool { return e.MealPlanFollowed }),
	}
}

func countStreak(sorted []model.ActivityEntry, done func(model.ActivityEntry) bool) int {
	n := 0
	for _, e := range sorted {
		if !done(e) {
			break
		}
		n++
	}
	return n
}

// reachedBadges returns the tier badges for value. With exact set only a tier
// whose threshold equals value qualifies, otherwise every tier at or below it.
func reachedBadges(tiers []badgeTier, value int, exact bool) []model.Badge {
	var out []model.Badge
	for _, t := range tiers {
		if (exact && value == t.threshold) || (!exact && value >= t.threshold) {
			out = append(out, t.badge)
		}
	}
	return out
}

func hasAchievement(account *model.RewardAccount, description string) bool {
	if account == nil {
		return false
	}
	for _, e := range account.ActivityLog {
		if e.Type == model.LedgerAchievement && e.Description == description {
			return true
		}
	}
	return false
}

func hasAchievementContaining(account *model.RewardAccount, substr string) bool {
	if account == nil {
		return false
	}
	for _, e := range account.ActivityLog {
		if e.Type == model.LedgerAchievement && strings.Contains(e.Description, substr) {
			return true
		}
	}
	return false
}

// earnedBadges is the cumulative badge set shown when a user views their progress.
func earnedBadges(streaks model.Streaks, trackedDays int, account *model.RewardAccount) []model.Badge {
	badges := make([]model.Badge, 0)
	badges = append(badges, reachedBadges(dayCountTiers, trackedDays, false)...)
	badges = append(badges, reachedBadges(workoutStreakTiers, streaks.Workout, false)...)
	badges = append(badges, reachedBadges(mealStreakTiers, streaks.Meal, false)...)

	if hasAchievement(account, consistencyKingDescription) {
		badges = append(badges, consistencyKingBadge)
	}
	for _, b := range loggedAchievementBadges {
		if hasAchievementContaining(account, b.Name) {
			badges = append(badges, b)
		}
	}

	return badges
}
