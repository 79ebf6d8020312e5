package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fittrack/internal/metrics"
	"fittrack/internal/model"
	"fittrack/internal/repository"
)

const (
	workoutCoins  = 5
	mealPlanCoins = 5
	coinsPerSteps = 1000

	notEnoughStepsMessage = "Not enough steps for rewards"
)

type RewardService struct {
	repo  RewardRepository
	locks *userLocks
	now   func() time.Time
}

func NewRewardService(repo RewardRepository) *RewardService {
	return &RewardService{
		repo:  repo,
		locks: newUserLocks(),
		now:   time.Now,
	}
}

// RecordDailyActivity upserts the day's entry with the supplied flags,
// recomputes streaks and credits the coins the call earned.
func (s *RewardService) RecordDailyActivity(ctx context.Context, userID int64, in DailyActivityInput) (*model.DailyActivityResult, error) {
	if in.WorkoutCompleted == nil && in.MealPlanFollowed == nil {
		return nil, validationError("at least one tracking parameter required")
	}

	now := s.now().UTC()
	day := model.CalendarDay(now)
	if in.Date != nil {
		day = model.CalendarDay(*in.Date)
	}

	var result *model.DailyActivityResult

	err := s.apply(ctx, userID, func(snap *model.RewardSnapshot) (*model.RewardChange, error) {
		entry, progress := upsertDay(snap, day)
		if in.WorkoutCompleted != nil {
			entry.WorkoutCompleted = *in.WorkoutCompleted
		}
		if in.MealPlanFollowed != nil {
			entry.MealPlanFollowed = *in.MealPlanFollowed
		}
		progress = replaceDay(progress, entry)

		streaks := computeStreaks(progress)
		workoutDone := in.WorkoutCompleted != nil && *in.WorkoutCompleted
		mealDone := in.MealPlanFollowed != nil && *in.MealPlanFollowed

		var ledger []model.LedgerEntry
		var messages []string

		switch {
		case workoutDone && mealDone:
			ledger = append(ledger, s.ledgerEntry(userID, model.LedgerDailyActivities, workoutCoins+mealPlanCoins, "Completed workout and followed meal plan", now))
		case workoutDone:
			ledger = append(ledger, s.ledgerEntry(userID, model.LedgerWorkout, workoutCoins, "Completed today's workout", now))
		case mealDone:
			ledger = append(ledger, s.ledgerEntry(userID, model.LedgerMealPlan, mealPlanCoins, "Followed meal plan", now))
		}
		if len(ledger) > 0 {
			messages = append(messages, ledger[0].Description)
		}

		if bonus, ok := streakMilestones[streaks.Workout]; ok && workoutDone {
			ledger = append(ledger, s.ledgerEntry(userID, model.LedgerStreakBonus, bonus,
				fmt.Sprintf("%d Day Workout Streak", streaks.Workout), now))
			messages = append(messages, fmt.Sprintf("- %d Day Streak achieved!", streaks.Workout))
		}
		if bonus, ok := streakMilestones[streaks.Meal]; ok && mealDone {
			ledger = append(ledger, s.ledgerEntry(userID, model.LedgerStreakBonus, bonus,
				fmt.Sprintf("%d Day Meal Plan Streak", streaks.Meal), now))
			messages = append(messages, fmt.Sprintf("- %d Day Meal Plan Streak achieved!", streaks.Meal))
		}

		var badges []model.Badge
		if streaks.Workout >= consistencyStreak && streaks.Meal >= consistencyStreak &&
			!hasAchievement(snap.Account, consistencyKingDescription) {
			ledger = append(ledger, s.ledgerEntry(userID, model.LedgerAchievement, consistencyCoins, consistencyKingDescription, now))
			messages = append(messages, "- Consistency King Badge earned!")
			badges = append(badges, consistencyKingBadge)
		}

		badges = append(reachedBadges(dayCountTiers, len(progress), true), badges...)
		if workoutDone {
			badges = append(badges, reachedBadges(workoutStreakTiers, streaks.Workout, true)...)
		}
		if mealDone {
			badges = append(badges, reachedBadges(mealStreakTiers, streaks.Meal, true)...)
		}

		change := &model.RewardChange{Entry: &entry, Ledger: ledger}

		result = &model.DailyActivityResult{
			Date:          day,
			Streaks:       streaks,
			RewardsEarned: change.Coins(),
		}
		if len(messages) > 0 {
			msg := strings.TrimPrefix(strings.Join(messages, " "), "- ")
			result.RewardMessage = &msg
		}
		if len(badges) > 0 {
			result.Badges = badges
		}

		return change, nil
	})
	if err != nil {
		return nil, mapRewardError("failed to record daily activity", err)
	}

	return result, nil
}

// RecordSteps credits one coin per full thousand steps and stores the count on
// the day's entry. Below a thousand steps nothing is written.
func (s *RewardService) RecordSteps(ctx context.Context, userID int64, date *time.Time, steps int) (*model.StepsResult, error) {
	if steps <= 0 {
		return nil, validationError("steps must be a positive integer")
	}

	coins := steps / coinsPerSteps
	if coins == 0 {
		return &model.StepsResult{Message: notEnoughStepsMessage}, nil
	}

	now := s.now().UTC()
	day := model.CalendarDay(now)
	if date != nil {
		day = model.CalendarDay(*date)
	}

	var result *model.StepsResult

	err := s.apply(ctx, userID, func(snap *model.RewardSnapshot) (*model.RewardChange, error) {
		entry, _ := upsertDay(snap, day)
		entry.Steps = steps

		balance := 0
		if snap.Account != nil {
			balance = snap.Account.CoinBalance
		}

		result = &model.StepsResult{
			CoinsEarned: coins,
			TotalCoins:  balance + coins,
			Message:     fmt.Sprintf("Earned %d coins for %d steps", coins, steps),
		}

		return &model.RewardChange{
			Entry: &entry,
			Ledger: []model.LedgerEntry{
				s.ledgerEntry(userID, model.LedgerSteps, coins, fmt.Sprintf("Walked %d steps", steps), now),
			},
		}, nil
	})
	if err != nil {
		return nil, mapRewardError("failed to record steps", err)
	}

	return result, nil
}

func (s *RewardService) GetStreaksAndBadges(ctx context.Context, userID int64) (*model.StreakStatus, error) {
	snap, err := s.repo.GetRewardSnapshot(ctx, userID)
	if err != nil {
		return nil, mapRewardError("failed to load rewards", err)
	}

	streaks := computeStreaks(snap.Progress)

	return &model.StreakStatus{
		Streaks:    streaks,
		LoginCount: len(snap.Progress),
		Badges:     earnedBadges(streaks, len(snap.Progress), snap.Account),
	}, nil
}

// SpendCoins redeems amount coins and returns the remaining balance.
func (s *RewardService) SpendCoins(ctx context.Context, userID int64, amount int, item string) (int, error) {
	if amount <= 0 {
		return 0, validationError("amount must be a positive integer")
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return 0, validationError("item is required")
	}

	var remaining int

	err := s.apply(ctx, userID, func(snap *model.RewardSnapshot) (*model.RewardChange, error) {
		if snap.Account == nil {
			return nil, ErrRewardAccountNotFound
		}
		if amount > snap.Account.CoinBalance {
			return nil, ErrInsufficientBalance
		}

		remaining = snap.Account.CoinBalance - amount

		return &model.RewardChange{
			Ledger: []model.LedgerEntry{
				s.ledgerEntry(userID, model.LedgerRedeem, -amount, "Redeemed "+item, s.now().UTC()),
			},
		}, nil
	})
	if err != nil {
		return 0, mapRewardError("failed to spend coins", err)
	}

	return remaining, nil
}

// AddManualActivity appends an arbitrary ledger entry and returns the new balance.
func (s *RewardService) AddManualActivity(ctx context.Context, userID int64, activityType string, coins int, description string) (int, error) {
	activityType = strings.TrimSpace(activityType)
	if activityType == "" {
		return 0, validationError("activity type is required")
	}
	if coins == 0 {
		return 0, validationError("coins must be a non-zero integer")
	}
	if description == "" {
		description = activityType
	}

	var balance int

	err := s.apply(ctx, userID, func(snap *model.RewardSnapshot) (*model.RewardChange, error) {
		if snap.Account != nil {
			balance = snap.Account.CoinBalance
		}
		balance += coins

		return &model.RewardChange{
			Ledger: []model.LedgerEntry{
				s.ledgerEntry(userID, activityType, coins, description, s.now().UTC()),
			},
		}, nil
	})
	if err != nil {
		return 0, mapRewardError("failed to add activity", err)
	}

	return balance, nil
}

func (s *RewardService) GetAccount(ctx context.Context, userID int64) (*model.RewardAccount, error) {
	account, err := s.repo.GetOrCreateRewardAccount(ctx, userID)
	if err != nil {
		return nil, mapRewardError("failed to get reward account", err)
	}
	return account, nil
}

func (s *RewardService) ledgerEntry(userID int64, entryType string, coins int, description string, at time.Time) model.LedgerEntry {
	return model.LedgerEntry{
		UserID:      userID,
		Type:        entryType,
		Coins:       coins,
		Date:        at,
		Description: description,
	}
}

// apply runs mutate under the user's lock and records coin metrics once the
// change is committed.
func (s *RewardService) apply(ctx context.Context, userID int64, mutate repository.RewardMutation) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	var committed []model.LedgerEntry
	err := s.repo.ApplyRewards(ctx, userID, func(snap *model.RewardSnapshot) (*model.RewardChange, error) {
		change, err := mutate(snap)
		if change != nil {
			committed = change.Ledger
		}
		return change, err
	})
	if err != nil {
		return err
	}

	for _, e := range committed {
		metrics.RecordCoins(e.Type, e.Coins)
	}

	return nil
}

// upsertDay returns a copy of the entry for day, or a fresh one, together with
// the snapshot's progress.
func upsertDay(snap *model.RewardSnapshot, day time.Time) (model.ActivityEntry, []model.ActivityEntry) {
	for _, e := range snap.Progress {
		if model.CalendarDay(e.Date).Equal(day) {
			return e, snap.Progress
		}
	}
	return model.ActivityEntry{UserID: snap.UserID, Date: day}, snap.Progress
}

func replaceDay(progress []model.ActivityEntry, entry model.ActivityEntry) []model.ActivityEntry {
	out := make([]model.ActivityEntry, 0, len(progress)+1)
	replaced := false
	for _, e := range progress {
		if model.CalendarDay(e.Date).Equal(entry.Date) {
			out = append(out, entry)
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, entry)
	}
	return out
}

func mapRewardError(op string, err error) error {
	var vErr *ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, ErrInsufficientBalance), errors.Is(err, ErrRewardAccountNotFound), errors.As(err, &vErr):
		return err
	default:
		return persistenceError(op, err)
	}
}
