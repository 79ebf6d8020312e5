package model

import "time"

const (
	LedgerWorkout         = "workout"
	LedgerMealPlan        = "meal_plan"
	LedgerDailyActivities = "daily_activities"
	LedgerStreakBonus     = "streak_bonus"
	LedgerAchievement     = "achievement"
	LedgerSteps           = "steps"
	LedgerRedeem          = "redeem"
	LedgerPost            = "post"
	LedgerComment         = "comment"
)

type RewardAccount struct {
	UserID      int64
	CoinBalance int
	ActivityLog []LedgerEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LedgerEntry records one coin-balance change. Coins are negative for spending.
type LedgerEntry struct {
	ID          int64
	UserID      int64
	Type        string
	Coins       int
	Date        time.Time
	Description string
}

type Badge struct {
	ID          string
	Name        string
	Description string
}

type Streaks struct {
	Workout int
	Meal    int
}

// RewardSnapshot is the locked per-user state a reward mutation is computed from.
// Account is nil until the first reward-earning action.
type RewardSnapshot struct {
	UserID   int64
	Progress []ActivityEntry
	Account  *RewardAccount
}

// RewardChange is what a reward mutation writes back: an optional upsert of one
// day's ActivityEntry and ledger entries appended in order. The balance moves by
// the sum of the ledger coins.
type RewardChange struct {
	Entry  *ActivityEntry
	Ledger []LedgerEntry
}

func (c *RewardChange) Coins() int {
	total := 0
	for _, e := range c.Ledger {
		total += e.Coins
	}
	return total
}

type DailyActivityResult struct {
	Date          time.Time
	Streaks       Streaks
	RewardsEarned int
	RewardMessage *string
	Badges        []Badge
}

type StepsResult struct {
	CoinsEarned int
	TotalCoins  int
	Message     string
}

type StreakStatus struct {
	Streaks    Streaks
	LoginCount int
	Badges     []Badge
}
