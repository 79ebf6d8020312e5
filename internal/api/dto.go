package api

import (
	"time"

	"fittrack/internal/model"
)

type userResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	IsMember   bool      `json:"isMember"`
	Age        *int      `json:"age,omitempty"`
	HeightCm   *float64  `json:"heightCm,omitempty"`
	WeightKg   *float64  `json:"weightKg,omitempty"`
	Goal       string    `json:"goal,omitempty"`
	TelegramID *int64    `json:"telegramId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsMember:   u.IsMember,
		Age:        u.Age,
		HeightCm:   u.HeightCm,
		WeightKg:   u.WeightKg,
		Goal:       u.Goal,
		TelegramID: u.TelegramID,
		CreatedAt:  u.CreatedAt,
	}
}

type activityEntryResponse struct {
	Date             string `json:"date"`
	WorkoutCompleted bool   `json:"workoutCompleted"`
	MealPlanFollowed bool   `json:"mealPlanFollowed"`
	Steps            int    `json:"steps"`
}

func toActivityEntries(entries []model.ActivityEntry) []activityEntryResponse {
	out := make([]activityEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = activityEntryResponse{
			Date:             e.Date.Format(time.DateOnly),
			WorkoutCompleted: e.WorkoutCompleted,
			MealPlanFollowed: e.MealPlanFollowed,
			Steps:            e.Steps,
		}
	}
	return out
}

type measurementResponse struct {
	ID       int64     `json:"id"`
	Date     time.Time `json:"date"`
	WeightKg *float64  `json:"weightKg,omitempty"`
	BodyFat  *float64  `json:"bodyFat,omitempty"`
	ChestCm  *float64  `json:"chestCm,omitempty"`
	WaistCm  *float64  `json:"waistCm,omitempty"`
}

type streaksResponse struct {
	Workout int `json:"workout"`
	Meal    int `json:"meal"`
}

type badgeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// toBadges keeps nil as nil so the record response can report "badges": null.
func toBadges(badges []model.Badge) []badgeResponse {
	if badges == nil {
		return nil
	}
	out := make([]badgeResponse, len(badges))
	for i, b := range badges {
		out[i] = badgeResponse{ID: b.ID, Name: b.Name, Description: b.Description}
	}
	return out
}

type ledgerEntryResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Coins       int       `json:"coins"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type rewardAccountResponse struct {
	UserID      int64                 `json:"userId"`
	CoinBalance int                   `json:"coinBalance"`
	ActivityLog []ledgerEntryResponse `json:"activityLog"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

func toRewardAccount(a *model.RewardAccount) rewardAccountResponse {
	out := rewardAccountResponse{
		UserID:      a.UserID,
		CoinBalance: a.CoinBalance,
		ActivityLog: make([]ledgerEntryResponse, len(a.ActivityLog)),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	for i, e := range a.ActivityLog {
		out.ActivityLog[i] = ledgerEntryResponse{
			ID:          e.ID,
			Type:        e.Type,
			Coins:       e.Coins,
			Date:        e.Date,
			Description: e.Description,
		}
	}
	return out
}

type workoutPayload struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" binding:"required"`
	Description     string    `json:"description"`
	Category        string    `json:"category" binding:"required"`
	Difficulty      string    `json:"difficulty"`
	DurationMinutes int       `json:"durationMinutes"`
	CaloriesBurned  int       `json:"caloriesBurned"`
	Exercises       []string  `json:"exercises"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (p workoutPayload) toModel() *model.Workout {
	return &model.Workout{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Difficulty:      p.Difficulty,
		DurationMinutes: p.DurationMinutes,
		CaloriesBurned:  p.CaloriesBurned,
		Exercises:       p.Exercises,
	}
}

func toWorkoutPayload(w *model.Workout) workoutPayload {
	exercises := w.Exercises
	if exercises == nil {
		exercises = []string{}
	}
	return workoutPayload{
		ID:              w.ID,
		Name:            w.Name,
		Description:     w.Description,
		Category:        w.Category,
		Difficulty:      w.Difficulty,
		DurationMinutes: w.DurationMinutes,
		CaloriesBurned:  w.CaloriesBurned,
		Exercises:       exercises,
		CreatedAt:       w.CreatedAt,
	}
}

type mealPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Type        string    `json:"type" binding:"required"`
	Category    string    `json:"category"`
	Calories    int       `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	Ingredients []string  `json:"ingredients"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p mealPayload) toModel() *model.Meal {
	return &model.Meal{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type,
		Category:    p.Category,
		Calories:    p.Calories,
		Protein:     p.Protein,
		Carbs:       p.Carbs,
		Fat:         p.Fat,
		Ingredients: p.Ingredients,
	}
}

func toMealPayload(m *model.Meal) mealPayload {
	ingredients := m.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return mealPayload{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Type:        m.Type,
		Category:    m.Category,
		Calories:    m.Calories,
		Protein:     m.Protein,
		Carbs:       m.Carbs,
		Fat:         m.Fat,
		Ingredients: ingredients,
		CreatedAt:   m.CreatedAt,
	}
}

type postResponse struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"userId"`
	AuthorName   string    `json:"authorName"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	LikedByMe    bool      `json:"likedByMe"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toPostResponse(p *model.Post) postResponse {
	return postResponse{
		ID:           p.ID.String(),
		UserID:       p.UserID,
		AuthorName:   p.AuthorName,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		LikedByMe:    p.LikedByMe,
		CreatedAt:    p.CreatedAt,
	}
}

type commentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	UserID     int64     `json:"userId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID.String(),
		PostID:     c.PostID.String(),
		UserID:     c.UserID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}
