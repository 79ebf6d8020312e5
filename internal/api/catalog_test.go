package api

import (
	"net/http"
	"testing"

	"fittrack/internal/model"
	"fittrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogRoutes_ListWorkouts(t *testing.T) {
	s := newTestServer(t)
	s.catalog.On("ListWorkouts", mock.Anything, model.WorkoutFilter{Category: "cardio"}).Return([]*model.Workout{
		{ID: 2, Name: "HIIT Cardio Blast", Category: "cardio", Difficulty: "intermediate"},
	}, model.SourceStaticFallback, nil)

	w := s.do(t, http.MethodGet, "/api/v1/workouts?category=cardio", nil, 0)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, string(model.SourceStaticFallback), body["source"])
	workouts := body["workouts"].([]any)
	if assert.Len(t, workouts, 1) {
		workout := workouts[0].(map[string]any)
		assert.Equal(t, "HIIT Cardio Blast", workout["name"])
		assert.Equal(t, []any{}, workout["exercises"])
	}
}

func TestCatalogRoutes_GetMeal(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		setupMock    func(*mockCatalogService)
		expectedCode int
	}{
		{
			name: "Found",
			path: "/api/v1/meals/1",
			setupMock: func(m *mockCatalogService) {
				m.On("GetMeal", mock.Anything, int64(1)).
					Return(&model.Meal{ID: 1, Name: "Oats with Berries", Type: "breakfast"}, model.SourceLive, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Missing",
			path: "/api/v1/meals/99",
			setupMock: func(m *mockCatalogService) {
				m.On("GetMeal", mock.Anything, int64(99)).Return(nil, model.SourceLive, service.ErrMealNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Bad id",
			path:         "/api/v1/meals/abc",
			setupMock:    func(m *mockCatalogService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			tt.setupMock(s.catalog)

			w := s.do(t, http.MethodGet, tt.path, nil, 0)

			assert.Equal(t, tt.expectedCode, w.Code)
			s.catalog.AssertExpectations(t)
		})
	}
}

func TestCatalogRoutes_Writes(t *testing.T) {
	workout := gin.H{"name": "Tempo Run", "category": "cardio", "durationMinutes": 35}

	t.Run("Anonymous", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/api/v1/workouts", workout, 0)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Non-admin", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/api/v1/workouts", workout, memberUserID)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Created", func(t *testing.T) {
		s := newTestServer(t)
		s.catalog.On("CreateWorkout", mock.Anything, mock.MatchedBy(func(w *model.Workout) bool {
			return w.Name == "Tempo Run" && w.DurationMinutes == 35
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Workout).ID = 11
		}).Return(nil)

		w := s.do(t, http.MethodPost, "/api/v1/workouts", workout, adminUserID)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, float64(11), decode(t, w)["id"])
	})

	t.Run("Store unavailable", func(t *testing.T) {
		s := newTestServer(t)
		s.catalog.On("UpdateMeal", mock.Anything, mock.MatchedBy(func(m *model.Meal) bool { return m.ID == 3 })).
			Return(service.ErrStoreUnavailable)

		w := s.do(t, http.MethodPut, "/api/v1/meals/3", gin.H{"name": "Salad", "type": "lunch"}, adminUserID)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("Deleted", func(t *testing.T) {
		s := newTestServer(t)
		s.catalog.On("DeleteWorkout", mock.Anything, int64(4)).Return(nil)

		w := s.do(t, http.MethodDelete, "/api/v1/workouts/4", nil, adminUserID)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestPlanRoutes_Generate(t *testing.T) {
	plan := &model.Plan{
		Goal: "muscle_gain",
		Days: []model.PlanDay{
			{Day: 1, Workout: &model.Workout{ID: 1, Name: "Full Body Starter"}, Meals: []model.Meal{{ID: 1, Type: "breakfast"}}},
			{Day: 2, Meals: []model.Meal{}},
		},
	}

	tests := []struct {
		name         string
		userID       int64
		goal         string
		setupMock    func(*mockCatalogService)
		expectedCode int
	}{
		{name: "Plain user", userID: plainUserID, goal: "muscle_gain", setupMock: func(m *mockCatalogService) {}, expectedCode: http.StatusForbidden},
		{
			name:   "Member",
			userID: memberUserID,
			goal:   "muscle_gain",
			setupMock: func(m *mockCatalogService) {
				m.On("GeneratePlan", mock.Anything, "muscle_gain").Return(plan, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Admin with bad goal",
			userID: adminUserID,
			goal:   "bulk",
			setupMock: func(m *mockCatalogService) {
				m.On("GeneratePlan", mock.Anything, "bulk").Return(nil, &service.ValidationError{Message: `unknown goal "bulk"`})
			},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			tt.setupMock(s.catalog)

			w := s.do(t, http.MethodGet, "/api/v1/plans/generate?goal="+tt.goal, nil, tt.userID)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				days := decode(t, w)["days"].([]any)
				if assert.Len(t, days, 2) {
					assert.NotNil(t, days[0].(map[string]any)["workout"])
					assert.Nil(t, days[1].(map[string]any)["workout"])
				}
			}
		})
	}
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)
	s.catalog.On("Source", mock.Anything).Return(model.SourceLive)

	w := s.do(t, http.MethodGet, "/api/v1/health", nil, 0)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "live", decode(t, w)["source"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/metrics", nil, 0)

	assert.Equal(t, http.StatusOK, w.Code)
}
