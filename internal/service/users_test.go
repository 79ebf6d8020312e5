package service

import (
	"context"
	"testing"

	"fittrack/internal/model"
	"fittrack/internal/repository"
	"fittrack/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		userName      string
		setupMocks    func(repo *mocks.MockUserRepository, tokens *mocks.MockTokenIssuer)
		expectedError error
	}{
		{
			name:          "Invalid email",
			email:         "not-an-email",
			password:      "secret1",
			userName:      "Ann",
			setupMocks:    func(*mocks.MockUserRepository, *mocks.MockTokenIssuer) {},
			expectedError: ErrValidation,
		},
		{
			name:          "Short password",
			email:         "ann@example.com",
			password:      "123",
			userName:      "Ann",
			setupMocks:    func(*mocks.MockUserRepository, *mocks.MockTokenIssuer) {},
			expectedError: ErrValidation,
		},
		{
			name:          "Missing name",
			email:         "ann@example.com",
			password:      "secret1",
			userName:      " ",
			setupMocks:    func(*mocks.MockUserRepository, *mocks.MockTokenIssuer) {},
			expectedError: ErrValidation,
		},
		{
			name:     "Email taken",
			email:    "ann@example.com",
			password: "secret1",
			userName: "Ann",
			setupMocks: func(repo *mocks.MockUserRepository, _ *mocks.MockTokenIssuer) {
				repo.On("CreateUser", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			expectedError: ErrEmailTaken,
		},
		{
			name:     "Success",
			email:    "  Ann@Example.com ",
			password: "secret1",
			userName: "Ann",
			setupMocks: func(repo *mocks.MockUserRepository, tokens *mocks.MockTokenIssuer) {
				repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Email == "ann@example.com" &&
						u.Role == model.RoleUser &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*model.User).ID = 42
				}).Return(nil)
				tokens.On("Issue", int64(42), model.RoleUser).Return("token-42", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockUserRepository{}
			tokens := &mocks.MockTokenIssuer{}
			tt.setupMocks(repo, tokens)

			svc := NewUserService(repo, tokens)
			user, token, err := svc.Register(context.Background(), tt.email, tt.password, tt.userName)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(42), user.ID)
				assert.Equal(t, "token-42", token)
			}

			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &model.User{ID: 7, Email: "ann@example.com", PasswordHash: string(hash), Role: model.RoleAdmin}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(repo *mocks.MockUserRepository, tokens *mocks.MockTokenIssuer)
		expectedError error
	}{
		{
			name:     "Unknown email",
			email:    "bob@example.com",
			password: "secret1",
			setupMocks: func(repo *mocks.MockUserRepository, _ *mocks.MockTokenIssuer) {
				repo.On("GetUserByEmail", mock.Anything, "bob@example.com").Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Wrong password",
			email:    "ann@example.com",
			password: "secret2",
			setupMocks: func(repo *mocks.MockUserRepository, _ *mocks.MockTokenIssuer) {
				repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(stored, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "Store failure",
			email:    "ann@example.com",
			password: "secret1",
			setupMocks: func(repo *mocks.MockUserRepository, _ *mocks.MockTokenIssuer) {
				repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(nil, assert.AnError)
			},
			expectedError: ErrPersistence,
		},
		{
			name:     "Success",
			email:    "ANN@example.com",
			password: "secret1",
			setupMocks: func(repo *mocks.MockUserRepository, tokens *mocks.MockTokenIssuer) {
				repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(stored, nil)
				tokens.On("Issue", int64(7), model.RoleAdmin).Return("token-7", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockUserRepository{}
			tokens := &mocks.MockTokenIssuer{}
			tt.setupMocks(repo, tokens)

			svc := NewUserService(repo, tokens)
			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, stored, user)
				assert.Equal(t, "token-7", token)
			}

			repo.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestUserService_LoginTelegram(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	tokens := &mocks.MockTokenIssuer{}
	svc := NewUserService(repo, tokens)

	repo.On("GetUserByTelegramID", mock.Anything, int64(555)).Return(nil, repository.ErrNotFound)
	repo.On("GetUserByTelegramID", mock.Anything, int64(556)).Return(&model.User{ID: 3, Role: model.RoleUser}, nil)
	tokens.On("Issue", int64(3), model.RoleUser).Return("token-3", nil)

	_, _, err := svc.LoginTelegram(context.Background(), 555)
	assert.ErrorIs(t, err, ErrUserNotFound)

	user, token, err := svc.LoginTelegram(context.Background(), 556)
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "token-3", token)

	repo.AssertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ptr := func(s string) *string { return &s }
	age := func(n int) *int { return &n }
	tgID := int64(99)

	tests := []struct {
		name          string
		update        model.ProfileUpdate
		setupMocks    func(repo *mocks.MockUserRepository)
		expectedError error
	}{
		{name: "Blank name", update: model.ProfileUpdate{Name: ptr("  ")}, setupMocks: func(*mocks.MockUserRepository) {}, expectedError: ErrValidation},
		{name: "Bad age", update: model.ProfileUpdate{Age: age(0)}, setupMocks: func(*mocks.MockUserRepository) {}, expectedError: ErrValidation},
		{name: "Unknown goal", update: model.ProfileUpdate{Goal: ptr("bulk")}, setupMocks: func(*mocks.MockUserRepository) {}, expectedError: ErrValidation},
		{
			name:   "Telegram account linked elsewhere",
			update: model.ProfileUpdate{TelegramID: &tgID},
			setupMocks: func(repo *mocks.MockUserRepository) {
				repo.On("UpdateUserProfile", mock.Anything, int64(1), mock.Anything).Return(nil, repository.ErrAlreadyExists)
			},
			expectedError: ErrTelegramIDTaken,
		},
		{
			name:   "Missing user",
			update: model.ProfileUpdate{Goal: ptr("maintenance")},
			setupMocks: func(repo *mocks.MockUserRepository) {
				repo.On("UpdateUserProfile", mock.Anything, int64(1), mock.Anything).Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:   "Trims name",
			update: model.ProfileUpdate{Name: ptr(" Ann "), Goal: ptr("muscle_gain")},
			setupMocks: func(repo *mocks.MockUserRepository) {
				repo.On("UpdateUserProfile", mock.Anything, int64(1), mock.MatchedBy(func(u model.ProfileUpdate) bool {
					return *u.Name == "Ann" && *u.Goal == "muscle_gain"
				})).Return(&model.User{ID: 1, Name: "Ann", Goal: "muscle_gain"}, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockUserRepository{}
			tt.setupMocks(repo)

			svc := NewUserService(repo, &mocks.MockTokenIssuer{})
			user, err := svc.UpdateProfile(context.Background(), 1, tt.update)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Ann", user.Name)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_AddMeasurement(t *testing.T) {
	weight := 72.5
	negative := -1.0

	t.Run("Requires a value", func(t *testing.T) {
		svc := NewUserService(&mocks.MockUserRepository{}, &mocks.MockTokenIssuer{})
		err := svc.AddMeasurement(context.Background(), &model.Measurement{UserID: 1})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Rejects negative values", func(t *testing.T) {
		svc := NewUserService(&mocks.MockUserRepository{}, &mocks.MockTokenIssuer{})
		err := svc.AddMeasurement(context.Background(), &model.Measurement{UserID: 1, WaistCm: &negative})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("Defaults the date", func(t *testing.T) {
		repo := &mocks.MockUserRepository{}
		repo.On("GetUserByID", mock.Anything, int64(1)).Return(&model.User{ID: 1}, nil)
		repo.On("AddMeasurement", mock.Anything, mock.MatchedBy(func(m *model.Measurement) bool {
			return !m.Date.IsZero() && *m.WeightKg == weight
		})).Return(nil)

		svc := NewUserService(repo, &mocks.MockTokenIssuer{})
		err := svc.AddMeasurement(context.Background(), &model.Measurement{UserID: 1, WeightKg: &weight})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
