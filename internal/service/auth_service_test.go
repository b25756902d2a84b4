package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockPendingRepository is a mock implementation of PendingRepository.
type MockPendingRepository struct {
	mock.Mock
}

func (m *MockPendingRepository) Upsert(ctx context.Context, pending *model.PendingRegistration) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingRepository) FindByEmail(ctx context.Context, email string) (*model.PendingRegistration, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingRegistration), args.Error(1)
}

func (m *MockPendingRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockSender records outbound mail so tests can read the delivered code.
type MockSender struct {
	mock.Mock
	LastTo      string
	LastSubject string
	LastBody    string
}

func (m *MockSender) Send(ctx context.Context, to, subject, body string) error {
	m.LastTo = to
	m.LastSubject = subject
	m.LastBody = body
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func newTestAuthService(userRepo *MockUserRepository, pendingRepo *MockPendingRepository, tokenStore *MockTokenStore, mailer *MockSender) AuthService {
	return NewAuthService(userRepo, pendingRepo, auth.NewJWTService("test-secret"), tokenStore, mailer)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository, *MockPendingRepository, *MockSender)
		expectedError error
	}{
		{
			name:  "successful registration parks a pending row",
			email: "new@example.com",
			setupMock: func(u *MockUserRepository, p *MockPendingRepository, s *MockSender) {
				u.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				s.On("Send", mock.Anything, "new@example.com", "Email Verification - OTP", mock.Anything).Return(nil)
				p.On("Upsert", mock.Anything, mock.MatchedBy(func(pending *model.PendingRegistration) bool {
					return pending.Email == "new@example.com" &&
						len(pending.OTPCode) == 6 &&
						pending.OTPExpiresAt.After(time.Now())
				})).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "re-registering overwrites the pending row",
			email: "again@example.com",
			setupMock: func(u *MockUserRepository, p *MockPendingRepository, s *MockSender) {
				u.On("FindByEmail", mock.Anything, "again@example.com").Return(nil, gorm.ErrRecordNotFound)
				s.On("Send", mock.Anything, "again@example.com", "Email Verification - OTP", mock.Anything).Return(nil)
				p.On("Upsert", mock.Anything, mock.AnythingOfType("*model.PendingRegistration")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "verified user already exists",
			email: "taken@example.com",
			setupMock: func(u *MockUserRepository, p *MockPendingRepository, s *MockSender) {
				u.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			pendingRepo := new(MockPendingRepository)
			mailer := new(MockSender)
			tt.setupMock(userRepo, pendingRepo, mailer)

			service := newTestAuthService(userRepo, pendingRepo, new(MockTokenStore), mailer)
			err := service.Register(context.Background(), RegisterInput{
				Email:     tt.email,
				Password:  "password123",
				FirstName: "Test",
			})

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}
			userRepo.AssertExpectations(t)
			pendingRepo.AssertExpectations(t)
			mailer.AssertExpectations(t)
		})
	}
}

func TestAuthService_VerifyOTP_PromotesPendingRegistration(t *testing.T) {
	userRepo := new(MockUserRepository)
	pendingRepo := new(MockPendingRepository)
	tokenStore := new(MockTokenStore)

	pending := &model.PendingRegistration{
		Email:        "new@example.com",
		FirstName:    "Test",
		Password:     "password123",
		OTPCode:      "123456",
		OTPExpiresAt: time.Now().Add(2 * time.Minute),
	}
	pendingRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(pending, nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
		// The parked plaintext password must be hashed before it hits the users table.
		return user.Email == "new@example.com" &&
			user.Active &&
			user.PasswordHash != "password123" &&
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")) == nil
	})).Return(nil)
	pendingRepo.On("DeleteByEmail", mock.Anything, "new@example.com").Return(nil)
	tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "new@example.com", mock.Anything).Return(nil)

	service := newTestAuthService(userRepo, pendingRepo, tokenStore, new(MockSender))
	result, err := service.VerifyOTP(context.Background(), "new@example.com", "123456")

	assert.NoError(t, err)
	assert.True(t, result.Registered)
	assert.NotNil(t, result.User)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	userRepo.AssertExpectations(t)
	pendingRepo.AssertExpectations(t)
	tokenStore.AssertExpectations(t)
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	userRepo := new(MockUserRepository)
	pendingRepo := new(MockPendingRepository)

	pending := &model.PendingRegistration{
		Email:        "new@example.com",
		OTPCode:      "123456",
		OTPExpiresAt: time.Now().Add(2 * time.Minute),
	}
	pendingRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(pending, nil)

	service := newTestAuthService(userRepo, pendingRepo, new(MockTokenStore), new(MockSender))
	result, err := service.VerifyOTP(context.Background(), "new@example.com", "654321")

	assert.Equal(t, ErrInvalidOTP, err)
	assert.Nil(t, result)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_VerifyOTP_ExpiredCodeDeletesPending(t *testing.T) {
	pendingRepo := new(MockPendingRepository)

	pending := &model.PendingRegistration{
		Email:        "late@example.com",
		OTPCode:      "123456",
		OTPExpiresAt: time.Now().Add(-time.Minute),
	}
	pendingRepo.On("FindByEmail", mock.Anything, "late@example.com").Return(pending, nil)
	pendingRepo.On("DeleteByEmail", mock.Anything, "late@example.com").Return(nil)

	service := newTestAuthService(new(MockUserRepository), pendingRepo, new(MockTokenStore), new(MockSender))
	result, err := service.VerifyOTP(context.Background(), "late@example.com", "123456")

	assert.Equal(t, ErrOTPExpired, err)
	assert.Nil(t, result)
	pendingRepo.AssertExpectations(t)
}

func TestAuthService_VerifyOTP_ClearsUserCodeForReset(t *testing.T) {
	userRepo := new(MockUserRepository)
	pendingRepo := new(MockPendingRepository)

	code := "123456"
	expires := time.Now().Add(2 * time.Minute)
	user := &model.User{
		ID:           uuid.New(),
		Email:        "reset@example.com",
		Active:       true,
		OTPCode:      &code,
		OTPExpiresAt: &expires,
	}
	pendingRepo.On("FindByEmail", mock.Anything, "reset@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByEmail", mock.Anything, "reset@example.com").Return(user, nil)
	userRepo.On("Save", mock.Anything, mock.MatchedBy(func(saved *model.User) bool {
		return saved.OTPCode == nil && saved.OTPExpiresAt == nil
	})).Return(nil)

	service := newTestAuthService(userRepo, pendingRepo, new(MockTokenStore), new(MockSender))
	result, err := service.VerifyOTP(context.Background(), "reset@example.com", "123456")

	assert.NoError(t, err)
	assert.False(t, result.Registered)
	assert.Empty(t, result.AccessToken)
	userRepo.AssertExpectations(t)
}

func TestAuthService_ResendOTP(t *testing.T) {
	t.Run("pending registration gets a fresh code", func(t *testing.T) {
		pendingRepo := new(MockPendingRepository)
		mailer := new(MockSender)

		pending := &model.PendingRegistration{
			Email:        "new@example.com",
			OTPCode:      "111111",
			OTPExpiresAt: time.Now().Add(time.Minute),
		}
		pendingRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(pending, nil)
		mailer.On("Send", mock.Anything, "new@example.com", "Email Verification - OTP", mock.Anything).Return(nil)
		pendingRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *model.PendingRegistration) bool {
			return p.OTPCode != "111111" && len(p.OTPCode) == 6
		})).Return(nil)

		service := newTestAuthService(new(MockUserRepository), pendingRepo, new(MockTokenStore), mailer)
		err := service.ResendOTP(context.Background(), "new@example.com")

		assert.NoError(t, err)
		pendingRepo.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		pendingRepo := new(MockPendingRepository)
		pendingRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		service := newTestAuthService(userRepo, pendingRepo, new(MockTokenStore), new(MockSender))
		err := service.ResendOTP(context.Background(), "ghost@example.com")

		assert.Equal(t, apperrors.ErrEmailNotFound, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			password: "password123",
			setupMock: func(u *MockUserRepository, ts *MockTokenStore) {
				u.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "test@example.com",
					Active:       true,
					PasswordHash: string(hashedPassword),
				}, nil)
				ts.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "test@example.com", mock.Anything).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "wrong password",
			password: "wrongpass",
			setupMock: func(u *MockUserRepository, ts *MockTokenStore) {
				u.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "test@example.com",
					Active:       true,
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "deactivated account",
			password: "password123",
			setupMock: func(u *MockUserRepository, ts *MockTokenStore) {
				u.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           uuid.New(),
					Email:        "test@example.com",
					Active:       false,
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "user not found",
			password: "password123",
			setupMock: func(u *MockUserRepository, ts *MockTokenStore) {
				u.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			tokenStore := new(MockTokenStore)
			tt.setupMock(userRepo, tokenStore)

			service := newTestAuthService(userRepo, new(MockPendingRepository), tokenStore, new(MockSender))
			accessToken, refreshToken, user, err := service.Login(context.Background(), "test@example.com", tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)
			}
			userRepo.AssertExpectations(t)
			tokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("requires a verified code", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		code := "123456"
		userRepo.On("FindByEmail", mock.Anything, "reset@example.com").Return(&model.User{
			Email:   "reset@example.com",
			OTPCode: &code,
		}, nil)

		service := newTestAuthService(userRepo, new(MockPendingRepository), new(MockTokenStore), new(MockSender))
		err := service.ResetPassword(context.Background(), "reset@example.com", "newpass123")

		assert.Equal(t, ErrVerificationRequired, err)
	})

	t.Run("sets the new password after verification", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "reset@example.com").Return(&model.User{
			Email: "reset@example.com",
		}, nil)
		userRepo.On("Save", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass123")) == nil
		})).Return(nil)

		service := newTestAuthService(userRepo, new(MockPendingRepository), new(MockTokenStore), new(MockSender))
		err := service.ResetPassword(context.Background(), "reset@example.com", "newpass123")

		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("oldpass123"), 10)
	userID := uuid.New()

	t.Run("wrong current password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:           userID,
			PasswordHash: string(hashedPassword),
		}, nil)

		service := newTestAuthService(userRepo, new(MockPendingRepository), new(MockTokenStore), new(MockSender))
		err := service.ChangePassword(context.Background(), userID, "wrongpass", "newpass123")

		assert.Equal(t, ErrWrongPassword, err)
	})

	t.Run("successful change", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:           userID,
			PasswordHash: string(hashedPassword),
		}, nil)
		userRepo.On("Save", mock.Anything, mock.MatchedBy(func(user *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass123")) == nil
		})).Return(nil)

		service := newTestAuthService(userRepo, new(MockPendingRepository), new(MockTokenStore), new(MockSender))
		err := service.ChangePassword(context.Background(), userID, "oldpass123", "newpass123")

		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)

	user := &model.User{ID: uuid.New(), Email: "test@example.com", Active: true}
	var storedTokenID string
	tokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, user.ID.String(), user.Email, mock.Anything).
		Run(func(args mock.Arguments) {
			storedTokenID = args.String(1)
		}).Return(nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	user.PasswordHash = string(hashedPassword)
	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	service := newTestAuthService(userRepo, new(MockPendingRepository), tokenStore, new(MockSender))
	_, refreshToken, _, err := service.Login(context.Background(), user.Email, "password123")
	assert.NoError(t, err)

	tokenStore.On("GetRefreshToken", mock.Anything, mock.Anything).Return(user.ID.String(), user.Email, nil)
	accessToken, err := service.RefreshToken(context.Background(), refreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, storedTokenID)

	_, err = service.RefreshToken(context.Background(), "not-a-token")
	assert.Equal(t, ErrInvalidRefreshToken, err)
}
