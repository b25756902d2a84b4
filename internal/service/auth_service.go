package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/mail"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const bcryptCost = 10

const (
	registrationOTPSubject  = "Email Verification - OTP"
	passwordResetOTPSubject = "Password Reset - OTP"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when registering an email that already
	// belongs to a verified user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrInvalidOTP is returned when the supplied code does not match the stored one.
	ErrInvalidOTP = errors.New("invalid OTP")
	// ErrOTPExpired is returned when the stored code is past its expiry.
	ErrOTPExpired = errors.New("OTP has expired")
	// ErrVerificationRequired is returned when a password reset is attempted
	// before the one-time code was verified.
	ErrVerificationRequired = errors.New("please verify OTP first")
	// ErrWrongPassword is returned when the current password does not match.
	ErrWrongPassword = errors.New("current password is incorrect")
)

// RegisterInput carries the candidate profile of a sign-up.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Image     string
}

// VerifyResult reports what a successful OTP verification did. Registered is
// true when a pending registration was promoted to a user and tokens were
// issued; false when an existing user's code was cleared for password reset.
type VerifyResult struct {
	Registered   bool
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, OTP verification and session management.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) error
	VerifyOTP(ctx context.Context, email, code string) (*VerifyResult, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

type authService struct {
	userRepo    repository.UserRepository
	pendingRepo repository.PendingRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	mailer      mail.Sender
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	pendingRepo repository.PendingRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	mailer mail.Sender,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		mailer:      mailer,
	}
}

// Register emails a one-time code and parks the sign-up in the pending table.
// No user row is created yet; re-registering the same email overwrites the
// pending row and its code.
func (s *authService) Register(ctx context.Context, input RegisterInput) error {
	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return ErrUserAlreadyExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("check user existence: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, input.Email, registrationOTPSubject, mail.OTPBody(code)); err != nil {
		return fmt.Errorf("send registration otp: %w", err)
	}

	pending := &model.PendingRegistration{
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Address:      input.Address,
		Image:        input.Image,
		Password:     input.Password,
		OTPCode:      code,
		OTPExpiresAt: time.Now().Add(OTPTTL),
	}
	if err := s.pendingRepo.Upsert(ctx, pending); err != nil {
		return fmt.Errorf("store pending registration: %w", err)
	}
	return nil
}

// VerifyOTP checks the code against a pending registration first, then an
// existing user. Promoting a pending row creates the real user, hashes the
// parked password and issues session tokens; verifying for an existing user
// only clears the code so the password reset can proceed.
func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*VerifyResult, error) {
	pending, err := s.pendingRepo.FindByEmail(ctx, email)
	if err == nil {
		return s.verifyPending(ctx, pending, code)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find pending registration: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.verifyUser(ctx, user, code)
}

func (s *authService) verifyPending(ctx context.Context, pending *model.PendingRegistration, code string) (*VerifyResult, error) {
	if pending.OTPCode != code {
		return nil, ErrInvalidOTP
	}
	if time.Now().After(pending.OTPExpiresAt) {
		// An expired sign-up has to start over.
		_ = s.pendingRepo.DeleteByEmail(ctx, pending.Email)
		return nil, ErrOTPExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(pending.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        pending.Email,
		FirstName:    pending.FirstName,
		LastName:     pending.LastName,
		Phone:        pending.Phone,
		Address:      pending.Address,
		Image:        pending.Image,
		Role:         model.RoleUser,
		Active:       true,
		PasswordHash: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.pendingRepo.DeleteByEmail(ctx, pending.Email); err != nil {
		return nil, fmt.Errorf("delete pending registration: %w", err)
	}

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Registered:   true,
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (s *authService) verifyUser(ctx context.Context, user *model.User, code string) (*VerifyResult, error) {
	if user.OTPCode == nil || *user.OTPCode != code {
		return nil, ErrInvalidOTP
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		// The user row stays; a fresh forgot-password request reissues.
		return nil, ErrOTPExpired
	}

	user.ClearOTP()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("clear otp: %w", err)
	}
	return &VerifyResult{Registered: false, User: user}, nil
}

// ResendOTP reissues a code for a pending registration first, then for an
// existing user. The fresh code replaces the old one.
func (s *authService) ResendOTP(ctx context.Context, email string) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}

	pending, err := s.pendingRepo.FindByEmail(ctx, email)
	if err == nil {
		if err := s.mailer.Send(ctx, email, registrationOTPSubject, mail.OTPBody(code)); err != nil {
			return fmt.Errorf("send registration otp: %w", err)
		}
		pending.OTPCode = code
		pending.OTPExpiresAt = time.Now().Add(OTPTTL)
		return s.pendingRepo.Upsert(ctx, pending)
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("find pending registration: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrEmailNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.mailer.Send(ctx, email, passwordResetOTPSubject, mail.OTPBody(code)); err != nil {
		return fmt.Errorf("send password reset otp: %w", err)
	}
	user.SetOTP(code, time.Now().Add(OTPTTL))
	return s.userRepo.Save(ctx, user)
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	if !user.Active {
		return "", "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	access, refresh, err := s.issueTokens(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	return access, refresh, user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (string, string, error) {
	access, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refresh, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID.String(), user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	return access, refresh, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	accessToken, err := s.jwtService.GenerateAccessToken(userID, claims.Email, claims.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}

// ForgotPassword emails a one-time code and stores it on the user row.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, email, passwordResetOTPSubject, mail.OTPBody(code)); err != nil {
		return fmt.Errorf("send password reset otp: %w", err)
	}

	user.SetOTP(code, time.Now().Add(OTPTTL))
	return s.userRepo.Save(ctx, user)
}

// ResetPassword sets a new password. A nil stored code is the proof that
// VerifyOTP ran; anything else means verification has not happened yet.
func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if user.OTPCode != nil {
		return ErrVerificationRequired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return s.userRepo.Save(ctx, user)
}

// ChangePassword verifies the current password before setting the new one.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return s.userRepo.Save(ctx, user)
}
