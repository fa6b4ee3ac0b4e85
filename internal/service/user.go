package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/events"
	"github.com/Skotchmaster/marine_shop/internal/mail"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/pkg/hash"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/Skotchmaster/marine_shop/pkg/tokens"
	"github.com/google/uuid"
)

const (
	OTPLength      = 6
	OTPTTL         = 10 * time.Minute
	// MaxOTPAttempts wrong codes discard the pending code.
	MaxOTPAttempts = 5
)

var errInvalidOTP error = &Error{Kind: ErrValidation, Msg: "invalid or expired code"}

type UserService struct {
	Users     store.UserStore
	Mail      mail.Sender
	Events    events.Publisher
	JWTSecret []byte
	TokenTTL  time.Duration
	// AdminEmail, when set, is registered with admin rights.
	AdminEmail string
	Now        func() time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register hashes the password before the user is persisted.
func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthResponse, time.Time, error) {
	l := logging.FromContext(ctx).With("svc", "user")

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" || email == "" || req.Password == "" {
		return nil, time.Time{}, validationf("name, email and password are required")
	}

	_, err := s.Users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, time.Time{}, ErrUserExists
	case !errors.Is(err, store.ErrNotFound):
		return nil, time.Time{}, storeErr(err, "user")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("hash password: %w", err)
	}

	now := clock(s.Now)
	u := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		IsAdmin:      s.AdminEmail != "" && normalizeEmail(s.AdminEmail) == email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, time.Time{}, ErrUserExists
		}
		return nil, time.Time{}, storeErr(err, "user")
	}

	l.Info("user_registered", "user_id", u.ID, "is_admin", u.IsAdmin)
	publish(ctx, s.Events, events.TopicUsers, events.Event{Type: "user_registered", ID: u.ID.String(), UserID: u.ID.String()})
	return s.authResponse(u)
}

func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*transport.AuthResponse, time.Time, error) {
	u, err := s.Users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, time.Time{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, time.Time{}, storeErr(err, "user")
	}
	if !hash.CheckPassword(u.PasswordHash, req.Password) {
		return nil, time.Time{}, ErrInvalidCredentials
	}
	if hash.NeedsRehash(u.PasswordHash) {
		s.rehash(ctx, u, req.Password)
	}
	return s.authResponse(u)
}

// rehash upgrades a digest made with an older cost. Failures keep the old one.
func (s *UserService) rehash(ctx context.Context, u *models.User, password string) {
	l := logging.FromContext(ctx).With("svc", "user")

	digest, err := hash.HashPassword(password)
	if err != nil {
		l.Warn("rehash_error", "user_id", u.ID, "error", err)
		return
	}
	u.PasswordHash = digest
	if err := s.save(ctx, u); err != nil {
		l.Warn("rehash_error", "user_id", u.ID, "error", err)
	}
}

func (s *UserService) authResponse(u *models.User) (*transport.AuthResponse, time.Time, error) {
	tok, exp, err := tokens.NewAccessToken(s.JWTSecret, u.ID.String(), clock(s.Now), s.TokenTTL)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return &transport.AuthResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, Token: tok}, exp, nil
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (*models.User, error) {
	u, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if err := s.changeEmail(ctx, u, *req.Email); err != nil {
			return nil, err
		}
	}
	if req.BillingAddress != nil {
		addr := *req.BillingAddress
		u.BillingAddress = &addr
	}
	if req.ShippingAddress != nil {
		addr := *req.ShippingAddress
		u.ShippingAddress = &addr
	}
	if req.Password != nil && *req.Password != "" {
		if err := setPassword(u, *req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword hashes password and stores it for the user.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, password string) error {
	u, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return storeErr(err, "user")
	}
	if err := setPassword(u, password); err != nil {
		return err
	}
	return s.save(ctx, u)
}

func setPassword(u *models.User, password string) error {
	if len(password) < 6 {
		return validationf("password must be at least 6 characters")
	}
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = pwHash
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.Profile(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req transport.AdminUpdateUserRequest) (*models.User, error) {
	u, err := s.Users.GetUser(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if err := s.changeEmail(ctx, u, *req.Email); err != nil {
			return nil, err
		}
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.Users.GetUser(ctx, id)
	if err != nil {
		return storeErr(err, "user")
	}
	if u.IsAdmin {
		return validationf("cannot delete admin user")
	}
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		return storeErr(err, "user")
	}
	publish(ctx, s.Events, events.TopicUsers, events.Event{Type: "user_deleted", ID: id.String()})
	return nil
}

// ForgotPassword mails a fresh one-time code. Only its hash is stored.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "user")

	u, err := s.Users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return storeErr(err, "user")
	}

	code, err := newOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	otpHash, err := hash.HashPassword(code)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}
	exp := clock(s.Now).Add(OTPTTL)
	u.OTPHash = otpHash
	u.OTPExpiresAt = &exp
	u.OTPAttempts = 0
	if err := s.save(ctx, u); err != nil {
		return err
	}

	if s.Mail != nil {
		body := fmt.Sprintf("Your password reset code is %s.\nIt expires in %d minutes.\n", code, int(OTPTTL.Minutes()))
		if err := s.Mail.Send(ctx, u.Email, "Password reset code", body); err != nil {
			return fmt.Errorf("send otp: %w", err)
		}
	}

	l.Info("otp_issued", "user_id", u.ID)
	return nil
}

// VerifyOTP checks the code without consuming it.
func (s *UserService) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.Users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return storeErr(err, "user")
	}
	return s.checkOTP(ctx, u, code)
}

func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	u, err := s.Users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return storeErr(err, "user")
	}
	if err := s.checkOTP(ctx, u, code); err != nil {
		return err
	}
	if err := setPassword(u, newPassword); err != nil {
		return err
	}
	u.ClearOTP()
	if err := s.save(ctx, u); err != nil {
		return err
	}

	logging.FromContext(ctx).With("svc", "user").Info("password_reset", "user_id", u.ID)
	return nil
}

// checkOTP clears an expired code as a side effect.
func (s *UserService) checkOTP(ctx context.Context, u *models.User, code string) error {
	if u.OTPHash == "" || u.OTPExpiresAt == nil {
		return errInvalidOTP
	}
	if !clock(s.Now).Before(*u.OTPExpiresAt) {
		u.ClearOTP()
		if err := s.save(ctx, u); err != nil {
			return err
		}
		return errInvalidOTP
	}
	if !hash.CheckPassword(u.OTPHash, code) {
		return s.otpFailed(ctx, u)
	}
	return nil
}

// otpFailed counts a wrong code and drops the code once the limit is hit.
func (s *UserService) otpFailed(ctx context.Context, u *models.User) error {
	n, err := s.Users.IncrementOTPAttempts(ctx, u.ID)
	if err != nil {
		return storeErr(err, "user")
	}
	if n < MaxOTPAttempts {
		return errInvalidOTP
	}
	u.ClearOTP()
	if err := s.save(ctx, u); err != nil {
		return err
	}
	logging.FromContext(ctx).With("svc", "user").Warn("otp_locked", "user_id", u.ID, "attempts", n)
	return errInvalidOTP
}

func (s *UserService) changeEmail(ctx context.Context, u *models.User, email string) error {
	email = normalizeEmail(email)
	if email == "" || email == u.Email {
		return nil
	}
	other, err := s.Users.GetUserByEmail(ctx, email)
	switch {
	case err == nil && other.ID != u.ID:
		return ErrUserExists
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return storeErr(err, "user")
	}
	u.Email = email
	return nil
}

func (s *UserService) save(ctx context.Context, u *models.User) error {
	u.UpdatedAt = clock(s.Now)
	err := s.Users.UpdateUser(ctx, u)
	if errors.Is(err, store.ErrDuplicate) {
		return ErrUserExists
	}
	return storeErr(err, "user")
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}
