// Package services contains server-side business logic. This file implements
// UserService, which handles sign-up, login, email verification, and
// password reset flows.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/marketpulse/internal/common"
	"github.com/dmitrijs2005/marketpulse/internal/dbx"
	"github.com/dmitrijs2005/marketpulse/internal/server/auth"
	"github.com/dmitrijs2005/marketpulse/internal/server/config"
	"github.com/dmitrijs2005/marketpulse/internal/server/mailer"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
	"github.com/dmitrijs2005/marketpulse/internal/server/repositories/repomanager"
)

// SignUpInput carries the fields of a sign-up request.
type SignUpInput struct {
	Email       string
	Password    string
	Name        string
	CompanyName string
	Industry    string
}

// UserService provides authentication-related operations:
// - SignUp: create unverified accounts and send verification emails
// - Login: verify credentials and mint access tokens
// - VerifyEmail / ResendVerification: email confirmation flow
// - ForgotPassword / ResetPassword: password recovery flow
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	mail                         mailer.Mailer
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	verificationValidityDuration time.Duration
	resetValidityDuration        time.Duration
}

// NewUserService constructs a UserService using repositories, the mailer,
// and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mail mailer.Mailer, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		mail:                         mail,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		verificationValidityDuration: cfg.VerificationTokenValidityDuration,
		resetValidityDuration:        cfg.ResetTokenValidityDuration,
	}
}

// SignUp creates an unverified account and sends a verification email.
// A duplicate email yields common.ErrorAlreadyExists. The account and its
// empty business profile are created in one transaction.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         "user",
		CompanyName:  in.CompanyName,
		Industry:     in.Industry,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return fmt.Errorf("error creating user: %v", err)
		}
		profile := &models.BusinessProfile{
			UserID:      user.ID,
			CompanyName: in.CompanyName,
			Industry:    in.Industry,
			Payload:     []byte(`{}`),
		}
		if err := s.repomanager.Profiles(tx).Upsert(ctx, profile); err != nil {
			return fmt.Errorf("error seeding profile: %v", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	token, err := s.generateVerificationToken(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.mail.SendVerificationEmail(ctx, user.Email, token); err != nil {
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login verifies the password against the stored bcrypt hash and, on
// success, returns an access token along with the user. A token is issued
// even when the email is still unverified; rejecting unverified logins is
// the client's responsibility.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, auth.PurposeAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// Me returns the user for an authenticated request.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// VerifyEmail confirms the account referenced by a verification token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := auth.GetUserIDFromToken(token, auth.PurposeEmailVerification, s.jwtSecret)
	if err != nil {
		return common.ErrInvalidToken
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if user.EmailVerified {
		return common.ErrEmailAlreadyVerified
	}

	if err := repo.MarkEmailVerified(ctx, userID); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// ResendVerification sends a fresh verification email for an unverified
// account.
func (s *UserService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if user.EmailVerified {
		return common.ErrEmailAlreadyVerified
	}

	token, err := s.generateVerificationToken(user.ID)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.mail.SendVerificationEmail(ctx, user.Email, token); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// ForgotPassword sends a reset email when the address has an account.
// It reports success either way so callers cannot tell which addresses
// are registered.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID, auth.PurposePasswordReset, s.jwtSecret, s.resetValidityDuration)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.mail.SendPasswordResetEmail(ctx, user.Email, token); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// ResetPassword replaces the password of the account referenced by a reset
// token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := auth.GetUserIDFromToken(token, auth.PurposePasswordReset, s.jwtSecret)
	if err != nil {
		return common.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// GenerateAccessToken mints an access token for userID. Used by the
// federated login callback, which establishes sessions without a password.
func (s *UserService) GenerateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, auth.PurposeAccess, s.jwtSecret, s.accessTokenValidityDuration)
}

// EnsureFederatedUser finds or creates a verified account for an identity
// asserted by an OAuth provider. Accounts created this way have no
// password; password login stays unavailable until a reset.
func (s *UserService) EnsureFederatedUser(ctx context.Context, email, name string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	user = &models.User{
		ID:            uuid.NewString(),
		Email:         email,
		Name:          name,
		Role:          "user",
		EmailVerified: true,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return fmt.Errorf("error creating user: %v", err)
		}
		profile := &models.BusinessProfile{UserID: user.ID, Payload: []byte(`{}`)}
		return s.repomanager.Profiles(tx).Upsert(ctx, profile)
	}); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) generateVerificationToken(userID string) (string, error) {
	return auth.GenerateToken(userID, auth.PurposeEmailVerification, s.jwtSecret, s.verificationValidityDuration)
}
