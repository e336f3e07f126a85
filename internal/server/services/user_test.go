package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/marketpulse/internal/common"
	"github.com/dmitrijs2005/marketpulse/internal/dbx"
	"github.com/dmitrijs2005/marketpulse/internal/server/auth"
	"github.com/dmitrijs2005/marketpulse/internal/server/config"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
	analyticsrepo "github.com/dmitrijs2005/marketpulse/internal/server/repositories/analytics"
	profilesrepo "github.com/dmitrijs2005/marketpulse/internal/server/repositories/profiles"
	usersrepo "github.com/dmitrijs2005/marketpulse/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                         "k",
		AccessTokenValidityDuration:       time.Hour,
		VerificationTokenValidityDuration: 24 * time.Hour,
		ResetTokenValidityDuration:        time.Hour,
	}
}

type fakeUsersRepo struct {
	createdUser *models.User
	createErr   error

	byEmail    *models.User
	byEmailErr error

	byID    *models.User
	byIDErr error

	markedVerified string
	markErr        error

	updatedHash []byte
	updateErr   error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdUser = u
	return u, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmail, nil
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}
func (f *fakeUsersRepo) MarkEmailVerified(ctx context.Context, id string) error {
	f.markedVerified = id
	return f.markErr
}
func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedHash = hash
	return nil
}

type fakeProfilesRepo struct {
	upserted *models.BusinessProfile
}

func (f *fakeProfilesRepo) Get(context.Context, string) (*models.BusinessProfile, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeProfilesRepo) Upsert(ctx context.Context, p *models.BusinessProfile) error {
	f.upserted = p
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProfilesRepo
	a *fakeAnalyticsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository   { return m.p }
func (m *fakeRepoManager) Analytics(db dbx.DBTX) analyticsrepo.Repository { return m.a }

type fakeMailer struct {
	verificationTo    string
	verificationToken string
	resetTo           string
	resetToken        string
	err               error
}

func (f *fakeMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	f.verificationTo, f.verificationToken = email, token
	return f.err
}
func (f *fakeMailer) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	f.resetTo, f.resetToken = email, token
	return f.err
}

// --- tests ---

func TestSignUp_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound}, p: &fakeProfilesRepo{}}
	mail := &fakeMailer{}
	s := NewUserService(db, rm, mail, testConfig())

	user, err := s.SignUp(context.Background(), SignUpInput{
		Email: "alice@example.org", Password: "secret", Name: "Alice",
		CompanyName: "Acme", Industry: "retail",
	})
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	if user.EmailVerified {
		t.Fatalf("new accounts must start unverified")
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("secret")) != nil {
		t.Fatalf("password not hashed correctly")
	}
	if mail.verificationTo != "alice@example.org" || mail.verificationToken == "" {
		t.Fatalf("verification email not sent: %+v", mail)
	}
	if rm.p.upserted == nil || rm.p.upserted.UserID != user.ID {
		t.Fatalf("profile not seeded: %+v", rm.p.upserted)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmail: &models.User{ID: "u-1"}}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	_, err := s.SignUp(context.Background(), SignUpInput{Email: "alice@example.org", Password: "x"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestLogin_Success_IncludingUnverified(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmail: &models.User{
		ID: "u-1", Email: "alice@example.org", PasswordHash: hash, EmailVerified: false,
	}}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	token, user, err := s.Login(context.Background(), "alice@example.org", "secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	// The unverified-email gate is client-side; the backend still issues a token.
	if token == "" || user.EmailVerified {
		t.Fatalf("unexpected login result: token=%q user=%+v", token, user)
	}

	userID, err := auth.GetUserIDFromToken(token, auth.PurposeAccess, []byte("k"))
	if err != nil || userID != "u-1" {
		t.Fatalf("minted token invalid: id=%q err=%v", userID, err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmail: &models.User{ID: "u-1", PasswordHash: hash}}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	_, _, err := s.Login(context.Background(), "alice@example.org", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want common.ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	_, _, err := s.Login(context.Background(), "ghost@example.org", "x")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want common.ErrorUnauthorized, got %v", err)
	}
}

func TestVerifyEmail_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byID: &models.User{ID: "u-1"}}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	token, err := auth.GenerateToken("u-1", auth.PurposeEmailVerification, []byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if err := s.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("VerifyEmail error: %v", err)
	}
	if rm.u.markedVerified != "u-1" {
		t.Fatalf("MarkEmailVerified not called")
	}
}

func TestVerifyEmail_RejectsResetToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byID: &models.User{ID: "u-1"}}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	token, _ := auth.GenerateToken("u-1", auth.PurposePasswordReset, []byte("k"), time.Hour)

	err := s.VerifyEmail(context.Background(), token)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken for cross-purpose token, got %v", err)
	}
}

func TestVerifyEmail_AlreadyVerified(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byID: &models.User{ID: "u-1", EmailVerified: true}}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	token, _ := auth.GenerateToken("u-1", auth.PurposeEmailVerification, []byte("k"), time.Hour)

	err := s.VerifyEmail(context.Background(), token)
	if !errors.Is(err, common.ErrEmailAlreadyVerified) {
		t.Fatalf("want common.ErrEmailAlreadyVerified, got %v", err)
	}
}

func TestForgotPassword_UnknownEmailSucceeds(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound}, p: &fakeProfilesRepo{}}
	mail := &fakeMailer{}
	s := NewUserService(db, rm, mail, testConfig())

	if err := s.ForgotPassword(context.Background(), "ghost@example.org"); err != nil {
		t.Fatalf("ForgotPassword must not leak account existence, got %v", err)
	}
	if mail.resetTo != "" {
		t.Fatalf("no email should be sent for unknown addresses")
	}
}

func TestForgotPassword_KnownEmailSendsToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmail: &models.User{ID: "u-1", Email: "alice@example.org"}}, p: &fakeProfilesRepo{}}
	mail := &fakeMailer{}
	s := NewUserService(db, rm, mail, testConfig())

	if err := s.ForgotPassword(context.Background(), "alice@example.org"); err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}
	if mail.resetTo != "alice@example.org" || mail.resetToken == "" {
		t.Fatalf("reset email not sent: %+v", mail)
	}

	userID, err := auth.GetUserIDFromToken(mail.resetToken, auth.PurposePasswordReset, []byte("k"))
	if err != nil || userID != "u-1" {
		t.Fatalf("reset token invalid: id=%q err=%v", userID, err)
	}
}

func TestResetPassword_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	token, _ := auth.GenerateToken("u-1", auth.PurposePasswordReset, []byte("k"), time.Hour)

	if err := s.ResetPassword(context.Background(), token, "newpass"); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}
	if bcrypt.CompareHashAndPassword(rm.u.updatedHash, []byte("newpass")) != nil {
		t.Fatalf("new password not hashed correctly")
	}
}

func TestResetPassword_InvalidToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	err := s.ResetPassword(context.Background(), "not.a.jwt", "newpass")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}

func TestEnsureFederatedUser_CreatesVerified(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	user, err := s.EnsureFederatedUser(context.Background(), "bob@example.org", "Bob")
	if err != nil {
		t.Fatalf("EnsureFederatedUser error: %v", err)
	}
	if !user.EmailVerified {
		t.Fatalf("federated accounts must be verified")
	}
	if len(user.PasswordHash) != 0 {
		t.Fatalf("federated accounts must have no password")
	}
}

func TestEnsureFederatedUser_ReturnsExisting(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	existing := &models.User{ID: "u-1", Email: "bob@example.org", EmailVerified: true}
	rm := &fakeRepoManager{u: &fakeUsersRepo{byEmail: existing}, p: &fakeProfilesRepo{}}
	s := NewUserService(db, rm, &fakeMailer{}, testConfig())

	user, err := s.EnsureFederatedUser(context.Background(), "bob@example.org", "Bob")
	if err != nil || user.ID != "u-1" {
		t.Fatalf("unexpected result: %+v err=%v", user, err)
	}
}
