package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketpulse/internal/client/api"
	"github.com/dmitrijs2005/marketpulse/internal/client/credential"
	"github.com/dmitrijs2005/marketpulse/internal/client/models"
	"github.com/dmitrijs2005/marketpulse/internal/logging"
)

// ---- fake API client ----

// fakeClient implements api.Client for unit tests. Behaviors default to the
// preset fields; individual calls can be overridden via the Fn fields.
type fakeClient struct {
	baseURL string

	MeRet *models.Identity
	MeErr error

	LoginRet *models.LoginResult
	LoginErr error
	LoginFn  func(ctx context.Context, email, password string) (*models.LoginResult, error)

	SignUpMsg string
	SignUpErr error

	VerifyEmailErr   error
	ResendErr        error
	RequestResetErr  error
	ResetPasswordErr error

	// captured arguments
	LastLoginEmail    string
	LastLoginPassword string
	LastSignUp        models.SignUpData
	LastVerifyToken   string
	LastResetToken    string
	LastResetPassword string
	LastResetEmail    string
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	f.LastLoginEmail = email
	f.LastLoginPassword = password
	if f.LoginFn != nil {
		return f.LoginFn(ctx, email, password)
	}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) SignUp(ctx context.Context, data models.SignUpData) (string, error) {
	f.LastSignUp = data
	return f.SignUpMsg, f.SignUpErr
}

func (f *fakeClient) VerifyEmail(ctx context.Context, token string) error {
	f.LastVerifyToken = token
	return f.VerifyEmailErr
}

func (f *fakeClient) ResendVerification(ctx context.Context) error { return f.ResendErr }

func (f *fakeClient) RequestPasswordReset(ctx context.Context, email string) error {
	f.LastResetEmail = email
	return f.RequestResetErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	f.LastResetToken = token
	f.LastResetPassword = newPassword
	return f.ResetPasswordErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.Identity, error) { return f.MeRet, f.MeErr }

func (f *fakeClient) Segments(ctx context.Context) ([]models.Segment, error) { return nil, nil }
func (f *fakeClient) SegmentDetails(ctx context.Context, id int64) (*models.Segment, error) {
	return nil, nil
}
func (f *fakeClient) Behaviors(ctx context.Context, filter api.BehaviorFilter) ([]models.BehaviorCount, error) {
	return nil, nil
}
func (f *fakeClient) Metrics(ctx context.Context) (*models.CustomerMetrics, error) {
	return nil, nil
}
func (f *fakeClient) Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error) {
	return nil, nil
}
func (f *fakeClient) GrowthStrategy(ctx context.Context) (*models.GrowthStrategy, error) {
	return nil, nil
}
func (f *fakeClient) MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error) {
	return nil, nil
}
func (f *fakeClient) MarketSize(ctx context.Context, industry string) (*models.MarketSize, error) {
	return nil, nil
}
func (f *fakeClient) Competitors(ctx context.Context, industry string) ([]models.Competitor, error) {
	return nil, nil
}
func (f *fakeClient) Profile(ctx context.Context) (*models.BusinessProfile, error) {
	return nil, nil
}
func (f *fakeClient) SaveProfile(ctx context.Context, profile models.BusinessProfile) error {
	return nil
}

func (f *fakeClient) BaseURL() string {
	if f.baseURL != "" {
		return f.baseURL
	}
	return "http://localhost:8000"
}

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newManager(t *testing.T, client api.Client) (*Manager, *credential.MemoryStore) {
	t.Helper()
	store := credential.NewMemoryStore()
	return New(client, store, testLogger()), store
}

func verifiedUser() models.Identity {
	return models.Identity{
		ID:            "u1",
		Email:         "a@b.com",
		Name:          "Alice",
		Role:          "owner",
		CompanyName:   "Acme",
		Industry:      "retail",
		EmailVerified: true,
	}
}

// ---- bootstrap ----

func TestBootstrap_NoCredential(t *testing.T) {
	m, _ := newManager(t, &fakeClient{})

	require.True(t, m.State().Loading, "loading must be true before bootstrap")
	m.Bootstrap(context.Background())

	state := m.State()
	assert.Nil(t, state.Identity)
	assert.False(t, state.Loading)
	assert.Equal(t, "", state.Err)
}

func TestBootstrap_ValidCredential(t *testing.T) {
	user := verifiedUser()
	m, store := newManager(t, &fakeClient{MeRet: &user})
	require.NoError(t, store.Set(context.Background(), "stored-token"))

	m.Bootstrap(context.Background())

	state := m.State()
	require.NotNil(t, state.Identity)
	assert.Equal(t, user, *state.Identity)
	assert.False(t, state.Loading)
	assert.True(t, m.IsAuthenticated())
}

func TestBootstrap_InvalidCredentialPurgedSilently(t *testing.T) {
	m, store := newManager(t, &fakeClient{MeErr: &api.APIError{Status: 401}})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "stale-token"))

	m.Bootstrap(ctx)

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token, "stale credential must be purged")

	state := m.State()
	assert.Nil(t, state.Identity)
	assert.False(t, state.Loading)
	assert.Equal(t, "", state.Err, "bootstrap failures surface no error")
}

func TestBootstrap_NetworkFailureAlsoFailsClosed(t *testing.T) {
	m, store := newManager(t, &fakeClient{MeErr: api.ErrUnavailable})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "token"))

	m.Bootstrap(ctx)

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
	assert.Equal(t, "", m.State().Err)
}

// ---- login ----

func TestLogin_Success(t *testing.T) {
	user := verifiedUser()
	client := &fakeClient{LoginRet: &models.LoginResult{Token: "T", User: user}}
	m, store := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	err := m.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T", token)
	require.NotNil(t, m.Identity())
	assert.Equal(t, user, *m.Identity())
	assert.Equal(t, "a@b.com", client.LastLoginEmail)
	assert.Equal(t, "pw", client.LastLoginPassword)
}

func TestLogin_UnverifiedEmailDiscardsToken(t *testing.T) {
	user := verifiedUser()
	user.EmailVerified = false
	client := &fakeClient{LoginRet: &models.LoginResult{Token: "T", User: user}}
	m, store := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	err := m.Login(ctx, "a@b.com", "pw")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnverifiedEmail))

	token, storeErr := store.Get(ctx)
	require.NoError(t, storeErr)
	assert.Equal(t, "", token, "token from the backend must not be persisted")
	assert.Nil(t, m.Identity())
	assert.NotEmpty(t, m.State().Err)
}

func TestLogin_BackendRejection(t *testing.T) {
	client := &fakeClient{LoginErr: &api.APIError{Status: 401, Message: "Invalid credentials"}}
	m, store := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	err := m.Login(ctx, "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindLoginFailed))
	assert.Equal(t, "Invalid credentials", m.State().Err)

	token, storeErr := store.Get(ctx)
	require.NoError(t, storeErr)
	assert.Equal(t, "", token)
	assert.Nil(t, m.Identity())
}

func TestLogin_TransportFailureHasDistinctKind(t *testing.T) {
	client := &fakeClient{LoginErr: api.ErrUnavailable}
	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	err := m.Login(ctx, "a@b.com", "pw")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransportUnavailable))
	assert.NotEmpty(t, m.State().Err)
}

// Two concurrent logins are not serialized: whichever response resolves
// last overwrites the state. This documents current behavior rather than
// asserting it as correct.
func TestLogin_ConcurrentCallsLastResponseWins(t *testing.T) {
	userA := verifiedUser()
	userA.ID = "first"
	userB := verifiedUser()
	userB.ID = "second"

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	client := &fakeClient{}
	client.LoginFn = func(ctx context.Context, email, password string) (*models.LoginResult, error) {
		if email == "first@b.com" {
			close(firstStarted)
			<-releaseFirst
			return &models.LoginResult{Token: "TA", User: userA}, nil
		}
		return &models.LoginResult{Token: "TB", User: userB}, nil
	}

	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.Login(ctx, "first@b.com", "pw")
	}()

	<-firstStarted
	// The second login resolves while the first is still in flight...
	require.NoError(t, m.Login(ctx, "second@b.com", "pw"))
	// ...and the first resolves last, overwriting the newer state.
	close(releaseFirst)
	wg.Wait()

	require.NotNil(t, m.Identity())
	assert.Equal(t, "first", m.Identity().ID, "last response to resolve wins")
}

// ---- logout ----

func TestLogout_ClearsIdentityAndStorage(t *testing.T) {
	user := verifiedUser()
	client := &fakeClient{LoginRet: &models.LoginResult{Token: "T", User: user}}
	m, store := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)
	require.NoError(t, m.Login(ctx, "a@b.com", "pw"))

	m.Logout(ctx)

	assert.Nil(t, m.Identity())
	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestLogout_WhenAnonymousIsNoOp(t *testing.T) {
	m, _ := newManager(t, &fakeClient{})
	ctx := context.Background()
	m.Bootstrap(ctx)

	assert.NotPanics(t, func() { m.Logout(ctx) })
	assert.Nil(t, m.Identity())
}

// ---- error clearing ----

func TestClearError_Idempotent(t *testing.T) {
	m, _ := newManager(t, &fakeClient{})
	ctx := context.Background()
	m.Bootstrap(ctx)

	before := m.State()
	m.ClearError()
	assert.Equal(t, before, m.State(), "clearing a nil error changes nothing")
}

func TestClearError_AfterFailureKeepsIdentity(t *testing.T) {
	user := verifiedUser()
	client := &fakeClient{LoginRet: &models.LoginResult{Token: "T", User: user}}
	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)
	require.NoError(t, m.Login(ctx, "a@b.com", "pw"))

	client.ResendErr = &api.APIError{Status: 500, Message: "boom"}
	require.Error(t, m.ResendVerification(ctx))
	require.Equal(t, "boom", m.State().Err)

	m.ClearError()
	assert.Equal(t, "", m.State().Err)
	require.NotNil(t, m.Identity())
	assert.Equal(t, user, *m.Identity())
}

// ---- signup ----

func TestSignUp_DoesNotAuthenticate(t *testing.T) {
	client := &fakeClient{SignUpMsg: "Verification email sent"}
	m, store := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	data := models.SignUpData{
		Name:        "Alice",
		Email:       "a@b.com",
		Password:    "pw",
		CompanyName: "Acme",
		Industry:    "retail",
	}
	msg, err := m.SignUp(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "Verification email sent", msg)
	assert.Equal(t, data, client.LastSignUp)

	assert.Nil(t, m.Identity(), "signup must not authenticate")
	token, storeErr := store.Get(ctx)
	require.NoError(t, storeErr)
	assert.Equal(t, "", token)
}

func TestSignUp_FailureSetsErrorAndRejects(t *testing.T) {
	client := &fakeClient{SignUpErr: &api.APIError{Status: 400, Message: "A user with this email already exists"}}
	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	_, err := m.SignUp(ctx, models.SignUpData{Email: "a@b.com"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSignupFailed))
	assert.Equal(t, "A user with this email already exists", m.State().Err)
}

// ---- verification and password reset ----

func TestVerifyEmail_SuccessDoesNotLogIn(t *testing.T) {
	client := &fakeClient{}
	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	require.NoError(t, m.VerifyEmail(ctx, "verify-token"))
	assert.Equal(t, "verify-token", client.LastVerifyToken)
	assert.Nil(t, m.Identity())
}

func TestVerifyEmail_Failure(t *testing.T) {
	client := &fakeClient{VerifyEmailErr: &api.APIError{Status: 400, Message: "Invalid or expired verification token"}}
	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	err := m.VerifyEmail(ctx, "bad")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindEmailVerificationFailed))
	assert.Equal(t, "Invalid or expired verification token", m.State().Err)
}

func TestRequestPasswordReset_UniformSuccess(t *testing.T) {
	client := &fakeClient{}
	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	require.NoError(t, m.RequestPasswordReset(ctx, "whoever@b.com"))
	assert.Equal(t, "whoever@b.com", client.LastResetEmail)
}

func TestResetPassword_SuccessDoesNotAuthenticate(t *testing.T) {
	client := &fakeClient{}
	m, store := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	require.NoError(t, m.ResetPassword(ctx, "reset-token", "newpw"))
	assert.Equal(t, "reset-token", client.LastResetToken)
	assert.Equal(t, "newpw", client.LastResetPassword)

	assert.Nil(t, m.Identity())
	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestResetPassword_Failure(t *testing.T) {
	client := &fakeClient{ResetPasswordErr: errors.New("boom")}
	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	err := m.ResetPassword(ctx, "tok", "pw")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPasswordResetFailed))
	assert.Equal(t, "boom", m.State().Err)
}

// Every operation clears prior error state before attempting work.
func TestOperations_ClearPriorError(t *testing.T) {
	client := &fakeClient{LoginErr: &api.APIError{Status: 401, Message: "Invalid credentials"}}
	m, _ := newManager(t, client)
	ctx := context.Background()
	m.Bootstrap(ctx)

	require.Error(t, m.Login(ctx, "a@b.com", "wrong"))
	require.Equal(t, "Invalid credentials", m.State().Err)

	require.NoError(t, m.RequestPasswordReset(ctx, "a@b.com"))
	assert.Equal(t, "", m.State().Err, "new operation must reset the error")
}
