package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketpulse/internal/logging"
	"github.com/dmitrijs2005/marketpulse/internal/server/auth"
	"github.com/dmitrijs2005/marketpulse/internal/server/config"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
	"github.com/dmitrijs2005/marketpulse/internal/server/services"
)

// Function-field fakes so each test overrides only the calls it cares about.

type fakeUserService struct {
	signUpFn              func(ctx context.Context, in services.SignUpInput) (*models.User, error)
	loginFn               func(ctx context.Context, email, password string) (string, *models.User, error)
	meFn                  func(ctx context.Context, userID string) (*models.User, error)
	verifyEmailFn         func(ctx context.Context, token string) error
	resendVerificationFn  func(ctx context.Context, userID string) error
	forgotPasswordFn      func(ctx context.Context, email string) error
	resetPasswordFn       func(ctx context.Context, token, newPassword string) error
	generateAccessTokenFn func(userID string) (string, error)
	ensureFederatedFn     func(ctx context.Context, email, name string) (*models.User, error)
}

func (f *fakeUserService) SignUp(ctx context.Context, in services.SignUpInput) (*models.User, error) {
	return f.signUpFn(ctx, in)
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeUserService) Me(ctx context.Context, userID string) (*models.User, error) {
	return f.meFn(ctx, userID)
}

func (f *fakeUserService) VerifyEmail(ctx context.Context, token string) error {
	return f.verifyEmailFn(ctx, token)
}

func (f *fakeUserService) ResendVerification(ctx context.Context, userID string) error {
	return f.resendVerificationFn(ctx, userID)
}

func (f *fakeUserService) ForgotPassword(ctx context.Context, email string) error {
	return f.forgotPasswordFn(ctx, email)
}

func (f *fakeUserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return f.resetPasswordFn(ctx, token, newPassword)
}

func (f *fakeUserService) GenerateAccessToken(userID string) (string, error) {
	return f.generateAccessTokenFn(userID)
}

func (f *fakeUserService) EnsureFederatedUser(ctx context.Context, email, name string) (*models.User, error) {
	return f.ensureFederatedFn(ctx, email, name)
}

type fakeAnalyticsService struct {
	segmentsFn         func(ctx context.Context) ([]models.Segment, error)
	segmentFn          func(ctx context.Context, id int64) (*models.Segment, error)
	behaviorsFn        func(ctx context.Context, startDate, endDate, segmentID string) ([]models.BehaviorCount, error)
	metricsFn          func(ctx context.Context) (*models.MetricsRow, error)
	engagementFn       func(ctx context.Context, segmentID string) ([]models.EngagementPoint, error)
	growthMetricsFn    func(ctx context.Context) ([]models.GrowthMetric, error)
	growthStrategiesFn func(ctx context.Context) ([]models.GrowthStrategy, error)
	marketTrendsFn     func(ctx context.Context, industry string) ([]models.MarketTrend, error)
	marketSizeFn       func(ctx context.Context, industry string) (*services.MarketSizeEstimate, error)
	competitorsFn      func(ctx context.Context, industry string) ([]models.Competitor, error)
}

func (f *fakeAnalyticsService) Segments(ctx context.Context) ([]models.Segment, error) {
	return f.segmentsFn(ctx)
}

func (f *fakeAnalyticsService) Segment(ctx context.Context, id int64) (*models.Segment, error) {
	return f.segmentFn(ctx, id)
}

func (f *fakeAnalyticsService) Behaviors(ctx context.Context, startDate, endDate, segmentID string) ([]models.BehaviorCount, error) {
	return f.behaviorsFn(ctx, startDate, endDate, segmentID)
}

func (f *fakeAnalyticsService) Metrics(ctx context.Context) (*models.MetricsRow, error) {
	return f.metricsFn(ctx)
}

func (f *fakeAnalyticsService) Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error) {
	return f.engagementFn(ctx, segmentID)
}

func (f *fakeAnalyticsService) GrowthMetrics(ctx context.Context) ([]models.GrowthMetric, error) {
	return f.growthMetricsFn(ctx)
}

func (f *fakeAnalyticsService) GrowthStrategies(ctx context.Context) ([]models.GrowthStrategy, error) {
	return f.growthStrategiesFn(ctx)
}

func (f *fakeAnalyticsService) MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error) {
	return f.marketTrendsFn(ctx, industry)
}

func (f *fakeAnalyticsService) MarketSize(ctx context.Context, industry string) (*services.MarketSizeEstimate, error) {
	return f.marketSizeFn(ctx, industry)
}

func (f *fakeAnalyticsService) Competitors(ctx context.Context, industry string) ([]models.Competitor, error) {
	return f.competitorsFn(ctx, industry)
}

type fakeProfileService struct {
	getFn  func(ctx context.Context, userID string) (*models.BusinessProfile, error)
	saveFn func(ctx context.Context, profile *models.BusinessProfile) error
}

func (f *fakeProfileService) Get(ctx context.Context, userID string) (*models.BusinessProfile, error) {
	return f.getFn(ctx, userID)
}

func (f *fakeProfileService) Save(ctx context.Context, profile *models.BusinessProfile) error {
	return f.saveFn(ctx, profile)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

func newTestHandler(users UserService, analytics AnalyticsService, profiles ProfileService) *Handler {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewHandler(users, analytics, profiles, log, testConfig())
}

// accessTokenFor mints an access token the test handler's authenticator accepts.
func accessTokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, auth.PurposeAccess, []byte(testConfig().SecretKey), testConfig().AccessTokenValidityDuration)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, h *Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}
