package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/domain"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/mailer"
	"github.com/akeren/waitlist-api/pkg/worker"
	"github.com/stretchr/testify/suite"
)

// switchMailer records messages and fails while err is set.
type switchMailer struct {
	mu   sync.Mutex
	err  error
	sent []*mailer.Message
}

func (m *switchMailer) Send(_ context.Context, msg *mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *switchMailer) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *switchMailer) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = nil
	m.sent = nil
}

func (m *switchMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type apiResponse struct {
	Success bool                `json:"success"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

type signupData struct {
	Entry struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"entry"`
	IsNewUser      bool   `json:"is_new_user"`
	IsEarlyAdopter bool   `json:"is_early_adopter"`
	Position       int64  `json:"position"`
	TotalUsers     int64  `json:"total_users"`
	Receipt        string `json:"receipt"`
}

type WaitlistAPITestSuite struct {
	suite.Suite
	server    *httptest.Server
	baseURL   string
	mailer    *switchMailer
	appConfig *config.ApplicationConfig
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	suite.T().Setenv("METRICS_ENABLED", "false")

	logger := log.NewDiscardLogger()

	db, err := config.NewDatabase(logger, &config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(suite.T().TempDir(), "integration.db"),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(config.AutoMigrate(logger, db, models.ModelRegistry...))

	suite.mailer = &switchMailer{}

	suite.appConfig = &config.ApplicationConfig{
		DB:     db,
		Logger: logger,
		Mailer: suite.mailer,
		Workers: worker.NewPool(worker.Config{
			Name:      "notifier",
			Workers:   2,
			QueueSize: 64,
		}, logger),
		Waitlist: &config.WaitlistConfig{
			ProductName:             "BodyForgr",
			EarlyAdopterLimit:       3,
			ReceiptSecret:           "integration-secret",
			ReceiptTTL:              time.Minute,
			SignupRateLimitRequests: 1000,
			SignupRateLimitWindow:   time.Minute,
			NotifierSendTimeout:     time.Second,
		},
	}

	suite.appConfig.RouterService = router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.appConfig != nil {
		suite.appConfig.Cleanup()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.Require().NoError(suite.appConfig.DB.Exec("DELETE FROM waitlist_entries").Error)
	suite.mailer.reset()
}

func (suite *WaitlistAPITestSuite) signup(body map[string]string) (*http.Response, apiResponse) {
	raw, err := json.Marshal(body)
	suite.Require().NoError(err)

	resp, err := http.Post(suite.baseURL+"/v1/waitlist", "application/json", bytes.NewReader(raw))
	suite.Require().NoError(err)
	return resp, suite.decode(resp)
}

func (suite *WaitlistAPITestSuite) get(path string) (*http.Response, apiResponse) {
	resp, err := http.Get(suite.baseURL + path)
	suite.Require().NoError(err)
	return resp, suite.decode(resp)
}

func (suite *WaitlistAPITestSuite) decode(resp *http.Response) apiResponse {
	defer resp.Body.Close()

	var out apiResponse
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (suite *WaitlistAPITestSuite) signupData(body apiResponse) signupData {
	var data signupData
	suite.Require().NoError(json.Unmarshal(body.Data, &data))
	return data
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, body := suite.get("/health")

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(body.Message, "health check completed")

	var status map[string]int
	suite.Require().NoError(json.Unmarshal(body.Data, &status))
	suite.Equal(1, status["database"])
	suite.Equal(1, status["notifier"])
}

func (suite *WaitlistAPITestSuite) TestAnnJoinsThenUpdates() {
	resp, body := suite.signup(map[string]string{"name": "Ann", "email": "Ann@X.com", "role": "user"})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	first := suite.signupData(body)
	suite.True(first.IsNewUser)
	suite.True(first.IsEarlyAdopter)
	suite.Equal(int64(1), first.Position)
	suite.Equal("ann@x.com", first.Entry.Email)

	resp, body = suite.signup(map[string]string{"name": "Ann B", "email": "ann@x.com", "role": "coach"})
	suite.Equal(http.StatusOK, resp.StatusCode)

	second := suite.signupData(body)
	suite.False(second.IsNewUser)
	suite.True(second.IsEarlyAdopter)
	suite.Equal(int64(1), second.Position)
	suite.Equal(int64(1), second.TotalUsers)
	suite.Equal("Ann B", second.Entry.Name)
	suite.Equal("coach", second.Entry.Role)

	suite.Eventually(func() bool { return suite.mailer.count() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func (suite *WaitlistAPITestSuite) TestEarlyAdopterBoundaryAndPositions() {
	for i := 1; i <= 4; i++ {
		resp, body := suite.signup(map[string]string{
			"name": fmt.Sprintf("User %d", i), "email": fmt.Sprintf("user%d@example.com", i), "role": "user",
		})
		suite.Require().Equal(http.StatusCreated, resp.StatusCode)

		data := suite.signupData(body)
		suite.Equal(int64(i), data.Position)
		suite.Equal(i <= 3, data.IsEarlyAdopter, "signup %d", i)
	}

	_, body := suite.get("/v1/waitlist/stats")
	var stats map[string]int64
	suite.Require().NoError(json.Unmarshal(body.Data, &stats))
	suite.Equal(int64(4), stats["total"])
	suite.Equal(int64(3), stats["early_adopters"])
	suite.Equal(int64(0), stats["remaining_spots"])
}

func (suite *WaitlistAPITestSuite) TestMalformedEmailCreatesNothing() {
	resp, body := suite.signup(map[string]string{"name": "Ann", "email": "ann-at-x", "role": "user"})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.False(body.Success)
	suite.Contains(body.Errors, "email")

	var count int64
	suite.Require().NoError(suite.appConfig.DB.Model(&models.WaitlistEntry{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *WaitlistAPITestSuite) TestMailFailureDoesNotAffectSignup() {
	suite.mailer.fail(errors.New("smtp: connection refused"))

	resp, body := suite.signup(map[string]string{"name": "Cara", "email": "cara@example.com", "role": "coach"})
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.True(suite.signupData(body).IsNewUser)

	suite.Never(func() bool { return suite.mailer.count() > 0 }, 200*time.Millisecond, 20*time.Millisecond)
}

func (suite *WaitlistAPITestSuite) TestThanksFromReceipt() {
	_, body := suite.signup(map[string]string{"name": "Dee", "email": "dee@example.com", "role": "user"})
	receipt := suite.signupData(body).Receipt
	suite.Require().NotEmpty(receipt)

	resp, body := suite.get("/v1/waitlist/thanks?receipt=" + receipt)
	suite.Equal(http.StatusOK, resp.StatusCode)

	var thanks struct {
		Name     string `json:"name"`
		Position int64  `json:"position"`
	}
	suite.Require().NoError(json.Unmarshal(body.Data, &thanks))
	suite.Equal("Dee", thanks.Name)
	suite.Equal(int64(1), thanks.Position)
}

func TestWaitlistAPISuite(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	suite.Run(t, new(WaitlistAPITestSuite))
}
