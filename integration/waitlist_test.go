package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nimbuslabs/waitlist-service/config"
	"github.com/nimbuslabs/waitlist-service/config/router"
	"github.com/nimbuslabs/waitlist-service/domain"
	"github.com/nimbuslabs/waitlist-service/internal/i18n"
	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/internal/models"
	"github.com/nimbuslabs/waitlist-service/internal/notify"
)

type WaitlistAPITestSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	logger    *log.Logger
	appConfig *config.ApplicationConfig
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.WaitlistEntry{})
	suite.Require().NoError(err)

	suite.logger = log.New()

	catalog, err := i18n.Load("en")
	suite.Require().NoError(err)

	suite.appConfig = &config.ApplicationConfig{
		DB:       suite.db,
		Logger:   suite.logger,
		Catalog:  catalog,
		Notifier: notify.NewLogNotifier(suite.logger),
	}

	suite.appConfig.RouterService = router.CreateRouterService(suite.logger, nil, &router.RouterConfig{
		RateLimitRequests: 100,
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
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM waitlist")
}

func validSignupBody() map[string]string {
	return map[string]string{
		"name":         "Jordan Rivers",
		"email":        "jordan@example.com",
		"phone_number": "5551234567",
		"how_heard":    "tiktok",
	}
}

func (suite *WaitlistAPITestSuite) postSignup(body map[string]string, acceptLanguage string) *http.Response {
	jsonBody, _ := json.Marshal(body)

	req, err := http.NewRequest(http.MethodPost, suite.baseURL+"/v1/waitlist", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)

	return resp
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, err := http.Get(suite.baseURL + "/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(200), response["code"])

	data := response["data"].(map[string]interface{})
	suite.Contains(data, "database")
	suite.Contains(data, "uptime")
	suite.Equal(float64(1), data["database"])
}

func (suite *WaitlistAPITestSuite) TestSignupCreatesEntry() {
	resp := suite.postSignup(validSignupBody(), "")
	defer resp.Body.Close()

	suite.Equal(http.StatusCreated, resp.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(201), response["code"])
	suite.Equal("You're on the list!", response["message"])

	data := response["data"].(map[string]interface{})
	suite.Equal("jordan@example.com", data["email"])
	suite.Equal("tiktok", data["how_heard"])
	suite.Contains(data, "id")
	suite.NotEmpty(data["joined_at"])

	var stored models.WaitlistEntry
	err = suite.db.Where("email = ?", "jordan@example.com").First(&stored).Error
	suite.Require().NoError(err)
	suite.Equal("tiktok", stored.HowHeard)
	suite.False(stored.JoinedAt.IsZero())
}

func (suite *WaitlistAPITestSuite) TestSignupLocalizesMessage() {
	resp := suite.postSignup(validSignupBody(), "es-MX,es;q=0.9")
	defer resp.Body.Close()

	suite.Equal(http.StatusCreated, resp.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal("¡Estás en la lista!", response["message"])
}

func (suite *WaitlistAPITestSuite) TestSignupValidationErrors() {
	body := map[string]string{
		"name":         "J",
		"email":        "not-an-email",
		"phone_number": "555",
		"how_heard":    "tiktok",
	}

	resp := suite.postSignup(body, "")
	defer resp.Body.Close()

	suite.Equal(http.StatusBadRequest, resp.StatusCode)

	var response map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(400), response["code"])

	data := response["data"].([]interface{})
	suite.Require().NotEmpty(data)

	fields := make(map[string]string)
	for _, item := range data {
		fieldError := item.(map[string]interface{})
		fields[fieldError["field"].(string)] = fieldError["message"].(string)
	}

	suite.Contains(fields, "name")
	suite.Contains(fields, "email")
	suite.Contains(fields, "phone_number")

	var count int64
	suite.db.Model(&models.WaitlistEntry{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *WaitlistAPITestSuite) TestSignupRejectsUnknownReferralSource() {
	body := validSignupBody()
	body["how_heard"] = "billboard"

	resp := suite.postSignup(body, "")
	defer resp.Body.Close()

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *WaitlistAPITestSuite) TestSignupAllowsRepeatedEmails() {
	resp := suite.postSignup(validSignupBody(), "")
	resp.Body.Close()
	suite.Equal(http.StatusCreated, resp.StatusCode)

	resp = suite.postSignup(validSignupBody(), "")
	defer resp.Body.Close()
	suite.Equal(http.StatusCreated, resp.StatusCode)

	var count int64
	suite.db.Model(&models.WaitlistEntry{}).Count(&count)
	suite.Equal(int64(2), count)
}

func (suite *WaitlistAPITestSuite) TestListEntries() {
	joinedAt := time.Now().UTC()
	entries := []models.WaitlistEntry{
		{Name: "User One", Email: "user1@example.com", PhoneNumber: "5551110001", HowHeard: "instagram", JoinedAt: joinedAt},
		{Name: "User Two", Email: "user2@example.com", PhoneNumber: "5551110002", HowHeard: "other", JoinedAt: joinedAt},
	}

	for _, entry := range entries {
		err := suite.db.Create(&entry).Error
		suite.Require().NoError(err)
	}

	resp, err := http.Get(suite.baseURL + "/v1/waitlist")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	data := response["data"].([]interface{})
	suite.Len(data, 2)

	emails := make([]string, len(data))
	for i, item := range data {
		entry := item.(map[string]interface{})
		emails[i] = entry["email"].(string)
	}

	suite.Contains(emails, "user1@example.com")
	suite.Contains(emails, "user2@example.com")
}

func (suite *WaitlistAPITestSuite) TestHealthEndpointIsRateLimited() {
	limited := false

	for i := 0; i < 15; i++ {
		resp, err := http.Get(suite.baseURL + "/health")
		suite.Require().NoError(err)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			suite.NotEmpty(resp.Header.Get("Retry-After"))
			break
		}
	}

	suite.True(limited, "health endpoint should rate limit within its window")
}

func TestWaitlistAPISuite(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	suite.Run(t, new(WaitlistAPITestSuite))
}
