package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/talentverse/talentverse-backend/internal/database"
	"github.com/talentverse/talentverse-backend/internal/middleware"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/internal/services"
	"github.com/talentverse/talentverse-backend/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

type testEnv struct {
	db    *gorm.DB
	codes *services.MemoryCodeStore
	hub   *services.Hub
	r     *gin.Engine
}

// envelope mirrors utils.ServiceResponse with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateAll(db))

	codes := services.NewMemoryCodeStore()
	hub := services.NewHub()
	go hub.Run()

	r := gin.New()
	api := r.Group("/api")

	account := api.Group("/account")
	account.POST("/register", Register(db))
	account.POST("/login", Login(db, codes))
	account.POST("/login-2fa", LoginWith2FA(db, codes))
	api.GET("/skills", ListSkills(db))
	api.GET("/users/:id/reviews", ListUserReviews(db))

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/account/request-2fa-code", RequestTwoFactorCode(db, codes))
	protected.POST("/account/enable-2fa", EnableTwoFactor(db, codes))
	protected.POST("/account/disable-2fa", DisableTwoFactor(db, codes))
	protected.POST("/account/enroll-authenticator", EnrollAuthenticator(db))
	protected.GET("/users/profile", GetProfile(db))
	protected.PUT("/users/profile", UpdateProfile(db))
	protected.GET("/users/me/skills", ListMySkills(db))
	protected.POST("/users/me/skills", AddUserSkill(db))
	protected.DELETE("/users/me/skills/:id", RemoveUserSkill(db))
	protected.POST("/skills", CreateSkill(db))
	protected.POST("/proposals", CreateProposal(db, hub))
	protected.GET("/proposals/sent", ListSentProposals(db))
	protected.GET("/proposals/received", ListReceivedProposals(db))
	protected.GET("/proposals/:id", GetProposal(db))
	protected.PATCH("/proposals/:id/status", UpdateProposalStatus(db, hub))
	protected.POST("/proposals/:id/complete", CompleteProposal(db, hub))
	protected.GET("/proposals/:id/messages", ListMessages(db))
	protected.POST("/proposals/:id/messages", SendMessage(db, hub))
	protected.PATCH("/proposals/:id/messages/read", MarkMessagesRead(db))
	protected.POST("/proposals/:id/reviews", CreateReview(db))
	protected.POST("/proposals/:id/appointments", CreateAppointment(db, hub))
	protected.GET("/appointments", ListMyAppointments(db))
	protected.GET("/credits/balance", GetCreditBalance(db))
	protected.GET("/credits/history", GetCreditHistory(db))

	return &testEnv{db: db, codes: codes, hub: hub, r: r}
}

func (e *testEnv) createUser(t *testing.T, username, email, password string, twoFactor bool) *models.User {
	t.Helper()

	user := models.User{
		Username:         username,
		Email:            models.NormalizeEmail(email),
		Password:         password,
		Role:             models.RoleMember,
		TwoFactorEnabled: twoFactor,
	}
	require.NoError(t, user.HashPassword())
	require.NoError(t, e.db.Create(&user).Error)
	return &user
}

func (e *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NotEmpty(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, out))
}
