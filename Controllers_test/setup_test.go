package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookahead/backend/database"
	"github.com/bookahead/backend/router"
	"github.com/bookahead/backend/services"
	"github.com/bookahead/backend/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	utils.SilenceLoggers()
}

// setupTestDB uses a private SQLite in-memory database per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	return router.SetupRouter(router.Deps{
		Tables:       services.NewTableService(db),
		Reservations: services.NewReservationService(db),
		Queries:      services.NewQueryService(db),
		Restaurants:  services.NewRestaurantService(db, nil),
		Accounts:     services.NewAccountService(db, bcrypt.MinCost, nil),
		CORSOrigin:   "http://localhost:3000",
	})
}

func ownerToken(t *testing.T, id uint, restaurantName string) string {
	t.Helper()
	token, err := utils.GenerateToken(id, restaurantName, utils.RoleOwner)
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, id uint, name string) string {
	t.Helper()
	token, err := utils.GenerateToken(id, name, utils.RoleUser)
	require.NoError(t, err)
	return token
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doRequest sends body as JSON (when non-nil) and decodes the envelope.
func doRequest(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
