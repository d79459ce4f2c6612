package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/deckhaven/deck-builder/backend/internal/models"
)

// resetAdminKey clears the cached key so each test picks up its own
// ADMIN_KEY value.
func resetAdminKey(t *testing.T, key string) {
	t.Setenv("ADMIN_KEY", key)
	adminKeyOnce = sync.Once{}
	adminKey = ""
}

func adminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", AdminKeyAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAdminKeyAuthDisabledWithoutKey(t *testing.T) {
	resetAdminKey(t, "")
	router := adminTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when no key configured", w.Code)
	}
}

func TestAdminKeyAuth(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "AUTH_REQUIRED"},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized, "AUTH_INVALID_FORMAT"},
		{"no scheme", "secret", http.StatusUnauthorized, "AUTH_INVALID_FORMAT"},
		{"wrong key", "Bearer wrong", http.StatusUnauthorized, "AUTH_INVALID_KEY"},
		{"valid key", "Bearer secret", http.StatusOK, ""},
		{"case-insensitive scheme", "bearer secret", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetAdminKey(t, "secret")
			router := adminTestRouter()

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedCode != "" && !strings.Contains(w.Body.String(), tt.expectedCode) {
				t.Errorf("body %q missing code %q", w.Body.String(), tt.expectedCode)
			}
		})
	}
}

func sessionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sessionTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", SessionAuth(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c)})
	})
	return router
}

func TestSessionAuth(t *testing.T) {
	db := sessionTestDB(t)
	db.Create(&models.Session{
		Token:     "valid-token",
		UserID:    "user-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	db.Create(&models.Session{
		Token:     "expired-token",
		UserID:    "user-2",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	router := sessionTestRouter(db)

	tests := []struct {
		name           string
		cookie         string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{"no credentials", "", "", http.StatusUnauthorized, "AUTH_REQUIRED"},
		{"unknown token", "nope", "", http.StatusUnauthorized, "AUTH_INVALID_SESSION"},
		{"expired token", "expired-token", "", http.StatusUnauthorized, "AUTH_SESSION_EXPIRED"},
		{"valid cookie", "valid-token", "", http.StatusOK, "user-1"},
		{"valid bearer header", "", "Bearer valid-token", http.StatusOK, "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("body %q missing %q", w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestSessionAuthDeletesExpiredSession(t *testing.T) {
	db := sessionTestDB(t)
	db.Create(&models.Session{
		Token:     "stale",
		UserID:    "user-3",
		CreatedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	})
	router := sessionTestRouter(db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var count int64
	db.Model(&models.Session{}).Where("token = ?", "stale").Count(&count)
	if count != 0 {
		t.Errorf("expired session still present")
	}
}
