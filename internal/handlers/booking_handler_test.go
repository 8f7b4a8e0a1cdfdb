package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taipeitrip/booking-backend/internal/database"
	"github.com/taipeitrip/booking-backend/internal/middleware"
	"github.com/taipeitrip/booking-backend/internal/models"
	"github.com/taipeitrip/booking-backend/pkg/jwt"
)

func newMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

// newBookingRouter wires the booking endpoints behind the auth middleware
// the way the server does, and returns a token for member 1.
func newBookingRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, string) {
	gin.SetMode(gin.TestMode)

	db, mock := newMockDB(t)
	handler := NewBookingHandler(
		database.NewBookingRepository(db),
		database.NewAttractionRepository(db),
	)

	jwtService := jwt.NewService("test-secret", time.Hour)
	token, err := jwtService.Issue(1, "Alice", "alice@example.com")
	require.NoError(t, err)

	router := gin.New()
	authed := router.Group("/api", middleware.AuthMiddleware(jwtService))
	authed.GET("/booking", handler.GetPending)
	authed.POST("/booking", handler.CreatePending)
	authed.DELETE("/booking", handler.DeletePending)

	return router, mock, token
}

func doJSON(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestGetPendingBookingEndpoint(t *testing.T) {
	t.Run("Unauthorized", func(t *testing.T) {
		router, mock, _ := newBookingRouter(t)

		w := doJSON(router, http.MethodGet, "/api/booking", "", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		// The request must be rejected before any repository call.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Pending Booking", func(t *testing.T) {
		router, mock, token := newBookingRouter(t)

		mock.ExpectQuery(`SELECT b\.attraction_id`).
			WithArgs(int64(1), models.BookingStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"attraction_id", "attraction_name", "address", "image", "date", "time", "price"}))

		w := doJSON(router, http.MethodGet, "/api/booking", token, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":null}`, w.Body.String())
	})

	t.Run("With Pending Booking", func(t *testing.T) {
		router, mock, token := newBookingRouter(t)

		mock.ExpectQuery(`SELECT b\.attraction_id`).
			WithArgs(int64(1), models.BookingStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"attraction_id", "attraction_name", "address", "image", "date", "time", "price"}).
				AddRow(int64(7), "Yangmingshan", "Beitou", "https://img/7.jpg", "2026-09-01", "afternoon", 2500))

		w := doJSON(router, http.MethodGet, "/api/booking", token, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Yangmingshan"`)
		assert.Contains(t, w.Body.String(), `"price":2500`)
	})
}

func TestCreatePendingBookingEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mock, token := newBookingRouter(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attractions`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM bookings`).
			WithArgs(int64(1), models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WithArgs(int64(1), int64(7), "2026-09-01", "afternoon", 2500, models.BookingStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now()))
		mock.ExpectCommit()

		body := `{"attractionId":7,"date":"2026-09-01","time":"afternoon","price":2500}`
		w := doJSON(router, http.MethodPost, "/api/booking", token, body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Attraction", func(t *testing.T) {
		router, mock, token := newBookingRouter(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM attractions`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		body := `{"attractionId":999,"date":"2026-09-01","time":"afternoon","price":2500}`
		w := doJSON(router, http.MethodPost, "/api/booking", token, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Attraction not found")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bad Date Format", func(t *testing.T) {
		router, mock, token := newBookingRouter(t)

		body := `{"attractionId":7,"date":"09/01/2026","time":"afternoon","price":2500}`
		w := doJSON(router, http.MethodPost, "/api/booking", token, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Non Positive Price", func(t *testing.T) {
		router, mock, token := newBookingRouter(t)

		body := `{"attractionId":7,"date":"2026-09-01","time":"afternoon","price":0}`
		w := doJSON(router, http.MethodPost, "/api/booking", token, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeletePendingBookingEndpoint(t *testing.T) {
	t.Run("Removes Pending Booking", func(t *testing.T) {
		router, mock, token := newBookingRouter(t)

		mock.ExpectExec(`DELETE FROM bookings`).
			WithArgs(int64(1), models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := doJSON(router, http.MethodDelete, "/api/booking", token, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})

	t.Run("Nothing Pending", func(t *testing.T) {
		router, mock, token := newBookingRouter(t)

		mock.ExpectExec(`DELETE FROM bookings`).
			WithArgs(int64(1), models.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		w := doJSON(router, http.MethodDelete, "/api/booking", token, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No pending booking to delete")
	})
}
