package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ridehail/internal/modules/booth"
	"ridehail/internal/modules/driver"
	"ridehail/internal/modules/matching"
	"ridehail/internal/modules/pricing"
	"ridehail/internal/modules/ride"
)

func TestWriteDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		want int
	}{
		{ride.ErrNotFound, http.StatusNotFound},
		{booth.ErrNotFound, http.StatusNotFound},
		{driver.ErrNotFound, http.StatusNotFound},
		{matching.ErrNoDriversAvailable, http.StatusNotFound},
		{pricing.ErrInvalidVehicleType, http.StatusBadRequest},
		{ride.ErrBadRequest, http.StatusBadRequest},
		{ride.ErrNoRoute, http.StatusBadRequest},
		{ride.ErrInvalidState, http.StatusConflict},
		{ride.ErrConflict, http.StatusConflict},
		{fmt.Errorf("get ride r1: %w", ride.ErrNotFound), http.StatusNotFound},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeDomainError(c, tc.err)
		if w.Code != tc.want {
			t.Errorf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestInternalErrorIsHidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeDomainError(c, errors.New("pq: password authentication failed"))
	if got := w.Body.String(); got != `{"error":"internal error"}` {
		t.Fatalf("body = %s", got)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("error should be attached for logging, got %d", len(c.Errors))
	}
}
