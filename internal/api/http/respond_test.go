package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/skyphotography/wedding-portal-backend/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("get form: %w", domain.ErrPermissionDenied), http.StatusForbidden},
		{domain.ErrConflict, http.StatusConflict},
		{fmt.Errorf("%w: bad date", domain.ErrInvalidInput), http.StatusBadRequest},
		{&domain.TransportError{Op: "save", Err: errors.New("dial tcp")}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(c, "test.op", "thing failed", domain.ErrConflict)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"thing failed","kind":"conflict"}`, rr.Body.String())
}
