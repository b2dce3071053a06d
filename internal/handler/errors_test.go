package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/fleet-tracker-go/internal/service"
	"github.com/jengzang/fleet-tracker-go/pkg/response"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("parse: %w", service.ErrInvalidArgument), http.StatusBadRequest},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("find trips: %w: %w", service.ErrStoreUnavailable, errors.New("disk I/O error")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusOf(tc.err), tc.err.Error())
	}
}

func TestRespondErrorHidesServerCauses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, zerolog.Nop(), fmt.Errorf("find trips: %w: %w", service.ErrStoreUnavailable, errors.New("database is locked")))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "locked")
	assert.Len(t, c.Errors, 1)
}

type bindTarget struct {
	PlateNumber string `json:"plateNumber" binding:"required"`
	Year        int    `json:"year" binding:"min=1900"`
}

func TestRespondBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bind := func(body string) response.Response {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		var in bindTarget
		err := c.ShouldBindJSON(&in)
		require.Error(t, err)
		respondBindError(c, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var res response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		return res
	}

	res := bind(`{"year": 1800}`)
	assert.Equal(t, []response.FieldError{
		{Field: "plateNumber", Message: "is required"},
		{Field: "year", Message: "must be at least 1900"},
	}, res.Details)

	res = bind(`{"plateNumber": "B1", "year": "soon"}`)
	require.Len(t, res.Details, 1)
	assert.Equal(t, "year", res.Details[0].Field)

	res = bind(`{not json`)
	assert.Equal(t, "malformed request", res.Message)
	assert.Empty(t, res.Details)
}
