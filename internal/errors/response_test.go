package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Username        string `json:"username" binding:"required,min=3"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

func bindAndRespond(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup", func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondWithBindingError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRespondWithBindingError_FieldMessages(t *testing.T) {
	w := bindAndRespond(t, `{"username":"ab","email":"nope","password":"12345678","confirm_password":"87654321"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ValidationInvalidInput, resp.Error)
	assert.Contains(t, resp.Fields, "username")
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "confirm_password")
	assert.NotContains(t, resp.Fields, "password")
}

func TestRespondWithBindingError_MalformedJSON(t *testing.T) {
	w := bindAndRespond(t, `{"username":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ValidationInvalidInput, resp.Error)
}

func TestRespondWithBindingError_Valid(t *testing.T) {
	w := bindAndRespond(t, `{"username":"beluga","email":"beluga@example.com","password":"12345678","confirm_password":"12345678"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
