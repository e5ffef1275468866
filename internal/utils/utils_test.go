package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_RoundTrip(t *testing.T) {
	body := []byte(`{"event_type":"order.created"}`)
	sig := GenerateSignature(body, "whsec")

	assert.True(t, VerifySignature(body, sig, "whsec"))
	assert.True(t, VerifySignature(body, "sha256="+sig, "whsec"))
	assert.False(t, VerifySignature(body, sig, "other"))
	assert.False(t, VerifySignature(body, "", "whsec"))
	assert.False(t, VerifySignature([]byte("tampered"), sig, "whsec"))
}

func TestJWT_GenerateAndValidate(t *testing.T) {
	SetJWTConfig("test-secret", time.Hour)

	token, err := GenerateJWT("user-1", "alice@example.com", "seller")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "seller", claims.Role)
}

func TestJWT_RejectsForeignSecret(t *testing.T) {
	SetJWTConfig("first", time.Hour)
	token, err := GenerateJWT("user-1", "a@b.c", "admin")
	require.NoError(t, err)

	SetJWTConfig("second", time.Hour)
	_, err = ValidateJWT(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestErrorWithData_Envelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "abcd1234")

	ErrorWithData(c, 400, "INVALID_SHEET", "bad sheet", gin.H{"sheetName": "Q1"})

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "INVALID_SHEET", resp.Error.Code)
	assert.Equal(t, "abcd1234", resp.Meta.RequestID)
	assert.Equal(t, "Q1", resp.Data.(map[string]interface{})["sheetName"])
}
