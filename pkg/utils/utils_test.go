package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken(42, "cashier@example.com", "cashier", "main")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "cashier", claims.Role)
	assert.Equal(t, "main", claims.Branch)

	refresh, err := m.GenerateRefreshToken(42)
	require.NoError(t, err)
	userID, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewJWTManager("a", time.Hour, time.Hour).GenerateAccessToken(1, "a@b.c", "admin", "")
	require.NoError(t, err)

	_, err = NewJWTManager("b", time.Hour, time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, time.Hour)
	token, err := m.GenerateAccessToken(1, "a@b.c", "admin", "")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("1234")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("1234", hash))
	assert.False(t, CheckPasswordHash("4321", hash))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1,234.50", FormatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "P76.00", FormatPeso(decimal.NewFromInt(76)))
	assert.Equal(t, "-P20.00", FormatPeso(decimal.NewFromInt(-20)))
}

func TestGenerateInvoiceNo(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	no := GenerateInvoiceNo("OR", at)

	assert.True(t, strings.HasPrefix(no, "OR-20260314-"))
	assert.Len(t, no, len("OR-20260314-")+8)
}
