package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("D0001", "Dr. Rao", "doctor", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "D0001", claims.Code)
	assert.Equal(t, "Dr. Rao", claims.Name)
	assert.Equal(t, "doctor", claims.UserType)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("N0001", "Asha", "nurse", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}
