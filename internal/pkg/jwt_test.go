package pkg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	pair, err := GeneratePair(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "alice", claims.Username)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseAccess("not.a.token")
	require.Error(t, err)

	// a refresh token must not pass as an access token
	pair, err := GeneratePair(42, "alice")
	require.NoError(t, err)
	_, err = ParseAccess(pair.RefreshToken)
	require.Error(t, err)
}

func TestRefresh(t *testing.T) {
	pair, err := GeneratePair(7, "bob")
	require.NoError(t, err)

	fresh, err := Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := ParseAccess(fresh.AccessToken)
	require.NoError(t, err)
	require.Equal(t, uint64(7), claims.UserID)

	// access tokens are signed with a different key
	_, err = Refresh(pair.AccessToken)
	require.Error(t, err)
}

func TestRandDigits(t *testing.T) {
	code, err := RandDigits(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, c := range code {
		require.True(t, c >= '0' && c <= '9')
	}
}
