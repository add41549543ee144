package jwttoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParseTamperedToken(t *testing.T) {
	token, err := Generate("user-1")
	require.NoError(t, err)

	_, err = Parse(token + "x")
	assert.Error(t, err)
}

func TestParseEmptyUserID(t *testing.T) {
	token, err := Generate("")
	require.NoError(t, err)

	_, err = Parse(token)
	assert.Error(t, err)
}
