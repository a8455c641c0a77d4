package secrethash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	encoded, err := Hash("correct-pin-1234")
	require.NoError(t, err)
	assert.True(t, Verify("correct-pin-1234", encoded))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	encoded, err := Hash("correct-pin-1234")
	require.NoError(t, err)
	assert.False(t, Verify("wrong-pin", encoded))
}

func TestVerifyRejectsEmptyEncoded(t *testing.T) {
	assert.False(t, Verify("anything", ""))
}

func TestVerifyRejectsMalformedEncoding(t *testing.T) {
	assert.False(t, Verify("anything", "not-a-valid-hash"))
}

func TestHashProducesUniqueSaltPerCall(t *testing.T) {
	a, err := Hash("same-secret")
	require.NoError(t, err)
	b, err := Hash("same-secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, Verify("same-secret", a))
	assert.True(t, Verify("same-secret", b))
}
