package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKindWhenCodeEmpty(t *testing.T) {
	err := New(Validation, "ANYTHING", "bad input")
	assert.True(t, errors.Is(err, New(Validation, "", "")))
	assert.False(t, errors.Is(err, New(NotFound, "", "")))
}

func TestIsMatchesByKindAndCode(t *testing.T) {
	err := New(StateConflict, "ALREADY_POSTED", "run already posted")
	assert.True(t, errors.Is(err, New(StateConflict, "ALREADY_POSTED", "")))
	assert.False(t, errors.Is(err, New(StateConflict, "ALREADY_PAID", "")))
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	root := errors.New("db connection lost")
	wrapped := Wrap(Integrity, "DB_ERROR", root)
	assert.Equal(t, root, errors.Unwrap(wrapped))
}

func TestWithFieldSetsField(t *testing.T) {
	err := WithField(Validation, "INVALID_ID", "branch_id", "must be a UUID")
	assert.Equal(t, "branch_id", err.Field)
	assert.Contains(t, err.Error(), "branch_id")
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		Validation:       400,
		Auth:             401,
		Forbidden:        403,
		NotFound:         404,
		StateConflict:    409,
		ConflictOverlap:  409,
		IdempotentReplay: 200,
		RateLimited:      429,
		Integrity:        500,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), "kind %s", kind)
	}
}
