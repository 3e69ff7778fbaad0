package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Duplicate("again"), http.StatusConflict},
		{PermissionDenied(), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{Unsupported("never"), http.StatusMethodNotAllowed},
		{FollowRequestSent(), http.StatusAccepted},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus(), tt.err.Message)
	}
}

func TestKindOfWrappedError(t *testing.T) {
	base := NotFound("post not found")
	wrapped := fmt.Errorf("loading feed: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindDuplicate))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
}

func TestWrapKeepsKind(t *testing.T) {
	err := Wrap(Duplicate("already liked"), errors.New("unique constraint"))
	assert.Equal(t, KindDuplicate, KindOf(err))
	assert.Contains(t, err.Error(), "already liked")
	assert.Contains(t, err.Error(), "unique constraint")
}
