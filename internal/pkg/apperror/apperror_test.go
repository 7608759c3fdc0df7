package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Auth("nope"), http.StatusUnauthorized},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Forbidden("not yours"), http.StatusForbidden},
		{UpstreamTimeout("slow", nil), http.StatusGatewayTimeout},
		{UpstreamNetwork("down", nil), http.StatusInternalServerError},
		{Internal("oops", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	cause := errors.New("db closed")
	err := fmt.Errorf("save: %w", Internal("Error saving session", cause))

	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindNotFound, KindOf(NotFound("Session not found")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}
