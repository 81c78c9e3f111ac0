package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindInvalidState, http.StatusBadRequest},
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestErrorIs(t *testing.T) {
	sentinel := NotFound("Event not found")

	wrapped := fmt.Errorf("lookup: %w", sentinel.Wrap(errors.New("no rows")))
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, NotFound("Student not found")))
	assert.False(t, errors.Is(wrapped, Conflict("Event not found")))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestWithStatusDoesNotMutate(t *testing.T) {
	base := Conflict("You are already registered for this event")
	withStatus := base.WithStatus("Waitlisted")

	assert.Empty(t, base.Status)
	assert.Equal(t, "Waitlisted", withStatus.Status)
	assert.True(t, errors.Is(withStatus, base))
}
