package authdomain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClaims_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"not expired", time.Now().Add(time.Hour), false},
		{"expired", time.Now().Add(-time.Hour), true},
		{"just expired", time.Now().Add(-time.Millisecond), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Claims{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, c.IsExpired())
		})
	}
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	c := &Claims{UserID: 7, Role: RoleAdmin}
	got, ok := ClaimsFromContext(WithClaims(context.Background(), c))
	assert.True(t, ok)
	assert.Same(t, c, got)

	var nilClaims *Claims
	assert.False(t, nilClaims.Can(CapViewEvents))
	assert.True(t, c.Can(CapApproveEvent))
}
