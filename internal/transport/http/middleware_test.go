package httptransport

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=5", 10, 5},
		{"?limit=0", 1, 0},
		{"?limit=9999", 500, 0},
		{"?offset=-3", 50, 0},
		{"?limit=abc&offset=xyz", 50, 0},
	}
	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/api/bets"+tc.query, nil)
		limit, offset := ParsePagination(r)
		assert.Equal(t, tc.wantLimit, limit, tc.query)
		assert.Equal(t, tc.wantOffset, offset, tc.query)
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/me", nil)
	_, ok := bearerToken(r)
	assert.False(t, ok)

	r.Header.Set("Authorization", "Bearer abc123")
	token, ok := bearerToken(r)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)

	r.Header.Set("Authorization", "Basic abc123")
	_, ok = bearerToken(r)
	assert.False(t, ok)
}
