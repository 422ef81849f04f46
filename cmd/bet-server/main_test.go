package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminUsername(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"ops@neon-bets.io", "ops"},
		{"book.keeper@example.com", "book.keeper"},
		{"@example.com", "admin"},
		{"", "admin"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, adminUsername(tc.email), tc.email)
	}
}
