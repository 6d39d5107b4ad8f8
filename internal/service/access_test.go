package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizer_IsAdmin(t *testing.T) {
	authorizer := NewAuthorizer([]int64{10, 20})

	assert.True(t, authorizer.IsAdmin(10))
	assert.True(t, authorizer.IsAdmin(20))
	assert.False(t, authorizer.IsAdmin(30))
	assert.False(t, authorizer.IsAdmin(0))
}

func TestAuthorizer_EmptyList(t *testing.T) {
	authorizer := NewAuthorizer(nil)

	assert.False(t, authorizer.IsAdmin(10))
}

func TestParseAdminIDs(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expectedIDs []int64
		wantErr     bool
	}{
		{name: "empty", raw: ""},
		{name: "single", raw: "10", expectedIDs: []int64{10}},
		{name: "spaces and blanks", raw: " 10, ,20 ,", expectedIDs: []int64{10, 20}},
		{name: "invalid entry", raw: "10,abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := ParseAdminIDs(tt.raw)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAdminID)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}
