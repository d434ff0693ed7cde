package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPermission_Covers(t *testing.T) {
	tests := []struct {
		have Permission
		min  Permission
		want bool
	}{
		{PermissionRead, PermissionRead, true},
		{PermissionRead, PermissionWrite, false},
		{PermissionRead, PermissionAdmin, false},
		{PermissionWrite, PermissionRead, true},
		{PermissionWrite, PermissionWrite, true},
		{PermissionWrite, PermissionAdmin, false},
		{PermissionAdmin, PermissionRead, true},
		{PermissionAdmin, PermissionAdmin, true},
		{Permission("bogus"), PermissionRead, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.have.Covers(tt.min), "%s covers %s", tt.have, tt.min)
	}
}

func TestPermission_Valid(t *testing.T) {
	assert.True(t, PermissionRead.Valid())
	assert.True(t, PermissionWrite.Valid())
	assert.True(t, PermissionAdmin.Valid())
	assert.False(t, Permission("owner").Valid())
	assert.False(t, Permission("").Valid())
}

func TestDocumentShare_Expired(t *testing.T) {
	now := time.Now()

	s := DocumentShare{}
	assert.False(t, s.Expired(now), "share without expiry never expires")

	past := now.Add(-time.Hour)
	s.ExpiresAt = &past
	assert.True(t, s.Expired(now))

	future := now.Add(time.Hour)
	s.ExpiresAt = &future
	assert.False(t, s.Expired(now))
}
