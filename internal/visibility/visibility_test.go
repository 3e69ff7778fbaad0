package visibility

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/socialite-app/backend/internal/models"
)

func TestCanView(t *testing.T) {
	ownerID := uuid.New()
	viewerID := uuid.New()

	publicOwner := &models.User{ID: ownerID, PrivacyChoice: models.PrivacyPublic}
	privateOwner := &models.User{ID: ownerID, PrivacyChoice: models.PrivacyPrivate}

	authed := Viewer{ID: viewerID, Authenticated: true}
	self := Viewer{ID: ownerID, Authenticated: true}

	tests := []struct {
		name        string
		viewer      Viewer
		owner       *models.User
		isFollowing bool
		want        bool
	}{
		{"public owner, anonymous viewer", Anonymous, publicOwner, false, true},
		{"public owner, authenticated stranger", authed, publicOwner, false, true},
		{"public owner, follower", authed, publicOwner, true, true},
		{"private owner, anonymous viewer", Anonymous, privateOwner, false, false},
		{"private owner, authenticated stranger", authed, privateOwner, false, false},
		{"private owner, approved follower", authed, privateOwner, true, true},
		{"private owner, the owner themselves", self, privateOwner, false, true},
		{"missing owner", authed, nil, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.viewer, tt.owner, tt.isFollowing))
		})
	}
}

func TestAnonymousIsNotAuthenticated(t *testing.T) {
	assert.False(t, Anonymous.Authenticated)
}
