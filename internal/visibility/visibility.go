// Package visibility holds the per-viewer content visibility policy.
//
// Content is visible when the owner is public, the viewer is the owner, or
// the viewer holds an approved follow edge to the owner. Every read path in
// the system, single-item and list alike, goes through this package so the
// rule cannot drift between endpoints.
package visibility

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
)

// Viewer identifies who is asking. The zero value is an anonymous viewer.
type Viewer struct {
	ID            uuid.UUID
	Authenticated bool
}

// Anonymous is the viewer used for unauthenticated requests.
var Anonymous = Viewer{}

// CanView decides a single-item read. isFollowing must reflect an approved
// follower(viewer) -> following(owner) edge at call time.
func CanView(viewer Viewer, owner *models.User, isFollowing bool) bool {
	if owner == nil {
		return false
	}
	if !owner.IsPrivate() {
		return true
	}
	if viewer.Authenticated && viewer.ID == owner.ID {
		return true
	}
	return viewer.Authenticated && isFollowing
}

// AuthorScope restricts a query over rows with an author_id column to those
// whose owner is visible to the viewer. It deliberately returns an ordinary
// WHERE clause so the caller's soft-delete and expiry filters compose with
// it; a denied owner simply produces no rows, never an error.
func AuthorScope(db *gorm.DB, viewer Viewer) func(tx *gorm.DB) *gorm.DB {
	publicAuthors := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.User{}).
		Select("id").
		Where("privacy_choice = ?", models.PrivacyPublic)

	return func(tx *gorm.DB) *gorm.DB {
		if !viewer.Authenticated {
			return tx.Where("author_id IN (?)", publicAuthors)
		}
		followed := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("following_id").
			Where("follower_id = ?", viewer.ID)
		return tx.Where(
			"author_id IN (?) OR author_id = ? OR author_id IN (?)",
			publicAuthors, viewer.ID, followed,
		)
	}
}
