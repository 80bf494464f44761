package creators

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"artison-api/database/databasetest"
	"artison-api/internal/api/apierr"
	"artison-api/internal/domain/creators"
	"artison-api/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := databasetest.New(t)
	return NewService(db, slog.New(slog.NewTextHandler(io.Discard, nil))), db
}

func createUser(t *testing.T, db *gorm.DB, username string, creator bool) users.User {
	t.Helper()
	u := users.User{
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: "x",
		IsActive:       true,
		IsCreator:      creator,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func ptr[T any](v T) *T { return &v }

func TestCreateProfile(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	creator := createUser(t, db, "mika", true)

	view, err := svc.CreateProfile(ctx, creator.ID, ProfileInput{DisplayName: "Mika", Bio: ptr("drawing cats")})
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, creator.ID, view.UserID)
	assert.Empty(t, view.PlatformLinks)

	_, err = svc.CreateProfile(ctx, creator.ID, ProfileInput{DisplayName: "Mika again"})
	assert.ErrorIs(t, err, apierr.ErrConflict)
}

func TestCreateProfileRequiresCreator(t *testing.T) {
	svc, db := setup(t)
	fan := createUser(t, db, "fan", false)

	_, err := svc.CreateProfile(context.Background(), fan.ID, ProfileInput{DisplayName: "Fan"})
	assert.ErrorIs(t, err, apierr.ErrForbidden)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	creator := createUser(t, db, "mika", true)
	_, err := svc.CreateProfile(ctx, creator.ID, ProfileInput{DisplayName: "Mika", Bio: ptr("drawing cats")})
	require.NoError(t, err)

	view, err := svc.UpdateProfile(ctx, creator.ID, creators.ProfileUpdate{DisplayName: ptr("Mika Art")})
	require.NoError(t, err)
	assert.Equal(t, "Mika Art", view.DisplayName)
	require.NotNil(t, view.Bio)
	assert.Equal(t, "drawing cats", *view.Bio)

	stored, err := svc.GetProfileByUserID(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mika Art", stored.DisplayName)
	assert.Equal(t, "drawing cats", *stored.Bio)
}

func TestUpdateProfileMissing(t *testing.T) {
	svc, db := setup(t)
	creator := createUser(t, db, "mika", true)

	_, err := svc.UpdateProfile(context.Background(), creator.ID, creators.ProfileUpdate{DisplayName: ptr("x")})
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestPublicProfileLinksOrdered(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	creator := createUser(t, db, "mika", true)
	_, err := svc.CreateProfile(ctx, creator.ID, ProfileInput{DisplayName: "Mika"})
	require.NoError(t, err)

	_, err = svc.AddLink(ctx, creator.ID, LinkInput{PlatformName: "YouTube", PlatformURL: "https://youtube.com/@mika", DisplayOrder: 2})
	require.NoError(t, err)
	_, err = svc.AddLink(ctx, creator.ID, LinkInput{PlatformName: "X", PlatformURL: "https://x.com/mika", DisplayOrder: 1})
	require.NoError(t, err)

	view, err := svc.GetPublicProfile(ctx, "mika")
	require.NoError(t, err)
	assert.Equal(t, "mika", view.Username)
	require.Len(t, view.PlatformLinks, 2)
	assert.Equal(t, "X", view.PlatformLinks[0].PlatformName)
	assert.Equal(t, "YouTube", view.PlatformLinks[1].PlatformName)

	_, err = svc.GetPublicProfile(ctx, "nobody")
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestLinkOwnership(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "alice", true)
	b := createUser(t, db, "bob", true)
	for _, u := range []users.User{a, b} {
		_, err := svc.CreateProfile(ctx, u.ID, ProfileInput{DisplayName: u.Username})
		require.NoError(t, err)
	}

	link, err := svc.AddLink(ctx, a.ID, LinkInput{PlatformName: "X", PlatformURL: "https://x.com/alice"})
	require.NoError(t, err)

	_, err = svc.UpdateLink(ctx, b.ID, link.ID, creators.LinkUpdate{PlatformName: ptr("hijacked")})
	assert.ErrorIs(t, err, apierr.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteLink(ctx, b.ID, link.ID), apierr.ErrNotFound)

	updated, err := svc.UpdateLink(ctx, a.ID, link.ID, creators.LinkUpdate{PlatformURL: ptr("https://x.com/alice2")})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.PlatformName)
	assert.Equal(t, "https://x.com/alice2", updated.PlatformURL)

	require.NoError(t, svc.DeleteLink(ctx, a.ID, link.ID))
	view, err := svc.GetProfileByUserID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, view.PlatformLinks)
}

func TestReorderLinks(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	a := createUser(t, db, "alice", true)
	b := createUser(t, db, "bob", true)
	for _, u := range []users.User{a, b} {
		_, err := svc.CreateProfile(ctx, u.ID, ProfileInput{DisplayName: u.Username})
		require.NoError(t, err)
	}

	linkA, err := svc.AddLink(ctx, a.ID, LinkInput{PlatformName: "A", PlatformURL: "https://a.example.com", DisplayOrder: 0})
	require.NoError(t, err)
	linkB, err := svc.AddLink(ctx, a.ID, LinkInput{PlatformName: "B", PlatformURL: "https://b.example.com", DisplayOrder: 1})
	require.NoError(t, err)
	foreign, err := svc.AddLink(ctx, b.ID, LinkInput{PlatformName: "F", PlatformURL: "https://f.example.com", DisplayOrder: 0})
	require.NoError(t, err)

	result, err := svc.ReorderLinks(ctx, a.ID, []string{linkB.ID, foreign.ID, linkA.ID, "does-not-exist"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, linkB.ID, result[0].ID)
	assert.Equal(t, linkA.ID, result[1].ID)
	assert.Less(t, result[0].DisplayOrder, result[1].DisplayOrder)

	view, err := svc.GetProfileByUserID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, view.PlatformLinks, 2)
	assert.Equal(t, "B", view.PlatformLinks[0].PlatformName)
	assert.Equal(t, "A", view.PlatformLinks[1].PlatformName)

	var stillForeign creators.PlatformLink
	require.NoError(t, db.First(&stillForeign, "id = ?", foreign.ID).Error)
	assert.Equal(t, 0, stillForeign.DisplayOrder)
}

func TestReorderLinksWithoutProfile(t *testing.T) {
	svc, db := setup(t)
	u := createUser(t, db, "fan", false)

	_, err := svc.ReorderLinks(context.Background(), u.ID, []string{"x"})
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}
