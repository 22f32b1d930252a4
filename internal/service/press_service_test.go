package service

import (
	"context"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPressService(t *testing.T) *PressService {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&model.PressHero{},
		&model.MediaCoverage{},
		&model.PressRelease{},
		&model.Exhibition{},
		&model.SpeakingEngagement{},
		&model.Collaboration{},
	))
	return NewPressService(dao.NewPressDao(db))
}

func TestPressHero(t *testing.T) {
	svc := newPressService(t)
	ctx := context.Background()

	_, err := svc.GetHero(ctx)
	assert.True(t, e.IsKind(err, e.KindNotFound))

	saved, err := svc.UpdateHero(ctx, &PressHeroRequest{
		Title:    "In the Press",
		Subtitle: "Coverage and milestones",
	})
	require.NoError(t, err)

	hero, err := svc.GetHero(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, hero.ID)
	assert.Equal(t, "In the Press", hero.Title)

	// Saving again replaces the singleton instead of adding a row.
	again, err := svc.UpdateHero(ctx, &PressHeroRequest{Title: "Press & Media"})
	require.NoError(t, err)
	assert.Equal(t, hero.ID, again.ID)
	assert.Equal(t, "Press & Media", again.Title)
}

func TestPressPublishedFiltering(t *testing.T) {
	svc := newPressService(t)
	ctx := context.Background()
	unpublished := false

	_, err := svc.CreateMediaCoverage(ctx, &MediaCoverageRequest{
		Title:  "Feature on handwoven collections",
		Outlet: "Design Weekly",
		Date:   "2026-02-10",
	})
	require.NoError(t, err)
	_, err = svc.CreateMediaCoverage(ctx, &MediaCoverageRequest{
		Title:       "Draft interview",
		Outlet:      "Craft Review",
		Date:        "2026-03-01",
		IsPublished: &unpublished,
	})
	require.NoError(t, err)

	public, err := svc.ListMediaCoverage(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Design Weekly", public[0].Outlet)

	all, err := svc.ListMediaCoverage(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.CreatePressRelease(ctx, &PressReleaseRequest{
		Title:       "Unannounced collection",
		Date:        "2026-04-01",
		IsPublished: &unpublished,
	})
	require.NoError(t, err)

	releases, err := svc.ListPressReleases(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, releases)

	page, err := svc.GetPressPage(ctx)
	require.NoError(t, err)
	assert.Len(t, page.MediaCoverage, 1)
	assert.Empty(t, page.PressReleases)
}
