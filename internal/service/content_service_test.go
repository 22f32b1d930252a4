package service

import (
	"context"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(t *testing.T) *ContentService {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&model.Page{},
		&model.SiteSetting{},
		&model.SectionContent{},
	))
	return NewContentService(dao.NewContentDao(db))
}

func TestListPagesPublishedFiltering(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()
	published := true

	_, err := svc.CreatePage(ctx, &PageRequest{Title: "About Us", IsPublished: &published})
	require.NoError(t, err)
	_, err = svc.CreatePage(ctx, &PageRequest{Title: "Care Guide Draft"})
	require.NoError(t, err)

	public, err := svc.ListPages(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "about-us", public[0].Slug)

	all, err := svc.ListPages(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListSectionContentBySection(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()
	inactive := false

	_, err := svc.CreateSectionContent(ctx, &SectionContentRequest{
		PageName:    "home",
		SectionName: "hero",
		Content:     "Handcrafted pieces from Nairobi",
	})
	require.NoError(t, err)
	_, err = svc.CreateSectionContent(ctx, &SectionContentRequest{
		PageName:    "home",
		SectionName: "featured",
		Content:     "This season's picks",
	})
	require.NoError(t, err)
	_, err = svc.CreateSectionContent(ctx, &SectionContentRequest{
		PageName:    "home",
		SectionName: "promo",
		Content:     "Unfinished banner",
		IsActive:    &inactive,
	})
	require.NoError(t, err)

	hero, err := svc.ListSectionContent(ctx, "home", "hero", true)
	require.NoError(t, err)
	require.Len(t, hero, 1)
	assert.Equal(t, "Handcrafted pieces from Nairobi", hero[0].Content)

	active, err := svc.ListSectionContent(ctx, "home", "", true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := svc.ListSectionContent(ctx, "home", "", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
