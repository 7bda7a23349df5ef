package services

import (
	"testing"

	"edulearn-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsList_PinnedFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewNewsService(db)

	_, err := svc.Create(NewsInput{Title: "older"})
	require.NoError(t, err)
	pinned, err := svc.Create(NewsInput{Title: "announcement", IsPinned: true})
	require.NoError(t, err)

	items, err := svc.List(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, pinned.ID, items[0].ID)
}

func TestNewsGet_BumpsViews(t *testing.T) {
	db := newTestDB(t)
	svc := NewNewsService(db)

	created, err := svc.Create(NewsInput{Title: "launch", Content: "we are live"})
	require.NoError(t, err)
	assert.Equal(t, "text", created.MediaType)

	item, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, item.ViewsCount)

	_, err = svc.Get(created.ID)
	require.NoError(t, err)

	var stored models.News
	require.NoError(t, db.Where("id = ?", created.ID).First(&stored).Error)
	assert.EqualValues(t, 2, stored.ViewsCount)
}

func TestNewsGet_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewNewsService(db)

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, ErrNewsNotFound)
}

func TestNewsTogglePinAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewNewsService(db)

	created, err := svc.Create(NewsInput{Title: "notice"})
	require.NoError(t, err)

	item, err := svc.TogglePin(created.ID)
	require.NoError(t, err)
	assert.True(t, item.IsPinned)

	item, err = svc.TogglePin(created.ID)
	require.NoError(t, err)
	assert.False(t, item.IsPinned)

	require.NoError(t, svc.Delete(created.ID))
	assert.ErrorIs(t, svc.Delete(created.ID), ErrNewsNotFound)
}
