package gallery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakehouse-backend/internal/pkg/testdb"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testdb.Open(t, &Item{})
	items := DefaultItems()
	require.NoError(t, db.Create(&items).Error)
	return NewService(db)
}

func TestListFiltersByCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	all, err := svc.List(ctx, &ListRequest{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 12)
	assert.Equal(t, "Classic Birthday Cake", all[0].Name)

	birthday, err := svc.List(ctx, &ListRequest{Category: "Birthday"})
	require.NoError(t, err)
	assert.Len(t, birthday, 3)
	for _, item := range birthday {
		assert.True(t, item.HasCategory(CategoryBirthday))
	}

	videos, err := svc.List(ctx, &ListRequest{Type: MediaVideo})
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestCreateValidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ItemRequest
		want string
	}{
		{"missing name", ItemRequest{Image: "x.jpg", Categories: []string{"wedding"}}, "name is required"},
		{"missing image", ItemRequest{Name: "Cake", Categories: []string{"wedding"}}, "image is required"},
		{"no categories", ItemRequest{Name: "Cake", Image: "x.jpg"}, "at least one valid category"},
		{"unknown category", ItemRequest{Name: "Cake", Image: "x.jpg", Categories: []string{"funeral"}}, "at least one valid category"},
		{"bad type", ItemRequest{Name: "Cake", Image: "x.jpg", Categories: []string{"wedding"}, Type: "gif"}, "type must be image or video"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidItem)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	item, err := svc.Create(ctx, &ItemRequest{
		Name:       "  Three Tier Lemon ",
		Image:      "/uploads/lemon.jpg",
		Categories: []string{"Wedding", "wedding", "anniversary"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Three Tier Lemon", item.Name)
	assert.Equal(t, []string{"wedding", "anniversary"}, item.Categories)
	assert.Equal(t, MediaImage, item.Type)

	updated, err := svc.Update(ctx, item.ID, &ItemRequest{
		Name:       "Lemon Drizzle Tower",
		Image:      "/uploads/lemon.mp4",
		Categories: []string{"seasonal"},
		Type:       MediaVideo,
	})
	require.NoError(t, err)
	assert.Equal(t, MediaVideo, updated.Type)

	got, err := svc.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"seasonal"}, got.Categories)

	require.NoError(t, svc.Delete(ctx, item.ID))
	_, err = svc.Get(ctx, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, item.ID), ErrItemNotFound)
}
