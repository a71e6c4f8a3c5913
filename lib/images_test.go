package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendImagesKeepsOrder(t *testing.T) {
	got := AppendImages([]string{"a.jpg"}, []string{"b.jpg", "c.jpg"}, 0)
	require.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, got)
}

func TestAppendImagesRespectsCap(t *testing.T) {
	got := AppendImages([]string{"a.jpg", "b.jpg"}, []string{"c.jpg", "d.jpg"}, 3)
	require.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, got)
}

func TestAppendImagesKeepsExistingPastCap(t *testing.T) {
	existing := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}

	got := AppendImages(existing, []string{"e.jpg"}, 3)
	require.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, got)

	got = AppendImages(existing[:3], []string{"e.jpg"}, 3)
	require.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, got)
}

func TestRemoveImage(t *testing.T) {
	images := []string{"a.jpg", "b.jpg", "c.jpg"}

	require.Equal(t, []string{"a.jpg", "c.jpg"}, RemoveImage(images, 1))
	require.Equal(t, []string{"b.jpg", "c.jpg"}, RemoveImage(images, 0))
	require.Equal(t, images, RemoveImage(images, 3))
	require.Equal(t, images, RemoveImage(images, -1))

	// the input is never modified
	require.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, images)
}
