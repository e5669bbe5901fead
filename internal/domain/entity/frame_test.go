package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuadArea(t *testing.T) {
	q := QuadFromRect(image.Rect(10, 20, 110, 70))
	require.InDelta(t, 5000.0, q.Area(), 1e-9)
}

func TestQuadIsConvex(t *testing.T) {
	q := QuadFromRect(image.Rect(0, 0, 10, 10))
	require.True(t, q.IsConvex())

	// Самопересекающийся "бант"
	bow := Quad{{0, 0}, {10, 0}, {0, 10}, {10, 10}}
	require.False(t, bow.IsConvex())

	// Вырожденный (три точки на одной прямой)
	degenerate := Quad{{0, 0}, {5, 0}, {10, 0}, {0, 10}}
	require.False(t, degenerate.IsConvex())
}

func TestQuadDims(t *testing.T) {
	q := QuadFromRect(image.Rect(0, 0, 120, 80))
	w, h := q.Dims()
	require.InDelta(t, 120.0, w, 1e-9)
	require.InDelta(t, 80.0, h, 1e-9)
}

func TestQuadCentroid(t *testing.T) {
	q := QuadFromRect(image.Rect(10, 10, 30, 50))
	c := q.Centroid()
	require.InDelta(t, 20.0, c.X, 1e-9)
	require.InDelta(t, 30.0, c.Y, 1e-9)
}

func TestQuadInset(t *testing.T) {
	q := QuadFromRect(image.Rect(0, 0, 100, 100)).Inset(0.1)
	w, h := q.Dims()
	require.InDelta(t, 90.0, w, 1e-9)
	require.InDelta(t, 90.0, h, 1e-9)

	// Центр не смещается
	c := q.Centroid()
	require.InDelta(t, 50.0, c.X, 1e-9)
	require.InDelta(t, 50.0, c.Y, 1e-9)
}

func TestQuadScale(t *testing.T) {
	q := QuadFromRect(image.Rect(10, 10, 20, 20)).Scale(2, 3)
	require.Equal(t, image.Rect(20, 30, 40, 60), q.Bounds())
}

func TestQuadBoundsOfSkewed(t *testing.T) {
	q := Quad{{10.4, 5.6}, {90.2, 10.1}, {85.7, 70.9}, {5.9, 66.3}}
	require.Equal(t, image.Rect(5, 5, 91, 71), q.Bounds())
}
