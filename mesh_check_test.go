package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMesh(t *testing.T) {
	t.Run("reference mesh is valid", func(t *testing.T) {
		mesh := BuildMesh(referenceDiscretization(t), testConstants)

		report, err := CheckMesh(mesh)

		require.NoError(t, err)
		assert.Equal(t, 397, report.Points)
		assert.Equal(t, 357, report.Links)
		assert.Equal(t, 317, report.Bends)
		assert.Equal(t, 39, report.MuscleLinks)
		assert.Zero(t, report.Intersections)
		assert.Greater(t, report.ArcLength, 0.0)
		assert.Equal(t, 319, report.ArcVertices)
	})

	t.Run("small mesh is valid", func(t *testing.T) {
		_, err := CheckMesh(BuildMesh(smallDiscretization(9), testConstants))
		assert.NoError(t, err)
	})

	t.Run("wrong rest length is reported", func(t *testing.T) {
		mesh := BuildMesh(smallDiscretization(9), testConstants)
		mesh.Links[3].RestLength *= 2

		_, err := CheckMesh(mesh)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "link 3 rest length")
	})

	t.Run("wrong curvature is reported", func(t *testing.T) {
		mesh := BuildMesh(smallDiscretization(9), testConstants)
		mesh.Bends[0].CurvY += 1

		_, err := CheckMesh(mesh)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bend 0 curvature")
	})

	t.Run("missing closing spring disconnects the bell", func(t *testing.T) {
		mesh := BuildMesh(smallDiscretization(9), testConstants)
		links := make([]Link, 0, len(mesh.Links))
		for _, l := range mesh.Links {
			if l.From == 0 && l.To == mesh.Layout.Seam {
				continue
			}
			links = append(links, l)
		}
		mesh.Links = links

		_, err := CheckMesh(mesh)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "link count")
		assert.Contains(t, err.Error(), "do not connect")
		assert.Contains(t, err.Error(), "no spring path")
	})

	t.Run("non-zero muscle rest length", func(t *testing.T) {
		mesh := BuildMesh(smallDiscretization(9), testConstants)
		mesh.Links[len(mesh.Links)-1].RestLength = 0.1

		_, err := CheckMesh(mesh)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "muscle link")
	})
}

func TestCountCrossings(t *testing.T) {
	t.Run("zig-zag crosses itself", func(t *testing.T) {
		points := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1}}
		links := []Link{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}}

		assert.Equal(t, 1, countCrossings(points, links))
	})

	t.Run("open chain does not cross", func(t *testing.T) {
		points := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0.5}, {X: 3, Y: 0}}
		links := []Link{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}}

		assert.Zero(t, countCrossings(points, links))
	})
}
