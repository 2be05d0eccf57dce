package main

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMeshSVG(t *testing.T) {
	mesh := BuildMesh(smallDiscretization(9), testConstants)

	var buf bytes.Buffer
	require.NoError(t, RenderMeshSVG(&buf, mesh))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0"?>`))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	assert.Equal(t, 17, strings.Count(out, "<circle"))
	assert.Equal(t, 2, strings.Count(out, "<line"))
	assert.Equal(t, 1, strings.Count(out, "<path"))
	assert.Contains(t, out, MUSCLE_STYLE)
}

func TestRenderMeshSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := RenderMeshSVG(&buf, &Mesh{})
	assert.ErrorContains(t, err, "empty mesh")
}

func TestRenderProbeSVG(t *testing.T) {
	acc := NewAccumulator([]ProbePoint{{Name: "P1", X: 1.5, Y: 2.5}, {Name: "P2", X: 0, Y: 0}})
	acc.Add(0, gradientField(), nil)
	acc.Add(1, gradientField(), nil)

	var buf bytes.Buffer
	require.NoError(t, RenderProbeSVG(&buf, acc))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Equal(t, 2, strings.Count(out, "<text"))
	assert.Contains(t, out, "P1 (1.5, 2.5)")

	t.Run("no samples", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorContains(t, RenderProbeSVG(&buf, NewAccumulator(nil)), "no samples")
	})
}

// decodeXML walks every token and returns the text of all <text> elements
func decodeXML(t *testing.T, data []byte) []string {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	var labels []string
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return labels
		}
		require.NoError(t, err)
		switch el := tok.(type) {
		case xml.StartElement:
			inText = el.Name.Local == "text"
		case xml.EndElement:
			inText = false
		case xml.CharData:
			if inText {
				labels = append(labels, string(el))
			}
		}
	}
}

func TestRenderProbeSVGEscapesNames(t *testing.T) {
	acc := NewAccumulator([]ProbePoint{{Name: "inlet <A&B>", X: 1.5, Y: 2.5}})
	acc.Add(0, gradientField(), nil)

	var buf bytes.Buffer
	require.NoError(t, RenderProbeSVG(&buf, acc))

	labels := decodeXML(t, buf.Bytes())
	require.Len(t, labels, 1)
	assert.True(t, strings.HasPrefix(labels[0], "inlet <A&B> (1.5, 2.5)"))
}

func TestRenderMeshSVGIsWellFormed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMeshSVG(&buf, BuildMesh(smallDiscretization(9), testConstants)))
	assert.Empty(t, decodeXML(t, buf.Bytes()))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestSVGKeepsFirstError(t *testing.T) {
	mesh := BuildMesh(smallDiscretization(3), testConstants)
	assert.ErrorIs(t, RenderMeshSVG(failingWriter{}, mesh), os.ErrClosed)
}

func TestSaveSVG(t *testing.T) {
	mesh := BuildMesh(smallDiscretization(3), testConstants)
	path := filepath.Join(t.TempDir(), "bell.svg")

	require.NoError(t, SaveSVG(path, func(w io.Writer) error { return RenderMeshSVG(w, mesh) }))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}
