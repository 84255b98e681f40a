package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestRenderGFM(t *testing.T) {
	node, err := html.Parse(strings.NewReader(
		`<html><body><h2>Setup</h2><p>Run the <strong>installer</strong>.</p></body></html>`,
	))
	require.NoError(t, err)

	md, cerr := RenderGFM(node)
	require.Nil(t, cerr)
	assert.Contains(t, md, "Setup")
	assert.Contains(t, md, "**installer**")
}

func TestRenderGFMNilNode(t *testing.T) {
	_, err := RenderGFM(nil)
	require.NotNil(t, err)
	assert.Equal(t, ErrCauseConversionFail, err.(*RenderError).Cause)
}
