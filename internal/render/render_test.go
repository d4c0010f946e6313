package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liskl/lixshare/internal/model"
)

func TestRender_MarkdownHeading(t *testing.T) {
	r := New(Options{})
	out, err := r.Render(model.DocTypeMarkdown, "# Hi")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", out)
}

func TestRender_MarkdownParagraphsAndEmphasis(t *testing.T) {
	r := New(Options{})
	out, err := r.Render(model.DocTypeMarkdown, "hello *world*\n\nsecond")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello <em>world</em></p>\n<p>second</p>", out)
}

func TestRender_MarkdownTable(t *testing.T) {
	r := New(Options{})
	out, err := r.Render(model.DocTypeMarkdown, "| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestRender_MarkdownKeepsRawHTML(t *testing.T) {
	r := New(Options{})
	out, err := r.Render(model.DocTypeMarkdown, "<div class=\"note\">raw</div>")
	require.NoError(t, err)
	assert.Equal(t, "<div class=\"note\">raw</div>", out)
}

func TestRender_HTMLPassesThrough(t *testing.T) {
	r := New(Options{})
	in := "<h1>Hi</h1><script>alert(1)</script>"
	out, err := r.Render(model.DocTypeHTML, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRender_EmptyContent(t *testing.T) {
	r := New(Options{})
	out, err := r.Render(model.DocTypeMarkdown, "")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRender_UnknownDocType(t *testing.T) {
	r := New(Options{})
	_, err := r.Render(model.DocType("rst"), "x")
	assert.ErrorIs(t, err, model.ErrInvalidDocType)
}

func TestRender_SanitizeStripsScripts(t *testing.T) {
	r := New(Options{Sanitize: true})

	out, err := r.Render(model.DocTypeHTML, "<h1>Hi</h1><script>alert(1)</script>")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", out)

	out, err = r.Render(model.DocTypeMarkdown, "[x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, out, "javascript:")
}
