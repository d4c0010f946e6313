// Package render turns submitted document content into the HTML that gets
// stored. Markdown is converted with goldmark; HTML is stored as given.
//
// No sanitization happens unless Options.Sanitize is set. Stored HTML is
// served verbatim, so an unsanitized deployment will host whatever script
// a client submits.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/liskl/lixshare/internal/model"
)

// Options configures a Renderer.
type Options struct {
	// Sanitize runs every rendered document through bluemonday's UGC policy
	Sanitize bool
}

// Renderer converts content by doc type. Safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
	if opts.Sanitize {
		r.policy = bluemonday.UGCPolicy()
	}
	return r
}

// Render returns the HTML to store for content of the given type.
func (r *Renderer) Render(docType model.DocType, content string) (string, error) {
	var out string
	switch docType {
	case model.DocTypeMarkdown:
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("rendering markdown: %w", err)
		}
		out = strings.TrimRight(buf.String(), "\n")
	case model.DocTypeHTML:
		out = content
	default:
		return "", fmt.Errorf("%w: %q", model.ErrInvalidDocType, docType)
	}

	if r.policy != nil {
		out = r.policy.Sanitize(out)
	}
	return out, nil
}
