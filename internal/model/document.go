// Package model defines the Document data structure and related operations.
// Documents are the core data unit in lixshare: rendered HTML content stored
// under a short ID, with an optional expiration deadline.
package model

import (
	"fmt"
	"time"
)

// DocType tells the renderer how submitted content should be turned into HTML.
type DocType string

const (
	DocTypeMarkdown DocType = "markdown"
	DocTypeHTML     DocType = "html"
)

// NeverExpire is the expire value clients send for documents that never expire.
const NeverExpire int64 = -1

// ExpiryLayout is the layout used when displaying an expiration timestamp.
const ExpiryLayout = "2006-01-02 15:04:05"

// NotFoundTitle is shown in place of a document that doesn't exist or has expired.
const NotFoundTitle = "Document not found or expired"

// ParseDocType converts a wire value into a DocType.
func ParseDocType(s string) (DocType, error) {
	switch DocType(s) {
	case DocTypeMarkdown:
		return DocTypeMarkdown, nil
	case DocTypeHTML:
		return DocTypeHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDocType, s)
	}
}

// Document is a stored content blob.
type Document struct {
	// ID is the short base62 identifier
	ID string `json:"doc_id" bson:"doc_id"`

	// Title is optional; nil when the client sent none
	Title *string `json:"title" bson:"title"`

	// Content is the rendered HTML
	Content string `json:"content" bson:"content"`

	// ExpireAt is a Unix timestamp in seconds (0 = never expires)
	ExpireAt int64 `json:"expire_at" bson:"expire_at"`
}

// ExpireAtFor computes the stored deadline for an expire value in seconds.
// NeverExpire maps to 0.
func ExpireAtFor(expireSeconds int64, now time.Time) int64 {
	if expireSeconds == NeverExpire {
		return 0
	}
	return now.Unix() + expireSeconds
}

// NeverExpires reports whether the document has no deadline.
func (d *Document) NeverExpires() bool {
	return d.ExpireAt == 0
}

// IsExpiredAt checks if the document has passed its deadline at now.
// A deadline equal to the current second has not passed yet.
func (d *Document) IsExpiredAt(now time.Time) bool {
	if d.NeverExpires() {
		return false
	}
	return d.ExpireAt < now.Unix()
}

// ExpiryLabel formats the deadline for display, or "Never".
func (d *Document) ExpiryLabel(loc *time.Location) string {
	if d.NeverExpires() {
		return "Never"
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(d.ExpireAt, 0).In(loc).Format(ExpiryLayout)
}

// DisplayTitle returns the title or an empty string when none was given.
func (d *Document) DisplayTitle() string {
	if d.Title == nil {
		return ""
	}
	return *d.Title
}
