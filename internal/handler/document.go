package handler

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/liskl/lixshare/internal/gateway"
	"github.com/liskl/lixshare/internal/model"
)

// untitled is shown for documents created without a title.
const untitled = "Untitled"

// createRequest is the POST / body. Pointer fields tell a missing key
// apart from a zero value.
//
//	{"doc_type": "markdown", "title": "Notes", "content": "# Hi", "expire": 3600}
type createRequest struct {
	DocType *string `json:"doc_type"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Expire  *int64  `json:"expire"`
}

// createDocument handles document creation requests.
func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	// The JSON envelope may escape content, so allow twice the limit plus slack
	r.Body = http.MaxBytesReader(w, r.Body, 2*h.config.Main.SizeLimit+64*1024)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.jsonError(w, model.ErrContentTooLarge.Error(), http.StatusBadRequest)
			return
		}
		h.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.DocType == nil {
		h.jsonError(w, "doc_type is required", http.StatusBadRequest)
		return
	}
	if req.Content == nil {
		h.jsonError(w, "content is required", http.StatusBadRequest)
		return
	}
	if req.Expire == nil {
		h.jsonError(w, "expire is required", http.StatusBadRequest)
		return
	}

	docType, err := model.ParseDocType(*req.DocType)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if int64(len(*req.Content)) > h.config.Main.SizeLimit {
		h.jsonError(w, model.ErrContentTooLarge.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.gateway.Create(r.Context(), gateway.CreateRequest{
		DocType: docType,
		Title:   req.Title,
		Content: *req.Content,
		Expire:  *req.Expire,
	})
	if err != nil {
		if model.IsValidationError(err) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("creating document", zap.Error(err))
		h.jsonError(w, "Failed to store document", http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]string{
		"url": h.config.Main.BasePath + "/" + id,
	})
}

// DocumentPage contains data passed to the document template.
type DocumentPage struct {
	Name     string
	BasePath string
	Title    string
	ExpireAt string
	Content  template.HTML
	NotFound bool
}

// getDocument serves a stored document. Missing, expired and malformed IDs
// all get the not-found page with status 200.
func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	doc, err := h.gateway.Get(r.Context(), docID)
	if err != nil {
		if model.IsNotFound(err) {
			h.render(w, http.StatusOK, "doc.html", DocumentPage{
				Name:     h.config.Main.Name,
				BasePath: h.config.Main.BasePath,
				Title:    model.NotFoundTitle,
				NotFound: true,
			})
			return
		}
		h.logger.Error("reading document", zap.String("doc_id", docID), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	title := doc.DisplayTitle()
	if title == "" {
		title = untitled
	}

	h.render(w, http.StatusOK, "doc.html", DocumentPage{
		Name:     h.config.Main.Name,
		BasePath: h.config.Main.BasePath,
		Title:    title,
		ExpireAt: doc.ExpiryLabel(nil),
		// Stored content is rendered HTML and is emitted as-is
		Content: template.HTML(doc.Content),
	})
}
