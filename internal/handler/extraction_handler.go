// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"ine-ocr-server/internal/domain"

	"github.com/gorilla/mux"
)

// Slack on top of the file limit for multipart boundaries and headers.
const multipartOverhead = 1 << 20

// ExtractionHandler handles INE extraction requests
type ExtractionHandler struct {
	extractionService domain.ExtractionService
	logger            domain.Logger
	maxFileSize       int64
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(extractionService domain.ExtractionService, logger domain.Logger, maxFileSize int64) *ExtractionHandler {
	return &ExtractionHandler{
		extractionService: extractionService,
		logger:            logger,
		maxFileSize:       maxFileSize,
	}
}

// CreateExtraction accepts a multipart photo under "file" and runs the pipeline.
func (h *ExtractionHandler) CreateExtraction(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if h.maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	// Sanitize filename (strip any path components)
	originalName := strings.TrimSpace(filepath.Base(header.Filename))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		originalName = "ine.jpg"
	}

	raw := &domain.RawDocumentImage{
		Data:     data,
		MIMEType: detectMIMEType(header.Header.Get("Content-Type"), originalName, data),
		Name:     originalName,
	}

	extraction, err := h.extractionService.Extract(r.Context(), user.ID, raw)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, extraction)
}

type parseTextRequest struct {
	Text string `json:"text"`
}

// ParseText runs the field extractor over text the client already recognized.
func (h *ExtractionHandler) ParseText(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserFromContext(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req parseTextRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, h.bodyLimit())).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeAppError(w, h.logger, &domain.ValidationError{Field: "text", Message: "text is required"})
		return
	}

	writeJSON(w, http.StatusOK, h.extractionService.ParseText(req.Text))
}

func (h *ExtractionHandler) ListExtractions(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	extractions, err := h.extractionService.ListExtractions(r.Context(), user.ID)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	// Ensure JSON is [] not null when there are no extractions.
	if extractions == nil {
		extractions = make([]*domain.Extraction, 0)
	}

	writeJSON(w, http.StatusOK, extractions)
}

func (h *ExtractionHandler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Extraction ID is required")
		return
	}

	extraction, err := h.extractionService.GetExtraction(r.Context(), user.ID, id)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, extraction)
}

func (h *ExtractionHandler) DeleteExtraction(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Extraction ID is required")
		return
	}

	if err := h.extractionService.DeleteExtraction(r.Context(), user.ID, id); err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ExtractionHandler) bodyLimit() int64 {
	if h.maxFileSize > 0 {
		return h.maxFileSize
	}
	return 10 << 20
}

// detectMIMEType prefers the part's declared type, then the file extension,
// then content sniffing.
func detectMIMEType(declared, name string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return mediaType
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return http.DetectContentType(data)
}
