package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/yachiey/ocr-final/constants"
	"github.com/yachiey/ocr-final/internal/common"
	"github.com/yachiey/ocr-final/internal/entity"
	"github.com/yachiey/ocr-final/internal/storage"
)

// handleExtract accepts one multipart image upload, runs the extraction
// pipeline, best-effort persists the result, and returns
// {"raw_text": ..., "parsed": ...}.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rid := common.RequestIDFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadBytes)
	if err := r.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "image upload is too large or malformed (max 10 MiB)",
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "an image file is required",
		})
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.logger.Warn("server.extract.close_upload", "req_id", rid, "error", cerr)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "could not read the uploaded image",
		})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if !constants.IsImageMIME(mimeType) {
		// Browsers sometimes omit or mislabel the part type; sniff before rejecting.
		mimeType = http.DetectContentType(data)
	}
	if !constants.IsImageMIME(mimeType) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "the uploaded file must be an image",
		})
		return
	}

	out, err := s.svc.Extract(ctx, data, mimeType)
	if err != nil {
		var ue *common.UpstreamError
		if errors.As(err, &ue) {
			writeJSON(w, ue.StatusCode, map[string]any{
				"error":   "Failed to process image with vision API.",
				"details": upstreamDetails(ue.Body),
			})
			return
		}
		s.logger.Error("server.extract.failed", "req_id", rid, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "An unexpected error occurred.",
		})
		return
	}

	imagePath := s.saveImage(rid, header.Filename, data)
	s.saveResult(ctx, rid, out.Parsed, out.RawText, imagePath, common.UserIDFromContext(ctx))

	writeJSON(w, http.StatusOK, out)
}

// saveImage stores the upload and returns its reference; failures only log.
func (s *Server) saveImage(rid, originalName string, data []byte) string {
	if s.images == nil {
		return ""
	}
	ext := constants.NormalizeExt(filepath.Ext(originalName))
	name := storage.ContentFilename(data, ext)
	path, err := s.images.Save(name, data)
	if err != nil {
		s.logger.Warn("server.extract.save_image", "req_id", rid, "error", err)
		return ""
	}
	return path
}

// saveResult persists best-effort: the caller still gets the extraction
// when the write fails.
func (s *Server) saveResult(ctx context.Context, rid string, parsed *entity.Extraction, rawText, imagePath, userID string) {
	if s.results == nil || parsed == nil {
		return
	}
	rec := &entity.OCRResult{
		Extraction: *parsed,
		RawText:    rawText,
		ImagePath:  imagePath,
		CreatedAt:  time.Now().UTC(),
	}
	if userID != "" {
		rec.UserID = &userID
	}
	if _, err := s.results.SaveResult(ctx, rec); err != nil {
		s.logger.Error("server.extract.persist", "req_id", rid, "error", err)
	}
}

// upstreamDetails relays the upstream body as JSON when possible, else as
// a plain string.
func upstreamDetails(body string) any {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err == nil {
		return v
	}
	return body
}
