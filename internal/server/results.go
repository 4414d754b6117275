package server

import (
	"net/http"

	"github.com/yachiey/ocr-final/internal/common"
)

// handleListResults returns stored extraction results, newest first.
// user_id narrows to one owner; empty lists everything.
func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": "persistence is not configured",
		})
		return
	}

	recs, err := s.results.ListResults(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.logger.Error("server.results.list",
			"req_id", common.RequestIDFromContext(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "An unexpected error occurred.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": recs})
}

// handleExportResults streams the stored results as an XLSX workbook.
func (s *Server) handleExportResults(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": "persistence is not configured",
		})
		return
	}

	data, err := s.exporter.ExportResultsXLSX(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.logger.Error("server.results.export",
			"req_id", common.RequestIDFromContext(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "An unexpected error occurred.",
		})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("server.results.export_write", "error", err)
	}
}
