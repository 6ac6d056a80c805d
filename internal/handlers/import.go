package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/rumor-ml/commons.systems/findash/internal/importer"
)

// Uploaded statements are small text files; anything past this limit is a
// wrong upload, not a statement.
const maxStatementSize = 10 << 20 // 10MB

// ImportStatement handles POST /api/statements/import. The uploaded file is
// parsed, deduplicated against the ledger, and merged synchronously; the
// response carries the session id and the imported/duplicate counts.
//
// An unrecognized format fails the whole request with 422 and leaves the
// ledger untouched. The failed attempt is still recorded as a session.
func (h *APIHandler) ImportStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxStatementSize); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	text, err := io.ReadAll(io.LimitReader(file, maxStatementSize))
	if err != nil {
		http.Error(w, "Failed to read uploaded file", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, importErr := h.importer.Import(h.ledger, string(text))

	session := importer.NewSession(header.Filename, result, importErr)
	if err := h.store.SaveSession(r.Context(), session); err != nil {
		log.Printf("ERROR: Failed to record import session %s: %v", session.ID, err)
	}

	if importErr != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"sessionId": result.SessionID,
			"error":     importErr.Error(),
		})
		return
	}

	if err := h.store.SaveLedger(r.Context(), h.ledger); err != nil {
		log.Printf("ERROR: Failed to persist ledger after import: %v", err)
		http.Error(w, "Failed to save imported transactions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ListImports handles GET /api/statements/imports
func (h *APIHandler) ListImports(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		log.Printf("ERROR: Failed to list import sessions: %v", err)
		http.Error(w, "Failed to fetch import sessions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}
