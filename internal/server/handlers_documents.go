package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/microbooks/microbooks/internal/store"
)

func decodeDocument(kind ledger.SourceKind, body io.Reader) (any, error) {
	doc, err := ledger.NewDocument(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, kind)
	}
	if err := json.NewDecoder(body).Decode(doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

type createDocumentResponse struct {
	Document any              `json:"document"`
	Warnings []engine.Warning `json:"warnings,omitempty"`
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	kind := ledger.SourceKind(chi.URLParam(r, "kind"))
	if !ledger.ValidKind(kind) {
		writeError(w, http.StatusBadRequest, "unknown document kind: "+string(kind))
		return
	}

	doc, err := decodeDocument(kind, r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	warnings, err := s.store.SaveDocument(r.Context(), kind, doc)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, createDocumentResponse{Document: doc, Warnings: warnings})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	filter := store.DocumentFilter{
		Kind: ledger.SourceKind(r.URL.Query().Get("kind")),
		From: ledger.Date(r.URL.Query().Get("from")),
		To:   ledger.Date(r.URL.Query().Get("to")),
	}
	if filter.Kind != "" && !ledger.ValidKind(filter.Kind) {
		writeError(w, http.StatusBadRequest, "unknown document kind: "+string(filter.Kind))
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []store.DocumentSummary{}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	kind := ledger.SourceKind(chi.URLParam(r, "kind"))
	id := chi.URLParam(r, "id")

	doc, err := s.store.GetDocument(r.Context(), kind, id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	kind := ledger.SourceKind(chi.URLParam(r, "kind"))
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteDocument(r.Context(), kind, id); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
