package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/yggdrasil/pkg/btree"
	"github.com/ssargent/yggdrasil/pkg/index"
)

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy", "index": s.session.Path()})
}

// handlePut godoc
//
//	@Summary		Insert a key-value pair
//	@Description	Insert a key-value pair into the open index; the body is the decimal value
//	@Tags			keys
//	@Accept			plain
//	@Produce		json
//	@Param			key		path		string	true	"Key (decimal uint32)"
//	@Param			value	body		string	true	"Value (decimal uint32)"
//	@Success		200		{object}	APIResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/keys/{key} [put]
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key, err := parseKeyParam(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	value64, err := strconv.ParseUint(strings.TrimSpace(string(body)), 10, 32)
	if err != nil {
		sendError(w, "Value must be a decimal unsigned 32-bit integer", http.StatusBadRequest)
		return
	}

	err = s.session.Insert(key, uint32(value64))
	s.metrics.RecordIndexOperation("insert", err == nil, time.Since(start))
	if err != nil {
		var dup *btree.DuplicateKeyError
		switch {
		case errors.As(err, &dup):
			sendError(w, fmt.Sprintf("Duplicate key %d", dup.Key), http.StatusConflict)
		case errors.Is(err, index.ErrNoIndexOpen):
			sendError(w, err.Error(), http.StatusServiceUnavailable)
		default:
			sendError(w, fmt.Sprintf("Failed to insert: %v", err), http.StatusInternalServerError)
		}
		return
	}

	sendSuccess(w, Record{Key: key, Value: uint32(value64)})
}

// handleGet godoc
//
//	@Summary		Look up a key
//	@Description	Return the value stored for a key
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Param			key	path		string	true	"Key (decimal uint32)"
//	@Success		200	{object}	APIResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Failure		500	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/keys/{key} [get]
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key, err := parseKeyParam(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	value, found, err := s.session.Search(key)
	s.metrics.RecordIndexOperation("search", err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, index.ErrNoIndexOpen) {
			sendError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		sendError(w, fmt.Sprintf("Failed to search: %v", err), http.StatusInternalServerError)
		return
	}
	if !found {
		sendError(w, fmt.Sprintf("Key %d not found", key), http.StatusNotFound)
		return
	}

	sendSuccess(w, Record{Key: key, Value: value})
}

// handleListKeys godoc
//
//	@Summary		List all records
//	@Description	Return every key-value pair in ascending key order
//	@Tags			keys
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Failure		500	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/keys [get]
func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	records := []Record{}
	err := s.session.Each(func(k, v uint32) error {
		records = append(records, Record{Key: k, Value: v})
		return nil
	})
	s.metrics.RecordIndexOperation("traverse", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list records: %v", err), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, map[string]interface{}{"records": records, "count": len(records)})
}

// handleStats godoc
//
//	@Summary		Index statistics
//	@Description	Return key count, tree height, and file size of the open index
//	@Tags			diagnostics
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	APIResponse
//	@Failure		500	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.session.Stats()
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to gather stats: %v", err), http.StatusInternalServerError)
		return
	}

	s.metrics.UpdateIndexStats(stats.Keys, stats.Height, stats.FileSize)
	sendSuccess(w, stats)
}

// parseKeyParam extracts the uint32 key from the request URL.
func parseKeyParam(r *http.Request) (uint32, error) {
	raw := chi.URLParam(r, "key")
	key, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("key must be a decimal unsigned 32-bit integer")
	}
	return uint32(key), nil
}
