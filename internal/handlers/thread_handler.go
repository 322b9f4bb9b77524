// File: internal/handlers/thread_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sovereignai/assistant-api/internal/dtos"
	"github.com/sovereignai/assistant-api/internal/services/state"
	"github.com/sovereignai/assistant-api/internal/tokenutil"
)

type ThreadHandler struct {
	StateManager *state.Manager
}

func NewThreadHandler(sm *state.Manager) *ThreadHandler {
	return &ThreadHandler{StateManager: sm}
}

// Create handles POST /v1/threads. assistant_id is required: every thread
// belongs to an existing assistant.
func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateThreadRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body.")
		return
	}
	if strings.TrimSpace(req.AssistantID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "assistant_id is required.")
		return
	}

	thread, err := h.StateManager.CreateThread(r.Context(), req.AssistantID, "", req.Metadata)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromThread(thread))
}

// Get handles GET /v1/threads/{id}.
func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	thread, err := h.StateManager.GetThread(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromThread(thread))
}

// Update handles POST /v1/threads/{id}, replacing the metadata document.
func (h *ThreadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateThreadRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body.")
		return
	}

	thread, err := h.StateManager.UpdateThread(r.Context(), mux.Vars(r)["id"], req.Metadata)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromThread(thread))
}

// Delete handles DELETE /v1/threads/{id}, cascading to the thread's messages.
func (h *ThreadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.StateManager.DeleteThread(r.Context(), id); err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewDeletedResponse(id, "thread"))
}

// List handles GET /v1/threads, optionally filtered by assistant_id.
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	threads, err := h.StateManager.ListThreads(r.Context(), r.URL.Query().Get("assistant_id"), skip, limit)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewListResponse(dtos.FromThreadSlice(threads)))
}

// CreateMessage handles POST /v1/threads/{id}/messages.
func (h *ThreadHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateMessageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body.")
		return
	}

	threadID := mux.Vars(r)["id"]
	message, err := h.StateManager.AddMessage(r.Context(), threadID, req.Role, req.Content,
		tokenutil.Estimate(req.Content))
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromMessage(message))
}

// ListMessages handles GET /v1/threads/{id}/messages. Pages are always read
// in conversation order; order=desc reverses the returned page for clients
// that render newest-first.
func (h *ThreadHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	messages, err := h.StateManager.GetMessages(r.Context(), mux.Vars(r)["id"], skip, limit)
	if err != nil {
		writeStateError(w, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("order"), "desc") {
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}
	writeJSON(w, http.StatusOK, dtos.NewListResponse(dtos.FromMessageSlice(messages)))
}
