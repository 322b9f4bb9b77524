// File: internal/handlers/assistant_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sovereignai/assistant-api/internal/dtos"
	"github.com/sovereignai/assistant-api/internal/services/state"
)

type AssistantHandler struct {
	StateManager *state.Manager
}

func NewAssistantHandler(sm *state.Manager) *AssistantHandler {
	return &AssistantHandler{StateManager: sm}
}

// Create handles POST /v1/assistants.
func (h *AssistantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateAssistantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body.")
		return
	}

	assistant, err := h.StateManager.CreateAssistant(r.Context(), req.Name, req.Instructions, req.Model, "")
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromAssistant(assistant))
}

// Get handles GET /v1/assistants/{id}.
func (h *AssistantHandler) Get(w http.ResponseWriter, r *http.Request) {
	assistant, err := h.StateManager.GetAssistant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromAssistant(assistant))
}

// Update handles POST /v1/assistants/{id}. Absent fields are left unchanged.
func (h *AssistantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateAssistantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body.")
		return
	}

	assistant, err := h.StateManager.UpdateAssistant(r.Context(), mux.Vars(r)["id"], state.UpdateAssistantParams{
		Name:         req.Name,
		Instructions: req.Instructions,
		Model:        req.Model,
	})
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromAssistant(assistant))
}

// Delete handles DELETE /v1/assistants/{id}, cascading to threads and messages.
func (h *AssistantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.StateManager.DeleteAssistant(r.Context(), id); err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewDeletedResponse(id, "assistant"))
}

// List handles GET /v1/assistants with skip/limit pagination.
func (h *AssistantHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)
	assistants, err := h.StateManager.ListAssistants(r.Context(), skip, limit)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewListResponse(dtos.FromAssistantSlice(assistants)))
}
