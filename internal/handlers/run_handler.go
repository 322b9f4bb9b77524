// File: internal/handlers/run_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sovereignai/assistant-api/internal/dtos"
	"github.com/sovereignai/assistant-api/internal/services/run"
)

type RunHandler struct {
	Orchestrator *run.Orchestrator
}

func NewRunHandler(o *run.Orchestrator) *RunHandler {
	return &RunHandler{Orchestrator: o}
}

// Create handles POST /v1/threads/{id}/runs. The response is a terminal run
// record: failed runs are 200s with status=failed, not transport errors.
// When stream=true the response switches to server-sent events.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateRunRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body.")
		return
	}

	runReq := run.CreateRunRequest{
		ThreadID:     mux.Vars(r)["id"],
		AssistantID:  req.AssistantID,
		Instructions: req.Instructions,
	}

	if req.Stream {
		h.createStreaming(w, r, runReq)
		return
	}

	record, err := h.Orchestrator.Create(r.Context(), runReq)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromRun(record))
}

// createStreaming delivers the generation incrementally over SSE. Each delta
// is a `data:` event; the terminal run record follows as a named event.
// Existence failures surface as plain JSON errors since no event has been
// written yet by the time the orchestrator resolves the request.
func (h *RunHandler) createStreaming(w http.ResponseWriter, r *http.Request, req run.CreateRunRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "server_error",
			"Streaming is not supported by this connection.")
		return
	}

	headersSent := false
	record, err := h.Orchestrator.Stream(r.Context(), req, func(delta string) error {
		if !headersSent {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			headersSent = true
		}
		if _, werr := fmt.Fprintf(w, "data: %s\n\n", delta); werr != nil {
			return werr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if !headersSent {
			writeStateError(w, err)
		}
		return
	}

	if !headersSent {
		// Failed before the first delta: no event stream was opened.
		writeJSON(w, http.StatusOK, dtos.FromRun(record))
		return
	}

	event := "run.completed"
	if record.Status == run.StatusFailed {
		event = "run.failed"
	}
	payload, _ := json.Marshal(dtos.FromRun(record))
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	flusher.Flush()
}
