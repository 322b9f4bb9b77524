// File: internal/handlers/handlers_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sovereignai/assistant-api/internal/domain"
	"github.com/sovereignai/assistant-api/internal/handlers"
	"github.com/sovereignai/assistant-api/internal/repository/assistant"
	"github.com/sovereignai/assistant-api/internal/repository/message"
	"github.com/sovereignai/assistant-api/internal/repository/thread"
	"github.com/sovereignai/assistant-api/internal/services"
	"github.com/sovereignai/assistant-api/internal/services/inference"
	"github.com/sovereignai/assistant-api/internal/services/run"
	"github.com/sovereignai/assistant-api/internal/services/state"
)

// scriptedEngine plays back a fixed response and optional failure.
type scriptedEngine struct {
	response  string
	err       error
	healthErr error
}

func (s *scriptedEngine) Generate(ctx context.Context, messages []inference.Message, params inference.Params) (string, error) {
	return s.response, s.err
}

func (s *scriptedEngine) GenerateStream(ctx context.Context, messages []inference.Message, params inference.Params, onDelta func(string) error) error {
	if s.err != nil {
		return s.err
	}
	for _, word := range strings.SplitAfter(s.response, " ") {
		if err := onDelta(word); err != nil {
			return err
		}
	}
	return nil
}

func (s *scriptedEngine) HealthCheck(ctx context.Context) error { return s.healthErr }

type testServer struct {
	router  *mux.Router
	manager *state.Manager
	engine  *scriptedEngine
	db      *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Assistant{}, &domain.Thread{}, &domain.Message{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}

	manager, err := state.NewManager(
		db,
		assistant.NewAssistantRepository(db),
		thread.NewThreadRepository(db),
		message.NewMessageRepository(db),
		&services.NoOpLogger{},
	)
	if err != nil {
		t.Fatalf("constructing manager: %v", err)
	}

	engine := &scriptedEngine{response: "Certainly, here is the summary."}
	orchestrator, err := run.NewOrchestrator(manager, engine, &services.NoOpLogger{})
	if err != nil {
		t.Fatalf("constructing orchestrator: %v", err)
	}

	assistantHandler := handlers.NewAssistantHandler(manager)
	threadHandler := handlers.NewThreadHandler(manager)
	runHandler := handlers.NewRunHandler(orchestrator)
	healthHandler := handlers.NewHealthHandler(db, engine)

	r := mux.NewRouter()
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.HandleFunc("/v1/assistants", assistantHandler.Create).Methods("POST")
	r.HandleFunc("/v1/assistants", assistantHandler.List).Methods("GET")
	r.HandleFunc("/v1/assistants/{id}", assistantHandler.Get).Methods("GET")
	r.HandleFunc("/v1/assistants/{id}", assistantHandler.Update).Methods("POST")
	r.HandleFunc("/v1/assistants/{id}", assistantHandler.Delete).Methods("DELETE")
	r.HandleFunc("/v1/threads", threadHandler.Create).Methods("POST")
	r.HandleFunc("/v1/threads/{id}/messages", threadHandler.CreateMessage).Methods("POST")
	r.HandleFunc("/v1/threads/{id}/messages", threadHandler.ListMessages).Methods("GET")
	r.HandleFunc("/v1/threads/{id}/runs", runHandler.Create).Methods("POST")

	return &testServer{router: r, manager: manager, engine: engine, db: db}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestAssistantEndpoints(t *testing.T) {
	ts := newTestServer(t)

	t.Run("create returns 201 with defaults applied", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/assistants", map[string]any{
			"name":         "summarizer",
			"instructions": "Summarize everything.",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		body := decode[map[string]any](t, rec)
		if body["model"] != state.DefaultModel {
			t.Fatalf("model = %v", body["model"])
		}
		if body["object"] != "assistant" {
			t.Fatalf("object = %v", body["object"])
		}
	})

	t.Run("blank instructions return 400", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/assistants", map[string]any{
			"name":         "empty",
			"instructions": "  ",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("missing assistant returns 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/v1/assistants/nope", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("delete acknowledges the cascade", func(t *testing.T) {
		created := decode[map[string]any](t, ts.do(t, http.MethodPost, "/v1/assistants", map[string]any{
			"name":         "doomed",
			"instructions": "Soon gone.",
		}))
		id := created["id"].(string)

		rec := ts.do(t, http.MethodDelete, "/v1/assistants/"+id, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := decode[map[string]any](t, rec)
		if body["deleted"] != true {
			t.Fatalf("deleted = %v", body["deleted"])
		}

		if rec := ts.do(t, http.MethodGet, "/v1/assistants/"+id, nil); rec.Code != http.StatusNotFound {
			t.Fatalf("post-delete status = %d", rec.Code)
		}
	})
}

func TestThreadAndMessageEndpoints(t *testing.T) {
	ts := newTestServer(t)

	created := decode[map[string]any](t, ts.do(t, http.MethodPost, "/v1/assistants", map[string]any{
		"name":         "host",
		"instructions": "Be helpful.",
	}))
	assistantID := created["id"].(string)

	t.Run("thread requires assistant_id", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/threads", map[string]any{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("messages roundtrip in order", func(t *testing.T) {
		threadBody := decode[map[string]any](t, ts.do(t, http.MethodPost, "/v1/threads", map[string]any{
			"assistant_id": assistantID,
		}))
		threadID := threadBody["id"].(string)

		for i := 0; i < 3; i++ {
			rec := ts.do(t, http.MethodPost, fmt.Sprintf("/v1/threads/%s/messages", threadID), map[string]any{
				"role":    "user",
				"content": fmt.Sprintf("Message %d", i),
			})
			if rec.Code != http.StatusCreated {
				t.Fatalf("message %d: status = %d, body %s", i, rec.Code, rec.Body.String())
			}
		}

		rec := ts.do(t, http.MethodGet, fmt.Sprintf("/v1/threads/%s/messages", threadID), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var list struct {
			Data []struct {
				Content string `json:"content"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("decoding list: %v", err)
		}
		if len(list.Data) != 3 {
			t.Fatalf("got %d messages", len(list.Data))
		}
		for i, msg := range list.Data {
			if msg.Content != fmt.Sprintf("Message %d", i) {
				t.Fatalf("position %d holds %q", i, msg.Content)
			}
		}

		// Descending order reverses the page.
		rec = ts.do(t, http.MethodGet, fmt.Sprintf("/v1/threads/%s/messages?order=desc", threadID), nil)
		if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
			t.Fatalf("decoding desc list: %v", err)
		}
		if list.Data[0].Content != "Message 2" {
			t.Fatalf("desc first = %q", list.Data[0].Content)
		}
	})

	t.Run("invalid role returns 400", func(t *testing.T) {
		threadBody := decode[map[string]any](t, ts.do(t, http.MethodPost, "/v1/threads", map[string]any{
			"assistant_id": assistantID,
		}))
		threadID := threadBody["id"].(string)

		rec := ts.do(t, http.MethodPost, fmt.Sprintf("/v1/threads/%s/messages", threadID), map[string]any{
			"role":    "narrator",
			"content": "hi",
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestRunEndpoint(t *testing.T) {
	ts := newTestServer(t)

	created := decode[map[string]any](t, ts.do(t, http.MethodPost, "/v1/assistants", map[string]any{
		"name":         "runner",
		"instructions": "Answer questions.",
	}))
	assistantID := created["id"].(string)
	threadBody := decode[map[string]any](t, ts.do(t, http.MethodPost, "/v1/threads", map[string]any{
		"assistant_id": assistantID,
	}))
	threadID := threadBody["id"].(string)
	ts.do(t, http.MethodPost, fmt.Sprintf("/v1/threads/%s/messages", threadID), map[string]any{
		"role": "user", "content": "Summarize the thread.",
	})

	t.Run("completed run record", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, fmt.Sprintf("/v1/threads/%s/runs", threadID), map[string]any{
			"assistant_id": assistantID,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		body := decode[map[string]any](t, rec)
		if body["status"] != "completed" {
			t.Fatalf("status field = %v", body["status"])
		}
		if body["completed_at"] == nil {
			t.Fatal("expected completed_at")
		}
	})

	t.Run("inference failure surfaces as failed record", func(t *testing.T) {
		ts.engine.err = errors.New("generation blew up")
		defer func() { ts.engine.err = nil }()

		rec := ts.do(t, http.MethodPost, fmt.Sprintf("/v1/threads/%s/runs", threadID), map[string]any{
			"assistant_id": assistantID,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := decode[map[string]any](t, rec)
		if body["status"] != "failed" {
			t.Fatalf("status field = %v", body["status"])
		}
		if body["last_error"] != "generation blew up" {
			t.Fatalf("last_error = %v", body["last_error"])
		}
	})

	t.Run("missing thread returns 404", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/v1/threads/missing/runs", map[string]any{
			"assistant_id": assistantID,
		})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("streaming emits deltas and a terminal event", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, fmt.Sprintf("/v1/threads/%s/runs", threadID), map[string]any{
			"assistant_id": assistantID,
			"stream":       true,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
			t.Fatalf("content type = %q", got)
		}

		raw := rec.Body.String()
		if !strings.Contains(raw, "data: Certainly, ") {
			t.Fatalf("missing first delta in %q", raw)
		}
		if !strings.Contains(raw, "event: run.completed") {
			t.Fatalf("missing terminal event in %q", raw)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy when all checks pass", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodGet, "/health", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := decode[map[string]any](t, rec)
		if body["status"] != "healthy" {
			t.Fatalf("status field = %v", body["status"])
		}
	})

	t.Run("degraded when inference is down", func(t *testing.T) {
		ts := newTestServer(t)
		ts.engine.healthErr = errors.New("backend unreachable")

		rec := ts.do(t, http.MethodGet, "/health", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := decode[map[string]any](t, rec)
		if body["status"] != "degraded" {
			t.Fatalf("status field = %v", body["status"])
		}
	})
}
