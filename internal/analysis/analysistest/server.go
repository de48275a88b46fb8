// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysistest provides an in-process stand-in for the Assistants
// API endpoints used by package analysis.
package analysistest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Message is a transcript entry served by the messages endpoint.
type Message struct {
	Role string
	Text string
}

// Script configures the server's responses.
type Script struct {
	AssistantID string
	// Statuses are returned by successive run retrievals; the first entry is
	// the status of the newly created run. The last entry repeats.
	Statuses  []string
	ErrorCode string
	ErrorMsg  string
	Messages  []Message
}

// Server records what the client sent and serves the scripted replies.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	script        Script
	uploads       int
	uploadPurpose string
	threadBody    map[string]any
	runRetrievals int
	messageLists  int
}

// NewServer starts a server and registers its shutdown with t.Cleanup.
func NewServer(t *testing.T, script Script) *Server {
	t.Helper()
	if script.AssistantID == "" {
		script.AssistantID = "asst-test"
	}
	if len(script.Statuses) == 0 {
		script.Statuses = []string{"completed"}
	}
	s := &Server{script: script}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to configure on the client.
func (s *Server) BaseURL() string { return s.URL + "/v1" }

// Uploads returns the number of file uploads received.
func (s *Server) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// UploadPurpose returns the purpose field of the last upload.
func (s *Server) UploadPurpose() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadPurpose
}

// ThreadBody returns the decoded body of the thread creation request.
func (s *Server) ThreadBody() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadBody
}

// RunRetrievals returns how many times the run was polled.
func (s *Server) RunRetrievals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runRetrievals
}

// MessageLists returns how many times the transcript was requested.
func (s *Server) MessageLists() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageLists
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v1")
	switch {
	case r.Method == http.MethodPost && path == "/files":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.uploads++
		s.uploadPurpose = r.FormValue("purpose")
		size := 0
		if f, hdr, err := r.FormFile("file"); err == nil {
			size = int(hdr.Size)
			f.Close()
		}
		writeJSON(w, map[string]any{
			"id": "file-test", "object": "file", "bytes": size, "created_at": 1,
			"filename": "doc.pdf", "purpose": s.uploadPurpose,
		})

	case r.Method == http.MethodGet && path == "/assistants/"+s.script.AssistantID:
		writeJSON(w, map[string]any{
			"id": s.script.AssistantID, "object": "assistant", "created_at": 1,
			"name": "CodexCurator", "model": "gpt-4o", "tools": []any{},
		})

	case r.Method == http.MethodPost && path == "/threads":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.threadBody = body
		writeJSON(w, map[string]any{"id": "thread-test", "object": "thread", "created_at": 1, "metadata": body["metadata"]})

	case r.Method == http.MethodPost && path == "/threads/thread-test/runs":
		writeJSON(w, s.run(s.script.Statuses[0]))

	case r.Method == http.MethodGet && path == "/threads/thread-test/runs/run-test":
		s.runRetrievals++
		i := s.runRetrievals
		if i >= len(s.script.Statuses) {
			i = len(s.script.Statuses) - 1
		}
		writeJSON(w, s.run(s.script.Statuses[i]))

	case r.Method == http.MethodGet && path == "/threads/thread-test/messages":
		s.messageLists++
		data := make([]any, 0, len(s.script.Messages))
		for i, m := range s.script.Messages {
			data = append(data, map[string]any{
				"id": "msg-" + string(rune('a'+i)), "object": "thread.message", "created_at": i,
				"thread_id": "thread-test", "role": m.Role,
				"content": []any{map[string]any{
					"type": "text",
					"text": map[string]any{"value": m.Text, "annotations": []any{}},
				}},
			})
		}
		writeJSON(w, map[string]any{"object": "list", "data": data, "has_more": false})

	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "no route for " + r.Method + " " + r.URL.Path, "type": "invalid_request_error"},
		})
	}
}

func (s *Server) run(status string) map[string]any {
	run := map[string]any{
		"id": "run-test", "object": "thread.run", "created_at": 1,
		"thread_id": "thread-test", "assistant_id": s.script.AssistantID, "status": status,
	}
	if status == "failed" {
		run["last_error"] = map[string]any{"code": s.script.ErrorCode, "message": s.script.ErrorMsg}
	}
	return run
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
