package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// memTokens is an in-memory TokenStore for tests.
type memTokens struct {
	token   string
	cleared int
}

func (m *memTokens) Token() string { return m.token }
func (m *memTokens) Clear() error {
	m.token = ""
	m.cleared++
	return nil
}

func TestBearerAndRequestIDHeaders(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"session_id": 7}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok-123"})
	resp, err := c.CreateSession(context.Background(), CreateSessionRequest{Mode: "learn", Track: "backend", Level: "intermediate"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if resp.SessionID != 7 {
		t.Errorf("session_id = %d, want 7", resp.SessionID)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestUnauthorizedClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	}))
	defer srv.Close()

	tokens := &memTokens{token: "stale"}
	c := New(srv.URL, tokens)
	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if tokens.token != "" || tokens.cleared != 1 {
		t.Errorf("token not cleared: %q (cleared %d times)", tokens.token, tokens.cleared)
	}
}

func TestErrorDetailExtraction(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"structured detail", 404, `{"detail": "Session not found"}`, "HTTP 404: Session not found"},
		{"plain body", 500, "boom", "HTTP 500: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, &memTokens{})
			_, err := c.GetSession(context.Background(), 1)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", apiErr.Error(), tt.want)
			}
		})
	}
}

func TestActiveSessionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "No sessions found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	_, err := c.ActiveSession(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestEvaluateValidPayload(t *testing.T) {
	body := `{
		"overall": 3.5,
		"evaluation": {
			"scores": {"correctness": 4, "completeness": 3, "clarity": 4, "depth": 3, "reasoning": 4},
			"overall": 3.5,
			"strengths": ["clear structure"],
			"gaps": ["no index discussion"],
			"improvements": ["mention covering indexes"],
			"model_answer": "A covering index...",
			"next_drill_topic": "composite indexes"
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	resp, err := c.Evaluate(context.Background(), EvaluateRequest{QAItemID: 12, UserAnswer: "an answer"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if resp.Evaluation.Scores.Correctness != 4 {
		t.Errorf("correctness = %d, want 4", resp.Evaluation.Scores.Correctness)
	}
	if resp.Evaluation.NextDrillTopic != "composite indexes" {
		t.Errorf("next_drill_topic = %q", resp.Evaluation.NextDrillTopic)
	}
}

func TestEvaluateRejectsMalformedPayload(t *testing.T) {
	// Missing the evaluation object entirely.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"overall": 3.5}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &memTokens{token: "tok"})
	_, err := c.Evaluate(context.Background(), EvaluateRequest{QAItemID: 12, UserAnswer: "x"})
	var invErr *InvalidPayloadError
	if !errors.As(err, &invErr) {
		t.Fatalf("err = %v, want *InvalidPayloadError", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	c := New("http://127.0.0.1:1", &memTokens{})
	_, err := c.Me(context.Background())
	var unavail *ErrUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want *ErrUnavailable", err)
	}
}
