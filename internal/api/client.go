// Package api is the HTTP client for the remote practice backend. All
// question generation, scoring, and analysis happens server-side; this
// package only moves JSON and maps failures onto the client error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenStore supplies and clears the bearer token. Injected rather than
// read ambiently so auth state has exactly one owner.
type TokenStore interface {
	// Token returns the current bearer token, or "" when signed out.
	Token() string

	// Clear forgets the stored token. Called on any 401.
	Clear() error
}

// Client talks to the practice backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     zerolog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a backend client. tokens may not be nil.
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do runs one request/response cycle. in is JSON-marshaled when non-nil;
// out is JSON-decoded when non-nil and the response is 2xx.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// send attaches identity headers, executes the request, and decodes the
// response. Shared by do and the multipart analyze path.
func (c *Client) send(req *http.Request, out any) error {
	reqID := uuid.New().String()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)

	ev := c.log.Info().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", reqID).
		Dur("latency", latency)

	if err != nil {
		ev.Err(err).Msg("api request failed")
		return &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	ev.Int("status", resp.StatusCode).Msg("api request")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ErrUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// A rejected token is unrecoverable locally. Forget it so the
		// caller routes to login instead of retrying forever.
		if cerr := c.tokens.Clear(); cerr != nil {
			c.log.Warn().Err(cerr).Msg("clear token after 401")
		}
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:    resp.StatusCode,
			Detail:    errorDetail(raw),
			RequestID: reqID,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidPayloadError{Content: raw, Err: err}
	}
	return nil
}

// errorDetail extracts FastAPI's {"detail": "..."} message, falling back
// to the raw body.
func errorDetail(raw []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(raw))
}

// --- auth ---

// Signup registers a new account and returns its first token.
func (c *Client) Signup(ctx context.Context, creds Credentials) (*AuthToken, error) {
	var out AuthToken
	if err := c.do(ctx, http.MethodPost, "/auth/signup", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthToken, error) {
	var out AuthToken
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- sessions ---

// CreateSession starts a new practice run.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResponse, error) {
	var out CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/session", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSession fetches a session with its ordered item list.
func (c *Client) GetSession(ctx context.Context, id int) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/session/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSessions returns the user's sessions, newest first.
func (c *Client) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	var out []SessionSummary
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveSession returns the most recent session for the current user.
// A 404 maps to ErrNoSession.
func (c *Client) ActiveSession(ctx context.Context) (int, error) {
	var out ActiveSessionResponse
	err := c.do(ctx, http.MethodGet, "/sessions/active", nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return 0, ErrNoSession
		}
		return 0, err
	}
	return out.SessionID, nil
}

// --- practice ---

// GenerateQuestion asks for a new question in a session.
func (c *Client) GenerateQuestion(ctx context.Context, req GenerateQuestionRequest) (*GenerateQuestionResponse, error) {
	var out GenerateQuestionResponse
	if err := c.do(ctx, http.MethodPost, "/question", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Evaluate submits an answer and returns the validated evaluation.
func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResponse, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/evaluate", req, &raw); err != nil {
		return nil, err
	}
	// Enforce the evaluation contract before trusting any field of it.
	if err := validateEvaluatePayload(raw); err != nil {
		return nil, err
	}
	var out EvaluateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &InvalidPayloadError{Content: raw, Err: err}
	}
	return &out, nil
}

// Hint fetches an escalating hint for the current question.
func (c *Client) Hint(ctx context.Context, req HintRequest) (*HintResponse, error) {
	var out HintResponse
	if err := c.do(ctx, http.MethodPost, "/hint", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WeakTopics returns the server-computed weak-topic aggregates for a session.
func (c *Client) WeakTopics(ctx context.Context, sessionID int) ([]WeakTopic, error) {
	var out []WeakTopic
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/weak-topics/%d", sessionID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- interview ---

// InterviewStart begins a mock interview and returns its first question.
func (c *Client) InterviewStart(ctx context.Context, req InterviewStartRequest) (*InterviewStartResponse, error) {
	var out InterviewStartResponse
	if err := c.do(ctx, http.MethodPost, "/interview/start", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InterviewNext fetches the next top-level interview question.
func (c *Client) InterviewNext(ctx context.Context, req InterviewNextRequest) (*InterviewNextResponse, error) {
	var out InterviewNextResponse
	if err := c.do(ctx, http.MethodPost, "/interview/next", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InterviewAnswer submits an interview answer and returns the evaluation
// plus the server's turn decision.
func (c *Client) InterviewAnswer(ctx context.Context, req InterviewAnswerRequest) (*InterviewAnswerResponse, error) {
	var out InterviewAnswerResponse
	if err := c.do(ctx, http.MethodPost, "/interview/answer", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- mcq ---

// MCQGenerate asks for a batch of multiple-choice questions.
func (c *Client) MCQGenerate(ctx context.Context, req MCQGenerateRequest) (*MCQGenerateResponse, error) {
	var out MCQGenerateResponse
	if err := c.do(ctx, http.MethodPost, "/mcq/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MCQSubmit grades one selected option.
func (c *Client) MCQSubmit(ctx context.Context, req MCQSubmitRequest) (*MCQSubmitResponse, error) {
	var out MCQSubmitResponse
	if err := c.do(ctx, http.MethodPost, "/mcq/submit", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MCQReport returns the per-skill MCQ report for a session.
func (c *Client) MCQReport(ctx context.Context, sessionID int) (*MCQReport, error) {
	var out MCQReport
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/mcq/report/%d", sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- profile ---

// ProfileSetup updates profile fields.
func (c *Client) ProfileSetup(ctx context.Context, req ProfileSetupRequest) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPost, "/profile/setup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileMe fetches the current profile.
func (c *Client) ProfileMe(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/profile/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze posts a job description (and optional resume) for the structured
// gap/plan/ATS report. The request is multipart per the backend contract.
func (c *Client) Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisReport, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("jd_text", in.JDText); err != nil {
		return nil, fmt.Errorf("write jd_text: %w", err)
	}
	if in.ResumeText != "" {
		if err := w.WriteField("resume_text", in.ResumeText); err != nil {
			return nil, fmt.Errorf("write resume_text: %w", err)
		}
	}
	if len(in.ResumePDF) > 0 {
		name := in.PDFName
		if name == "" {
			name = "resume.pdf"
		}
		part, err := w.CreateFormFile("resume_pdf", name)
		if err != nil {
			return nil, fmt.Errorf("create resume_pdf part: %w", err)
		}
		if _, err := part.Write(in.ResumePDF); err != nil {
			return nil, fmt.Errorf("write resume_pdf: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profile/analyze", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var raw json.RawMessage
	if err := c.send(req, &raw); err != nil {
		return nil, err
	}
	if err := validateAnalysisPayload(raw); err != nil {
		return nil, err
	}
	var out AnalysisReport
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &InvalidPayloadError{Content: raw, Err: err}
	}
	return &out, nil
}

// --- dashboard / roadmap ---

// Dashboard fetches the aggregate dashboard for the latest session.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	err := c.do(ctx, http.MethodGet, "/dashboard/me", nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &out, nil
}

// GenerateRoadmap asks the backend for a learning roadmap.
func (c *Client) GenerateRoadmap(ctx context.Context, req RoadmapGenerateRequest) (*Roadmap, error) {
	var out RoadmapGenerateResponse
	if err := c.do(ctx, http.MethodPost, "/roadmap/generate", req, &out); err != nil {
		return nil, err
	}
	return &out.Roadmap, nil
}
