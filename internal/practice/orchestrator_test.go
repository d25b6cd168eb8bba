package practice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/abhisek/prepterm/internal/api"
)

type mockBackend struct {
	createCalls   int
	generateCalls int
	evaluateCalls int
	hintCalls     int

	createResp   *api.CreateSessionResponse
	generateResp *api.GenerateQuestionResponse
	evaluateResp *api.EvaluateResponse
	hintResp     *api.HintResponse
	err          error

	lastGenerate api.GenerateQuestionRequest
	lastHint     api.HintRequest
}

func (m *mockBackend) CreateSession(_ context.Context, req api.CreateSessionRequest) (*api.CreateSessionResponse, error) {
	m.createCalls++
	return m.createResp, m.err
}

func (m *mockBackend) GenerateQuestion(_ context.Context, req api.GenerateQuestionRequest) (*api.GenerateQuestionResponse, error) {
	m.generateCalls++
	m.lastGenerate = req
	return m.generateResp, m.err
}

func (m *mockBackend) Evaluate(_ context.Context, req api.EvaluateRequest) (*api.EvaluateResponse, error) {
	m.evaluateCalls++
	return m.evaluateResp, m.err
}

func (m *mockBackend) Hint(_ context.Context, req api.HintRequest) (*api.HintResponse, error) {
	m.hintCalls++
	m.lastHint = req
	return m.hintResp, m.err
}

type mockIdentity struct {
	id int
}

func (m *mockIdentity) SessionID() int { return m.id }

func (m *mockIdentity) Set(_ context.Context, id int) error {
	m.id = id
	return nil
}

// The helpers run an operation the way the UI does: Begin on the caller,
// the call inline, Apply with the result.

func createSession(o *Orchestrator) error {
	ctx := context.Background()
	call := o.BeginCreateSession(ctx)
	return o.ApplyCreateSession(ctx, call())
}

func generateQuestion(o *Orchestrator) error {
	call, err := o.BeginGenerate(context.Background())
	if err != nil {
		return err
	}
	return o.ApplyGenerate(call())
}

func evaluateAnswer(o *Orchestrator) error {
	call, err := o.BeginEvaluate(context.Background())
	if err != nil {
		return err
	}
	return o.ApplyEvaluate(call())
}

func requestHint(o *Orchestrator, level int) error {
	call, err := o.BeginHint(context.Background(), level)
	if err != nil {
		return err
	}
	return o.ApplyHint(call())
}

func TestCreateSessionStoresIDAndResetsState(t *testing.T) {
	backend := &mockBackend{createResp: &api.CreateSessionResponse{SessionID: 7}}
	ids := &mockIdentity{}
	o := NewOrchestrator(backend, ids, NewConfig())
	o.QAItemID = 3
	o.Question = "old"
	o.Hint = "old hint"

	if err := createSession(o); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if ids.id != 7 {
		t.Errorf("session id = %d, want 7", ids.id)
	}
	if o.QAItemID != 0 || o.Question != "" || o.Hint != "" {
		t.Error("question state not reset after new session")
	}
	if o.Busy != "" {
		t.Errorf("busy label %q left set", o.Busy)
	}
}

func TestCreateSessionFailureKeepsState(t *testing.T) {
	backend := &mockBackend{err: errors.New("backend down")}
	ids := &mockIdentity{id: 5}
	o := NewOrchestrator(backend, ids, NewConfig())
	o.QAItemID = 3
	o.Question = "keep me"

	if err := createSession(o); err == nil {
		t.Fatal("expected error")
	}
	if ids.id != 5 {
		t.Errorf("session id = %d, want untouched 5", ids.id)
	}
	if o.QAItemID != 3 || o.Question != "keep me" {
		t.Error("question state cleared on failure")
	}
	if o.Err == "" {
		t.Error("error string not surfaced")
	}
	if o.Busy != "" {
		t.Errorf("busy label %q left set after failure", o.Busy)
	}
}

func TestGenerateQuestionRequiresSession(t *testing.T) {
	backend := &mockBackend{}
	o := NewOrchestrator(backend, &mockIdentity{}, NewConfig())

	_, err := o.BeginGenerate(context.Background())
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("err = %v, want ErrNoActiveSession", err)
	}
	if backend.generateCalls != 0 {
		t.Error("network call made without a session")
	}
	if o.Busy != "" {
		t.Errorf("busy label %q armed for a rejected begin", o.Busy)
	}
}

func TestGenerateQuestionResetsDependentState(t *testing.T) {
	backend := &mockBackend{generateResp: &api.GenerateQuestionResponse{
		QAItemID: 11,
		Question: "What is an index?",
	}}
	o := NewOrchestrator(backend, &mockIdentity{id: 1}, NewConfig())
	o.QAItemID = 4
	o.Answer = "stale answer"
	o.Evaluation = &api.Evaluation{}
	o.Overall = 4.5
	o.Hint = "stale hint"

	if err := generateQuestion(o); err != nil {
		t.Fatalf("generate question: %v", err)
	}
	if o.QAItemID != 11 || o.Question != "What is an index?" {
		t.Errorf("question = (%d, %q)", o.QAItemID, o.Question)
	}
	if o.Answer != "" || o.Evaluation != nil || o.Overall != 0 || o.Hint != "" {
		t.Error("dependent state not cleared on new question")
	}
}

func TestGenerateQuestionFailureKeepsPreviousQuestion(t *testing.T) {
	backend := &mockBackend{err: errors.New("timeout")}
	o := NewOrchestrator(backend, &mockIdentity{id: 1}, NewConfig())
	o.QAItemID = 4
	o.Question = "previous"

	if err := generateQuestion(o); err == nil {
		t.Fatal("expected error")
	}
	if o.QAItemID != 4 || o.Question != "previous" {
		t.Error("previous question lost on failure")
	}
}

func TestGenerateQuestionRevalidatesConfig(t *testing.T) {
	backend := &mockBackend{generateResp: &api.GenerateQuestionResponse{QAItemID: 1}}
	cfg := NewConfig()
	o := NewOrchestrator(backend, &mockIdentity{id: 1}, cfg)

	// Force a stale combination past the setters.
	cfg.Track = TrackBackend
	cfg.Skill = "React"
	cfg.Topic = ""
	cfg.Difficulty = 9

	if err := generateQuestion(o); err != nil {
		t.Fatalf("generate question: %v", err)
	}
	sent := backend.lastGenerate
	if sent.Skill != "SQL" {
		t.Errorf("sent skill = %q, want substituted SQL", sent.Skill)
	}
	if sent.Topic != DefaultTopic("SQL") {
		t.Errorf("sent topic = %q, want seeded default", sent.Topic)
	}
	if sent.Difficulty != 5 {
		t.Errorf("sent difficulty = %d, want clamped 5", sent.Difficulty)
	}
}

func TestEvaluateWithoutQuestionMakesNoCall(t *testing.T) {
	backend := &mockBackend{}
	o := NewOrchestrator(backend, &mockIdentity{id: 1}, NewConfig())

	_, err := o.BeginEvaluate(context.Background())
	if !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("err = %v, want ErrNoActiveQuestion", err)
	}
	if backend.evaluateCalls != 0 {
		t.Error("network call made without an active question")
	}
}

func TestEvaluateReplacesEvaluationWholesale(t *testing.T) {
	backend := &mockBackend{evaluateResp: &api.EvaluateResponse{
		Overall: 3.8,
		Evaluation: api.Evaluation{
			Overall:        3.8,
			NextDrillTopic: "indexing",
		},
	}}
	o := NewOrchestrator(backend, &mockIdentity{id: 1}, NewConfig())
	o.QAItemID = 9
	o.Answer = "b-trees"
	o.Evaluation = &api.Evaluation{NextDrillTopic: "stale"}

	if err := evaluateAnswer(o); err != nil {
		t.Fatalf("evaluate answer: %v", err)
	}
	if o.Overall != 3.8 {
		t.Errorf("overall = %v, want 3.8", o.Overall)
	}
	if o.Evaluation.NextDrillTopic != "indexing" {
		t.Errorf("next drill topic = %q", o.Evaluation.NextDrillTopic)
	}
}

func TestHintSendsDraftAndClampsLevel(t *testing.T) {
	backend := &mockBackend{hintResp: &api.HintResponse{Hint: "think joins"}}
	o := NewOrchestrator(backend, &mockIdentity{id: 1}, NewConfig())
	o.QAItemID = 2
	o.Answer = "half an answer"

	if err := requestHint(o, 7); err != nil {
		t.Fatalf("request hint: %v", err)
	}
	if o.Hint != "think joins" {
		t.Errorf("hint = %q", o.Hint)
	}
	if backend.lastHint.HintLevel != HintNudge {
		t.Errorf("level = %d, want clamped to %d", backend.lastHint.HintLevel, HintNudge)
	}
	if backend.lastHint.UserAnswer == nil || *backend.lastHint.UserAnswer != "half an answer" {
		t.Error("draft answer not sent")
	}
	if o.HintBusy {
		t.Error("hint busy flag left set")
	}
}

func TestHintWithoutQuestionMakesNoCall(t *testing.T) {
	backend := &mockBackend{}
	o := NewOrchestrator(backend, &mockIdentity{id: 1}, NewConfig())

	if _, err := o.BeginHint(context.Background(), HintNudge); !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("err = %v, want ErrNoActiveQuestion", err)
	}
	if backend.hintCalls != 0 {
		t.Error("network call made without an active question")
	}
}

// A hint may be in flight while an evaluate runs. The call closures carry
// only their Begin-time snapshots, so running them concurrently must not
// touch orchestrator state; both results land through Apply on the caller.
func TestHintAndEvaluateOverlap(t *testing.T) {
	backend := &mockBackend{
		evaluateResp: &api.EvaluateResponse{Overall: 4.1, Evaluation: api.Evaluation{Overall: 4.1}},
		hintResp:     &api.HintResponse{Hint: "think joins"},
	}
	o := NewOrchestrator(backend, &mockIdentity{id: 1}, NewConfig())
	o.QAItemID = 2
	o.Answer = "draft"

	evalCall, err := o.BeginEvaluate(context.Background())
	if err != nil {
		t.Fatalf("begin evaluate: %v", err)
	}
	hintCall, err := o.BeginHint(context.Background(), HintNudge)
	if err != nil {
		t.Fatalf("begin hint: %v", err)
	}

	var (
		wg      sync.WaitGroup
		evalRes EvaluationResult
		hintRes HintResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		evalRes = evalCall()
	}()
	go func() {
		defer wg.Done()
		hintRes = hintCall()
	}()
	wg.Wait()

	if err := o.ApplyEvaluate(evalRes); err != nil {
		t.Fatalf("apply evaluate: %v", err)
	}
	if err := o.ApplyHint(hintRes); err != nil {
		t.Fatalf("apply hint: %v", err)
	}

	if o.Overall != 4.1 || o.Evaluation == nil {
		t.Errorf("overall = %v, want 4.1 with evaluation attached", o.Overall)
	}
	if o.Hint != "think joins" {
		t.Errorf("hint = %q", o.Hint)
	}
	if o.Busy != "" || o.HintBusy {
		t.Error("busy flags left set after both applies")
	}
}
