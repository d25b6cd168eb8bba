package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/prepterm/internal/api"
)

type mockBackend struct {
	startCalls  int
	nextCalls   int
	answerCalls int

	startResp  *api.InterviewStartResponse
	nextResp   *api.InterviewNextResponse
	answerResp *api.InterviewAnswerResponse
	nextErr    error
	answerErr  error

	lastAnswer api.InterviewAnswerRequest
	lastNext   api.InterviewNextRequest
}

func (m *mockBackend) InterviewStart(_ context.Context, req api.InterviewStartRequest) (*api.InterviewStartResponse, error) {
	m.startCalls++
	return m.startResp, nil
}

func (m *mockBackend) InterviewNext(_ context.Context, req api.InterviewNextRequest) (*api.InterviewNextResponse, error) {
	m.nextCalls++
	m.lastNext = req
	return m.nextResp, m.nextErr
}

func (m *mockBackend) InterviewAnswer(_ context.Context, req api.InterviewAnswerRequest) (*api.InterviewAnswerResponse, error) {
	m.answerCalls++
	m.lastAnswer = req
	return m.answerResp, m.answerErr
}

type mockIdentity struct {
	id int
}

func (m *mockIdentity) Set(_ context.Context, id int) error {
	m.id = id
	return nil
}

// The helpers run an operation the way the UI does: Begin on the caller,
// the call inline, Apply with the result.

func startRun(c *Controller, track, level, interviewType string) error {
	ctx := context.Background()
	call := c.BeginStart(ctx, track, level, interviewType)
	return c.ApplyStart(ctx, call())
}

func submitAnswer(c *Controller, text string) error {
	call, err := c.BeginSubmit(context.Background(), text)
	if err != nil {
		return err
	}
	return c.ApplySubmit(call())
}

func nextQuestion(c *Controller) error {
	call, err := c.BeginNext(context.Background())
	if err != nil {
		return err
	}
	return c.ApplyNext(call())
}

func started(t *testing.T, backend *mockBackend) *Controller {
	t.Helper()
	if backend.startResp == nil {
		backend.startResp = &api.InterviewStartResponse{
			SessionID:     21,
			FirstQuestion: "Explain database indexing.",
			QAItemID:      100,
		}
	}
	c := NewController(backend, &mockIdentity{})
	if err := startRun(c, "backend", "intermediate", "Technical"); err != nil {
		t.Fatalf("start: %v", err)
	}
	return c
}

func TestStartInitializesRun(t *testing.T) {
	backend := &mockBackend{}
	ids := &mockIdentity{}
	c := NewController(backend, ids)
	backend.startResp = &api.InterviewStartResponse{
		SessionID:     21,
		FirstQuestion: "Explain database indexing.",
		QAItemID:      100,
	}

	if err := startRun(c, "backend", "intermediate", "Technical"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.State() != AwaitingAnswer {
		t.Errorf("state = %v, want AwaitingAnswer", c.State())
	}
	if c.Turn() != 1 {
		t.Errorf("turn = %d, want 1", c.Turn())
	}
	if c.Difficulty() != 3 {
		t.Errorf("difficulty = %d, want 3 for intermediate", c.Difficulty())
	}
	if ids.id != 21 {
		t.Errorf("session id = %d, want 21", ids.id)
	}
	entries := c.Transcript()
	if len(entries) != 1 || entries[0].Kind != EntryQuestion {
		t.Fatalf("transcript = %+v, want one question entry", entries)
	}
	if entries[0].Text != "Explain database indexing." {
		t.Errorf("question text = %q", entries[0].Text)
	}
}

func TestInitialDifficultyByLevel(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"beginner", 2},
		{"intermediate", 3},
		{"advanced", 4},
		{"Advanced", 4},
		{"unknown", 3},
	}
	for _, tt := range tests {
		if got := initialDifficulty(tt.level); got != tt.want {
			t.Errorf("initialDifficulty(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestSubmitEmptyAnswerMakesNoCall(t *testing.T) {
	backend := &mockBackend{}
	c := started(t, backend)

	err := submitAnswer(c, "   \n  ")
	if !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("err = %v, want ErrEmptyAnswer", err)
	}
	if backend.answerCalls != 0 {
		t.Error("network call made for empty answer")
	}
	if c.State() != AwaitingAnswer {
		t.Errorf("state = %v, want unchanged AwaitingAnswer", c.State())
	}
}

func TestSubmitBeforeStartRejected(t *testing.T) {
	backend := &mockBackend{}
	c := NewController(backend, &mockIdentity{})

	if err := submitAnswer(c, "hello"); !errors.Is(err, ErrNotAwaitingAnswer) {
		t.Fatalf("err = %v, want ErrNotAwaitingAnswer", err)
	}
	if backend.answerCalls != 0 {
		t.Error("network call made before start")
	}
}

func TestCompletionEndsRun(t *testing.T) {
	backend := &mockBackend{
		answerResp: &api.InterviewAnswerResponse{
			Evaluation:        api.InterviewEvaluation{Overall: 4.0},
			InterviewComplete: true,
			CurrentDifficulty: 4,
			TurnCount:         6,
		},
	}
	c := started(t, backend)

	if err := submitAnswer(c, "B-trees keep lookups logarithmic."); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.State() != Complete {
		t.Errorf("state = %v, want Complete", c.State())
	}
	if c.QAItemID() != 0 {
		t.Errorf("qa item id = %d, want cleared", c.QAItemID())
	}
	if c.Turn() != 6 || c.Difficulty() != 4 {
		t.Errorf("turn/difficulty = %d/%d, want server values 6/4", c.Turn(), c.Difficulty())
	}
	entries := c.Transcript()
	if len(entries) != 3 {
		t.Fatalf("transcript length = %d, want question+answer+evaluation", len(entries))
	}
	if entries[1].Kind != EntryAnswer || entries[2].Kind != EntryEvaluation {
		t.Errorf("transcript kinds = %v, %v", entries[1].Kind, entries[2].Kind)
	}
	if backend.nextCalls != 0 {
		t.Error("next-question call made after completion")
	}
}

func TestFollowUpKeepsThread(t *testing.T) {
	follow := "Why not a hash index here?"
	followID := 101
	backend := &mockBackend{
		answerResp: &api.InterviewAnswerResponse{
			Evaluation:        api.InterviewEvaluation{Overall: 3.5},
			FollowUpQuestion:  &follow,
			FollowUpQAItemID:  &followID,
			CurrentDifficulty: 3,
			TurnCount:         2,
		},
	}
	c := started(t, backend)

	if err := submitAnswer(c, "Indexes speed up reads."); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if c.State() != AwaitingAnswer {
		t.Errorf("state = %v, want AwaitingAnswer", c.State())
	}
	if c.QAItemID() != followID {
		t.Errorf("qa item id = %d, want follow-up %d", c.QAItemID(), followID)
	}
	entries := c.Transcript()
	last := entries[len(entries)-1]
	if last.Kind != EntryQuestion || !last.FollowUp {
		t.Errorf("last entry = %+v, want follow-up question", last)
	}
	if backend.nextCalls != 0 {
		t.Error("next-question call made during a follow-up")
	}
}

func TestPlainAnswerFetchesNextQuestion(t *testing.T) {
	backend := &mockBackend{
		answerResp: &api.InterviewAnswerResponse{
			Evaluation:        api.InterviewEvaluation{Overall: 4.2},
			CurrentDifficulty: 4,
			TurnCount:         2,
		},
		nextResp: &api.InterviewNextResponse{
			QAItemID:  102,
			Question:  "Design a rate limiter.",
			TurnCount: 3,
		},
	}
	c := started(t, backend)

	if err := submitAnswer(c, "An index trades write cost for read speed."); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if backend.lastNext.SessionID != 21 {
		t.Errorf("next request session = %d, want 21", backend.lastNext.SessionID)
	}
	if c.State() != AwaitingAnswer || c.QAItemID() != 102 {
		t.Errorf("state/qa = %v/%d, want AwaitingAnswer/102", c.State(), c.QAItemID())
	}
	if c.Turn() != 3 {
		t.Errorf("turn = %d, want 3 from next response", c.Turn())
	}
}

func TestNextQuestionFailureIsRetryable(t *testing.T) {
	backend := &mockBackend{
		answerResp: &api.InterviewAnswerResponse{
			Evaluation: api.InterviewEvaluation{Overall: 4.0},
			TurnCount:  2,
		},
		nextErr: errors.New("backend down"),
	}
	c := started(t, backend)

	if err := submitAnswer(c, "answer"); err == nil {
		t.Fatal("expected next-question failure")
	}
	if c.State() != NextQuestionPending {
		t.Fatalf("state = %v, want NextQuestionPending", c.State())
	}

	backend.nextErr = nil
	backend.nextResp = &api.InterviewNextResponse{QAItemID: 103, Question: "Next.", TurnCount: 3}
	if err := nextQuestion(c); err != nil {
		t.Fatalf("next-question retry: %v", err)
	}
	if c.State() != AwaitingAnswer || c.QAItemID() != 103 {
		t.Errorf("state/qa = %v/%d after retry", c.State(), c.QAItemID())
	}
}

func TestAnswerFailureLeavesStateIntact(t *testing.T) {
	backend := &mockBackend{answerErr: errors.New("timeout")}
	c := started(t, backend)

	if err := submitAnswer(c, "answer"); err == nil {
		t.Fatal("expected error")
	}
	if c.State() != AwaitingAnswer {
		t.Errorf("state = %v, want AwaitingAnswer for retry", c.State())
	}
	if len(c.Transcript()) != 1 {
		t.Errorf("transcript length = %d, want untouched 1", len(c.Transcript()))
	}
	if c.Busy != "" {
		t.Errorf("busy label %q left set", c.Busy)
	}
}

// The call closure only talks to the network; nothing changes on the
// controller until the result is applied.
func TestSubmitMutatesOnlyOnApply(t *testing.T) {
	backend := &mockBackend{
		answerResp: &api.InterviewAnswerResponse{
			Evaluation:        api.InterviewEvaluation{Overall: 4.0},
			InterviewComplete: true,
			TurnCount:         2,
		},
	}
	c := started(t, backend)

	call, err := c.BeginSubmit(context.Background(), "answer")
	if err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	result := call()

	if len(c.Transcript()) != 1 {
		t.Errorf("transcript length = %d before apply, want 1", len(c.Transcript()))
	}
	if c.State() != AwaitingAnswer {
		t.Errorf("state = %v before apply, want AwaitingAnswer", c.State())
	}

	if err := c.ApplySubmit(result); err != nil {
		t.Fatalf("apply submit: %v", err)
	}
	if c.State() != Complete || len(c.Transcript()) != 3 {
		t.Errorf("state/transcript = %v/%d after apply", c.State(), len(c.Transcript()))
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	backend := &mockBackend{}
	c := started(t, backend)

	c.Reset()
	if c.State() != NotStarted {
		t.Errorf("state = %v, want NotStarted", c.State())
	}
	if c.Transcript() != nil || c.QAItemID() != 0 || c.Turn() != 0 {
		t.Error("run state not discarded")
	}
}
