// Package interview drives the multi-turn mock-interview flow: one question
// at a time, answers scored by the backend, follow-ups threaded under their
// parent question, difficulty adapted server-side.
package interview

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/prepterm/internal/api"
)

// Backend is the slice of the API client the controller needs.
type Backend interface {
	InterviewStart(ctx context.Context, req api.InterviewStartRequest) (*api.InterviewStartResponse, error)
	InterviewNext(ctx context.Context, req api.InterviewNextRequest) (*api.InterviewNextResponse, error)
	InterviewAnswer(ctx context.Context, req api.InterviewAnswerRequest) (*api.InterviewAnswerResponse, error)
}

// Identity records the interview's session id so dashboards resolve it.
type Identity interface {
	Set(ctx context.Context, id int) error
}

// State of the interview run. Follow-up resolution happens inside the
// submit cycle; NextQuestionPending is only observable when fetching the
// next top-level question failed and a retry is needed.
type State int

const (
	NotStarted State = iota
	AwaitingAnswer
	NextQuestionPending
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting answer"
	case NextQuestionPending:
		return "next question pending"
	case Complete:
		return "complete"
	default:
		return "not started"
	}
}

// ErrEmptyAnswer is the local validation failure for a blank submission.
// No network call is made.
var ErrEmptyAnswer = errors.New("answer is empty")

// ErrNotAwaitingAnswer rejects a submission outside AwaitingAnswer.
var ErrNotAwaitingAnswer = errors.New("no question awaiting an answer")

// EntryKind discriminates transcript entries.
type EntryKind int

const (
	EntryQuestion EntryKind = iota
	EntryAnswer
	EntryEvaluation
)

// Entry is one transcript line. The transcript is append-only for the
// duration of a run and discarded on Reset.
type Entry struct {
	Kind       EntryKind
	Text       string
	FollowUp   bool
	Evaluation *api.InterviewEvaluation
	Turn       int
}

// StartResult carries a finished start call back to the UI goroutine.
type StartResult struct {
	SessionID     int
	QAItemID      int
	FirstQuestion string
	Level         string
	Err           error
}

// TurnResult carries a finished answer cycle: the evaluation plus, for a
// plain answer, the outcome of the chained next-question fetch.
type TurnResult struct {
	Answer  string
	Resp    *api.InterviewAnswerResponse
	Next    *api.InterviewNextResponse
	NextErr error
	Err     error
}

// NextResult carries a finished next-question retry.
type NextResult struct {
	Resp *api.InterviewNextResponse
	Err  error
}

// Controller owns one interview run. Turn count and difficulty are always
// taken from server responses, never computed here.
//
// Begin*/Apply* run on the UI goroutine; only the returned call closures
// run elsewhere, and they touch nothing but the snapshot taken at Begin.
type Controller struct {
	backend Backend
	ids     Identity

	state      State
	sessionID  int
	qaItemID   int
	turn       int
	difficulty int
	transcript []Entry

	// Transient UI state.
	Busy string
	Err  string
}

func NewController(backend Backend, ids Identity) *Controller {
	return &Controller{backend: backend, ids: ids}
}

func (c *Controller) State() State        { return c.state }
func (c *Controller) Turn() int           { return c.turn }
func (c *Controller) Difficulty() int     { return c.difficulty }
func (c *Controller) QAItemID() int       { return c.qaItemID }
func (c *Controller) Transcript() []Entry { return c.transcript }

// initialDifficulty maps a requested level to the starting difficulty the
// backend uses. The server remains authoritative after the first answer.
func initialDifficulty(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner":
		return 2
	case "advanced":
		return 4
	default:
		return 3
	}
}

// BeginStart arms the busy label and returns the call that opens a fresh
// interview. Legal from any state; the in-progress run is discarded when
// the result is applied.
func (c *Controller) BeginStart(parent context.Context, track, level, interviewType string) func() StartResult {
	c.begin("Starting interview…")

	backend := c.backend
	req := api.InterviewStartRequest{
		Track:         track,
		Level:         level,
		InterviewType: interviewType,
	}
	return func() StartResult {
		resp, err := backend.InterviewStart(parent, req)
		if err != nil {
			return StartResult{Err: err}
		}
		return StartResult{
			SessionID:     resp.SessionID,
			QAItemID:      resp.QAItemID,
			FirstQuestion: resp.FirstQuestion,
			Level:         level,
		}
	}
}

// ApplyStart installs the new run: new session, first question, turn 1.
func (c *Controller) ApplyStart(ctx context.Context, r StartResult) error {
	c.finish()
	if r.Err != nil {
		c.Err = r.Err.Error()
		return r.Err
	}
	if err := c.ids.Set(ctx, r.SessionID); err != nil {
		c.Err = err.Error()
		return err
	}

	c.sessionID = r.SessionID
	c.qaItemID = r.QAItemID
	c.turn = 1
	c.difficulty = initialDifficulty(r.Level)
	c.transcript = []Entry{{Kind: EntryQuestion, Text: r.FirstQuestion, Turn: 1}}
	c.state = AwaitingAnswer
	return nil
}

// BeginSubmit validates the answer and returns the scoring call. A plain
// answer (no follow-up, run not complete) chains the next-question fetch
// inside the same call so the screen sees one result for the whole turn.
func (c *Controller) BeginSubmit(parent context.Context, text string) (func() TurnResult, error) {
	if c.state != AwaitingAnswer {
		c.Err = ErrNotAwaitingAnswer.Error()
		return nil, ErrNotAwaitingAnswer
	}
	text = strings.TrimSpace(text)
	if text == "" {
		c.Err = ErrEmptyAnswer.Error()
		return nil, ErrEmptyAnswer
	}

	c.begin("Evaluating answer…")

	backend := c.backend
	sessionID := c.sessionID
	req := api.InterviewAnswerRequest{
		QAItemID:   c.qaItemID,
		UserAnswer: text,
	}
	return func() TurnResult {
		resp, err := backend.InterviewAnswer(parent, req)
		if err != nil {
			return TurnResult{Answer: text, Err: err}
		}
		r := TurnResult{Answer: text, Resp: resp}
		if resp.FollowUpQuestion == nil && !resp.InterviewComplete {
			r.Next, r.NextErr = backend.InterviewNext(parent, api.InterviewNextRequest{SessionID: sessionID})
		}
		return r
	}, nil
}

// ApplySubmit advances the interview from a finished answer cycle: a
// follow-up keeps the thread going, completion ends the run, otherwise the
// chained next question is installed. An answer failure leaves the
// controller in its prior state so the user can retry; a next-question
// failure parks the run in NextQuestionPending.
func (c *Controller) ApplySubmit(r TurnResult) error {
	c.finish()
	if r.Err != nil {
		c.Err = r.Err.Error()
		return r.Err
	}

	resp := r.Resp
	c.turn = resp.TurnCount
	c.difficulty = resp.CurrentDifficulty
	eval := resp.Evaluation
	c.transcript = append(c.transcript,
		Entry{Kind: EntryAnswer, Text: r.Answer, Turn: resp.TurnCount},
		Entry{Kind: EntryEvaluation, Evaluation: &eval, Turn: resp.TurnCount},
	)

	switch {
	case resp.FollowUpQuestion != nil && resp.FollowUpQAItemID != nil:
		c.qaItemID = *resp.FollowUpQAItemID
		c.transcript = append(c.transcript, Entry{
			Kind:     EntryQuestion,
			Text:     *resp.FollowUpQuestion,
			FollowUp: true,
			Turn:     resp.TurnCount,
		})
		c.state = AwaitingAnswer
		return nil

	case resp.InterviewComplete:
		c.qaItemID = 0
		c.state = Complete
		return nil
	}

	// The answer landed; the run continues with a fresh top-level question.
	c.qaItemID = 0
	c.state = NextQuestionPending
	if r.NextErr != nil {
		c.Err = r.NextErr.Error()
		return r.NextErr
	}
	c.installNext(r.Next)
	return nil
}

// BeginNext retries fetching the next top-level question after a failed
// attempt. Legal only from NextQuestionPending.
func (c *Controller) BeginNext(parent context.Context) (func() NextResult, error) {
	if c.state != NextQuestionPending {
		c.Err = ErrNotAwaitingAnswer.Error()
		return nil, ErrNotAwaitingAnswer
	}
	c.begin("Fetching next question…")

	backend := c.backend
	sessionID := c.sessionID
	return func() NextResult {
		next, err := backend.InterviewNext(parent, api.InterviewNextRequest{SessionID: sessionID})
		return NextResult{Resp: next, Err: err}
	}, nil
}

// ApplyNext installs the retried next question.
func (c *Controller) ApplyNext(r NextResult) error {
	c.finish()
	if r.Err != nil {
		c.Err = r.Err.Error()
		return r.Err
	}
	c.installNext(r.Resp)
	return nil
}

func (c *Controller) installNext(next *api.InterviewNextResponse) {
	c.qaItemID = next.QAItemID
	c.turn = next.TurnCount
	c.transcript = append(c.transcript, Entry{
		Kind:     EntryQuestion,
		Text:     next.Question,
		FollowUp: next.IsFollowUp,
		Turn:     next.TurnCount,
	})
	c.state = AwaitingAnswer
}

// Reset discards the run entirely. Legal from any state.
func (c *Controller) Reset() {
	c.state = NotStarted
	c.sessionID = 0
	c.qaItemID = 0
	c.turn = 0
	c.difficulty = 0
	c.transcript = nil
	c.Busy = ""
	c.Err = ""
}

func (c *Controller) begin(label string) {
	c.Busy = label
	c.Err = ""
}

func (c *Controller) finish() {
	c.Busy = ""
}
