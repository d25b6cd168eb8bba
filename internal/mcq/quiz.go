package mcq

import (
	"context"
	"errors"

	"github.com/abhisek/prepterm/internal/api"
)

// Backend is the slice of the API client the quiz needs.
type Backend interface {
	MCQGenerate(ctx context.Context, req api.MCQGenerateRequest) (*api.MCQGenerateResponse, error)
	MCQSubmit(ctx context.Context, req api.MCQSubmitRequest) (*api.MCQSubmitResponse, error)
	MCQReport(ctx context.Context, sessionID int) (*api.MCQReport, error)
}

// Identity resolves the active session for generation and the report.
type Identity interface {
	SessionID() int
}

var (
	ErrNoActiveSession = errors.New("no active session: create one first")
	ErrNoQuestion      = errors.New("no question to answer")
	ErrAlreadyGraded   = errors.New("question already graded")
	ErrNoSelection     = errors.New("no option selected")
)

// DefaultBatchSize is the number of questions requested per run.
const DefaultBatchSize = 5

// Item is one question in the run plus its grading result once submitted.
type Item struct {
	QAItemID int
	Question string
	Options  []Option
	Selected string
	Result   *api.MCQSubmitResponse
}

// GenerateResult carries a finished batch fetch back to the UI goroutine.
type GenerateResult struct {
	MCQs []api.MCQ
	Err  error
}

// SubmitResult carries a finished grading call, tagged with the question
// it was issued for.
type SubmitResult struct {
	QAItemID int
	Resp     *api.MCQSubmitResponse
	Err      error
}

// ReportResult carries a finished report fetch.
type ReportResult struct {
	Report *api.MCQReport
	Err    error
}

// Quiz sequences one MCQ run: generate a batch, answer each question in
// order, fetch the report at the end.
//
// Begin*/Apply* run on the UI goroutine; only the returned call closures
// run elsewhere, and they touch nothing but the snapshot taken at Begin.
type Quiz struct {
	backend Backend
	ids     Identity

	Items  []Item
	Cursor int

	// Transient UI state.
	Busy string
	Err  string
}

func NewQuiz(backend Backend, ids Identity) *Quiz {
	return &Quiz{backend: backend, ids: ids}
}

// BeginGenerate validates the session and returns the batch fetch. Apply
// discards any previous run.
func (q *Quiz) BeginGenerate(parent context.Context, skill, topic string, difficulty int) (func() GenerateResult, error) {
	if q.ids.SessionID() == 0 {
		q.Err = ErrNoActiveSession.Error()
		return nil, ErrNoActiveSession
	}

	q.begin("Generating questions…")

	backend := q.backend
	req := api.MCQGenerateRequest{
		SessionID:  q.ids.SessionID(),
		Skill:      skill,
		Topic:      topic,
		Difficulty: difficulty,
		N:          DefaultBatchSize,
	}
	return func() GenerateResult {
		resp, err := backend.MCQGenerate(parent, req)
		if err != nil {
			return GenerateResult{Err: err}
		}
		return GenerateResult{MCQs: resp.MCQs}
	}, nil
}

// ApplyGenerate installs the fresh batch and resets the cursor.
func (q *Quiz) ApplyGenerate(r GenerateResult) error {
	q.finish()
	if r.Err != nil {
		q.Err = r.Err.Error()
		return r.Err
	}

	items := make([]Item, 0, len(r.MCQs))
	for _, m := range r.MCQs {
		items = append(items, Item{
			QAItemID: m.QAItemID,
			Question: m.Question,
			Options:  ParseOptions(m.Options),
		})
	}
	q.Items = items
	q.Cursor = 0
	return nil
}

// Current returns the question under the cursor, nil when the run is over
// or empty.
func (q *Quiz) Current() *Item {
	if q.Cursor < 0 || q.Cursor >= len(q.Items) {
		return nil
	}
	return &q.Items[q.Cursor]
}

// Select records the chosen letter for the current question. Ignored once
// the question is graded.
func (q *Quiz) Select(letter string) {
	cur := q.Current()
	if cur == nil || cur.Result != nil {
		return
	}
	cur.Selected = letter
}

// BeginSubmit snapshots the current selection and returns the grading
// call. The cursor stays put so the explanation can be read before
// advancing.
func (q *Quiz) BeginSubmit(parent context.Context) (func() SubmitResult, error) {
	cur := q.Current()
	if cur == nil {
		q.Err = ErrNoQuestion.Error()
		return nil, ErrNoQuestion
	}
	if cur.Result != nil {
		q.Err = ErrAlreadyGraded.Error()
		return nil, ErrAlreadyGraded
	}
	if cur.Selected == "" {
		q.Err = ErrNoSelection.Error()
		return nil, ErrNoSelection
	}

	q.begin("Checking answer…")

	backend := q.backend
	req := api.MCQSubmitRequest{
		QAItemID: cur.QAItemID,
		Selected: cur.Selected,
	}
	return func() SubmitResult {
		resp, err := backend.MCQSubmit(parent, req)
		return SubmitResult{QAItemID: req.QAItemID, Resp: resp, Err: err}
	}, nil
}

// ApplySubmit attaches the grading result to the item it was issued for.
// A result for a question no longer in the run is dropped.
func (q *Quiz) ApplySubmit(r SubmitResult) error {
	q.finish()
	if r.Err != nil {
		q.Err = r.Err.Error()
		return r.Err
	}
	for i := range q.Items {
		if q.Items[i].QAItemID == r.QAItemID {
			q.Items[i].Result = r.Resp
			break
		}
	}
	return nil
}

// Advance moves to the next question. Returns false when the run is over.
func (q *Quiz) Advance() bool {
	if q.Cursor >= len(q.Items) {
		return false
	}
	q.Cursor++
	return q.Cursor < len(q.Items)
}

// Done reports whether every question has been graded.
func (q *Quiz) Done() bool {
	if len(q.Items) == 0 {
		return false
	}
	for i := range q.Items {
		if q.Items[i].Result == nil {
			return false
		}
	}
	return true
}

// Score counts the correctly answered questions so far.
func (q *Quiz) Score() (correct, graded int) {
	for i := range q.Items {
		if r := q.Items[i].Result; r != nil {
			graded++
			if r.Correct {
				correct++
			}
		}
	}
	return correct, graded
}

// BeginReport validates the session and returns the report fetch.
func (q *Quiz) BeginReport(parent context.Context) (func() ReportResult, error) {
	if q.ids.SessionID() == 0 {
		q.Err = ErrNoActiveSession.Error()
		return nil, ErrNoActiveSession
	}

	q.begin("Building report…")

	backend := q.backend
	sessionID := q.ids.SessionID()
	return func() ReportResult {
		report, err := backend.MCQReport(parent, sessionID)
		return ReportResult{Report: report, Err: err}
	}, nil
}

// ApplyReport clears the busy label and surfaces any fetch error. The
// report itself stays in the result for the caller to render.
func (q *Quiz) ApplyReport(r ReportResult) error {
	q.finish()
	if r.Err != nil {
		q.Err = r.Err.Error()
		return r.Err
	}
	return nil
}

func (q *Quiz) begin(label string) {
	q.Busy = label
	q.Err = ""
}

func (q *Quiz) finish() {
	q.Busy = ""
}
