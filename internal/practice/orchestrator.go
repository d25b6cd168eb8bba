package practice

import (
	"context"
	"errors"

	"github.com/abhisek/prepterm/internal/api"
)

// Backend is the slice of the API client the orchestrator needs.
type Backend interface {
	CreateSession(ctx context.Context, req api.CreateSessionRequest) (*api.CreateSessionResponse, error)
	GenerateQuestion(ctx context.Context, req api.GenerateQuestionRequest) (*api.GenerateQuestionResponse, error)
	Evaluate(ctx context.Context, req api.EvaluateRequest) (*api.EvaluateResponse, error)
	Hint(ctx context.Context, req api.HintRequest) (*api.HintResponse, error)
}

// Identity is the slice of the session identity manager the orchestrator
// needs.
type Identity interface {
	SessionID() int
	Set(ctx context.Context, id int) error
}

// Local precondition failures. No network call is made for these.
var (
	ErrNoActiveSession  = errors.New("no active session: create one first")
	ErrNoActiveQuestion = errors.New("no active question")
)

// Hint levels.
const (
	HintNudge        = 1
	HintDirection    = 2
	HintNearSolution = 3
)

// SessionResult carries a finished create-session call back to the UI
// goroutine.
type SessionResult struct {
	SessionID int
	Err       error
}

// QuestionResult carries a finished generate call.
type QuestionResult struct {
	QAItemID int
	Question string
	Err      error
}

// EvaluationResult carries a finished evaluate call.
type EvaluationResult struct {
	Evaluation api.Evaluation
	Overall    float64
	Err        error
}

// HintResult carries a finished hint call.
type HintResult struct {
	Hint string
	Err  error
}

// Orchestrator sequences the practice calls for one run: create session →
// generate question → evaluate → hint. Each operation is an atomic
// request/response cycle that either fully replaces the dependent state or
// leaves it untouched on failure.
//
// Begin*/Apply* run on the UI goroutine; only the returned call closures
// run elsewhere, and they touch nothing but the snapshot taken at Begin.
// Hints run under their own flag so they don't block the main flow; their
// in-flight call overlapping an evaluate is safe because both sides only
// mutate through Apply*.
type Orchestrator struct {
	backend Backend
	ids     Identity
	cfg     *Config

	// Question state. QAItemID 0 means no active question.
	QAItemID int
	Question string
	Answer   string

	// Evaluation state, replaced wholesale on each successful evaluation.
	Evaluation *api.Evaluation
	Overall    float64

	// Hint state.
	Hint     string
	HintBusy bool

	// Transient UI state: one busy label and one error string at a time.
	Busy string
	Err  string
}

// NewOrchestrator wires an orchestrator over the backend, the identity
// manager, and a config store.
func NewOrchestrator(backend Backend, ids Identity, cfg *Config) *Orchestrator {
	return &Orchestrator{backend: backend, ids: ids, cfg: cfg}
}

// Config exposes the config store for the setup UI.
func (o *Orchestrator) Config() *Config {
	return o.cfg
}

// SessionID returns the active session id, 0 when none.
func (o *Orchestrator) SessionID() int {
	return o.ids.SessionID()
}

// BeginCreateSession arms the busy label and returns the network call for
// a fresh practice run. The call runs off the UI goroutine; its result
// goes to ApplyCreateSession.
func (o *Orchestrator) BeginCreateSession(parent context.Context) func() SessionResult {
	o.begin("Creating session…")

	backend := o.backend
	req := api.CreateSessionRequest{
		Mode:  string(o.cfg.Mode),
		Track: string(o.cfg.Track),
		Level: string(o.cfg.Level),
	}
	return func() SessionResult {
		resp, err := backend.CreateSession(parent, req)
		if err != nil {
			return SessionResult{Err: err}
		}
		return SessionResult{SessionID: resp.SessionID}
	}
}

// ApplyCreateSession adopts the new session and clears all downstream
// question/evaluation state. On failure prior state is left untouched.
func (o *Orchestrator) ApplyCreateSession(ctx context.Context, r SessionResult) error {
	o.finish()
	if r.Err != nil {
		o.Err = r.Err.Error()
		return r.Err
	}
	if err := o.ids.Set(ctx, r.SessionID); err != nil {
		o.Err = err.Error()
		return err
	}
	o.resetQuestionState()
	return nil
}

// BeginGenerate validates preconditions and returns the network call for a
// new question. Requires an active session. The config is re-validated
// here: a stale skill outside the current track is substituted with the
// first allowed skill, an empty topic with the skill's seed.
func (o *Orchestrator) BeginGenerate(parent context.Context) (func() QuestionResult, error) {
	if o.ids.SessionID() == 0 {
		o.Err = ErrNoActiveSession.Error()
		return nil, ErrNoActiveSession
	}

	skill := o.cfg.Skill
	if !SkillAllowed(o.cfg.Track, skill) {
		skill = AllowedSkills(o.cfg.Track)[0]
	}
	topic := o.cfg.Topic
	if topic == "" {
		topic = DefaultTopic(skill)
	}

	o.begin("Generating question…")

	backend := o.backend
	req := api.GenerateQuestionRequest{
		SessionID:    o.ids.SessionID(),
		Skill:        skill,
		Topic:        topic,
		QuestionType: string(o.cfg.QuestionType),
		Difficulty:   ClampDifficulty(o.cfg.Difficulty),
	}
	return func() QuestionResult {
		resp, err := backend.GenerateQuestion(parent, req)
		if err != nil {
			return QuestionResult{Err: err}
		}
		return QuestionResult{QAItemID: resp.QAItemID, Question: resp.Question}
	}, nil
}

// ApplyGenerate installs the new question. On success the previous answer,
// evaluation, and hint are cleared; on failure the previous question stays
// visible.
func (o *Orchestrator) ApplyGenerate(r QuestionResult) error {
	o.finish()
	if r.Err != nil {
		o.Err = r.Err.Error()
		return r.Err
	}
	o.QAItemID = r.QAItemID
	o.Question = r.Question
	o.Answer = ""
	o.Evaluation = nil
	o.Overall = 0
	o.Hint = ""
	return nil
}

// BeginEvaluate snapshots the current answer and returns the scoring call.
// A missing active question is a local no-op error: no network call is
// made.
func (o *Orchestrator) BeginEvaluate(parent context.Context) (func() EvaluationResult, error) {
	if o.QAItemID == 0 {
		o.Err = ErrNoActiveQuestion.Error()
		return nil, ErrNoActiveQuestion
	}

	o.begin("Evaluating answer…")

	backend := o.backend
	req := api.EvaluateRequest{
		QAItemID:   o.QAItemID,
		UserAnswer: o.Answer,
	}
	return func() EvaluationResult {
		resp, err := backend.Evaluate(parent, req)
		if err != nil {
			return EvaluationResult{Err: err}
		}
		return EvaluationResult{Evaluation: resp.Evaluation, Overall: resp.Overall}
	}, nil
}

// ApplyEvaluate replaces the evaluation wholesale on success.
func (o *Orchestrator) ApplyEvaluate(r EvaluationResult) error {
	o.finish()
	if r.Err != nil {
		o.Err = r.Err.Error()
		return r.Err
	}
	eval := r.Evaluation
	o.Evaluation = &eval
	o.Overall = r.Overall
	return nil
}

// BeginHint returns the hint call at the given level
// (HintNudge..HintNearSolution) for the current question, sending the
// draft answer when present. Runs under its own busy flag so it never
// blocks evaluate/generate.
func (o *Orchestrator) BeginHint(parent context.Context, level int) (func() HintResult, error) {
	if o.QAItemID == 0 {
		o.Err = ErrNoActiveQuestion.Error()
		return nil, ErrNoActiveQuestion
	}
	if level < HintNudge || level > HintNearSolution {
		level = HintNudge
	}

	o.HintBusy = true
	o.Err = ""

	var draft *string
	if o.Answer != "" {
		answer := o.Answer
		draft = &answer
	}

	backend := o.backend
	req := api.HintRequest{
		QAItemID:   o.QAItemID,
		UserAnswer: draft,
		HintLevel:  level,
	}
	return func() HintResult {
		resp, err := backend.Hint(parent, req)
		if err != nil {
			return HintResult{Err: err}
		}
		return HintResult{Hint: resp.Hint}
	}, nil
}

// ApplyHint installs the fetched hint and drops the hint busy flag.
func (o *Orchestrator) ApplyHint(r HintResult) error {
	o.HintBusy = false
	if r.Err != nil {
		o.Err = r.Err.Error()
		return r.Err
	}
	o.Hint = r.Hint
	return nil
}

// SetAnswer records the user's draft answer.
func (o *Orchestrator) SetAnswer(text string) {
	o.Answer = text
}

// begin arms the busy label and clears the previous error.
func (o *Orchestrator) begin(label string) {
	o.Busy = label
	o.Err = ""
}

// finish clears the busy label. Called by every Apply so the UI is never
// stuck busy after a failure.
func (o *Orchestrator) finish() {
	o.Busy = ""
}

// resetQuestionState clears everything downstream of a session.
func (o *Orchestrator) resetQuestionState() {
	o.QAItemID = 0
	o.Question = ""
	o.Answer = ""
	o.Evaluation = nil
	o.Overall = 0
	o.Hint = ""
}
