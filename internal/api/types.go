package api

import "time"

// Wire types mirroring the backend's JSON schemas. Field names follow the
// server's snake_case payloads exactly; the client never renames or
// reinterprets server data.

// Credentials is the signup/login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User identifies the authenticated account.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// AuthToken is returned by /auth/signup and /auth/login.
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// CreateSessionRequest starts a practice run.
type CreateSessionRequest struct {
	Mode  string `json:"mode"`
	Track string `json:"track"`
	Level string `json:"level"`
}

// CreateSessionResponse carries the server-issued session identifier.
type CreateSessionResponse struct {
	SessionID int `json:"session_id"`
}

// ActiveSessionResponse is the most recent session for the current user.
type ActiveSessionResponse struct {
	SessionID int `json:"session_id"`
}

// SessionItem is one QA item inside a session.
type SessionItem struct {
	ID           int      `json:"id"`
	Skill        string   `json:"skill"`
	Topic        string   `json:"topic"`
	QuestionType string   `json:"question_type"`
	Difficulty   int      `json:"difficulty"`
	Question     string   `json:"question"`
	UserAnswer   *string  `json:"user_answer"`
	Overall      *float64 `json:"overall"`
}

// Session is a practice run with its ordered item list.
type Session struct {
	ID    int           `json:"id"`
	Mode  string        `json:"mode"`
	Track string        `json:"track"`
	Level string        `json:"level"`
	Items []SessionItem `json:"items"`
}

// SessionSummary is one row of the session list.
type SessionSummary struct {
	ID        int        `json:"id"`
	Mode      string     `json:"mode"`
	Track     string     `json:"track"`
	Level     string     `json:"level"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// GenerateQuestionRequest asks for a new question in a session.
type GenerateQuestionRequest struct {
	SessionID    int    `json:"session_id"`
	Skill        string `json:"skill"`
	Topic        string `json:"topic"`
	QuestionType string `json:"question_type"`
	Difficulty   int    `json:"difficulty"`
}

// GenerateQuestionResponse carries the new QA item.
type GenerateQuestionResponse struct {
	QAItemID int    `json:"qa_item_id"`
	Question string `json:"question"`
}

// EvaluateRequest submits an answer for scoring.
type EvaluateRequest struct {
	QAItemID   int    `json:"qa_item_id"`
	UserAnswer string `json:"user_answer"`
}

// RubricScores are the five named sub-scores, each 0-5.
type RubricScores struct {
	Correctness  int `json:"correctness"`
	Completeness int `json:"completeness"`
	Clarity      int `json:"clarity"`
	Depth        int `json:"depth"`
	Reasoning    int `json:"reasoning"`
}

// Evaluation is the full scoring payload for one answer.
type Evaluation struct {
	Scores         RubricScores `json:"scores"`
	Overall        float64      `json:"overall"`
	Strengths      []string     `json:"strengths"`
	Gaps           []string     `json:"gaps"`
	Improvements   []string     `json:"improvements"`
	ModelAnswer    string       `json:"model_answer"`
	NextDrillTopic string       `json:"next_drill_topic"`
}

// EvaluateResponse is the /evaluate response.
type EvaluateResponse struct {
	Overall    float64    `json:"overall"`
	Evaluation Evaluation `json:"evaluation"`
}

// HintRequest asks for an escalating hint (level 1-3) on the current question.
type HintRequest struct {
	QAItemID   int     `json:"qa_item_id"`
	UserAnswer *string `json:"user_answer"`
	HintLevel  int     `json:"hint_level"`
}

// HintResponse carries the hint text.
type HintResponse struct {
	Hint string `json:"hint"`
}

// WeakTopic is a server-computed per-topic aggregate.
type WeakTopic struct {
	Topic      string  `json:"topic"`
	AvgOverall float64 `json:"avg_overall"`
	Attempts   int     `json:"attempts"`
}

// InterviewStartRequest begins a mock interview.
type InterviewStartRequest struct {
	Track         string `json:"track"`
	Level         string `json:"level"`
	InterviewType string `json:"interview_type"`
}

// InterviewStartResponse carries the new interview session and first question.
type InterviewStartResponse struct {
	SessionID     int    `json:"session_id"`
	FirstQuestion string `json:"first_question"`
	QAItemID      int    `json:"qa_item_id"`
}

// InterviewNextRequest asks for the next top-level interview question.
type InterviewNextRequest struct {
	SessionID int `json:"session_id"`
}

// InterviewNextResponse carries the next question.
type InterviewNextResponse struct {
	QAItemID   int    `json:"qa_item_id"`
	Question   string `json:"question"`
	IsFollowUp bool   `json:"is_follow_up"`
	TurnCount  int    `json:"turn_count"`
}

// InterviewAnswerRequest submits an interview answer.
type InterviewAnswerRequest struct {
	QAItemID   int    `json:"qa_item_id"`
	UserAnswer string `json:"user_answer"`
}

// InterviewEvaluation is the interview-mode scoring payload. Sub-scores
// arrive as a free map because the interviewer rubric varies by type.
type InterviewEvaluation struct {
	Scores       map[string]int `json:"scores"`
	Overall      float64        `json:"overall"`
	Strengths    []string       `json:"strengths"`
	Gaps         []string       `json:"gaps"`
	Improvements []string       `json:"improvements"`
	ModelAnswer  string         `json:"model_answer"`
}

// InterviewAnswerResponse drives the interview turn transitions. Turn count
// and difficulty are authoritative here; the client never computes them.
type InterviewAnswerResponse struct {
	Evaluation        InterviewEvaluation `json:"evaluation"`
	FollowUpQuestion  *string             `json:"follow_up_question"`
	FollowUpQAItemID  *int                `json:"follow_up_qa_item_id"`
	InterviewComplete bool                `json:"interview_complete"`
	CurrentDifficulty int                 `json:"current_difficulty"`
	TurnCount         int                 `json:"turn_count"`
}

// MCQGenerateRequest asks for a batch of multiple-choice questions.
type MCQGenerateRequest struct {
	SessionID  int    `json:"session_id"`
	Skill      string `json:"skill"`
	Topic      string `json:"topic"`
	Difficulty int    `json:"difficulty"`
	N          int    `json:"n"`
}

// MCQ is one generated multiple-choice question. Options are raw server
// strings; see the mcq package for the structured-option shim.
type MCQ struct {
	QAItemID int      `json:"qa_item_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// MCQGenerateResponse is the /mcq/generate response.
type MCQGenerateResponse struct {
	MCQs []MCQ `json:"mcqs"`
}

// MCQSubmitRequest submits a selected letter (A-D).
type MCQSubmitRequest struct {
	QAItemID int    `json:"qa_item_id"`
	Selected string `json:"selected"`
}

// MCQSubmitResponse grades one MCQ answer.
type MCQSubmitResponse struct {
	Correct       bool   `json:"correct"`
	Selected      string `json:"selected"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	Overall       int    `json:"overall"`
}

// MCQSkillReportRow aggregates MCQ accuracy per skill.
type MCQSkillReportRow struct {
	Skill    string  `json:"skill"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// MCQReport is the per-session MCQ report.
type MCQReport struct {
	SessionID int                 `json:"session_id"`
	BySkill   []MCQSkillReportRow `json:"by_skill"`
}

// Profile holds the user's practice profile.
type Profile struct {
	ID     int     `json:"id"`
	Email  string  `json:"email"`
	Domain *string `json:"domain"`
	Role   *string `json:"role"`
	Track  *string `json:"track"`
	Level  *string `json:"level"`
}

// ProfileSetupRequest updates profile fields; nil fields are left untouched.
type ProfileSetupRequest struct {
	Domain *string `json:"domain,omitempty"`
	Role   *string `json:"role,omitempty"`
	Track  *string `json:"track,omitempty"`
	Level  *string `json:"level,omitempty"`
}

// SkillRequirement is one JD-extracted skill demand.
type SkillRequirement struct {
	Name         string  `json:"name"`
	Importance   string  `json:"importance"`
	EvidenceInJD *string `json:"evidence_in_jd"`
}

// GapReport summarizes the JD-vs-resume skill gap.
type GapReport struct {
	MissingSkills []string `json:"missing_skills"`
	WeakSkills    []string `json:"weak_skills"`
	FocusAreas    []string `json:"focus_areas"`
	ATSKeywords   []string `json:"ats_keywords"`
}

// StarRewrite is a suggested STAR-format rewrite of a resume bullet.
type StarRewrite struct {
	Original  string `json:"original"`
	Rewritten string `json:"rewritten"`
	Reasoning string `json:"reasoning"`
}

// AnalyzeInput is the multipart /profile/analyze request. Exactly one of
// ResumeText or ResumePDF may be set; JDText is required.
type AnalyzeInput struct {
	JDText     string
	ResumeText string
	ResumePDF  []byte
	PDFName    string
}

// AnalysisReport is the structured gap/plan/ATS report.
type AnalysisReport struct {
	Summary                string             `json:"summary"`
	RoleFitScore           int                `json:"role_fit_score"`
	ATSScore               int                `json:"ats_score"`
	ATSWarnings            []string           `json:"ats_warnings"`
	StarRewrites           []StarRewrite      `json:"star_rewrites"`
	RequiredSkills         []SkillRequirement `json:"required_skills"`
	ExperienceExpectations []string           `json:"experience_expectations"`
	GapReport              GapReport          `json:"gap_report"`
	MatchedSkills          []string           `json:"matched_skills"`
	MissingSkills          []string           `json:"missing_skills"`
	ATSKeywordsToAdd       []string           `json:"ats_keywords_to_add"`
}

// DashboardTotals aggregates a session's answered work.
type DashboardTotals struct {
	QuestionsTotal int      `json:"questions_total"`
	Answered       int      `json:"answered"`
	AvgOverall     *float64 `json:"avg_overall"`
}

// DashboardItem is one recent QA item (question text truncated server-side).
type DashboardItem struct {
	ID           int      `json:"id"`
	Skill        string   `json:"skill"`
	Topic        string   `json:"topic"`
	QuestionType string   `json:"question_type"`
	Difficulty   int      `json:"difficulty"`
	Overall      *float64 `json:"overall"`
	Question     string   `json:"question"`
}

// SkillBreakdownRow aggregates answered items per skill.
type SkillBreakdownRow struct {
	Skill      string  `json:"skill"`
	AvgOverall float64 `json:"avg_overall"`
	Attempts   int     `json:"attempts"`
}

// Dashboard is the aggregate payload for the latest session.
type Dashboard struct {
	SessionID  int                 `json:"session_id"`
	Mode       string              `json:"mode"`
	Track      string              `json:"track"`
	Level      string              `json:"level"`
	Totals     DashboardTotals     `json:"totals"`
	Recent     []DashboardItem     `json:"recent"`
	WeakTopics []WeakTopic         `json:"weak_topics"`
	BySkill    []SkillBreakdownRow `json:"by_skill"`
}

// RoadmapMicroTask is one drill in the generated plan.
type RoadmapMicroTask struct {
	Topic          string   `json:"topic"`
	DrillPrompt    string   `json:"drill_prompt"`
	Resources      []string `json:"resources"`
	ExpectedOutput string   `json:"expected_output"`
}

// RoadmapPlan is the plan body of a roadmap.
type RoadmapPlan struct {
	TwoWeekPlan string             `json:"two_week_plan"`
	MicroTasks  []RoadmapMicroTask `json:"micro_tasks"`
}

// Roadmap is a generated learning roadmap.
type Roadmap struct {
	ID           int         `json:"id"`
	UserID       int         `json:"user_id"`
	SessionID    *int        `json:"session_id"`
	Title        string      `json:"title"`
	DurationDays int         `json:"duration_days"`
	Plan         RoadmapPlan `json:"plan"`
}

// RoadmapGenerateRequest asks for a roadmap, optionally scoped to a session.
type RoadmapGenerateRequest struct {
	SessionID    *int `json:"session_id,omitempty"`
	DurationDays int  `json:"duration_days"`
}

// RoadmapGenerateResponse wraps the generated roadmap.
type RoadmapGenerateResponse struct {
	Roadmap Roadmap `json:"roadmap"`
}
