package exam

import (
	"fmt"
	"math"
	"time"

	"exam-service/internal/models"
)

type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// SubmitResult is the per-item outcome returned to the caller after an
// answer is recorded.
type SubmitResult struct {
	QuestionID       string  `json:"question_id"`
	IsCorrect        bool    `json:"is_correct"`
	PointsEarned     float64 `json:"points_earned"`
	CorrectAnswerIdx int     `json:"correct_answer_idx"`
	Explanation      string  `json:"explanation,omitempty"`
	TotalScore       float64 `json:"total_score"`
}

// Session is the state machine for one exam attempt. The question list is
// fixed at construction; status moves one way, in_progress to completed or
// abandoned. A Session is owned by a single user interaction at a time and
// must not be shared across goroutines; the calling layer serializes access.
type Session struct {
	id        string
	userID    string
	questions []models.Question
	byID      map[string]int // question id -> position in questions

	answers map[string]*models.AnswerRecord
	current int
	score   float64

	status     models.SessionStatus
	passStatus *bool
	startedAt  time.Time
	endedAt    *time.Time

	cfg Config
}

// NewSession builds an in-progress session over a fixed, already-sampled
// question list. startedAt is injected so timing stays deterministic in
// tests.
func NewSession(id, userID string, questions []models.Question, cfg Config, startedAt time.Time) *Session {
	byID := make(map[string]int, len(questions))
	for i, q := range questions {
		byID[q.ID] = i
	}
	return &Session{
		id:        id,
		userID:    userID,
		questions: questions,
		byID:      byID,
		answers:   make(map[string]*models.AnswerRecord),
		status:    models.StatusInProgress,
		startedAt: startedAt,
		cfg:       cfg,
	}
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) UserID() string               { return s.userID }
func (s *Session) Status() models.SessionStatus { return s.status }
func (s *Session) Score() float64               { return s.score }
func (s *Session) CurrentIndex() int            { return s.current }
func (s *Session) StartedAt() time.Time         { return s.startedAt }
func (s *Session) Config() Config               { return s.cfg }

// Questions returns the session's fixed question list.
func (s *Session) Questions() []models.Question { return s.questions }

// CurrentQuestion returns the question at the current position.
func (s *Session) CurrentQuestion() (*models.Question, error) {
	if s.current >= len(s.questions) {
		return nil, fmt.Errorf("current index %d: %w", s.current, ErrOutOfRange)
	}
	return &s.questions[s.current], nil
}

// SubmitAnswer records the user's choice for a question in this session.
// choice is nil for an explicit skip. Resubmission is rejected rather than
// overwritten so the running score cannot be corrupted. On success the
// current position advances past the answered question.
func (s *Session) SubmitAnswer(questionID string, choice *int, timeSpentSec int, now time.Time) (*SubmitResult, error) {
	if s.status != models.StatusInProgress {
		return nil, ErrAlreadyFinalized
	}
	pos, ok := s.byID[questionID]
	if !ok {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrNotInSession)
	}
	if _, answered := s.answers[questionID]; answered {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrAlreadyAnswered)
	}

	question := s.questions[pos]
	points := s.cfg.SkippedPoints
	var isCorrect *bool
	if choice != nil {
		correct := *choice == question.CorrectAnswerIdx
		isCorrect = &correct
		if correct {
			points = s.cfg.CorrectPoints
		} else {
			points = s.cfg.IncorrectPoints
		}
	}

	s.answers[questionID] = &models.AnswerRecord{
		SessionID:        s.id,
		QuestionID:       questionID,
		ChosenOptionIdx:  choice,
		IsCorrect:        isCorrect,
		PointsEarned:     points,
		TimeSpentSeconds: timeSpentSec,
		AnsweredAt:       now,
	}
	s.score += points
	if s.current < len(s.questions) {
		s.current++
	}

	return &SubmitResult{
		QuestionID:       questionID,
		IsCorrect:        isCorrect != nil && *isCorrect,
		PointsEarned:     points,
		CorrectAnswerIdx: question.CorrectAnswerIdx,
		Explanation:      question.Explanation,
		TotalScore:       s.score,
	}, nil
}

// Advance moves the current position one step. Backward navigation permits
// review of a recorded answer but not re-answering (SubmitAnswer rejects).
func (s *Session) Advance(dir Direction) (int, error) {
	if s.status != models.StatusInProgress {
		return s.current, ErrAlreadyFinalized
	}
	next := s.current
	switch dir {
	case Forward:
		next++
	case Backward:
		next--
	default:
		return s.current, fmt.Errorf("unknown direction %q", dir)
	}
	if next < 0 || next >= len(s.questions) {
		return s.current, fmt.Errorf("index %d: %w", next, ErrOutOfRange)
	}
	s.current = next
	return s.current, nil
}

// AnswerFor returns the recorded answer for a question, for review after
// backward navigation. Second return is false when the question has not been
// answered yet.
func (s *Session) AnswerFor(questionID string) (*models.AnswerRecord, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

// AnswerRecords returns the recorded answers in question-list order.
func (s *Session) AnswerRecords() []models.AnswerRecord {
	records := make([]models.AnswerRecord, 0, len(s.answers))
	for _, q := range s.questions {
		if a, ok := s.answers[q.ID]; ok {
			records = append(records, *a)
		}
	}
	return records
}

// RemainingTime is the advisory time budget left at the given instant,
// clamped at zero. The engine runs no clock of its own; the caller invokes
// Finalize when this reaches zero.
func (s *Session) RemainingTime(now time.Time) time.Duration {
	remaining := s.startedAt.Add(s.cfg.TimeBudget).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Finalize completes the session: unanswered questions count as implicit
// skips, pass/fail is decided against the configured threshold, and the end
// timestamp is set. A second call is rejected and changes nothing.
func (s *Session) Finalize(now time.Time) (*models.SessionSummary, error) {
	if s.status != models.StatusInProgress {
		return nil, ErrAlreadyFinalized
	}
	s.status = models.StatusCompleted
	s.endedAt = &now

	pass := s.score >= s.cfg.PassingScore(len(s.questions))
	s.passStatus = &pass

	return s.Summary(), nil
}

// Abandon terminates the session without a pass/fail verdict. Recorded
// answers keep their points and still feed the stats update.
func (s *Session) Abandon(now time.Time) (*models.SessionSummary, error) {
	if s.status != models.StatusInProgress {
		return nil, ErrAlreadyFinalized
	}
	s.status = models.StatusAbandoned
	s.endedAt = &now
	return s.Summary(), nil
}

// Summary reports the session's current standing; usable mid-exam for
// progress display and after a terminal transition as the final result.
func (s *Session) Summary() *models.SessionSummary {
	answered := 0
	correct := 0
	breakdown := make(map[string]models.CategoryStat)
	for _, q := range s.questions {
		sub := q.SubCategory
		if sub == "" {
			sub = "unknown"
		}
		stat := breakdown[sub]
		stat.Total++
		if a, ok := s.answers[q.ID]; ok {
			if a.Attempted() {
				answered++
			}
			if a.IsCorrect != nil && *a.IsCorrect {
				correct++
				stat.Correct++
			}
		}
		breakdown[sub] = stat
	}

	total := s.cfg.MaxScore(len(s.questions))
	accuracy := 0.0
	if answered > 0 {
		accuracy = float64(correct) / float64(answered) * 100
	}
	percentage := 0.0
	if total > 0 {
		percentage = s.score / total * 100
	}

	return &models.SessionSummary{
		SessionID:         s.id,
		UserID:            s.userID,
		Status:            s.status,
		ScoreEarned:       round2(s.score),
		ScoreTotal:        total,
		Percentage:        round2(percentage),
		PassStatus:        s.passStatus,
		PassThreshold:     s.cfg.PassingScore(len(s.questions)),
		QuestionsAnswered: answered,
		QuestionsSkipped:  len(s.questions) - answered,
		CorrectCount:      correct,
		AccuracyPercent:   round2(accuracy),
		CategoryBreakdown: breakdown,
		StartedAt:         s.startedAt,
		EndedAt:           s.endedAt,
	}
}

// Snapshot renders the persisted shape of the session for the storage layer.
func (s *Session) Snapshot(composition models.Composition) *models.ExamSession {
	ids := make([]string, len(s.questions))
	for i, q := range s.questions {
		ids[i] = q.ID
	}
	answered := 0
	for _, a := range s.answers {
		if a.Attempted() {
			answered++
		}
	}
	return &models.ExamSession{
		ID:                s.id,
		UserID:            s.userID,
		Status:            s.status,
		QuestionIDs:       ids,
		Composition:       composition,
		TimeBudgetSec:     int(s.cfg.TimeBudget.Seconds()),
		ScoreEarned:       round2(s.score),
		ScoreTotal:        s.cfg.MaxScore(len(s.questions)),
		PassStatus:        s.passStatus,
		QuestionsAnswered: answered,
		StartedAt:         s.startedAt,
		EndedAt:           s.endedAt,
	}
}

// Score precision is two decimals in the stored record shapes.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
