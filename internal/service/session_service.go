package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"exam-service/internal/exam"
	"exam-service/internal/models"
	"exam-service/internal/repository"
	"exam-service/internal/selection"

	"github.com/google/uuid"
)

// ErrSessionNotFound covers both unknown ids and sessions that are no longer
// live in this process.
var ErrSessionNotFound = errors.New("session not found")

type liveSession struct {
	sess *exam.Session
	comp models.Composition
}

// SessionService drives the exam engine: it materializes the question pool,
// samples the exam, owns the live session registry and persists snapshots,
// answers and stat updates at the points the engine defines.
//
// Engine sessions are single-owner objects; the registry mutex serializes
// operations per process while different sessions stay independent.
type SessionService struct {
	Sessions *repository.SessionRepository
	Answers  *repository.AnswerRepository
	Stats    *repository.StatsRepository
	Pool     *repository.PoolFetcher

	sampler     *selection.Sampler
	updater     *exam.Updater
	defaults    exam.Config
	defaultComp models.Composition

	mu   sync.Mutex
	live map[string]*liveSession
}

func NewSessionService(
	sessions *repository.SessionRepository,
	answers *repository.AnswerRepository,
	stats *repository.StatsRepository,
	pool *repository.PoolFetcher,
	sampler *selection.Sampler,
	defaults exam.Config,
	defaultComp models.Composition,
) *SessionService {
	return &SessionService{
		Sessions:    sessions,
		Answers:     answers,
		Stats:       stats,
		Pool:        pool,
		sampler:     sampler,
		updater:     exam.NewUpdater(),
		defaults:    defaults,
		defaultComp: defaultComp,
		live:        make(map[string]*liveSession),
	}
}

// CreateSession samples a composition-constrained exam biased toward the
// user's weak areas and registers the new in-progress session. Pool
// insufficiency aborts with the deficient category named; nothing partial is
// created.
func (s *SessionService) CreateSession(ctx context.Context, userID string, comp models.Composition, timeBudget time.Duration) (*models.ExamSession, error) {
	if comp.Total() == 0 {
		comp = s.defaultComp
	}

	pool, err := s.Pool.FetchPool(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	selectedIDs, err := s.sampler.Select(pool, comp, now)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Question, len(pool))
	for _, pq := range pool {
		byID[pq.Question.ID] = pq.Question
	}
	questions := make([]models.Question, len(selectedIDs))
	for i, id := range selectedIDs {
		questions[i] = byID[id]
	}

	cfg := s.defaults
	if timeBudget > 0 {
		cfg.TimeBudget = timeBudget
	}

	sess := exam.NewSession(uuid.NewString(), userID, questions, cfg, now)
	snapshot := sess.Snapshot(comp)
	if err := s.Sessions.Create(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.live[sess.ID()] = &liveSession{sess: sess, comp: comp}
	s.mu.Unlock()

	return snapshot, nil
}

// CurrentQuestion returns the question at the session's current position
// together with that position.
func (s *SessionService) CurrentQuestion(sessionID string) (*models.Question, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.live[sessionID]
	if !ok {
		return nil, 0, ErrSessionNotFound
	}
	q, err := ls.sess.CurrentQuestion()
	if err != nil {
		return nil, ls.sess.CurrentIndex(), err
	}
	return q, ls.sess.CurrentIndex(), nil
}

// SubmitAnswer records one answer (choice nil = skip), persists the answer
// record and refreshes the session snapshot.
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, questionID string, choice *int, timeSpentSec int) (*exam.SubmitResult, error) {
	s.mu.Lock()
	ls, ok := s.live[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	result, err := ls.sess.SubmitAnswer(questionID, choice, timeSpentSec, time.Now().UTC())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	record, _ := ls.sess.AnswerFor(questionID)
	snapshot := ls.sess.Snapshot(ls.comp)
	s.mu.Unlock()

	if err := s.Answers.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("persist answer: %w", err)
	}
	if err := s.Sessions.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return result, nil
}

// Navigate moves the current position forward or backward for review.
func (s *SessionService) Navigate(sessionID string, dir exam.Direction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.live[sessionID]
	if !ok {
		return 0, ErrSessionNotFound
	}
	return ls.sess.Advance(dir)
}

// RecordedAnswer exposes a previously submitted answer for review after
// backward navigation.
func (s *SessionService) RecordedAnswer(sessionID, questionID string) (*models.AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.live[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	a, ok := ls.sess.AnswerFor(questionID)
	if !ok {
		return nil, fmt.Errorf("question %s: %w", questionID, exam.ErrNotInSession)
	}
	return a, nil
}

// Finalize completes the session, persists the summary and folds the
// session's answers into the user's performance records.
func (s *SessionService) Finalize(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	return s.finish(ctx, sessionID, func(sess *exam.Session, now time.Time) (*models.SessionSummary, error) {
		return sess.Finalize(now)
	})
}

// Abandon terminates the session without a verdict; attempted questions
// still update the performance records.
func (s *SessionService) Abandon(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	return s.finish(ctx, sessionID, func(sess *exam.Session, now time.Time) (*models.SessionSummary, error) {
		return sess.Abandon(now)
	})
}

func (s *SessionService) finish(ctx context.Context, sessionID string, terminate func(*exam.Session, time.Time) (*models.SessionSummary, error)) (*models.SessionSummary, error) {
	now := time.Now().UTC()

	s.mu.Lock()
	ls, ok := s.live[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	summary, err := terminate(ls.sess, now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	records := ls.sess.AnswerRecords()
	userID := ls.sess.UserID()
	snapshot := ls.sess.Snapshot(ls.comp)
	snapshot.CategoryBreakdown = summary.CategoryBreakdown
	delete(s.live, sessionID)
	s.mu.Unlock()

	if err := s.Sessions.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("persist session summary: %w", err)
	}

	existing, err := s.Stats.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user stats: %w", err)
	}
	updated, err := s.updater.Apply(userID, sessionID, records, existing, now)
	if err != nil && !errors.Is(err, exam.ErrAlreadyApplied) {
		return nil, err
	}
	for i := range updated {
		if err := s.Stats.Upsert(ctx, &updated[i]); err != nil {
			return nil, fmt.Errorf("persist performance record: %w", err)
		}
	}
	return summary, nil
}

// Summary reports the running (or final) standing. Live sessions answer from
// the engine; finished ones fall back to the persisted record.
func (s *SessionService) Summary(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	s.mu.Lock()
	if ls, ok := s.live[sessionID]; ok {
		summary := ls.sess.Summary()
		s.mu.Unlock()
		return summary, nil
	}
	s.mu.Unlock()

	stored, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return summaryFromSnapshot(stored), nil
}

// RemainingTime is the advisory budget left; the caller auto-finalizes at
// zero.
func (s *SessionService) RemainingTime(sessionID string, now time.Time) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.live[sessionID]
	if !ok {
		return 0, ErrSessionNotFound
	}
	return ls.sess.RemainingTime(now), nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*models.ExamSession, error) {
	return s.Sessions.FindByID(ctx, id)
}

// summaryFromSnapshot rebuilds a summary from the persisted session record,
// with the same two-decimal precision the live engine reports.
func summaryFromSnapshot(sess *models.ExamSession) *models.SessionSummary {
	percentage := 0.0
	if sess.ScoreTotal > 0 {
		percentage = math.Round(sess.ScoreEarned/sess.ScoreTotal*100*100) / 100
	}
	correct := 0
	for _, stat := range sess.CategoryBreakdown {
		correct += stat.Correct
	}
	accuracy := 0.0
	if sess.QuestionsAnswered > 0 {
		accuracy = math.Round(float64(correct)/float64(sess.QuestionsAnswered)*100*100) / 100
	}
	return &models.SessionSummary{
		SessionID:         sess.ID,
		UserID:            sess.UserID,
		Status:            sess.Status,
		ScoreEarned:       sess.ScoreEarned,
		ScoreTotal:        sess.ScoreTotal,
		Percentage:        percentage,
		PassStatus:        sess.PassStatus,
		QuestionsAnswered: sess.QuestionsAnswered,
		QuestionsSkipped:  len(sess.QuestionIDs) - sess.QuestionsAnswered,
		CorrectCount:      correct,
		AccuracyPercent:   accuracy,
		CategoryBreakdown: sess.CategoryBreakdown,
		StartedAt:         sess.StartedAt,
		EndedAt:           sess.EndedAt,
	}
}
