package exam

import (
	"fmt"
	"sync"
	"time"

	"exam-service/internal/models"
)

// Updater folds a finished (or abandoned) session's answers back into the
// per-user, per-question performance records. Application is idempotent per
// (session, question): replaying the same session never double-counts, which
// also makes concurrent finalization of unrelated sessions safe without a
// global lock.
type Updater struct {
	mu      sync.Mutex
	applied map[string]struct{}
}

func NewUpdater() *Updater {
	return &Updater{applied: make(map[string]struct{})}
}

// Apply produces one updated PerformanceRecord per distinct attempted
// question. Correct answers bump success_count and last_correct_at; wrong
// answers bump fail_count; every attempt stamps last_attempted_at. Skipped
// records (nil choice) are ignored entirely, since a skip is not evidence of
// mastery or weakness.
//
// existing maps question id to the record on file; questions attempted for
// the first time get a record created lazily. Records whose (session,
// question) key was already applied are skipped and reported via a non-fatal
// ErrAlreadyApplied; the fresh subset is still returned.
func (u *Updater) Apply(userID, sessionID string, records []models.AnswerRecord, existing map[string]models.PerformanceRecord, now time.Time) ([]models.PerformanceRecord, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	var updated []models.PerformanceRecord
	duplicates := 0

	for _, rec := range records {
		if !rec.Attempted() {
			continue
		}
		key := sessionID + "/" + rec.QuestionID
		if _, done := u.applied[key]; done {
			duplicates++
			continue
		}
		u.applied[key] = struct{}{}

		perf, ok := existing[rec.QuestionID]
		if !ok {
			perf = models.PerformanceRecord{
				UserID:     userID,
				QuestionID: rec.QuestionID,
			}
		}

		attemptedAt := now
		perf.LastAttemptedAt = &attemptedAt
		if rec.IsCorrect != nil && *rec.IsCorrect {
			perf.SuccessCount++
			correctAt := now
			perf.LastCorrectAt = &correctAt
		} else {
			perf.FailCount++
		}
		updated = append(updated, perf)
	}

	if duplicates > 0 {
		return updated, fmt.Errorf("%d of %d records for session %s: %w",
			duplicates, len(records), sessionID, ErrAlreadyApplied)
	}
	return updated, nil
}
