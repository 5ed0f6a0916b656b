package exam

import "errors"

var (
	// ErrAlreadyAnswered rejects a resubmission for a question that already
	// has a recorded answer; the running score is left untouched.
	ErrAlreadyAnswered = errors.New("question already answered in this session")

	// ErrAlreadyFinalized rejects any mutating operation on a session that
	// has reached a terminal state.
	ErrAlreadyFinalized = errors.New("session already finalized")

	// ErrOutOfRange rejects navigation or reads past the question list.
	ErrOutOfRange = errors.New("question index out of range")

	// ErrNotInSession rejects answers for questions that are not part of the
	// session's fixed list.
	ErrNotInSession = errors.New("question is not part of this session")

	// ErrAlreadyApplied reports a duplicate stats application for a
	// (session, question) pair. Non-fatal: no double-counting happened.
	ErrAlreadyApplied = errors.New("stats already applied for this session")
)
