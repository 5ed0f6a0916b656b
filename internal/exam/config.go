package exam

import "time"

// Config carries the scoring table and pass rule for one session. It is
// passed into construction rather than read from ambient state, so
// concurrent sessions can run under different rules.
type Config struct {
	CorrectPoints   float64       `json:"correct_points"`
	IncorrectPoints float64       `json:"incorrect_points"`
	SkippedPoints   float64       `json:"skipped_points"`
	PassThreshold   float64       `json:"pass_threshold"` // fraction of max score
	TimeBudget      time.Duration `json:"time_budget"`
}

// DefaultConfig is the documented exam ruleset: +1 correct, -0.25 wrong,
// 0 skipped, pass at half the maximum score, 120 minutes.
func DefaultConfig() Config {
	return Config{
		CorrectPoints:   1.0,
		IncorrectPoints: -0.25,
		SkippedPoints:   0.0,
		PassThreshold:   0.5,
		TimeBudget:      120 * time.Minute,
	}
}

// MaxScore is the best possible score for an exam of n questions.
func (c Config) MaxScore(n int) float64 {
	return float64(n) * c.CorrectPoints
}

// PassingScore is the minimum final score that counts as a pass.
func (c Config) PassingScore(n int) float64 {
	return c.PassThreshold * c.MaxScore(n)
}
