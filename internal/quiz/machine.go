// Package quiz holds the session state machine: scoring submitted screens,
// tracking completion and badges, and gating the final summary. It is pure
// computation over in-memory values; storage and transport live elsewhere.
package quiz

import "waterwise-quiz-service/internal/domain"

// DefaultPassPercent is the badge threshold: a screen is passed when the
// truncated percentage of correct answers reaches it.
const DefaultPassPercent = 66

// Machine evaluates submissions against a catalog. Sessions are passed and
// returned by value; callers own persistence.
type Machine struct {
	// PassPercent can be lowered or raised for synthetic catalogs in tests.
	PassPercent int
}

func NewMachine() *Machine {
	return &Machine{PassPercent: DefaultPassPercent}
}

func (m *Machine) passPercent() int {
	if m.PassPercent <= 0 {
		return DefaultPassPercent
	}
	return m.PassPercent
}

// Start produces a fresh session with zero score and empty completion and
// badge sets. It intentionally discards any prior in-progress state.
func (m *Machine) Start(displayName string) domain.Session {
	return domain.Session{
		DisplayName: displayName,
		Completed:   []string{},
		Badges:      []string{},
	}
}

// Submit scores one screen's answers and returns the updated session plus the
// scoring outcome. Missing answers count as incorrect. Score and the
// completed set change only on the first completion of a screen; later
// submissions are re-scored for feedback without double-counting. A passing
// submission earns the screen's badge at most once.
func (m *Machine) Submit(session domain.Session, screenID string, submission domain.Submission, catalog *domain.Catalog) (domain.Session, domain.ScoringOutcome, error) {
	screen, err := catalog.Screen(screenID)
	if err != nil {
		return session, domain.ScoringOutcome{}, err
	}

	outcome := domain.ScoringOutcome{
		ScreenID: screenID,
		Reviews:  make([]domain.AnswerReview, 0, len(screen.Questions)),
	}
	for i, question := range screen.Questions {
		answer := submission[i]
		if answer == question.Answer {
			outcome.CorrectCount++
		} else {
			outcome.IncorrectCount++
		}
		outcome.Reviews = append(outcome.Reviews, domain.AnswerReview{
			Submitted: answer,
			Answer:    question.Answer,
			Fact:      question.Fact,
		})
	}

	// Truncating division: 2/3 correct is 66, not 67.
	outcome.Percentage = 100 * outcome.CorrectCount / len(screen.Questions)
	outcome.Passed = outcome.Percentage >= m.passPercent()

	updated := session
	if outcome.Passed && !session.HasBadge(screen.Badge) {
		updated.Badges = append(cloneStrings(session.Badges), screen.Badge)
		outcome.Badge = screen.Badge
	}
	if !session.HasCompleted(screenID) {
		updated.Score += outcome.CorrectCount
		updated.Completed = append(cloneStrings(session.Completed), screenID)
		outcome.FirstCompletion = true
	}
	return updated, outcome, nil
}

// IsComplete reports whether every catalog screen has been completed.
func (m *Machine) IsComplete(session domain.Session, catalog *domain.Catalog) bool {
	return len(session.Completed) == catalog.Len()
}

// Summary returns the final score payload, or ErrSummaryBlocked while any
// screen remains incomplete.
func (m *Machine) Summary(session domain.Session, catalog *domain.Catalog) (domain.Summary, error) {
	if !m.IsComplete(session, catalog) {
		return domain.Summary{}, domain.ErrSummaryBlocked
	}
	total := catalog.TotalQuestionCount()
	percentage := 0
	if total > 0 {
		percentage = 100 * session.Score / total
	}
	return domain.Summary{
		DisplayName:   session.DisplayName,
		Score:         session.Score,
		TotalPossible: total,
		Percentage:    percentage,
		Badges:        cloneStrings(session.Badges),
	}, nil
}

// cloneStrings copies before append so updated sessions never share backing
// arrays with the input value.
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
