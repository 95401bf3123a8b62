package domain

// TerminalNext is the successor value of the last screen; following it leads
// to the final summary rather than another screen.
const TerminalNext = "final_score"

// Question models an MCQ question with exactly one correct answer and an
// educational fact revealed after answering.
type Question struct {
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []string `json:"options" yaml:"options"`
	Answer  string   `json:"answer" yaml:"answer"`
	Fact    string   `json:"fact" yaml:"fact"`
}

// Screen is one themed block of questions with its own badge and a pointer to
// the next screen in the flow.
type Screen struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
	Next      string     `json:"next" yaml:"next"`
	Badge     string     `json:"badge" yaml:"badge"`
}

// Session is one participant's evolving progress. It is a plain value:
// operations return an updated copy instead of mutating in place.
type Session struct {
	DisplayName string   `json:"displayName"`
	Score       int      `json:"score"`
	Completed   []string `json:"completed"`
	Badges      []string `json:"badges"`
}

// HasCompleted reports whether the screen has already contributed to the
// session's score and completion count.
func (s Session) HasCompleted(screenID string) bool {
	for _, id := range s.Completed {
		if id == screenID {
			return true
		}
	}
	return false
}

// HasBadge reports whether the badge has already been earned.
func (s Session) HasBadge(badge string) bool {
	for _, b := range s.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// Submission maps a question index to the participant's chosen option text.
// Missing indexes are scored as incorrect answers.
type Submission map[int]string

// AnswerReview pairs a submitted answer with the correct one for feedback.
type AnswerReview struct {
	Submitted string `json:"submitted"`
	Answer    string `json:"answer"`
	Fact      string `json:"fact"`
}

// ScoringOutcome is the per-submission result payload.
type ScoringOutcome struct {
	ScreenID        string         `json:"screenId"`
	CorrectCount    int            `json:"correct"`
	IncorrectCount  int            `json:"incorrect"`
	Percentage      int            `json:"percentage"`
	Passed          bool           `json:"passed"`
	Badge           string         `json:"badge,omitempty"` // set only when newly earned
	FirstCompletion bool           `json:"firstCompletion"`
	Reviews         []AnswerReview `json:"reviews"`
}

// Summary is the final-score payload, reachable only once every screen is
// completed.
type Summary struct {
	DisplayName   string   `json:"displayName"`
	Score         int      `json:"score"`
	TotalPossible int      `json:"totalPossible"`
	Percentage    int      `json:"percentage"`
	Badges        []string `json:"badges"`
}

// QuestionView is the unanswered presentation of a question.
type QuestionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// ScreenView is the unanswered presentation of a screen: answers and facts
// are withheld until a submission is scored.
type ScreenView struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

// View strips answers and facts from a screen.
func (s Screen) View() ScreenView {
	questions := make([]QuestionView, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, QuestionView{Prompt: q.Prompt, Options: q.Options})
	}
	return ScreenView{ID: s.ID, Title: s.Title, Questions: questions}
}
