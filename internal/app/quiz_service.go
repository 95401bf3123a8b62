package app

import (
	"context"
	"errors"
	"strings"

	"waterwise-quiz-service/internal/domain"
	"waterwise-quiz-service/internal/quiz"
)

// SessionStore abstracts how participant sessions are stored (in-memory, Redis, etc).
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (domain.Session, error)
	Save(ctx context.Context, sessionID string, session domain.Session) error
	Delete(ctx context.Context, sessionID string) error
}

// CatalogRepository loads the screen catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (*domain.Catalog, error)
}

// QuizService contains the quiz flow use cases: starting a run, viewing and
// submitting screens, and unlocking the final summary.
type QuizService struct {
	store    SessionStore
	catalogs CatalogRepository
	machine  *quiz.Machine
	hub      *progressHub
}

func NewQuizService(store SessionStore, catalogs CatalogRepository) *QuizService {
	return &QuizService{
		store:    store,
		catalogs: catalogs,
		machine:  quiz.NewMachine(),
		hub:      newProgressHub(),
	}
}

// Catalog exposes the current catalog for overview rendering.
func (s *QuizService) Catalog(ctx context.Context) (*domain.Catalog, error) {
	return s.catalogs.GetCatalog(ctx)
}

// Session returns the stored session, or ErrSessionNotFound.
func (s *QuizService) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.store.Load(ctx, sessionID)
}

// Start resets the participant's progress and stores a fresh session. When no
// display name is given, the previously stored one survives the reset: the
// start route wipes score, completion, and badges, never the name.
func (s *QuizService) Start(ctx context.Context, sessionID, displayName string) (domain.Session, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		if prev, err := s.store.Load(ctx, sessionID); err == nil {
			name = prev.DisplayName
		}
	}
	session := s.machine.Start(name)
	if err := s.store.Save(ctx, sessionID, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// ViewScreen returns the unanswered presentation of a screen, with answers
// and facts withheld.
func (s *QuizService) ViewScreen(ctx context.Context, screenID string) (domain.ScreenView, error) {
	catalog, err := s.catalogs.GetCatalog(ctx)
	if err != nil {
		return domain.ScreenView{}, err
	}
	screen, err := catalog.Screen(screenID)
	if err != nil {
		return domain.ScreenView{}, err
	}
	return screen.View(), nil
}

// SubmitScreen scores a submission, persists the updated session, and
// publishes a progress event. A missing stored session is treated as a fresh
// one, not an error: submitting is a valid first engagement with the flow.
func (s *QuizService) SubmitScreen(ctx context.Context, sessionID, screenID string, submission domain.Submission) (domain.Session, domain.ScoringOutcome, error) {
	catalog, err := s.catalogs.GetCatalog(ctx)
	if err != nil {
		return domain.Session{}, domain.ScoringOutcome{}, err
	}

	session, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Session{}, domain.ScoringOutcome{}, err
		}
		session = s.machine.Start("")
	}

	updated, outcome, err := s.machine.Submit(session, screenID, submission, catalog)
	if err != nil {
		return domain.Session{}, domain.ScoringOutcome{}, err
	}
	if err := s.store.Save(ctx, sessionID, updated); err != nil {
		return domain.Session{}, domain.ScoringOutcome{}, err
	}

	s.hub.publish(sessionID, ProgressEvent{
		ScreenID:         outcome.ScreenID,
		CorrectCount:     outcome.CorrectCount,
		Percentage:       outcome.Percentage,
		Badge:            outcome.Badge,
		Score:            updated.Score,
		CompletedScreens: len(updated.Completed),
		TotalScreens:     catalog.Len(),
		Complete:         s.machine.IsComplete(updated, catalog),
	})
	return updated, outcome, nil
}

// FinalSummary returns the summary once every screen is completed. An absent
// session is as blocked as an incomplete one.
func (s *QuizService) FinalSummary(ctx context.Context, sessionID string) (domain.Summary, error) {
	catalog, err := s.catalogs.GetCatalog(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	session, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Summary{}, domain.ErrSummaryBlocked
		}
		return domain.Summary{}, err
	}
	return s.machine.Summary(session, catalog)
}

// Reset is the logout path: it destroys the stored session entirely,
// display name included.
func (s *QuizService) Reset(ctx context.Context, sessionID string) error {
	err := s.store.Delete(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	return err
}

// Subscribe returns a channel of progress events for one session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(sessionID string) (<-chan ProgressEvent, func()) {
	return s.hub.subscribe(sessionID)
}
