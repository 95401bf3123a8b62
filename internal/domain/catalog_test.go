package domain

import (
	"errors"
	"testing"
)

func validScreens() []Screen {
	return []Screen{
		{
			ID:    "s1",
			Title: "Screen 1",
			Questions: []Question{
				{Prompt: "p1", Options: []string{"a", "b"}, Answer: "a", Fact: "f1"},
				{Prompt: "p2", Options: []string{"a", "b", "c"}, Answer: "c", Fact: "f2"},
			},
			Next:  "s2",
			Badge: "badge-1",
		},
		{
			ID:    "s2",
			Title: "Screen 2",
			Questions: []Question{
				{Prompt: "p3", Options: []string{"x", "y"}, Answer: "y", Fact: "f3"},
			},
			Next:  TerminalNext,
			Badge: "badge-2",
		},
	}
}

func TestNewCatalogAccessors(t *testing.T) {
	catalog, err := NewCatalog(validScreens())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	if catalog.Len() != 2 {
		t.Fatalf("expected 2 screens, got %d", catalog.Len())
	}
	ids := catalog.ScreenIDs()
	if len(ids) != 2 || ids[0] != "s1" || ids[1] != "s2" {
		t.Fatalf("expected ordered ids [s1 s2], got %v", ids)
	}
	if n, err := catalog.TotalQuestions("s1"); err != nil || n != 2 {
		t.Fatalf("expected 2 questions for s1, got %d (%v)", n, err)
	}
	if catalog.TotalQuestionCount() != 3 {
		t.Fatalf("expected 3 total questions, got %d", catalog.TotalQuestionCount())
	}

	screen, err := catalog.Screen("s2")
	if err != nil || screen.Badge != "badge-2" {
		t.Fatalf("expected s2, got %+v (%v)", screen, err)
	}
	if _, err := catalog.Screen("nope"); !errors.Is(err, ErrScreenNotFound) {
		t.Fatalf("expected ErrScreenNotFound, got %v", err)
	}
	if _, err := catalog.TotalQuestions("nope"); !errors.Is(err, ErrScreenNotFound) {
		t.Fatalf("expected ErrScreenNotFound, got %v", err)
	}
}

func TestNewCatalogRejectsBadData(t *testing.T) {
	cases := []struct {
		name   string
		mutate func([]Screen) []Screen
	}{
		{"empty", func(s []Screen) []Screen { return nil }},
		{"duplicate id", func(s []Screen) []Screen {
			s[1].ID = "s1"
			s[0].Next = "s1"
			return s
		}},
		{"no questions", func(s []Screen) []Screen {
			s[1].Questions = nil
			return s
		}},
		{"answer not an option", func(s []Screen) []Screen {
			s[0].Questions[0].Answer = "zzz"
			return s
		}},
		{"too few options", func(s []Screen) []Screen {
			s[0].Questions[0].Options = []string{"only"}
			s[0].Questions[0].Answer = "only"
			return s
		}},
		{"too many options", func(s []Screen) []Screen {
			s[0].Questions[0].Options = []string{"a", "b", "c", "d"}
			return s
		}},
		{"broken next chain", func(s []Screen) []Screen {
			s[0].Next = "elsewhere"
			return s
		}},
		{"missing terminal sentinel", func(s []Screen) []Screen {
			s[1].Next = "s1"
			return s
		}},
		{"no badge", func(s []Screen) []Screen {
			s[0].Badge = ""
			return s
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog(tc.mutate(validScreens()))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestScreenViewStripsAnswers(t *testing.T) {
	screen := validScreens()[0]
	view := screen.View()
	if view.ID != "s1" || view.Title != "Screen 1" {
		t.Fatalf("unexpected view header: %+v", view)
	}
	if len(view.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(view.Questions))
	}
	if view.Questions[0].Prompt != "p1" || len(view.Questions[0].Options) != 2 {
		t.Fatalf("unexpected question view: %+v", view.Questions[0])
	}
}
