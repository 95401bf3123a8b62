package domain

import "fmt"

// Catalog is the fixed ordered collection of all screens. It is immutable
// after construction and safe to share across concurrent requests.
type Catalog struct {
	screens []Screen
	index   map[string]int
}

// NewCatalog validates the screens and builds the lookup index. Declaration
// order defines the canonical traversal sequence; the next-chain must agree
// with it and end at TerminalNext.
func NewCatalog(screens []Screen) (*Catalog, error) {
	if len(screens) == 0 {
		return nil, fmt.Errorf("%w: no screens", ErrInvalidCatalog)
	}
	index := make(map[string]int, len(screens))
	for i, screen := range screens {
		if screen.ID == "" {
			return nil, fmt.Errorf("%w: screen %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := index[screen.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate screen id %q", ErrInvalidCatalog, screen.ID)
		}
		index[screen.ID] = i
		if screen.Badge == "" {
			return nil, fmt.Errorf("%w: screen %q has no badge", ErrInvalidCatalog, screen.ID)
		}
		if len(screen.Questions) == 0 {
			return nil, fmt.Errorf("%w: screen %q has no questions", ErrInvalidCatalog, screen.ID)
		}
		for qi, q := range screen.Questions {
			if len(q.Options) < 2 || len(q.Options) > 3 {
				return nil, fmt.Errorf("%w: screen %q question %d has %d options, want 2-3", ErrInvalidCatalog, screen.ID, qi, len(q.Options))
			}
			if !contains(q.Options, q.Answer) {
				return nil, fmt.Errorf("%w: screen %q question %d: answer %q is not an option", ErrInvalidCatalog, screen.ID, qi, q.Answer)
			}
		}
		want := TerminalNext
		if i < len(screens)-1 {
			want = screens[i+1].ID
		}
		if screen.Next != want {
			return nil, fmt.Errorf("%w: screen %q next is %q, want %q", ErrInvalidCatalog, screen.ID, screen.Next, want)
		}
	}
	return &Catalog{screens: screens, index: index}, nil
}

// Screen returns the screen for id or ErrScreenNotFound.
func (c *Catalog) Screen(id string) (Screen, error) {
	i, ok := c.index[id]
	if !ok {
		return Screen{}, ErrScreenNotFound
	}
	return c.screens[i], nil
}

// ScreenIDs returns screen identifiers in traversal order.
func (c *Catalog) ScreenIDs() []string {
	ids := make([]string, 0, len(c.screens))
	for _, screen := range c.screens {
		ids = append(ids, screen.ID)
	}
	return ids
}

// Len returns the number of screens.
func (c *Catalog) Len() int {
	return len(c.screens)
}

// TotalQuestions returns the question count for one screen or ErrScreenNotFound.
func (c *Catalog) TotalQuestions(id string) (int, error) {
	screen, err := c.Screen(id)
	if err != nil {
		return 0, err
	}
	return len(screen.Questions), nil
}

// TotalQuestionCount sums question counts across all screens.
func (c *Catalog) TotalQuestionCount() int {
	total := 0
	for _, screen := range c.screens {
		total += len(screen.Questions)
	}
	return total
}

// Screens returns a copy of the ordered screen list for serialization.
func (c *Catalog) Screens() []Screen {
	out := make([]Screen, len(c.screens))
	copy(out, c.screens)
	return out
}

func contains(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
