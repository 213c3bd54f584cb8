package scenario

import (
	"time"

	"github.com/feedvet/feedvet/pkg/config"
	"github.com/feedvet/feedvet/pkg/fixture"
	"github.com/feedvet/feedvet/pkg/mock"
	"github.com/feedvet/feedvet/pkg/session"
)

// stackedCardSelector matches the top card of a stack in the article list.
const stackedCardSelector = `div.relative:has(h2:text("Actualité: Apple announces the new M4 chip"))`

// StackedCards verifies the article-list card stacking. It bypasses login by
// seeding session storage and branches on whether a stacked card is present:
// expanding it when there is one, otherwise capturing the plain list. Both
// branches must produce a screenshot.
type StackedCards struct {
	fixtures   fixture.Set
	boot       *session.Bootstrapper
	cardExpand time.Duration
}

// NewStackedCards builds the scenario from config and fixtures.
func NewStackedCards(cfg *config.Config, fixtures fixture.Set) *StackedCards {
	return &StackedCards{
		fixtures:   fixtures,
		boot:       session.New(cfg.Target.URL, cfg.Login.User, cfg.Login.Password),
		cardExpand: cfg.CardExpandDelay(),
	}
}

// Name implements Scenario.
func (s *StackedCards) Name() string { return "stacked-cards" }

// Describe implements Scenario.
func (s *StackedCards) Describe() string {
	return "bypass login via session storage and screenshot the article list, expanding a card stack when present"
}

// Run implements Scenario.
func (s *StackedCards) Run(c *Ctx) error {
	router := mock.NewRouter(mock.FallbackContinue)
	if err := router.HandleJSON("**/api/v1-2/folders", s.fixtures.FoldersPayload()); err != nil {
		return err
	}
	if err := router.HandleJSON("**/api/v1-2/feeds", s.fixtures.FeedsPayload()); err != nil {
		return err
	}
	if err := router.HandleJSON("**/api/v1-3/items**", s.fixtures.ItemsPayload()); err != nil {
		return err
	}
	// register on the whole context so the mocks survive the reload below
	if err := router.InstallContext(c.Page().Context()); err != nil {
		return err
	}

	// localStorage is origin-scoped, so land on the app first, seed, then
	// reload to let the startup logic see the authenticated state
	if err := c.Goto("/"); err != nil {
		return err
	}
	if err := s.boot.Seed(c.Page()); err != nil {
		return err
	}
	if err := c.Goto("/"); err != nil {
		return err
	}

	if err := c.WaitSelector("div.space-y-1"); err != nil {
		return err
	}

	hasStack, err := c.HasSelector(stackedCardSelector)
	if err != nil {
		return err
	}

	if !hasStack {
		return c.Screenshot("no_stacked_cards_view")
	}

	if err := c.Screenshot("initial_view"); err != nil {
		return err
	}
	if err := c.ClickFirst(stackedCardSelector); err != nil {
		return err
	}
	c.Sleep(s.cardExpand) // expand animation
	return c.Screenshot("expanded_view")
}
