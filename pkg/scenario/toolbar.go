package scenario

import (
	"time"

	"github.com/feedvet/feedvet/pkg/bridge"
	"github.com/feedvet/feedvet/pkg/config"
	"github.com/feedvet/feedvet/pkg/fixture"
	"github.com/feedvet/feedvet/pkg/mock"
	"github.com/feedvet/feedvet/pkg/session"
)

// feedArticleFrame is the iframe the app renders articles into outside of
// readability mode.
const feedArticleFrame = `iframe[title='Feed article']`

// Toolbar verifies the article toolbar: readability mode renders the body
// fetched through the stubbed native bridge, and toggling dark mode swaps to
// the article iframe with the raw document.
type Toolbar struct {
	fixtures   fixture.Set
	boot       *session.Bootstrapper
	darkSettle time.Duration
}

// NewToolbar builds the scenario from config and fixtures.
func NewToolbar(cfg *config.Config, fixtures fixture.Set) *Toolbar {
	return &Toolbar{
		fixtures:   fixtures,
		boot:       session.New(cfg.Target.URL, cfg.Login.User, cfg.Login.Password),
		darkSettle: cfg.SettleDelay(),
	}
}

// Name implements Scenario.
func (s *Toolbar) Name() string { return "toolbar" }

// Describe implements Scenario.
func (s *Toolbar) Describe() string {
	return "open an article via the stubbed native bridge and verify the dark-mode iframe renders the raw document"
}

// Run implements Scenario.
func (s *Toolbar) Run(c *Ctx) error {
	// the stub must be in place before any page script runs
	if err := bridge.Default().Install(c.Page()); err != nil {
		return err
	}

	router := mock.NewRouter(mock.FallbackContinue)
	if err := router.HandleJSON("apps/news/api/v1-2/folders", s.fixtures.FoldersPayload()); err != nil {
		return err
	}
	if err := router.HandleJSON("apps/news/api/v1-2/feeds", s.fixtures.FeedsPayload()); err != nil {
		return err
	}
	if err := router.HandleJSON("apps/news/api/v1-3/items", s.fixtures.ItemsPayload()); err != nil {
		return err
	}
	if err := router.Install(c.Page()); err != nil {
		return err
	}

	if err := c.Goto("/"); err != nil {
		return err
	}
	if err := s.boot.Seed(c.Page()); err != nil {
		return err
	}
	if err := c.Goto("/feed/1"); err != nil {
		return err
	}

	if err := c.ClickText("Test Article"); err != nil {
		return err
	}

	// readability mode first: body comes from the stubbed fetch_article
	if err := c.ExpectVisible(".prose"); err != nil {
		return err
	}
	if err := c.ExpectTextVisible("This is a mocked article body."); err != nil {
		return err
	}

	if err := c.ClickButton("Dark Mode"); err != nil {
		return err
	}

	// dark mode renders the raw document from fetch_raw_html in an iframe
	if err := c.ExpectFrameVisible(feedArticleFrame, "body"); err != nil {
		return err
	}
	if err := c.ExpectFrameVisible(feedArticleFrame, `h1:text('Example Domain')`); err != nil {
		return err
	}

	c.Sleep(s.darkSettle) // dark styling is applied asynchronously
	return c.Screenshot("verification")
}
