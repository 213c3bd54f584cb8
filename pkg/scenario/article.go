package scenario

import (
	"time"

	"github.com/feedvet/feedvet/pkg/config"
	"github.com/feedvet/feedvet/pkg/fixture"
	"github.com/feedvet/feedvet/pkg/mock"
)

// ArticleView verifies the interactive login flow and that an article opened
// from the feed list renders its content. The backend is mocked behind the
// v1-2 API endpoints; the login succeeds because the folders probe the app
// makes after submit is answered by a fixture.
type ArticleView struct {
	fixtures  fixture.Set
	serverURL string
	user      string
	password  string
	settle    time.Duration
}

// NewArticleView builds the scenario from config and fixtures.
func NewArticleView(cfg *config.Config, fixtures fixture.Set) *ArticleView {
	return &ArticleView{
		fixtures:  fixtures,
		serverURL: cfg.Login.ServerURL,
		user:      cfg.Login.User,
		password:  cfg.Login.Password,
		settle:    cfg.SettleDelay(),
	}
}

// Name implements Scenario.
func (s *ArticleView) Name() string { return "article-view" }

// Describe implements Scenario.
func (s *ArticleView) Describe() string {
	return "log in against mocked v1-2 endpoints, open the first feed and verify article content renders"
}

// Run implements Scenario.
func (s *ArticleView) Run(c *Ctx) error {
	router := mock.NewRouter(mock.FallbackContinue)
	if err := router.HandleJSON("**/index.php/apps/news/api/v1-2/folders", s.fixtures.FoldersPayload()); err != nil {
		return err
	}
	if err := router.HandleJSON("**/index.php/apps/news/api/v1-2/feeds", s.fixtures.FeedsPayload()); err != nil {
		return err
	}
	if err := router.HandleJSON("**/index.php/apps/news/api/v1-2/items?type=3&id=0", s.fixtures.ItemsPayload()); err != nil {
		return err
	}
	if err := router.Install(c.Page()); err != nil {
		return err
	}

	if err := c.Goto("/"); err != nil {
		return err
	}
	if err := c.FillLabel("Nextcloud URL", s.serverURL); err != nil {
		return err
	}
	if err := c.FillLabel("Username", s.user); err != nil {
		return err
	}
	if err := c.FillLabel("Password", s.password); err != nil {
		return err
	}
	if err := c.ClickButton("Login"); err != nil {
		return err
	}
	if err := c.WaitURL("/"); err != nil {
		return err
	}
	if err := c.Screenshot("post_login_page"); err != nil {
		return err
	}

	if err := c.Goto("/feeds"); err != nil {
		return err
	}
	c.Sleep(s.settle) // feed list hydrates from the mocked endpoints

	if err := c.ClickFirst("a[data-feed-id]"); err != nil {
		return err
	}
	c.Sleep(s.settle)

	if err := c.ExpectVisible(".prose"); err != nil {
		return err
	}
	return c.Screenshot("verification")
}
