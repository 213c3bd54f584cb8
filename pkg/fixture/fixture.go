// Package fixture provides canned Nextcloud News API payloads used to mock
// the reader's backend during verification runs.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Folder is a feed folder as served by the folders endpoint.
type Folder struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Feed is a subscribed feed as served by the feeds endpoint.
type Feed struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	UnreadCount int    `json:"unreadCount"`
	FaviconLink string `json:"faviconLink"`
	FolderID    int64  `json:"folderId"`
}

// Item is a single article as served by the items endpoint.
type Item struct {
	ID             int64  `json:"id"`
	FeedID         int64  `json:"feedId"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	PubDate        int64  `json:"pubDate"`
	Unread         bool   `json:"unread"`
	Starred        bool   `json:"starred"`
	Body           string `json:"body"`
	EnclosureLink  string `json:"enclosureLink"`
	MediaThumbnail string `json:"mediaThumbnail,omitempty"`
}

// Folders is the wire envelope for the folders endpoint.
type Folders struct {
	Folders []Folder `json:"folders"`
}

// Feeds is the wire envelope for the feeds endpoint.
type Feeds struct {
	Feeds []Feed `json:"feeds"`
}

// Items is the wire envelope for the items endpoint.
type Items struct {
	Items []Item `json:"items"`
}

// Set aggregates all fixtures one scenario serves to the app under test.
// Sets are built fresh per scenario and live only for one browser session.
type Set struct {
	Folders []Folder
	Feeds   []Feed
	Items   []Item
}

// FoldersPayload returns the folders envelope for route registration.
func (s *Set) FoldersPayload() Folders { return Folders{Folders: s.Folders} }

// FeedsPayload returns the feeds envelope for route registration.
func (s *Set) FeedsPayload() Feeds { return Feeds{Feeds: s.Feeds} }

// ItemsPayload returns the items envelope for route registration.
func (s *Set) ItemsPayload() Items { return Items{Items: s.Items} }

// Validate checks referential consistency: every feed's folderId must name a
// present folder and every item's feedId a present feed. Zero ids mean
// "unassigned" and are skipped. The mocked UI renders relationships from
// these ids, so a dangling reference produces a silently broken page.
func (s *Set) Validate() error {
	folders := make(map[int64]bool, len(s.Folders))
	for _, f := range s.Folders {
		folders[f.ID] = true
	}
	feeds := make(map[int64]bool, len(s.Feeds))
	for _, f := range s.Feeds {
		if f.FolderID != 0 && !folders[f.FolderID] {
			return fmt.Errorf("feed %d (%s) references missing folder %d", f.ID, f.Title, f.FolderID)
		}
		feeds[f.ID] = true
	}
	for _, it := range s.Items {
		if it.FeedID != 0 && !feeds[it.FeedID] {
			return fmt.Errorf("item %d (%s) references missing feed %d", it.ID, it.Title, it.FeedID)
		}
	}
	return nil
}

// ArticleViewSet returns the fixtures for the article-view scenario: a single
// folder, feed and article behind the v1-2 endpoints.
func ArticleViewSet() Set {
	return Set{
		Folders: []Folder{{ID: 1, Name: "All"}},
		Feeds:   []Feed{{ID: 1, Title: "Test Feed", URL: "https://example.com"}},
		Items: []Item{{
			ID:    1,
			Title: "Test Article",
			URL:   "https://example.com/article",
			Body:  "Article content",
		}},
	}
}

// StackedCardsSet returns the fixtures for the stacked-cards scenario: three
// feeds in one folder with image enclosures so the list renders card stacks.
func StackedCardsSet() Set {
	const pubDate = 1678886400
	return Set{
		Folders: []Folder{{ID: 1, Name: "News"}},
		Feeds: []Feed{
			{ID: 1, Title: "Apple News", UnreadCount: 2, FaviconLink: "https://www.apple.com/favicon.ico", FolderID: 1},
			{ID: 2, Title: "TechCrunch", UnreadCount: 0, FaviconLink: "https://techcrunch.com/favicon.ico", FolderID: 1},
			{ID: 3, Title: "The Verge", UnreadCount: 1, FaviconLink: "https://www.theverge.com/favicon.ico", FolderID: 1},
		},
		Items: []Item{
			{ID: 1, FeedID: 1, Title: "Apple announces the new M4 chip", URL: "http://example.com/1", PubDate: pubDate, Unread: true, Body: "Body 1",
				EnclosureLink: "https://images.pexels.com/photos/1841841/pexels-photo-1841841.jpeg?auto=compress&cs=tinysrgb&dpr=2&h=750&w=1260"},
			{ID: 2, FeedID: 2, Title: "The new Apple M4 chip is a beast", URL: "http://example.com/2", PubDate: pubDate, Unread: true, Body: "Body 2",
				EnclosureLink: "https://images.pexels.com/photos/1029757/pexels-photo-1029757.jpeg?auto=compress&cs=tinysrgb&dpr=2&h=750&w=1260"},
			{ID: 3, FeedID: 3, Title: "Microsoft announces new Surface Pro", URL: "http://example.com/3", PubDate: pubDate, Unread: true, Body: "Body 3",
				EnclosureLink: "https://images.pexels.com/photos/459654/pexels-photo-459654.jpeg?auto=compress&cs=tinysrgb&dpr=2&h=750&w=1260"},
			{ID: 4, FeedID: 1, Title: "A deep dive into the Apple M4 architecture", URL: "http://example.com/4", PubDate: pubDate, Unread: false, Body: "Body 4",
				EnclosureLink: "https://images.pexels.com/photos/326514/pexels-photo-326514.jpeg?auto=compress&cs=tinysrgb&dpr=2&h=750&w=1260"},
		},
	}
}

// MockedArticleBody is what the stubbed fetch_article command resolves to.
const MockedArticleBody = "<p>This is a mocked article body.</p>"

// ExampleDomainHTML is what the stubbed fetch_raw_html command resolves to.
const ExampleDomainHTML = "<html><body><h1>Example Domain</h1>" +
	"<p>This domain is for use in illustrative examples in documents.</p></body></html>"

// ToolbarSet returns the fixtures for the toolbar scenario: one folder, one
// feed and one article whose body is replaced by the bridge stub on open.
func ToolbarSet() Set {
	return Set{
		Folders: []Folder{{ID: 1, Name: "Test Folder"}},
		Feeds:   []Feed{{ID: 1, Title: "Test Feed", UnreadCount: 1, FolderID: 1}},
		Items: []Item{{
			ID:      101,
			FeedID:  1,
			Title:   "Test Article",
			URL:     "https://example.com",
			PubDate: 1672531200,
			Unread:  true,
			Body:    "<p>This is a test article body.</p>",
		}},
	}
}

// file names recognized by LoadDir.
const (
	foldersFile = "folders.json"
	feedsFile   = "feeds.json"
	itemsFile   = "items.json"
)

// LoadDir overlays fixtures from JSON files in dir onto base. Each file is
// optional and holds the wire envelope for its endpoint (folders.json,
// feeds.json, items.json); a present file replaces that part of the set
// entirely. The merged set is validated before being returned.
func LoadDir(dir string, base Set) (Set, error) {
	res := base

	var folders Folders
	ok, err := loadJSON(filepath.Join(dir, foldersFile), &folders)
	if err != nil {
		return Set{}, err
	}
	if ok {
		res.Folders = folders.Folders
	}

	var feeds Feeds
	ok, err = loadJSON(filepath.Join(dir, feedsFile), &feeds)
	if err != nil {
		return Set{}, err
	}
	if ok {
		res.Feeds = feeds.Feeds
	}

	var items Items
	ok, err = loadJSON(filepath.Join(dir, itemsFile), &items)
	if err != nil {
		return Set{}, err
	}
	if ok {
		res.Items = items.Items
	}

	if err := res.Validate(); err != nil {
		return Set{}, fmt.Errorf("fixtures in %s: %w", dir, err)
	}
	return res, nil
}

// loadJSON reads path into v, reporting whether the file existed.
func loadJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from a CLI flag
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}
