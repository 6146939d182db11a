package youtube

import (
	"context"
)

// PageFetcher fetches one search page at a time. *Client satisfies it;
// tests substitute stubs.
type PageFetcher interface {
	SearchPage(ctx context.Context, q SearchQuery, pageToken string) (*SearchPage, error)
}

// SearchPager iterates the pages of one search query lazily. The sequence
// ends at the query's MaxPages cap or when the service stops returning a
// next-page token, whichever comes first. A pager is not restartable: build
// a new one to start again from page one.
type SearchPager struct {
	fetcher   PageFetcher
	query     SearchQuery
	pageToken string
	pageCount int
	done      bool
}

// NewSearchPager returns a pager over the query's result pages.
func NewSearchPager(f PageFetcher, q SearchQuery) *SearchPager {
	return &SearchPager{fetcher: f, query: q}
}

// Search returns a pager over the query's result pages.
func (c *Client) Search(q SearchQuery) *SearchPager {
	return NewSearchPager(c, q)
}

// HasMorePages reports whether NextPage can fetch another page.
func (p *SearchPager) HasMorePages() bool {
	if p.done {
		return false
	}
	if p.query.MaxPages > 0 && p.pageCount >= p.query.MaxPages {
		return false
	}
	return true
}

// NextPage fetches the next page of results. Calling it after
// HasMorePages reports false returns an empty page.
func (p *SearchPager) NextPage(ctx context.Context) (*SearchPage, error) {
	if !p.HasMorePages() {
		return &SearchPage{}, nil
	}

	page, err := p.fetcher.SearchPage(ctx, p.query, p.pageToken)
	if err != nil {
		return nil, err
	}

	p.pageCount++
	p.pageToken = page.NextPageToken
	if page.NextPageToken == "" {
		p.done = true
	}
	return page, nil
}

// PlaylistFetcher fetches one playlist page at a time. *Client satisfies it.
type PlaylistFetcher interface {
	PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error)
}

// PlaylistPager iterates a playlist's item pages, same shape as SearchPager.
type PlaylistPager struct {
	fetcher    PlaylistFetcher
	playlistID string
	pageToken  string
	maxPages   int
	pageCount  int
	done       bool
}

// NewPlaylistPager returns a pager over a playlist's items. maxPages <= 0
// means no cap beyond the playlist's own end.
func NewPlaylistPager(f PlaylistFetcher, playlistID string, maxPages int) *PlaylistPager {
	return &PlaylistPager{fetcher: f, playlistID: playlistID, maxPages: maxPages}
}

// PlaylistItems returns a pager over a playlist's items. maxPages <= 0
// means no cap beyond the playlist's own end.
func (c *Client) PlaylistItems(playlistID string, maxPages int) *PlaylistPager {
	return NewPlaylistPager(c, playlistID, maxPages)
}

// HasMorePages reports whether NextPage can fetch another page.
func (p *PlaylistPager) HasMorePages() bool {
	if p.done {
		return false
	}
	if p.maxPages > 0 && p.pageCount >= p.maxPages {
		return false
	}
	return true
}

// NextPage fetches the next page of playlist items.
func (p *PlaylistPager) NextPage(ctx context.Context) (*PlaylistPage, error) {
	if !p.HasMorePages() {
		return &PlaylistPage{}, nil
	}

	page, err := p.fetcher.PlaylistItemsPage(ctx, p.playlistID, p.pageToken)
	if err != nil {
		return nil, err
	}

	p.pageCount++
	p.pageToken = page.NextPageToken
	if page.NextPageToken == "" {
		p.done = true
	}
	return page, nil
}
