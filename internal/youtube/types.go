package youtube

import "time"

// SearchQuery holds the filter set for one search.list invocation.
type SearchQuery struct {
	Query             string
	RelevanceLanguage string
	RegionCode        string
	PublishedAfter    time.Time
	PublishedBefore   time.Time
	VideoDuration     string // any, short, medium, long
	SafeSearch        string // none, moderate, strict

	// MaxPages caps pagination; the API's own result ceiling may end the
	// sequence earlier.
	MaxPages int
}

// SearchItem is one raw result from a search page.
type SearchItem struct {
	VideoID      string
	ChannelID    string
	ChannelTitle string
	Title        string
	PublishedAt  time.Time
}

// SearchPage is one page of search results.
type SearchPage struct {
	Items         []SearchItem
	NextPageToken string
}

// PlaylistItem is one video entry from a playlistItems page.
type PlaylistItem struct {
	VideoID     string
	Title       string
	PublishedAt time.Time
	Position    int64
}

// PlaylistPage is one page of playlist items.
type PlaylistPage struct {
	Items         []PlaylistItem
	NextPageToken string
}

// --- wire types for the Data API v3 ---

type searchListResponse struct {
	NextPageToken string           `json:"nextPageToken"`
	Items         []searchListItem `json:"items"`
}

type searchListItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		ChannelID    string `json:"channelId"`
		ChannelTitle string `json:"channelTitle"`
		Title        string `json:"title"`
		PublishedAt  string `json:"publishedAt"`
	} `json:"snippet"`
}

type channelListResponse struct {
	Items []channelListItem `json:"items"`
}

type channelListItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		PublishedAt string `json:"publishedAt"`
		Country     string `json:"country"`
	} `json:"snippet"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
		ViewCount       string `json:"viewCount"`
		VideoCount      string `json:"videoCount"`
	} `json:"statistics"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			Position    int64  `json:"position"`
			ResourceID  struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
