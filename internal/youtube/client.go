// Package youtube wraps the YouTube Data API v3 endpoints used for channel
// discovery: paginated keyword search, batch channel hydration, and uploads
// playlist enumeration. Every page fetch is charged to the quota ledger at
// the call type's advertised cost.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cohortlab/channelscout/internal/domain"
	"github.com/cohortlab/channelscout/internal/quota"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// maxChannelsPerCall is the API's id-list ceiling for channels.list.
const maxChannelsPerCall = 50

// CostRecorder receives the advertised cost of each API call.
// *quota.Ledger satisfies it.
type CostRecorder interface {
	Record(callType string, cost int64) error
}

// Config holds client construction options.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client is the Data API v3 wrapper. Single-threaded callers assumed; the
// rate limiter only paces requests defensively.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	costs      CostRecorder
}

// NewClient creates a Client charging calls to the given recorder.
func NewClient(cfg Config, costs CostRecorder) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		costs:      costs,
	}
}

// SearchPage fetches one page of search results. An empty pageToken fetches
// page one. Charged at quota.CostSearchList per call.
func (c *Client) SearchPage(ctx context.Context, q SearchQuery, pageToken string) (*SearchPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", "50")
	params.Set("q", q.Query)
	if q.RelevanceLanguage != "" {
		params.Set("relevanceLanguage", q.RelevanceLanguage)
	}
	if q.RegionCode != "" {
		params.Set("regionCode", q.RegionCode)
	}
	if !q.PublishedAfter.IsZero() {
		params.Set("publishedAfter", q.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if !q.PublishedBefore.IsZero() {
		params.Set("publishedBefore", q.PublishedBefore.UTC().Format(time.RFC3339))
	}
	if q.VideoDuration != "" {
		params.Set("videoDuration", q.VideoDuration)
	}
	if q.SafeSearch != "" {
		params.Set("safeSearch", q.SafeSearch)
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp searchListResponse
	if err := c.get(ctx, "/search", params, quota.CallSearchList, quota.CostSearchList, &resp); err != nil {
		return nil, err
	}

	page := &SearchPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.Snippet.ChannelID == "" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		page.Items = append(page.Items, SearchItem{
			VideoID:      item.ID.VideoID,
			ChannelID:    item.Snippet.ChannelID,
			ChannelTitle: item.Snippet.ChannelTitle,
			Title:        item.Snippet.Title,
			PublishedAt:  publishedAt,
		})
	}
	return page, nil
}

// ListChannels hydrates channel metadata for up to 50 IDs per API call.
// Channels the service no longer knows are silently absent from the result.
// Charged at quota.CostChannelsList per call.
func (c *Client) ListChannels(ctx context.Context, ids []string) ([]domain.Channel, error) {
	var channels []domain.Channel
	for start := 0; start < len(ids); start += maxChannelsPerCall {
		end := start + maxChannelsPerCall
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		params.Set("part", "snippet,statistics")
		params.Set("id", strings.Join(ids[start:end], ","))
		params.Set("maxResults", "50")

		var resp channelListResponse
		if err := c.get(ctx, "/channels", params, quota.CallChannelsList, quota.CostChannelsList, &resp); err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			channels = append(channels, domain.Channel{
				ID:              item.ID,
				Title:           item.Snippet.Title,
				PublishedAt:     publishedAt,
				Country:         item.Snippet.Country,
				SubscriberCount: parseCount(item.Statistics.SubscriberCount),
				ViewCount:       parseCount(item.Statistics.ViewCount),
				VideoCount:      parseCount(item.Statistics.VideoCount),
			})
		}
	}
	return channels, nil
}

// UploadsPlaylist resolves a channel's uploads playlist ID.
// Charged at quota.CostChannelsList.
func (c *Client) UploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	if channelID == "" {
		// A blank ID would query the caller's own channel, not fail.
		return "", domain.ErrEmptyChannelID
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", channelID)

	var resp channelListResponse
	if err := c.get(ctx, "/channels", params, quota.CallChannelsList, quota.CostChannelsList, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", domain.ErrChannelNotFound
	}
	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", domain.ErrNoUploadsPlaylist
	}
	return uploads, nil
}

// PlaylistItemsPage fetches one page of a playlist's items.
// Charged at quota.CostPlaylistItemsList per call.
func (c *Client) PlaylistItemsPage(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", "50")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp playlistItemsResponse
	if err := c.get(ctx, "/playlistItems", params, quota.CallPlaylistItemsList, quota.CostPlaylistItemsList, &resp); err != nil {
		return nil, err
	}

	page := &PlaylistPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		page.Items = append(page.Items, PlaylistItem{
			VideoID:     item.Snippet.ResourceID.VideoID,
			Title:       item.Snippet.Title,
			PublishedAt: publishedAt,
			Position:    item.Snippet.Position,
		})
	}
	return page, nil
}

// get performs one API call, charges the ledger, and maps failures onto the
// domain error taxonomy.
func (c *Client) get(ctx context.Context, path string, params url.Values, callType string, cost int64, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeTransient, "request failed", wrapTransient(err))
	}
	defer resp.Body.Close()

	// The ledger charges by attempt, not by success: failed calls still
	// spend quota on the service side.
	if c.costs != nil {
		if lerr := c.costs.Record(callType, cost); lerr != nil {
			return fmt.Errorf("failed to record quota cost: %w", lerr)
		}
	}

	if resp.StatusCode != http.StatusOK {
		return mapAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", callType, err)
	}
	return nil
}

// mapAPIError translates an HTTP error response into the domain taxonomy.
func mapAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr apiErrorResponse
	reason := ""
	if err := json.Unmarshal(body, &apiErr); err == nil && len(apiErr.Error.Errors) > 0 {
		reason = apiErr.Error.Errors[0].Reason
	}

	msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if reason != "" {
		msg = fmt.Sprintf("HTTP %d (%s)", resp.StatusCode, reason)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden && (reason == "quotaExceeded" || reason == "dailyLimitExceeded"):
		return domain.NewDomainErrorWithCause(domain.ErrCodeQuotaExceeded, msg, domain.ErrQuotaExceeded)
	case resp.StatusCode == http.StatusBadRequest:
		return domain.NewDomainErrorWithCause(domain.ErrCodeInvalidQuery, msg, domain.ErrInvalidQuery)
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= http.StatusInternalServerError,
		reason == "rateLimitExceeded",
		reason == "userRateLimitExceeded":
		return domain.NewDomainErrorWithCause(domain.ErrCodeTransient, msg, domain.ErrTransient)
	default:
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, msg, nil)
	}
}

// wrapTransient chains a transport error under ErrTransient so errors.Is
// works through the retry policy.
func wrapTransient(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrTransient, err)
}

func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
