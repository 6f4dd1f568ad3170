package videometrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Stats are the engagement counters of a single video.
type Stats struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

var (
	ErrUnsupportedLink = errors.New("link does not identify a video")
	ErrVideoNotFound   = errors.New("video not found")
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to a YouTube Data API shaped endpoint. Failures are returned
// to the caller as is; nothing is retried.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type videosResponse struct {
	Items []struct {
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *Client) FetchStats(ctx context.Context, link string) (*Stats, error) {
	videoID, ok := VideoID(link)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLink, link)
	}

	q := url.Values{}
	q.Set("part", "statistics")
	q.Set("id", videoID)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video metrics request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video metrics API returned status %d", resp.StatusCode)
	}

	var body videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	st := body.Items[0].Statistics
	stats := &Stats{
		Views:    parseCount(st.ViewCount),
		Likes:    parseCount(st.LikeCount),
		Comments: parseCount(st.CommentCount),
	}

	c.logger.DebugContext(ctx, "video metrics fetched",
		"video_id", videoID,
		"views", stats.Views,
		"likes", stats.Likes,
		"comments", stats.Comments)

	return stats, nil
}

// parseCount treats missing or non-numeric counters as zero.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// VideoID extracts the id from watch, short-link and shorts URLs.
func VideoID(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	path := strings.Trim(u.Path, "/")

	var id string
	switch host {
	case "youtu.be":
		id = strings.SplitN(path, "/", 2)[0]
	case "youtube.com", "music.youtube.com":
		switch {
		case path == "watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"):
			id = strings.SplitN(strings.TrimPrefix(path, "shorts/"), "/", 2)[0]
		case strings.HasPrefix(path, "embed/"):
			id = strings.SplitN(strings.TrimPrefix(path, "embed/"), "/", 2)[0]
		}
	}

	if id == "" {
		return "", false
	}
	return id, true
}
