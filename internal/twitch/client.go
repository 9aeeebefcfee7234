package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Helix caps multi-value query parameters at 100 entries per request.
const maxBatchSize = 100

// Sentinel errors commands branch on.
var (
	// ErrUnauthorized is returned when Helix rejects the access token.
	ErrUnauthorized = errors.New("twitch rejected the access token; run `ttv auth` to fetch a new one")

	// ErrForbidden is returned when Helix denies the request outright.
	ErrForbidden = errors.New("twitch denied the request; check your client credentials")

	// ErrRateLimited is returned when Helix throttles the request.
	ErrRateLimited = errors.New("twitch rate limited the request; try again later")
)

// User is a Helix user record.
type User struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// Stream is a live broadcast as reported by Helix.
type Stream struct {
	UserID    string `json:"user_id"`
	UserLogin string `json:"user_login"`
	UserName  string `json:"user_name"`
	GameName  string `json:"game_name"`
}

// Video is an archived past broadcast.
type Video struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Duration  string    `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenSource supplies a valid bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// Client issues authenticated requests against the Helix API.
type Client struct {
	baseURL    string
	clientID   string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a Helix client.
func New(baseURL, clientID string, tokens TokenSource, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("helix base url required")
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("client id required")
	}
	if tokens == nil {
		return nil, errors.New("token source required")
	}

	client := &Client{
		baseURL:    baseURL,
		clientID:   clientID,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// UsersByLogin resolves login names to user records. Unknown logins are
// simply absent from the result.
func (c *Client) UsersByLogin(ctx context.Context, logins []string) ([]User, error) {
	users := make([]User, 0, len(logins))
	for _, batch := range batches(logins) {
		params := url.Values{}
		for _, login := range batch {
			params.Add("login", login)
		}
		var page []User
		if err := c.get(ctx, "/users", params, &page); err != nil {
			return nil, fmt.Errorf("look up users: %w", err)
		}
		users = append(users, page...)
	}
	return users, nil
}

// StreamsByUserID returns the live streams among the provided user ids.
// Offline channels are absent from the result.
func (c *Client) StreamsByUserID(ctx context.Context, userIDs []string) ([]Stream, error) {
	streams := make([]Stream, 0, len(userIDs))
	for _, batch := range batches(userIDs) {
		params := url.Values{}
		for _, id := range batch {
			params.Add("user_id", id)
		}
		var page []Stream
		if err := c.get(ctx, "/streams", params, &page); err != nil {
			return nil, fmt.Errorf("look up streams: %w", err)
		}
		streams = append(streams, page...)
	}
	return streams, nil
}

// VideosByUser lists the archived past broadcasts of a user, newest first.
func (c *Client) VideosByUser(ctx context.Context, userID string) ([]Video, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id required")
	}
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("type", "archive")

	var videos []Video
	if err := c.get(ctx, "/videos", params, &videos); err != nil {
		return nil, fmt.Errorf("look up videos: %w", err)
	}
	return videos, nil
}

// get issues an authenticated GET and decodes the Helix data envelope
// into out, which must be a pointer to a slice.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Client-ID", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("helix %s returned unexpected status %d", path, resp.StatusCode)
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode helix response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode helix data: %w", err)
	}
	return nil
}

func batches(values []string) [][]string {
	if len(values) == 0 {
		return nil
	}
	result := make([][]string, 0, (len(values)+maxBatchSize-1)/maxBatchSize)
	for start := 0; start < len(values); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(values) {
			end = len(values)
		}
		result = append(result, values[start:end])
	}
	return result
}
