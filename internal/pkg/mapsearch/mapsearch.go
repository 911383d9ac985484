package mapsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/HanaSeol/CardMoa/internal/pkg/env"
)

// ErrNotConfigured is returned when the search API credentials are missing.
var ErrNotConfigured = errors.New("mapsearch: NAVER_SEARCH_CLIENT_ID / NAVER_SEARCH_CLIENT_SECRET not set")

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Place is one venue candidate returned by the local search API.
type Place struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	RoadAddr  string  `json:"road_address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client proxies venue lookups to the Naver Local search API so the
// browser never sees the API credentials.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewClientFromEnv builds a client from environment credentials.
func NewClientFromEnv() *Client {
	return &Client{
		baseURL:      strings.TrimRight(env.GetEnv("NAVER_SEARCH_API_URL", "https://openapi.naver.com"), "/"),
		clientID:     env.GetEnv("NAVER_SEARCH_CLIENT_ID", ""),
		clientSecret: env.GetEnv("NAVER_SEARCH_CLIENT_SECRET", ""),
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

// NewClient builds a client against an explicit endpoint (tests).
func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

type localSearchReply struct {
	Items []struct {
		Title       string `json:"title"`
		Address     string `json:"address"`
		RoadAddress string `json:"roadAddress"`
		MapX        string `json:"mapx"`
		MapY        string `json:"mapy"`
	} `json:"items"`
}

// Search returns up to five venue candidates for the query.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []Place{}, nil
	}

	reqURL := fmt.Sprintf("%s/v1/search/local.json?query=%s&display=5", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapsearch: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapsearch: provider returned status %d", resp.StatusCode)
	}

	var reply localSearchReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("mapsearch: malformed provider response: %w", err)
	}

	places := make([]Place, 0, len(reply.Items))
	for _, item := range reply.Items {
		places = append(places, Place{
			Name:      tagPattern.ReplaceAllString(item.Title, ""),
			Address:   item.Address,
			RoadAddr:  item.RoadAddress,
			Latitude:  katechToCoord(item.MapY),
			Longitude: katechToCoord(item.MapX),
		})
	}
	return places, nil
}

// katechToCoord converts the API's scaled integer coordinates
// (WGS84 * 1e7) to decimal degrees.
func katechToCoord(v string) float64 {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n / 1e7
}
