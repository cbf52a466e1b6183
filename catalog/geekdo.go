package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	DefaultGeekdoURL = "https://api.geekdo.com/api"
	DefaultTimeout   = 15 * time.Second
	userAgent        = "BoardGameTimeline/1.0"
)

// recommendCount accepts numrecommend both as a number and as a string.
type recommendCount float64

func (r *recommendCount) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(strings.Trim(string(data), `"`), 64)
	if err != nil {
		f = 0
	}
	*r = recommendCount(f)
	return nil
}

type geekdoImage struct {
	ImageURL     string         `json:"imageurl"`
	ImageURLLg   string         `json:"imageurl_lg"`
	NumRecommend recommendCount `json:"numrecommend"`
}

func (i geekdoImage) url() string {
	if i.ImageURLLg != "" {
		return i.ImageURLLg
	}
	return i.ImageURL
}

type geekdoImages struct {
	Images []geekdoImage `json:"images"`
}

// GeekdoClient resolves box art through the geekdo images API.
type GeekdoClient struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewGeekdoClient(log *slog.Logger, baseURL string, timeout time.Duration) *GeekdoClient {
	if baseURL == "" {
		baseURL = DefaultGeekdoURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeekdoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// ResolveImage returns the most recommended BoxFront image of the game, or
// the first gallery image when there is none. An empty string means the
// game has no image at all.
func (g *GeekdoClient) ResolveImage(ctx context.Context, itemID string) (string, error) {
	boxFront, err := g.images(ctx, url.Values{
		"objectid":   {itemID},
		"objecttype": {"thing"},
		"tag":        {"BoxFront"},
		"nosession":  {"1"},
	})
	if err != nil {
		return "", err
	}
	if len(boxFront) > 0 {
		best := lo.MaxBy(boxFront, func(a, b geekdoImage) bool {
			return a.NumRecommend > b.NumRecommend
		})
		return best.url(), nil
	}

	gallery, err := g.images(ctx, url.Values{
		"objectid":   {itemID},
		"objecttype": {"thing"},
		"gallery":    {"game"},
		"nosession":  {"1"},
	})
	if err != nil {
		return "", err
	}
	if len(gallery) > 0 {
		return gallery[0].url(), nil
	}
	g.log.Debug("No image found", "item_id", itemID)
	return "", nil
}

func (g *GeekdoClient) images(ctx context.Context, query url.Values) ([]geekdoImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/images?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build images request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("images request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("images returned %s", resp.Status)
	}

	var result geekdoImages
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode images response: %w", err)
	}
	return result.Images, nil
}
