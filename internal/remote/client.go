// internal/remote/client.go
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErrors "github.com/unclebandit/campaign-studio/internal/errors"
	"github.com/unclebandit/campaign-studio/internal/logx"
	"github.com/unclebandit/campaign-studio/internal/metrics"
	"github.com/unclebandit/campaign-studio/internal/model"
)

// Client talks to the collection backend. Every failure it returns is a
// *appErrors.TransportError except lookups that completed with no match.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return appErrors.NewTransport(op, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.NewTransport(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "network_error").Inc()
		return appErrors.NewTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RemoteRequestsTotal.WithLabelValues(op, "bad_status").Inc()
		logx.L().Debugw("remote_bad_status", "op", op, "status", resp.StatusCode, "path", path)
		return appErrors.NewStatus(op, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			metrics.RemoteRequestsTotal.WithLabelValues(op, "malformed").Inc()
			return appErrors.NewTransport(op, fmt.Errorf("decode response: %w", err))
		}
	}
	metrics.RemoteRequestsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

func campaignPath(id string) string {
	return "/campaigns/" + url.PathEscape(id)
}

func (c *Client) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	if err := c.do(ctx, "list_campaigns", http.MethodGet, "/campaigns", nil, &campaigns); err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []model.Campaign{}
	}
	return campaigns, nil
}

// GetCampaign tries the direct path first, then the filtered collection.
// An empty filtered result is a NotFoundError.
func (c *Client) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	var campaign model.Campaign
	err := c.do(ctx, "get_campaign", http.MethodGet, campaignPath(id), nil, &campaign)
	if err == nil {
		return &campaign, nil
	}
	logx.L().Debugw("remote_direct_lookup_failed", "id", id, "error", err)

	q := url.Values{"id": {id}}
	var matches []model.Campaign
	if err := c.do(ctx, "find_campaign", http.MethodGet, "/campaigns?"+q.Encode(), nil, &matches); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return &matches[0], nil
}

func (c *Client) CreateCampaign(ctx context.Context, data model.Campaign) (*model.Campaign, error) {
	// the backend owns id assignment
	data.ID = ""
	var created model.Campaign
	if err := c.do(ctx, "create_campaign", http.MethodPost, "/campaigns", data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCampaign reads the current record, merges data onto it and writes the
// whole record back.
func (c *Client) UpdateCampaign(ctx context.Context, id string, data model.Campaign) (*model.Campaign, error) {
	current, err := c.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Merge(data)

	var updated model.Campaign
	if err := c.do(ctx, "update_campaign", http.MethodPut, campaignPath(current.ID), current, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	return c.do(ctx, "delete_campaign", http.MethodDelete, campaignPath(id), nil, nil)
}

func (c *Client) ListTones(ctx context.Context) ([]model.Tone, error) {
	var tones []model.Tone
	if err := c.do(ctx, "list_tones", http.MethodGet, "/tones", nil, &tones); err != nil {
		return nil, err
	}
	return tones, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, "list_users", http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
