package koombiyo

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
)

// Client talks to the Koombiyo courier API. Every endpoint is a
// form-encoded POST carrying the api key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Config struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

func NewClient(cfg *Config) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type AddOrderInput struct {
	WaybillID     string
	OrderNumber   string
	ReceiverName  string
	ReceiverPhone string
	Address       string
	CityID        int64
	DistrictID    int64
	Description   string
	CODAmount     string
}

type City struct {
	ID   int64  `json:"id,string"`
	Name string `json:"city_name"`
}

type District struct {
	ID   int64  `json:"id,string"`
	Name string `json:"district_name"`
}

type TrackingEntry struct {
	WaybillID string `json:"waybill_id"`
	Status    string `json:"status"`
	Note      string `json:"note"`
	Timestamp string `json:"timestamp"`
}

// AddOrder registers a shipment with the courier.
func (c *Client) AddOrder(ctx context.Context, input *AddOrderInput) error {
	form := url.Values{
		"orderWaybillid":   {input.WaybillID},
		"orderNo":          {input.OrderNumber},
		"receiverName":     {input.ReceiverName},
		"receiverPhone":    {input.ReceiverPhone},
		"receiverStreet":   {input.Address},
		"receiverCity":     {strconv.FormatInt(input.CityID, 10)},
		"receiverDistrict": {strconv.FormatInt(input.DistrictID, 10)},
		"description":      {input.Description},
		"getCod":           {input.CODAmount},
	}
	body, err := c.post(ctx, "/Addorders/users", form)
	if err != nil {
		return err
	}

	var resp struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		// The API answers some calls with a bare string.
		if strings.Contains(strings.ToLower(string(body)), "success") {
			return nil
		}
		return fmt.Errorf("koombiyo: unexpected add order response: %s", truncate(body))
	}
	if !strings.EqualFold(resp.Status, "success") {
		return fmt.Errorf("koombiyo: add order rejected: %s", resp.Note)
	}
	return nil
}

func (c *Client) Districts(ctx context.Context) ([]District, error) {
	body, err := c.post(ctx, "/Districts/users", url.Values{})
	if err != nil {
		return nil, err
	}
	var districts []District
	if err := json.Unmarshal(body, &districts); err != nil {
		return nil, fmt.Errorf("koombiyo: decode districts: %w", err)
	}
	return districts, nil
}

func (c *Client) Cities(ctx context.Context, districtID int64) ([]City, error) {
	form := url.Values{"district_id": {strconv.FormatInt(districtID, 10)}}
	body, err := c.post(ctx, "/Cities/users", form)
	if err != nil {
		return nil, err
	}
	var cities []City
	if err := json.Unmarshal(body, &cities); err != nil {
		return nil, fmt.Errorf("koombiyo: decode cities: %w", err)
	}
	return cities, nil
}

// Track returns the courier's status history for a waybill, newest first.
func (c *Client) Track(ctx context.Context, waybillID string) ([]TrackingEntry, error) {
	form := url.Values{"waybillid": {waybillID}}
	body, err := c.post(ctx, "/Ordertracking/users", form)
	if err != nil {
		return nil, err
	}
	var entries []TrackingEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("koombiyo: decode tracking: %w", err)
	}
	return entries, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	form.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("koombiyo: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("koombiyo: %s returned %d: %s", path, resp.StatusCode, truncate(body))
	}
	return body, nil
}

func truncate(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
