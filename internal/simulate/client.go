package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/readiness/internal/domain/load"
	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/pkg/logger"
)

// Client talks to the readiness HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// TriageResponse mirrors GET /alerts.
type TriageResponse struct {
	Date    model.Date          `json:"date"`
	Count   int                 `json:"count"`
	Results []model.AlertResult `json:"results"`
}

type trendResponse struct {
	Points []load.TrendPoint `json:"points"`
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", path, err)
	}
	return nil
}

// Triage fetches the ranked squad for day.
func (c *Client) Triage(ctx context.Context, day model.Date) (TriageResponse, error) {
	var out TriageResponse
	err := c.get(ctx, "/alerts", url.Values{"date": {day.String()}}, &out)
	return out, err
}

// Trend fetches the daily load trend of one athlete over [from, to).
func (c *Client) Trend(ctx context.Context, athleteID string, from, to model.Date) ([]load.TrendPoint, error) {
	var out trendResponse
	q := url.Values{"from": {from.String()}, "to": {to.String()}}
	err := c.get(ctx, "/load/"+url.PathEscape(athleteID)+"/trend", q, &out)
	return out.Points, err
}

type submission struct {
	path string
	body any
}

// Submit posts every report and load entry of the squad with cfg.Workers
// concurrent senders and counts the outcomes into stats.
func (c *Client) Submit(ctx context.Context, cfg Config, squad Squad, stats *Stats) error {
	work := make(chan submission, cfg.Workers*2)
	var (
		submitted int64
		failed    int64
		wg        sync.WaitGroup
	)
	log := logger.Get().Named("simulate")

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range work {
				atomic.AddInt64(&submitted, 1)
				if err := c.post(ctx, s.path, s.body); err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Warn(ctx, "submission failed", logger.String("path", s.path), logger.Error(err))
					}
				}
			}
		}()
	}

feed:
	for _, r := range squad.Wellness {
		select {
		case work <- submission{path: "/wellness", body: r}:
		case <-ctx.Done():
			break feed
		}
	}
	for _, e := range squad.Loads {
		if ctx.Err() != nil {
			break
		}
		select {
		case work <- submission{path: "/load", body: e}:
		case <-ctx.Done():
		}
	}
	close(work)
	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Failed = int(atomic.LoadInt64(&failed))
	if err := ctx.Err(); err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", stats.Failed, stats.Submitted)
	}
	return nil
}
