package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"commission-manager/models"
)

// WebhookGateway talks to an Apps-Script-style web app: GET returns the full
// snapshot as JSON, POST accepts a tagged mutation record. The endpoint is not
// required to return a parseable response to writes.
type WebhookGateway struct {
	url    string
	client *http.Client
}

var _ Gateway = (*WebhookGateway)(nil)

// NewWebhookGateway creates a gateway for the given web app URL.
func NewWebhookGateway(url string) *WebhookGateway {
	return &WebhookGateway{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Snapshot fetches the remote collections. Either key may be absent from the
// response; only present keys are marked as set.
func (g *WebhookGateway) Snapshot(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot endpoint returned status %d", resp.StatusCode)
	}

	// Pointers distinguish "key absent" from "key present but empty".
	var payload struct {
		Queue   *[]models.Order `json:"queue"`
		Archive *[]models.Order `json:"archive"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	snap := &Snapshot{}
	if payload.Queue != nil {
		snap.Queue = *payload.Queue
		snap.QueueSet = true
	}
	if payload.Archive != nil {
		snap.Archive = *payload.Archive
		snap.ArchiveSet = true
	}
	return snap, nil
}

// Dispatch posts one mutation. The response body is drained and discarded;
// a non-200 status is logged but not treated as a failure, since the store
// may not return a usable response at all.
func (g *WebhookGateway) Dispatch(ctx context.Context, m Mutation) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode mutation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mutation request: %w", err)
	}
	// Apps Script web apps read the raw post body; text/plain keeps their
	// content-type handling out of the way.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to dispatch %s: %w", m.Action, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️  WebhookGateway: %s dispatch returned status %d (ignored)", m.Action, resp.StatusCode)
	}
	return nil
}
