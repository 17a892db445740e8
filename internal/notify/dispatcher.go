package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iliyamo/workspace-booking/internal/model"
)

// HTTPDispatcher calls the confirmation function over HTTP.  Each booking
// gets exactly one attempt.
type HTTPDispatcher struct {
	url    string
	client *http.Client
}

// NewHTTPDispatcher posts to url with the given per-call timeout.
func NewHTTPDispatcher(url string, timeout time.Duration) *HTTPDispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPDispatcher{url: url, client: &http.Client{Timeout: timeout}}
}

func (d *HTTPDispatcher) BookingConfirmed(ctx context.Context, b model.Booking) error {
	body, err := json.Marshal(Request{BookingID: b.ID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("confirmation function returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

// Noop drops every notification.
type Noop struct{}

func (Noop) BookingConfirmed(context.Context, model.Booking) error { return nil }
