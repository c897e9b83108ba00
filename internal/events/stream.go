package events

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Watch attaches to a backend's /api/events stream and decodes each frame
// onto the returned channel. This is how a focus TUI running in its own
// process hears about an unlock performed through the HTTP API. The
// channel closes when ctx is cancelled or the server drops the connection.
func Watch(ctx context.Context, baseURL, accountID string) (<-chan Event, error) {
	endpoint := strings.TrimRight(baseURL, "/") + "/api/events"
	if accountID != "" {
		endpoint += "?" + url.Values{"account_id": {accountID}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("event stream %s: status %d", endpoint, resp.StatusCode)
	}

	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue
			}
			var event Event
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				continue
			}
			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
