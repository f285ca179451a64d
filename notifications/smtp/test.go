package smtp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// MailHog-style catch-all servers expose an HTTP API next to their SMTP
// port. FindEmail reads that API so tests can assert on delivered alerts.

// FindEmail returns the body of the first message delivered to the given
// address and clears the inbox afterwards, so consecutive assertions never
// see each other's mail. io.EOF is returned when nothing has arrived yet.
func (se *Email) FindEmail(ctx context.Context, to string) (string, error) {
	apiBase := fmt.Sprintf("http://%s:%d", se.config.SMTPServer, se.config.TestAPIPort)
	raw, err := se.inboxRequest(ctx, http.MethodGet,
		apiBase+"/api/v2/search?kind=to&query="+url.QueryEscape(to))
	if err != nil {
		return "", err
	}
	var inbox struct {
		Items []struct {
			Content struct {
				Body string `json:"Body"`
			} `json:"Content"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &inbox); err != nil {
		return "", fmt.Errorf("could not decode inbox response: %v", err)
	}
	if len(inbox.Items) == 0 {
		return "", io.EOF
	}
	if _, err := se.inboxRequest(ctx, http.MethodDelete, apiBase+"/api/v1/messages"); err != nil {
		return "", fmt.Errorf("could not clear inbox: %v", err)
	}
	return inbox.Items[0].Content.Body, nil
}

func (se *Email) inboxRequest(ctx context.Context, method, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
