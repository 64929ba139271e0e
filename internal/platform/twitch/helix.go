package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const DefaultHelixURL = "https://api.twitch.tv/helix"

var (
	ErrUserNotFound   = errors.New("twitch user not found")
	ErrMessageDropped = errors.New("twitch dropped the chat message")
)

// HelixError is a non-2xx answer from the Helix API.
type HelixError struct {
	Status  int
	Message string
}

func (e *HelixError) Error() string {
	return fmt.Sprintf("helix: status %d: %s", e.Status, e.Message)
}

// HelixClient calls the few Helix endpoints the services need. Every call
// takes the token source of the identity it acts as.
type HelixClient struct {
	baseURL  string
	clientID string
	http     *http.Client
	limiter  *rate.Limiter
}

func NewHelixClient(baseURL, clientID string, httpClient *http.Client, limiter *rate.Limiter) *HelixClient {
	if baseURL == "" {
		baseURL = DefaultHelixURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HelixClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		http:     httpClient,
		limiter:  limiter,
	}
}

// StaticToken wraps a user access token. The IRC "oauth:" prefix is stripped.
func StaticToken(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: strings.TrimPrefix(accessToken, "oauth:"),
		TokenType:   "Bearer",
	})
}

// GetUserID resolves a login name to its user id.
func (h *HelixClient) GetUserID(ctx context.Context, ts oauth2.TokenSource, login string) (string, error) {
	if login == "" {
		return "", fmt.Errorf("login empty")
	}

	q := url.Values{}
	q.Set("login", strings.ToLower(login))

	var body struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := h.do(ctx, ts, http.MethodGet, "/users?"+q.Encode(), nil, &body); err != nil {
		return "", err
	}
	if len(body.Data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, login)
	}
	return body.Data[0].ID, nil
}

// SendChatMessage posts message to broadcasterID's chat as senderID.
func (h *HelixClient) SendChatMessage(ctx context.Context, ts oauth2.TokenSource, broadcasterID, senderID, message string) error {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	in := struct {
		BroadcasterID string `json:"broadcaster_id"`
		SenderID      string `json:"sender_id"`
		Message       string `json:"message"`
	}{broadcasterID, senderID, message}

	var out struct {
		Data []struct {
			MessageID  string `json:"message_id"`
			IsSent     bool   `json:"is_sent"`
			DropReason *struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"drop_reason"`
		} `json:"data"`
	}
	if err := h.do(ctx, ts, http.MethodPost, "/chat/messages", in, &out); err != nil {
		return err
	}
	if len(out.Data) == 0 {
		return ErrMessageDropped
	}
	if d := out.Data[0]; !d.IsSent {
		if d.DropReason != nil {
			return fmt.Errorf("%w: %s: %s", ErrMessageDropped, d.DropReason.Code, d.DropReason.Message)
		}
		return ErrMessageDropped
	}
	return nil
}

func (h *HelixClient) do(ctx context.Context, ts oauth2.TokenSource, method, path string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return err
	}
	tok, err := ts.Token()
	if err != nil {
		return fmt.Errorf("helix token: %w", err)
	}
	tok.SetAuthHeader(req)
	req.Header.Set("Client-Id", h.clientID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &e) != nil || e.Message == "" {
			e.Message = strings.TrimSpace(string(raw))
		}
		return &HelixError{Status: resp.StatusCode, Message: e.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
