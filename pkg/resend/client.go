// Package resend provides a thin Resend JSON API client that only
// supports what the billing automation needs: sending one email with
// inline attachments.
package resend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

const defaultBaseURL = "https://api.resend.com"

var (
	ErrInvalidAPIKey = errors.New("The provided Resend API key is invalid.")
)

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    http.DefaultClient,
	}
}

// WithBaseURL points the client at a different API host. Useful for testing.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Attachment is a file sent inline with an email. Content is base64.
type Attachment struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// NewAttachmentFromFile reads a local file into an attachment carrying
// the given filename.
func NewAttachmentFromFile(path, filename string) (Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to read attachment %s: %w", path, err)
	}
	return Attachment{
		Content:  base64.StdEncoding.EncodeToString(data),
		Filename: filename,
	}, nil
}

type SendEmailRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type SendEmailResponse struct {
	ID string `json:"id"`
}

// SendEmail calls POST https://api.resend.com/emails
func (c *Client) SendEmail(ctx context.Context, sendReq SendEmailRequest) (*SendEmailResponse, error) {
	payload, err := json.Marshal(sendReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidAPIKey
	}
	if resp.StatusCode > 299 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("email request failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("email request failed: %s", string(body))
	}

	var sendResp SendEmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return nil, fmt.Errorf("failed to decode email response: %w", err)
	}
	return &sendResp, nil
}
