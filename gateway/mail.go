package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Attachment is a file sent along with a mail.
type Attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

// MailClient sends outbound mail. Callers treat sends as fire-and-forget
// and only log failures.
type MailClient interface {
	Send(ctx context.Context, recipient, subject, htmlBody string, attachments ...Attachment) error
}

// ElasticEmailClient sends mail through the ElasticEmail v4 REST API.
type ElasticEmailClient struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

func NewElasticEmailClient(apiKey, from string) *ElasticEmailClient {
	return &ElasticEmailClient{
		apiKey:     apiKey,
		from:       from,
		baseURL:    "https://api.elasticemail.com/v4",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *ElasticEmailClient) Send(ctx context.Context, recipient, subject, htmlBody string, attachments ...Attachment) error {
	type bodyPart struct {
		ContentType string `json:"ContentType"`
		Content     string `json:"Content"`
	}
	type attachmentPart struct {
		BinaryContent string `json:"BinaryContent"`
		Name          string `json:"Name"`
		ContentType   string `json:"ContentType"`
	}
	payload := map[string]interface{}{
		"Recipients": []map[string]string{{"Email": recipient}},
		"Content": map[string]interface{}{
			"Body":    []bodyPart{{ContentType: "HTML", Content: htmlBody}},
			"From":    c.from,
			"Subject": subject,
		},
	}
	if len(attachments) > 0 {
		parts := make([]attachmentPart, 0, len(attachments))
		for _, attachment := range attachments {
			parts = append(parts, attachmentPart{
				BinaryContent: base64.StdEncoding.EncodeToString(attachment.Content),
				Name:          attachment.Name,
				ContentType:   attachment.ContentType,
			})
		}
		payload["Content"].(map[string]interface{})["Attachments"] = parts
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot serialize mail payload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ElasticEmail-ApiKey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail send failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code while sending mail: %d", resp.StatusCode)
	}
	return nil
}
