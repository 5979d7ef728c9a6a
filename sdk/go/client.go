// Package arbeitskorbsdk is a minimal HTTP client for the Arbeitskorb API.
package arbeitskorbsdk

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
)

// Client talks to one Arbeitskorb deployment.
type Client struct {
	BaseURL    string
	BasePath   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/api",
		Timeout:  10 * time.Second,
	}
}

// WorkItem mirrors the API work-item model.
type WorkItem struct {
	ID           string    `json:"id"`
	ObjectType   string    `json:"objectType"`
	ObjectID     string    `json:"objectId"`
	ObjectLabel  string    `json:"objectLabel"`
	CustomerName string    `json:"customerName"`
	ContractNo   string    `json:"contractNo"`
	ClaimNo      string    `json:"claimNo,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     int       `json:"priority"`
	ReceivedAt   time.Time `json:"receivedAt"`
	DueAt        time.Time `json:"dueAt"`
	AssignedTo   string    `json:"assignedTo"`
	Team         string    `json:"team"`
}

// Document mirrors the API document model.
type Document struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	MimeType      string    `json:"mimeType"`
	SizeInBytes   int64     `json:"sizeInBytes"`
	IndexKeywords []string  `json:"indexKeywords"`
	UploadedAt    time.Time `json:"uploadedAt"`
	UploadedBy    string    `json:"uploadedBy"`
}

// ProtocolEntry mirrors the API protocol model.
type ProtocolEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
}

// WorkItemsPage is one search result page.
type WorkItemsPage struct {
	Items []WorkItem `json:"items"`
	Total int        `json:"total"`
}

// ContextView is the aggregated read model of one business object.
type ContextView struct {
	ObjectType      string          `json:"objectType"`
	ObjectID        string          `json:"objectId"`
	Title           string          `json:"title"`
	Subtitle        string          `json:"subtitle"`
	Tasks           []WorkItem      `json:"tasks"`
	Documents       []Document      `json:"documents"`
	ProtocolEntries []ProtocolEntry `json:"protocolEntries"`
}

// SearchOptions mirrors the search query parameters; zero values are
// omitted and the server applies its defaults (basket MY, size 10,
// sort receivedAt,desc).
type SearchOptions struct {
	Page       int
	Size       int
	Sort       string
	Query      string
	Status     string
	Basket     string
	Colleague  string
	ObjectType string
	ObjectID   string
}

// ActionRequest is the action command body.
type ActionRequest struct {
	Action     string     `json:"action"`
	Comment    string     `json:"comment,omitempty"`
	Assignee   string     `json:"assignee,omitempty"`
	FollowUpAt *time.Time `json:"followUpAt,omitempty"`
}

// UploadRequest is the document upload body.
type UploadRequest struct {
	FileName      string   `json:"fileName"`
	MimeType      string   `json:"mimeType,omitempty"`
	SizeInBytes   int64    `json:"sizeInBytes,omitempty"`
	IndexKeywords []string `json:"indexKeywords,omitempty"`
	UploadedBy    string   `json:"uploadedBy,omitempty"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// SearchWorkItems runs a paged inbox search.
func (c *Client) SearchWorkItems(ctx context.Context, opts SearchOptions) (WorkItemsPage, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", fmt.Sprint(opts.Page))
	}
	if opts.Size > 0 {
		q.Set("size", fmt.Sprint(opts.Size))
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Basket != "" {
		q.Set("basket", opts.Basket)
	}
	if opts.Colleague != "" {
		q.Set("colleague", opts.Colleague)
	}
	if opts.ObjectType != "" {
		q.Set("objectType", opts.ObjectType)
	}
	if opts.ObjectID != "" {
		q.Set("objectId", opts.ObjectID)
	}
	endpoint := "work-items"
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	var resp WorkItemsPage
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// GetWorkItem fetches one work item by id.
func (c *Client) GetWorkItem(ctx context.Context, id string) (WorkItem, error) {
	var resp WorkItem
	err := c.do(ctx, http.MethodGet, "work-items/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

// PerformAction applies a state-transition action to a work item.
func (c *Client) PerformAction(ctx context.Context, id string, req ActionRequest) (WorkItem, error) {
	var resp WorkItem
	endpoint := fmt.Sprintf("work-items/%s/actions", url.PathEscape(id))
	err := c.do(ctx, http.MethodPost, endpoint, req, &resp)
	return resp, err
}

// GetContextView fetches the aggregated view of one business object.
func (c *Client) GetContextView(ctx context.Context, objectType, objectID string) (ContextView, error) {
	var resp ContextView
	q := url.Values{}
	q.Set("objectType", objectType)
	q.Set("objectId", objectID)
	err := c.do(ctx, http.MethodGet, "work-items/context?"+q.Encode(), nil, &resp)
	return resp, err
}

// UploadDocument records document metadata for a business object.
func (c *Client) UploadDocument(ctx context.Context, objectType, objectID string, req UploadRequest) (Document, error) {
	var resp Document
	endpoint := fmt.Sprintf("work-items/context/%s/%s/documents",
		url.PathEscape(objectType), url.PathEscape(objectID))
	err := c.do(ctx, http.MethodPost, endpoint, req, &resp)
	return resp, err
}

// ResetState restores the server's seed snapshot.
func (c *Client) ResetState(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "admin/reset", nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	base := strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(c.BasePath, "/")
	url := base + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
