package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/serroba/duckbin/internal/snippet"
)

const defaultTimeout = 30 * time.Second

// Client talks to a duckbin server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL. A nil httpClient gets a
// client with a 30 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Result is a snippet together with its share URL.
type Result struct {
	Snippet *snippet.Snippet
	URL     string
	Message string
}

type snippetWire struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	Language  string    `json:"language"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w snippetWire) toSnippet() *snippet.Snippet {
	return &snippet.Snippet{
		Slug:      snippet.Slug(w.Slug),
		Title:     w.Title,
		Code:      w.Code,
		Language:  w.Language,
		Theme:     w.Theme,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type envelopeWire struct {
	Message string      `json:"message"`
	Snippet snippetWire `json:"snippet"`
	URL     string      `json:"url"`
}

type inputWire struct {
	Title    string `json:"title,omitempty"`
	Code     string `json:"code,omitempty"`
	Language string `json:"language,omitempty"`
	Theme    string `json:"theme,omitempty"`
}

type patchWire struct {
	Title    *string `json:"title,omitempty"`
	Code     *string `json:"code,omitempty"`
	Language *string `json:"language,omitempty"`
	Theme    *string `json:"theme,omitempty"`
}

type pageWire struct {
	Items      []snippetWire `json:"items"`
	Pagination struct {
		Page       int  `json:"page"`
		Limit      int  `json:"limit"`
		Total      int  `json:"total"`
		TotalPages int  `json:"totalPages"`
		HasNext    bool `json:"hasNext"`
		HasPrev    bool `json:"hasPrev"`
	} `json:"pagination"`
}

func (c *Client) Create(ctx context.Context, in snippet.Input) (*Result, error) {
	body := inputWire{Title: in.Title, Code: in.Code, Language: in.Language, Theme: in.Theme}

	return c.envelope(ctx, http.MethodPost, "/snippets", body)
}

func (c *Client) Get(ctx context.Context, slug snippet.Slug) (*Result, error) {
	return c.envelope(ctx, http.MethodGet, "/snippets/"+url.PathEscape(string(slug)), nil)
}

func (c *Client) Update(ctx context.Context, slug snippet.Slug, patch snippet.Patch) (*Result, error) {
	body := patchWire{Title: patch.Title, Code: patch.Code, Language: patch.Language, Theme: patch.Theme}

	return c.envelope(ctx, http.MethodPut, "/snippets/"+url.PathEscape(string(slug)), body)
}

func (c *Client) Delete(ctx context.Context, slug snippet.Slug) error {
	return c.do(ctx, http.MethodDelete, "/snippets/"+url.PathEscape(string(slug)), nil, nil)
}

func (c *Client) List(ctx context.Context, filter snippet.Filter, page snippet.PageRequest) (*snippet.Page, error) {
	q := url.Values{}
	if page.Page > 0 {
		q.Set("page", strconv.Itoa(page.Page))
	}

	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}

	if filter.Language != "" {
		q.Set("language", filter.Language)
	}

	if filter.Search != "" {
		q.Set("search", filter.Search)
	}

	path := "/snippets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var wire pageWire
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	items := make([]snippet.Snippet, 0, len(wire.Items))
	for _, w := range wire.Items {
		items = append(items, *w.toSnippet())
	}

	p := wire.Pagination

	return &snippet.Page{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}, nil
}

// SaveDraft creates the draft's snippet on first save and afterwards sends
// only the changed fields. On success the draft adopts the server copy.
// A saved draft without changes is not sent.
func (c *Client) SaveDraft(ctx context.Context, d *snippet.Draft) (*Result, error) {
	var (
		res *Result
		err error
	)

	switch {
	case d.Saved == nil:
		res, err = c.Create(ctx, d.Input())
	case !d.HasChanges():
		return &Result{Snippet: d.Saved, URL: c.ShareURL(d.Slug())}, nil
	default:
		res, err = c.Update(ctx, d.Slug(), d.Patch())
	}

	if err != nil {
		return nil, err
	}

	d.MarkSaved(res.Snippet)

	return res, nil
}

// ShareURL is the URL the server hands out for slug.
func (c *Client) ShareURL(slug snippet.Slug) string {
	return fmt.Sprintf("%s/%s", c.baseURL, slug)
}

func (c *Client) envelope(ctx context.Context, method, path string, body any) (*Result, error) {
	var wire envelopeWire
	if err := c.do(ctx, method, path, body, &wire); err != nil {
		return nil, err
	}

	return &Result{Snippet: wire.Snippet.toSnippet(), URL: wire.URL, Message: wire.Message}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Title == "" {
		apiErr.Title = http.StatusText(resp.StatusCode)
		apiErr.Detail = strings.TrimSpace(string(data))
	}

	apiErr.Status = resp.StatusCode

	return apiErr
}
