package githubimport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/serroba/duckbin/internal/ratelimit"
	"github.com/serroba/duckbin/internal/snippet"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// MaxFileSize caps imported file contents.
	MaxFileSize = 1 << 20

	budgetKey = "github:contents"
)

var (
	ErrNotFound        = errors.New("repository or path not found, or repository is private")
	ErrUpstream        = errors.New("GitHub API error")
	ErrBudgetExhausted = errors.New("GitHub import budget exhausted, try again later")
	ErrNotAFile        = errors.New("path is a directory, not a file")
	ErrTooLarge        = fmt.Errorf("file exceeds %d bytes", MaxFileSize)
	ErrBinary          = errors.New("file is not valid UTF-8 text")
)

// Entry is one item of a directory listing.
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Language string `json:"language,omitempty"`
}

// Listing is a directory listing at a resolved branch.
type Listing struct {
	Repository Repository `json:"repository"`
	Entries    []Entry    `json:"entries"`
}

// File is a fetched file ready to become a snippet.
type File struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

type contentItem struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// Client reads repository contents through the GitHub contents API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	budget     ratelimit.Limiter
	logger     *zap.Logger
}

// NewClient creates a contents API client. token and budget are optional;
// a nil budget never rejects.
func NewClient(httpClient *http.Client, baseURL, token string, budget ratelimit.Limiter, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		budget:     budget,
		logger:     logger,
	}
}

// List returns the entries of the directory at repo.Path, directories first.
func (c *Client) List(ctx context.Context, repo Repository) (*Listing, error) {
	resolved, raw, err := c.contents(ctx, repo)
	if err != nil {
		return nil, err
	}

	var items []contentItem
	if isArray(raw) {
		err = json.Unmarshal(raw, &items)
	} else {
		items = make([]contentItem, 1)
		err = json.Unmarshal(raw, &items[0])
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decoding listing: %w", ErrUpstream, err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entry := Entry{Name: item.Name, Path: item.Path, Type: item.Type, Size: item.Size}
		if item.Type == "file" {
			entry.Language = snippet.LanguageForFilename(item.Name).ID
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if (entries[i].Type == "dir") != (entries[j].Type == "dir") {
			return entries[i].Type == "dir"
		}

		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return &Listing{Repository: resolved, Entries: entries}, nil
}

// Fetch downloads the file at repo.Path and detects its language.
func (c *Client) Fetch(ctx context.Context, repo Repository) (*File, error) {
	_, raw, err := c.contents(ctx, repo)
	if err != nil {
		return nil, err
	}

	if isArray(raw) {
		return nil, ErrNotAFile
	}

	var item contentItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%w: decoding file: %w", ErrUpstream, err)
	}

	if item.Type != "file" {
		return nil, ErrNotAFile
	}

	if item.Size > MaxFileSize || item.Encoding == "none" {
		return nil, ErrTooLarge
	}

	code, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(item.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding content: %w", ErrUpstream, err)
	}

	if len(code) > MaxFileSize {
		return nil, ErrTooLarge
	}

	if !utf8.Valid(code) {
		return nil, ErrBinary
	}

	return &File{
		Name:     item.Name,
		Path:     item.Path,
		Code:     string(code),
		Language: snippet.LanguageForFilename(item.Name).ID,
	}, nil
}

// contents fetches the raw contents document, retrying on master when the
// default branch does not exist and the URL named none.
func (c *Client) contents(ctx context.Context, repo Repository) (Repository, json.RawMessage, error) {
	raw, err := c.get(ctx, repo)
	if errors.Is(err, ErrNotFound) && !repo.explicitBranch && repo.Branch == defaultBranch {
		c.logger.Debug("default branch not found, retrying on master",
			zap.String("owner", repo.Owner), zap.String("repo", repo.Name))

		repo.Branch = fallbackBranch
		raw, err = c.get(ctx, repo)
	}

	return repo, raw, err
}

func (c *Client) get(ctx context.Context, repo Repository) (json.RawMessage, error) {
	if c.budget != nil {
		allowed, err := c.budget.Allow(ctx, budgetKey)
		if err != nil {
			return nil, fmt.Errorf("checking import budget: %w", err)
		}

		if !allowed {
			return nil, ErrBudgetExhausted
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(repo), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limit exceeded or access forbidden", ErrUpstream)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	// base64 inflates by 4/3; leave room for the JSON envelope.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*MaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrUpstream, err)
	}

	return body, nil
}

func (c *Client) contentsURL(repo Repository) string {
	u := c.baseURL + "/repos/" + url.PathEscape(repo.Owner) + "/" + url.PathEscape(repo.Name) + "/contents"

	if repo.Path != "" {
		segments := strings.Split(path.Clean(repo.Path), "/")
		for i, s := range segments {
			segments[i] = url.PathEscape(s)
		}

		u += "/" + strings.Join(segments, "/")
	}

	return u + "?ref=" + url.QueryEscape(repo.Branch)
}

func isArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))

	return strings.HasPrefix(trimmed, "[")
}
