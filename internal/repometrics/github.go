// Package repometrics collects repository metrics from the GitHub REST API
// for the repository signal scorer.
package repometrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/joescharf/taskreview/internal/models"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Metrics describes a repository. The JSON names are the keys the
// repository scorer reads.
type Metrics struct {
	RepoName      string   `json:"repo_name"`
	DefaultBranch string   `json:"default_branch"`
	CommitCount   int      `json:"commit_count"`
	HasReadme     bool     `json:"has_readme"`
	HasTests      bool     `json:"has_tests"`
	FileCount     int      `json:"file_count"`
	Languages     []string `json:"languages"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	IsPrivate     bool     `json:"is_private"`
	LastUpdated   string   `json:"last_updated"`
}

// Map returns the metrics as a generic mapping, shaped exactly as the
// composite parser decodes it.
func (m *Metrics) Map() (map[string]any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Fetcher retrieves metrics for a repository URL.
type Fetcher interface {
	FetchMetrics(ctx context.Context, repoURL string) (*Metrics, error)
}

// Client implements Fetcher against the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithToken authenticates requests, raising the rate limit.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a GitHub metrics client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var repoURLPattern = regexp.MustCompile(`github\.com/([\w.-]+)/([\w.-]+)`)

// ParseRepoURL extracts owner and repository name from a GitHub URL.
func ParseRepoURL(u string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(u)
	if m == nil {
		return "", "", fmt.Errorf("%w: invalid GitHub repository URL format: %q", models.ErrValidation, u)
	}
	return m[1], strings.TrimSuffix(m[2], ".git"), nil
}

var lastPagePattern = regexp.MustCompile(`page=(\d+)>; rel="last"`)

// testDirNames mark a directory as holding tests.
var testDirNames = []string{"test", "tests", "spec", "specs"}

// FetchMetrics collects metrics for repoURL. A missing or private repository
// yields an error wrapping models.ErrNotFound; quota exhaustion wraps
// models.ErrRateLimited; anything else wraps models.ErrUpstream.
func (c *Client) FetchMetrics(ctx context.Context, repoURL string) (*Metrics, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	base := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)

	// 1. Repository metadata
	status, body, _, err := c.get(ctx, base)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: repository %s/%s not found or is private", models.ErrNotFound, owner, repo)
	case status == http.StatusForbidden || status == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: GitHub API rate limit exceeded", models.ErrRateLimited)
	case status != http.StatusOK:
		return nil, fmt.Errorf("%w: GitHub returned %d for %s/%s", models.ErrUpstream, status, owner, repo)
	}

	meta := gjson.ParseBytes(body)
	m := &Metrics{
		RepoName:      meta.Get("full_name").String(),
		DefaultBranch: meta.Get("default_branch").String(),
		Stars:         int(meta.Get("stargazers_count").Int()),
		Forks:         int(meta.Get("forks_count").Int()),
		IsPrivate:     meta.Get("private").Bool(),
		LastUpdated:   meta.Get("updated_at").String(),
		Languages:     []string{},
	}
	if m.DefaultBranch == "" {
		m.DefaultBranch = "main"
	}

	// 2. Languages (best-effort)
	if status, body, _, err := c.get(ctx, base+"/languages"); err == nil && status == http.StatusOK {
		gjson.ParseBytes(body).ForEach(func(key, _ gjson.Result) bool {
			m.Languages = append(m.Languages, key.String())
			return true
		})
	}

	// 3. Commit count (best-effort)
	m.CommitCount = c.commitCount(ctx, base)

	// 4. Tree walk for files, README and test directories (best-effort)
	treeURL := fmt.Sprintf("%s/git/trees/%s?recursive=1", base, m.DefaultBranch)
	if status, body, _, err := c.get(ctx, treeURL); err == nil && status == http.StatusOK {
		gjson.GetBytes(body, "tree").ForEach(func(_, item gjson.Result) bool {
			path := strings.ToLower(item.Get("path").String())
			switch item.Get("type").String() {
			case "blob":
				m.FileCount++
				if strings.Contains(path, "readme") {
					m.HasReadme = true
				}
			case "tree":
				for _, name := range testDirNames {
					if strings.Contains(path, name) {
						m.HasTests = true
						break
					}
				}
			}
			return true
		})
	}

	c.logger.Info("analyzed repository", "repo", m.RepoName, "files", m.FileCount, "commits", m.CommitCount)
	return m, nil
}

// commitCount reads the last page number from the Link header of a
// one-commit-per-page listing. Without a Link header the listing length is used.
func (c *Client) commitCount(ctx context.Context, base string) int {
	status, body, header, err := c.get(ctx, base+"/commits?per_page=1")
	if err != nil || status != http.StatusOK {
		c.logger.Warn("could not fetch commit count", "status", status, "error", err)
		return 0
	}
	if link := header.Get("Link"); link != "" {
		if m := lastPagePattern.FindStringSubmatch(link); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n
		}
	}
	return len(gjson.ParseBytes(body).Array())
}

func (c *Client) get(ctx context.Context, url string) (int, []byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: build request: %v", models.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "taskreview")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: GitHub request: %v", models.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, resp.Header, fmt.Errorf("%w: read GitHub response: %v", models.ErrUpstream, err)
	}
	return resp.StatusCode, body, resp.Header, nil
}
