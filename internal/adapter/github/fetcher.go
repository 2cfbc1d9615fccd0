// Package github fetches repository file-tree snapshots from the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/domain/repo"
	"github.com/Strob0t/repodoc/internal/resilience"
)

const serviceName = "github"

// Config holds the GitHub connection settings.
type Config struct {
	// APIURL overrides the REST endpoint (GitHub Enterprise or tests).
	APIURL  string
	Token   string
	Timeout time.Duration
}

// Fetcher implements snapshot.Fetcher on top of go-github.
type Fetcher struct {
	client  *gh.Client
	timeout time.Duration
	breaker *resilience.Breaker
	retry   resilience.RetryPolicy
}

// NewFetcher creates a GitHub snapshot fetcher. An empty token performs
// unauthenticated requests (public repositories, low rate limit).
func NewFetcher(cfg Config) (*Fetcher, error) {
	client := gh.NewClient(&http.Client{})
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.APIURL != "" {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse github api url: %w", err)
		}
		client.BaseURL = u
	}

	return &Fetcher{
		client:  client,
		timeout: cfg.Timeout,
		retry:   resilience.RetryPolicy{MaxAttempts: 1},
	}, nil
}

// SetBreaker attaches a circuit breaker to all outgoing API calls.
func (f *Fetcher) SetBreaker(b *resilience.Breaker) {
	f.breaker = b
}

// SetRetryPolicy configures retries of transient API failures.
func (f *Fetcher) SetRetryPolicy(p resilience.RetryPolicy) {
	f.retry = p
}

// Fetch resolves the default branch, its head commit and the recursive tree.
// Only blob entries are kept, in API order.
func (f *Fetcher) Fetch(ctx context.Context, ref repo.Ref) (*repo.Snapshot, error) {
	repository, err := call(ctx, f, func(ctx context.Context) (*gh.Repository, *gh.Response, error) {
		return f.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	})
	if err != nil {
		return nil, fmt.Errorf("get repository %s: %w", ref.FullName(), err)
	}
	branch := repository.GetDefaultBranch()

	commit, err := call(ctx, f, func(ctx context.Context) (*gh.RepositoryCommit, *gh.Response, error) {
		return f.client.Repositories.GetCommit(ctx, ref.Owner, ref.Name, branch, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("get commit %s@%s: %w", ref.FullName(), branch, err)
	}
	sha := commit.GetSHA()

	tree, err := call(ctx, f, func(ctx context.Context) (*gh.Tree, *gh.Response, error) {
		return f.client.Git.GetTree(ctx, ref.Owner, ref.Name, sha, true)
	})
	if err != nil {
		return nil, fmt.Errorf("get tree %s@%s: %w", ref.FullName(), sha, err)
	}

	files := make([]repo.FileRef, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		if e.GetType() != "blob" || e.GetPath() == "" || e.GetSHA() == "" {
			continue
		}
		files = append(files, repo.FileRef{Path: e.GetPath(), BlobID: e.GetSHA()})
	}
	if tree.GetTruncated() {
		slog.Warn("repository tree truncated by github", "repo", ref.FullName(), "commit", sha, "files", len(files))
	}

	return &repo.Snapshot{
		Owner:         ref.Owner,
		Name:          ref.Name,
		DefaultBranch: branch,
		CommitHash:    sha,
		Files:         files,
		Truncated:     tree.GetTruncated(),
	}, nil
}

// call runs one API request under the retry policy and circuit breaker and
// converts failures into domain errors. Each attempt gets its own timeout.
func call[T any](ctx context.Context, f *Fetcher, fn func(context.Context) (*T, *gh.Response, error)) (*T, error) {
	return resilience.Retry(ctx, f.retry, domain.IsRetryable, func(ctx context.Context) (*T, error) {
		var out *T
		attempt := func() error {
			attemptCtx := ctx
			if f.timeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, f.timeout)
				defer cancel()
			}
			v, resp, err := fn(attemptCtx)
			if err != nil {
				return mapError(ctx, resp, err)
			}
			out = v
			return nil
		}
		var err error
		if f.breaker != nil {
			err = f.breaker.Execute(attempt)
		} else {
			err = attempt()
		}
		return out, err
	})
}

// mapError converts a go-github failure. ctx is the caller's context: when
// it is done its error wins, otherwise an expired attempt becomes a
// retryable transport failure.
func mapError(ctx context.Context, resp *gh.Response, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	ue := &domain.UpstreamError{Service: serviceName, Err: err}
	if resp != nil && resp.Response != nil {
		ue.StatusCode = resp.StatusCode
	}

	var er *gh.ErrorResponse
	if errors.As(err, &er) {
		ue.Body = er.Message
		if ue.StatusCode == 0 && er.Response != nil {
			ue.StatusCode = er.Response.StatusCode
		}
	}
	return ue
}
