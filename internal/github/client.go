// Package github is the gateway to the GitHub API: pull request metadata,
// changed file contents, repository context documents, and open PR listings.
// Host-specific errors are normalized into the application taxonomy here and
// passed through unchanged by everything downstream.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/openguard/openguard/internal/core"
)

// Client defines the gateway operations the review pipeline depends on.
type Client interface {
	GetPullRequestInfo(ctx context.Context, owner, repo string, number int) (*core.PullRequestInfo, error)
	GetPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]core.SourceFile, error)
	GetRepoContext(ctx context.Context, owner, repo string) (*core.RepoContext, error)
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]core.PullRequestSummary, error)
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewClient wraps the official go-github client. An empty token yields an
// unauthenticated client limited to 60 requests per hour.
func NewClient(ctx context.Context, token string, logger *slog.Logger) Client {
	if token == "" {
		logger.Warn("GITHUB_TOKEN not configured, unauthenticated rate limit applies (60 req/h)")
		return &gitHubClient{client: github.NewClient(nil), logger: logger}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &gitHubClient{client: github.NewClient(tc), logger: logger}
}

// GetPullRequestInfo retrieves the identifying metadata of a pull request.
func (g *gitHubClient) GetPullRequestInfo(ctx context.Context, owner, repo string, number int) (*core.PullRequestInfo, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, wrapAPIError(err, fmt.Sprintf("PR #%d in %s/%s", number, owner, repo))
	}

	return &core.PullRequestInfo{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Author: loginOrUnknown(pr.GetUser()),
		Repo:   fmt.Sprintf("%s/%s", owner, repo),
	}, nil
}

// GetPullRequestFiles retrieves the changed files of a pull request with
// their full content at the PR head ref. Removed files are excluded. A file
// whose content cannot be read degrades to a placeholder string instead of
// failing the whole fetch; pagination is handled so file sets larger than one
// API page are complete.
func (g *gitHubClient) GetPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]core.SourceFile, error) {
	var changed []*github.CommitFile
	opts := &github.ListOptions{PerPage: 100}

	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list files for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, wrapAPIError(err, fmt.Sprintf("PR #%d in %s/%s", number, owner, repo))
		}
		changed = append(changed, files...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	headRef := fmt.Sprintf("refs/pull/%d/head", number)
	result := make([]core.SourceFile, 0, len(changed))
	for _, file := range changed {
		if file.GetStatus() == "removed" {
			continue
		}
		result = append(result, core.SourceFile{
			Filename: file.GetFilename(),
			Content:  g.fetchFileContent(ctx, owner, repo, file.GetFilename(), headRef),
			Patch:    file.GetPatch(),
		})
	}
	return result, nil
}

// fetchFileContent reads one file at the given ref, degrading to a
// placeholder on any failure.
func (g *gitHubClient) fetchFileContent(ctx context.Context, owner, repo, path, ref string) string {
	fileContent, _, _, err := g.client.Repositories.GetContents(ctx, owner, repo, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil || fileContent == nil {
		g.logger.Warn("unreadable file in pull request", "path", path, "ref", ref, "error", err)
		return fmt.Sprintf("# Unreadable file (%s)\n%v", path, err)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		g.logger.Warn("failed to decode file content", "path", path, "error", err)
		return fmt.Sprintf("# Unreadable file (%s)\n%v", path, err)
	}
	return content
}

// GetRepoContext fetches the README and CONTRIBUTING.md of a repository.
// Both are best-effort: a missing or unreadable document yields an empty
// string, never an error.
func (g *gitHubClient) GetRepoContext(ctx context.Context, owner, repo string) (*core.RepoContext, error) {
	rc := &core.RepoContext{}

	readme, _, err := g.client.Repositories.GetReadme(ctx, owner, repo, nil)
	if err == nil && readme != nil {
		if content, err := readme.GetContent(); err == nil {
			rc.Readme = content
		}
	}

	contributing, _, _, err := g.client.Repositories.GetContents(ctx, owner, repo, "CONTRIBUTING.md", nil)
	if err == nil && contributing != nil {
		if content, err := contributing.GetContent(); err == nil {
			rc.Contributing = content
		}
	}

	return rc, nil
}

// ListOpenPullRequests lists the open pull requests of a repository, newest
// first.
func (g *gitHubClient) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]core.PullRequestSummary, error) {
	prs, _, err := g.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State:     "open",
		Sort:      "created",
		Direction: "desc",
	})
	if err != nil {
		g.logger.Error("failed to list open pull requests", "owner", owner, "repo", repo, "error", err)
		return nil, wrapAPIError(err, fmt.Sprintf("PR list for %s/%s", owner, repo))
	}

	result := make([]core.PullRequestSummary, 0, len(prs))
	for _, pr := range prs {
		result = append(result, core.PullRequestSummary{
			Number:    pr.GetNumber(),
			Title:     pr.GetTitle(),
			Author:    loginOrUnknown(pr.GetUser()),
			CreatedAt: pr.GetCreatedAt().Format(time.RFC3339),
		})
	}
	return result, nil
}

func loginOrUnknown(user *github.User) string {
	if login := user.GetLogin(); login != "" {
		return login
	}
	return "unknown"
}
