// Package gitlab provides the GitLab forge client.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gitscope/gitscope/pkg/forge"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Client is a forge client backed by the GitLab REST API.
//
// GitLab commit payloads carry no account identity blocks, so the returned
// commit details never link a forge account; the raw author and committer
// names and dates are reported as usual.
type Client struct {
	client *gitlab.Client
}

var _ forge.Client = (*Client)(nil)

// New returns a new GitLab client. A non-empty baseURL points the client at a
// self-managed GitLab instance.
func New(baseURL string, token string) (*Client, error) {
	opts := []gitlab.ClientOptionFunc{}
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("gitlab client: %w", err)
	}

	return &Client{client: client}, nil
}

// Commits implements forge.Client.
func (c *Client) Commits(ctx context.Context, repo string) forge.Pager {
	return &pager{
		ctx:  ctx,
		c:    c.client,
		repo: repo,
		opts: gitlab.ListCommitsOptions{
			ListOptions: gitlab.ListOptions{PerPage: forge.PageSize, Page: 1},
		},
	}
}

// Commit implements forge.Client.
func (c *Client) Commit(ctx context.Context, repo string, sha string) (*forge.CommitDetail, error) {
	commit, _, err := c.client.Commits.GetCommit(repo, sha, &gitlab.GetCommitOptions{
		Stats: gitlab.Ptr(true),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapError(err)
	}

	files, err := c.commitFiles(ctx, repo, sha)
	if err != nil {
		return nil, err
	}

	return convertCommit(commit, files)
}

// commitFiles derives per-file change counters from the commit's diff, since
// the GitLab commit payload only carries repository-wide stats.
func (c *Client) commitFiles(ctx context.Context, repo string, sha string) ([]forge.FileChange, error) {
	var files []forge.FileChange
	opts := gitlab.GetCommitDiffOptions{ListOptions: gitlab.ListOptions{PerPage: forge.PageSize, Page: 1}}
	for {
		diffs, resp, err := c.client.Commits.GetCommitDiff(repo, sha, &opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, wrapError(err)
		}

		for _, d := range diffs {
			files = append(files, convertDiff(d))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

type pager struct {
	ctx  context.Context
	c    *gitlab.Client
	repo string
	opts gitlab.ListCommitsOptions
	page []forge.CommitSummary
	err  error
	done bool
}

// Next implements forge.Pager.
func (p *pager) Next() bool {
	if p.err != nil || p.done {
		return false
	}

	commits, resp, err := p.c.Commits.ListCommits(p.repo, &p.opts, gitlab.WithContext(p.ctx))
	if err != nil {
		p.err = wrapError(err)
		return false
	}

	p.page = make([]forge.CommitSummary, 0, len(commits))
	for _, commit := range commits {
		p.page = append(p.page, forge.CommitSummary{SHA: commit.ID})
	}

	if resp.NextPage == 0 {
		p.done = true
	} else {
		p.opts.Page = resp.NextPage
	}

	return true
}

// Page implements forge.Pager.
func (p *pager) Page() []forge.CommitSummary {
	return p.page
}

// Err implements forge.Pager.
func (p *pager) Err() error {
	return p.err
}

func convertCommit(commit *gitlab.Commit, files []forge.FileChange) (*forge.CommitDetail, error) {
	if commit.AuthoredDate == nil || commit.CommittedDate == nil {
		return nil, fmt.Errorf("%w: commit %s is missing author or committer dates", forge.ErrMalformedPayload, commit.ID)
	}

	detail := &forge.CommitDetail{
		SHA:           commit.ID,
		AuthorName:    commit.AuthorName,
		AuthorDate:    *commit.AuthoredDate,
		CommitterName: commit.CommitterName,
		CommitterDate: *commit.CommittedDate,
		Message:       commit.Message,
		Files:         files,
	}

	if commit.Stats != nil {
		detail.Stats = forge.CommitStats{
			Additions: int64(commit.Stats.Additions),
			Deletions: int64(commit.Stats.Deletions),
			Total:     int64(commit.Stats.Total),
		}
	} else {
		for _, f := range files {
			detail.Stats.Additions += f.Additions
			detail.Stats.Deletions += f.Deletions
			detail.Stats.Total += f.Changes
		}
	}

	return detail, nil
}

func convertDiff(d *gitlab.Diff) forge.FileChange {
	f := forge.FileChange{
		Filename: d.NewPath,
		Status:   "modified",
	}
	switch {
	case d.NewFile:
		f.Status = "added"
	case d.DeletedFile:
		f.Status = "removed"
		f.Filename = d.OldPath
	case d.RenamedFile:
		f.Status = "renamed"
	}

	f.Additions, f.Deletions = countDiffLines(d.Diff)
	f.Changes = f.Additions + f.Deletions

	return f
}

// countDiffLines counts added and deleted lines in a unified diff hunk,
// skipping the "+++"/"---" file headers.
func countDiffLines(diff string) (int64, int64) {
	var additions, deletions int64
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}

	return additions, deletions
}

func wrapError(err error) error {
	var respErr *gitlab.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", forge.ErrNotFound, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", forge.ErrRateLimited, err)
		}
	}

	return err
}
