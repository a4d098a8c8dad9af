// Package github provides the GitHub forge client.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gitscope/gitscope/pkg/forge"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client is a forge client backed by the GitHub REST API.
type Client struct {
	client *github.Client
}

var _ forge.Client = (*Client)(nil)

// New returns a new GitHub client. A non-empty baseURL points the client at a
// GitHub Enterprise instance.
func New(ctx context.Context, baseURL string, token string) (*Client, error) {
	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("github enterprise client: %w", err)
		}
	}

	return &Client{client: client}, nil
}

// Commits implements forge.Client.
func (c *Client) Commits(ctx context.Context, repo string) forge.Pager {
	owner, name, err := splitRepo(repo)
	return &pager{
		ctx:   ctx,
		c:     c.client,
		owner: owner,
		name:  name,
		err:   err,
		opts: github.CommitsListOptions{
			ListOptions: github.ListOptions{PerPage: forge.PageSize},
		},
	}
}

// Commit implements forge.Client.
func (c *Client) Commit(ctx context.Context, repo string, sha string) (*forge.CommitDetail, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	rc, _, err := c.client.Repositories.GetCommit(ctx, owner, name, sha, nil)
	if err != nil {
		return nil, wrapError(err)
	}

	return convertCommit(rc)
}

type pager struct {
	ctx   context.Context
	c     *github.Client
	owner string
	name  string
	opts  github.CommitsListOptions
	page  []forge.CommitSummary
	err   error
	done  bool
}

// Next implements forge.Pager.
func (p *pager) Next() bool {
	if p.err != nil || p.done {
		return false
	}

	commits, resp, err := p.c.Repositories.ListCommits(p.ctx, p.owner, p.name, &p.opts)
	if err != nil {
		p.err = wrapError(err)
		return false
	}

	p.page = make([]forge.CommitSummary, 0, len(commits))
	for _, rc := range commits {
		p.page = append(p.page, forge.CommitSummary{SHA: rc.GetSHA()})
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

func convertCommit(rc *github.RepositoryCommit) (*forge.CommitDetail, error) {
	commit := rc.GetCommit()
	if commit == nil || commit.Author == nil || commit.Committer == nil {
		return nil, fmt.Errorf("%w: commit %s is missing author or committer", forge.ErrMalformedPayload, rc.GetSHA())
	}

	detail := &forge.CommitDetail{
		SHA:           rc.GetSHA(),
		AuthorName:    commit.Author.GetName(),
		AuthorDate:    commit.Author.GetDate().Time,
		CommitterName: commit.Committer.GetName(),
		CommitterDate: commit.Committer.GetDate().Time,
		Message:       commit.GetMessage(),
		Stats: forge.CommitStats{
			Additions: int64(rc.GetStats().GetAdditions()),
			Deletions: int64(rc.GetStats().GetDeletions()),
			Total:     int64(rc.GetStats().GetTotal()),
		},
	}

	var err error
	if rc.Author != nil {
		if detail.Author, err = convertIdentity(rc.GetSHA(), rc.Author); err != nil {
			return nil, err
		}
	}
	if rc.Committer != nil {
		if detail.Committer, err = convertIdentity(rc.GetSHA(), rc.Committer); err != nil {
			return nil, err
		}
	}

	for _, f := range rc.Files {
		detail.Files = append(detail.Files, forge.FileChange{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: int64(f.GetAdditions()),
			Deletions: int64(f.GetDeletions()),
			Changes:   int64(f.GetChanges()),
		})
	}

	return detail, nil
}

func convertIdentity(sha string, u *github.User) (*forge.Identity, error) {
	if u.ID == nil || u.Login == nil || u.AvatarURL == nil {
		return nil, fmt.Errorf("%w: commit %s identity is missing id, login, or avatar", forge.ErrMalformedPayload, sha)
	}

	return &forge.Identity{
		RemoteID:  u.GetID(),
		Login:     u.GetLogin(),
		AvatarURL: u.GetAvatarURL(),
	}, nil
}

func splitRepo(repo string) (string, string, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository name %q, expected owner/name", repo)
	}

	return parts[0], parts[1], nil
}

func wrapError(err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %s", forge.ErrRateLimited, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", forge.ErrNotFound, err)
	}

	return err
}
