package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gitscope/gitscope/pkg/forge"
	"github.com/google/go-github/v57/github"
)

func TestPagerPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/acme/widgets/commits?page=2>; rel="next"`, r.Host))
			fmt.Fprint(w, `[{"sha":"c2"},{"sha":"c1"}]`)
		case "2":
			fmt.Fprint(w, `[{"sha":"c0"}]`)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	gh.BaseURL = base

	client := &Client{client: gh}
	pager := client.Commits(context.TODO(), "acme/widgets")

	var shas []string
	pages := 0
	for pager.Next() {
		pages++
		for _, s := range pager.Page() {
			shas = append(shas, s.SHA)
		}
	}
	if err := pager.Err(); err != nil {
		t.Fatal(err)
	}

	if pages != 2 {
		t.Errorf("pager fetched %d pages, want 2", pages)
	}
	want := []string{"c2", "c1", "c0"}
	if len(shas) != len(want) {
		t.Fatalf("pager => %v, want %v", shas, want)
	}
	for i := range want {
		if shas[i] != want[i] {
			t.Errorf("pager[%d] => %q, want %q", i, shas[i], want[i])
		}
	}
}

func TestSplitRepo(t *testing.T) {
	owner, name, err := splitRepo("acme/widgets")
	if err != nil {
		t.Fatal(err)
	}
	if owner != "acme" || name != "widgets" {
		t.Errorf("splitRepo() => (%q, %q), want (acme, widgets)", owner, name)
	}

	for _, bad := range []string{"", "acme", "acme/", "/widgets", "a/b/c"} {
		if _, _, err := splitRepo(bad); err == nil {
			t.Errorf("splitRepo(%q) => nil, want error", bad)
		}
	}
}

func TestConvertCommit(t *testing.T) {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rc := &github.RepositoryCommit{
		SHA: github.String("c1"),
		Commit: &github.Commit{
			Message: github.String("fix the thing"),
			Author: &github.CommitAuthor{
				Name: github.String("Ada Lovelace"),
				Date: &github.Timestamp{Time: date},
			},
			Committer: &github.CommitAuthor{
				Name: github.String("Grace Hopper"),
				Date: &github.Timestamp{Time: date.Add(time.Hour)},
			},
		},
		Author: &github.User{
			ID:        github.Int64(42),
			Login:     github.String("ada"),
			AvatarURL: github.String("https://example.com/a.png"),
		},
		Stats: &github.CommitStats{
			Additions: github.Int(3),
			Deletions: github.Int(1),
			Total:     github.Int(4),
		},
		Files: []*github.CommitFile{
			{
				Filename:  github.String("main.go"),
				Status:    github.String("modified"),
				Additions: github.Int(3),
				Deletions: github.Int(1),
				Changes:   github.Int(4),
			},
		},
	}

	detail, err := convertCommit(rc)
	if err != nil {
		t.Fatal(err)
	}
	if detail.SHA != "c1" || detail.Message != "fix the thing" {
		t.Errorf("convertCommit() => %+v", detail)
	}
	if detail.Author == nil || detail.Author.RemoteID != 42 || detail.Author.Login != "ada" {
		t.Errorf("convertCommit() author => %+v, want remote id 42", detail.Author)
	}
	if detail.Committer != nil {
		t.Errorf("convertCommit() committer => %+v, want nil (no linked account)", detail.Committer)
	}
	if detail.AuthorName != "Ada Lovelace" || !detail.AuthorDate.Equal(date) {
		t.Errorf("convertCommit() raw author => %q %v", detail.AuthorName, detail.AuthorDate)
	}
	if detail.Stats.Total != 4 {
		t.Errorf("convertCommit() stats => %+v, want total 4", detail.Stats)
	}
	if len(detail.Files) != 1 || detail.Files[0].Status != "modified" {
		t.Errorf("convertCommit() files => %+v", detail.Files)
	}
}

func TestConvertCommitMissingCommitter(t *testing.T) {
	rc := &github.RepositoryCommit{
		SHA: github.String("c1"),
		Commit: &github.Commit{
			Author: &github.CommitAuthor{Name: github.String("Ada")},
		},
	}
	_, err := convertCommit(rc)
	if !errors.Is(err, forge.ErrMalformedPayload) {
		t.Errorf("convertCommit() => %v, want %v", err, forge.ErrMalformedPayload)
	}
}

func TestConvertCommitPartialIdentity(t *testing.T) {
	rc := &github.RepositoryCommit{
		SHA: github.String("c1"),
		Commit: &github.Commit{
			Author:    &github.CommitAuthor{Name: github.String("Ada")},
			Committer: &github.CommitAuthor{Name: github.String("Ada")},
		},
		Author: &github.User{
			ID: github.Int64(42), // no login, no avatar
		},
	}
	_, err := convertCommit(rc)
	if !errors.Is(err, forge.ErrMalformedPayload) {
		t.Errorf("convertCommit() => %v, want %v", err, forge.ErrMalformedPayload)
	}
}
