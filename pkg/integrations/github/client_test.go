package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/nix-template/pkg/cache"
	"github.com/matzehuels/nix-template/pkg/integrations"
)

func TestClient_Repo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/repos/jonringer/nix-template":
			w.Write([]byte(`{
				"name": "nix-template",
				"full_name": "jonringer/nix-template",
				"description": "Make creating nix expressions easy",
				"homepage": "",
				"license": {"key": "cc0-1.0", "name": "Creative Commons Zero v1.0 Universal", "spdx_id": "CC0-1.0"},
				"owner": {"login": "jonringer"}
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(t, server, "")

	repo, err := c.Repo(context.Background(), "jonringer", "nix-template", true)
	if err != nil {
		t.Fatalf("Repo failed: %v", err)
	}

	if repo.LicenseKey() != "cc0-1.0" {
		t.Errorf("expected license key cc0-1.0, got %q", repo.LicenseKey())
	}
	if repo.Description == nil || *repo.Description != "Make creating nix expressions easy" {
		t.Errorf("unexpected description: %v", repo.Description)
	}
	if repo.Owner.Login != "jonringer" {
		t.Errorf("expected owner jonringer, got %q", repo.Owner.Login)
	}
}

func TestClient_RepoNullFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "bare", "description": null, "license": null}`))
	}))
	defer server.Close()

	c := testClient(t, server, "")

	repo, err := c.Repo(context.Background(), "someone", "bare", true)
	if err != nil {
		t.Fatalf("Repo failed: %v", err)
	}
	if repo.Description != nil {
		t.Errorf("expected nil description, got %q", *repo.Description)
	}
	if repo.LicenseKey() != "" {
		t.Errorf("expected empty license key, got %q", repo.LicenseKey())
	}
}

func TestClient_RepoNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := testClient(t, server, "")

	_, err := c.Repo(context.Background(), "nobody", "nothing", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_RejectsInvalidRef(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	c := testClient(t, server, "")

	if _, err := c.Repo(context.Background(), "-nixos", "nix", true); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("Repo() error = %v, want ErrInvalidRef", err)
	}
	if _, err := c.Releases(context.Background(), "nixos", "..", true); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("Releases() error = %v, want ErrInvalidRef", err)
	}
	if hits != 0 {
		t.Errorf("server hit %d times, want 0", hits)
	}
}

func TestValidateRepoRef(t *testing.T) {
	tests := []struct {
		owner, repo string
		valid       bool
	}{
		{"jonringer", "nix-template", true},
		{"NixOS", "nixpkgs", true},
		{"psf", "requests.py_v2", true},
		{"", "nix", false},
		{"-nixos", "nix", false},
		{"a_b", "nix", false},
		{"nixos", "", false},
		{"nixos", ".", false},
		{"nixos", "has space", false},
	}

	for _, tt := range tests {
		t.Run(tt.owner+"/"+tt.repo, func(t *testing.T) {
			err := ValidateRepoRef(tt.owner, tt.repo)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateRepoRef(%q, %q) = %v, want valid=%v", tt.owner, tt.repo, err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidRef) {
				t.Errorf("error %v does not wrap ErrInvalidRef", err)
			}
		})
	}
}

func TestClient_Releases(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/repos/owner/repo/releases" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]Release{
			{TagName: "v1.2.0"},
			{TagName: "v1.3.0-rc1", Prerelease: true},
			{TagName: "v2.0.0", Draft: true},
		})
	}))
	defer server.Close()

	c := testClient(t, server, "secret")

	releases, err := c.Releases(context.Background(), "owner", "repo", true)
	if err != nil {
		t.Fatalf("Releases failed: %v", err)
	}
	if len(releases) != 3 {
		t.Fatalf("expected 3 releases, got %d", len(releases))
	}
	if !releases[1].Prerelease || !releases[2].Draft {
		t.Error("prerelease and draft flags should be decoded")
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if gotQuery != "per_page=100" {
		t.Errorf("expected per_page=100, got %q", gotQuery)
	}
}

func TestClient_ReleasesCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"tag_name": "0.4.1"}]`))
	}))
	defer server.Close()

	c := testClient(t, server, "")

	for range 2 {
		releases, err := c.Releases(context.Background(), "owner", "repo", false)
		if err != nil {
			t.Fatalf("Releases failed: %v", err)
		}
		if len(releases) != 1 || releases[0].TagName != "0.4.1" {
			t.Fatalf("unexpected releases: %+v", releases)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 API call, got %d", calls)
	}
}

func TestArchiveURL(t *testing.T) {
	got := ArchiveURL("jonringer", "nix-template", "v0.4.1")
	want := "https://github.com/jonringer/nix-template/archive/refs/tags/v0.4.1.tar.gz"
	if got != want {
		t.Errorf("ArchiveURL = %q, want %q", got, want)
	}
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		urls      map[string]string
		home      string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{
			urls:      map[string]string{"Source": "https://github.com/foo/bar"},
			wantOwner: "foo",
			wantRepo:  "bar",
			wantOK:    true,
		},
		{
			urls:      nil,
			home:      "http://github.com/baz/qux",
			wantOwner: "baz",
			wantRepo:  "qux",
			wantOK:    true,
		},
		{
			urls:      map[string]string{"Repository": "https://github.com/psf/requests.git"},
			wantOwner: "psf",
			wantRepo:  "requests",
			wantOK:    true,
		},
		{
			urls:   map[string]string{"Homepage": "https://google.com"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		owner, repo, ok := ExtractURL(tt.urls, tt.home)
		if ok != tt.wantOK {
			t.Errorf("got ok=%v, want %v", ok, tt.wantOK)
		}
		if ok {
			if owner != tt.wantOwner {
				t.Errorf("got owner %s, want %s", owner, tt.wantOwner)
			}
			if repo != tt.wantRepo {
				t.Errorf("got repo %s, want %s", repo, tt.wantRepo)
			}
		}
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(nil, "test-token", time.Hour)
	if c.Client == nil {
		t.Error("expected client to be initialized")
	}
	if c.baseURL != defaultBaseURL {
		t.Errorf("expected base URL %s, got %s", defaultBaseURL, c.baseURL)
	}
}

func testClient(t *testing.T, server *httptest.Server, token string) *Client {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(fc, token, time.Hour).WithBaseURL(server.URL)
	c.SetHTTPClient(server.Client())
	return c
}
