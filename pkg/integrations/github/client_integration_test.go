//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRepo_Integration(t *testing.T) {
	client := NewClient(nil, os.Getenv("GITHUB_TOKEN"), time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		owner   string
		repo    string
		wantErr bool
	}{
		{"jonringer/nix-template", "jonringer", "nix-template", false},
		{"nonexistent", "nonexistent-owner-12345", "nonexistent-repo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := client.Repo(ctx, tt.owner, tt.repo, true)
			if (err != nil) != tt.wantErr {
				t.Errorf("Repo(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
				return
			}
			if !tt.wantErr && repo.LicenseKey() == "" {
				t.Error("expected a detected license")
			}
		})
	}
}

func TestReleases_Integration(t *testing.T) {
	client := NewClient(nil, os.Getenv("GITHUB_TOKEN"), time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	releases, err := client.Releases(ctx, "jonringer", "nix-template", true)
	if err != nil {
		t.Fatalf("Releases() error: %v", err)
	}
	if len(releases) == 0 {
		t.Error("expected at least one release")
	}
}
