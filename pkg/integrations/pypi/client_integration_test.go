//go:build integration

package pypi

import (
	"context"
	"testing"
	"time"
)

func TestFetchProject_Integration(t *testing.T) {
	client := NewClient(nil, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		project string
		wantErr bool
	}{
		{"requests", "requests", false},
		{"flask", "flask", false},
		{"nonexistent", "this-package-should-not-exist-12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := client.FetchProject(ctx, tt.project, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("FetchProject(%q) error = %v, wantErr %v", tt.project, err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if len(p.Releases) == 0 {
					t.Error("expected releases")
				}
				if _, ok := Sdist(p.Releases[p.Version]); !ok {
					t.Errorf("expected an sdist for %s %s", tt.project, p.Version)
				}
			}
		})
	}
}
