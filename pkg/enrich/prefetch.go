package enrich

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Prefetcher computes the sha256 of an unpacked source archive.
type Prefetcher interface {
	Prefetch(ctx context.Context, url string) (string, error)
}

// NixPrefetcher shells out to nix-prefetch-url.
type NixPrefetcher struct {
	Command string        // defaults to "nix-prefetch-url"
	Timeout time.Duration // defaults to 5 minutes
}

// Prefetch runs `nix-prefetch-url --unpack --type sha256 <url>` and returns
// the hash it prints.
func (p NixPrefetcher) Prefetch(ctx context.Context, url string) (string, error) {
	command := p.Command
	if command == "" {
		command = "nix-prefetch-url"
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, command, "--unpack", "--type", "sha256", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%s timed out after %v", command, timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", command, err, lastLine(msg))
		}
		return "", fmt.Errorf("%s: %w", command, err)
	}

	hash := lastLine(stdout.String())
	if hash == "" {
		return "", fmt.Errorf("%s printed no hash", command)
	}
	return hash, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
