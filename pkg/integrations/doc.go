// Package integrations provides HTTP clients for the package registry APIs
// that metadata enrichment queries.
//
// # Overview
//
// Each registry has its own subpackage:
//
//   - [pypi]: Python Package Index JSON API
//   - [github]: GitHub REST API (releases, repository metadata)
//
// # Client Pattern
//
// Registry clients embed the shared [Client] and follow a consistent pattern:
//
//	client := pypi.NewClient(c, 24*time.Hour)                   // cache, TTL
//	project, err := client.FetchProject(ctx, "requests", false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with retry and exponential backoff
//   - Response caching through [cache.Cache] (file, Redis or none)
//   - API-specific decoding and normalization
//
// # Errors
//
// Failures are reported through sentinel errors so callers can map them to
// their own error codes: [ErrNotFound] for 404s, [ErrNetwork] for transport
// failures and non-OK statuses, and [ErrDecode] for responses that are not
// the expected JSON.
//
// [pypi]: github.com/matzehuels/nix-template/pkg/integrations/pypi
// [github]: github.com/matzehuels/nix-template/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/nix-template/pkg/cache.Cache
package integrations
