// Package feed looks up published package versions in a NuGet v3 feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-version"
	"github.com/tcnksm/go-latest"
)

var (
	// ErrNotFound is returned when the feed has no entry for a package.
	ErrNotFound = errors.New("package not found")

	// ErrInvalidArgument is returned when a lookup is misused by its caller.
	ErrInvalidArgument = errors.New("invalid argument")
)

// DefaultTimeout bounds a lookup when [NuGet.Timeout] is unset.
const DefaultTimeout = 10 * time.Second

// NuGet queries the search endpoint of a NuGet v3 feed.
type NuGet struct {
	// Client sends the search requests. Defaults to [http.DefaultClient], so
	// connections are reused across lookups.
	Client *http.Client
	// QueryURL is the search URL; the escaped package name is appended to it,
	// e.g. "https://www.myget.org/F/workflow/api/v3/query?q=".
	QueryURL string
	// Timeout bounds each lookup.
	Timeout time.Duration
}

// NewNuGet creates a new [NuGet] feed.
func NewNuGet(queryURL string, timeout time.Duration) *NuGet {
	return &NuGet{QueryURL: queryURL, Timeout: timeout}
}

// LatestVersion returns the latest version of the named package, as reported
// by the feed. It returns [ErrNotFound] when the search has no results.
func (n *NuGet) LatestVersion(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: package name is required", ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout())
	defer cancel()

	res, err := n.search(ctx, name)
	if err != nil {
		return "", err
	}

	e, ok := res.entry()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	raw := strings.TrimSpace(e.Version)
	if raw == "" {
		return "", fmt.Errorf("%w: %s has no version", ErrNotFound, name)
	}

	chk, err := latest.Check(&release{entry: e}, "0.0.0")
	if err != nil || chk.Current == "" {
		// Versions go-version cannot parse are compared as strings.
		return raw, nil //nolint:nilerr // Malformed versions are still usable.
	}

	return chk.Current, nil
}

func (n *NuGet) search(ctx context.Context, name string) (*searchResponse, error) {
	u, err := url.Parse(n.QueryURL + url.QueryEscape(name))
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: feed url %q", ErrInvalidArgument, n.QueryURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := n.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body.

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query feed: %s", resp.Status)
	}

	res := &searchResponse{name: name}

	err = json.NewDecoder(resp.Body).Decode(res)
	if err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}

	return res, nil
}

func (n *NuGet) client() *http.Client {
	if n.Client == nil {
		return http.DefaultClient
	}

	return n.Client
}

func (n *NuGet) timeout() time.Duration {
	if n.Timeout <= 0 {
		return DefaultTimeout
	}

	return n.Timeout
}

// searchResponse is the part of a NuGet v3 search result that is used.
type searchResponse struct {
	name string

	TotalHits int           `json:"totalHits"`
	Data      []searchEntry `json:"data"`
}

type searchEntry struct {
	ID         string `json:"id"`
	Version    string `json:"version"`
	ProjectURL string `json:"projectUrl"`
}

// entry returns the result for the searched package: the entry with a
// matching id, or else the top result.
func (r *searchResponse) entry() (searchEntry, bool) {
	if len(r.Data) == 0 {
		return searchEntry{}, false
	}

	for _, e := range r.Data {
		if strings.EqualFold(e.ID, r.name) {
			return e, true
		}
	}

	return r.Data[0], true
}

// release is a [latest.Source] over an entry that was already fetched.
type release struct {
	entry searchEntry
}

func (r *release) Validate() error {
	if r.entry.ID == "" && r.entry.Version == "" {
		return ErrNotFound
	}

	return nil
}

func (r *release) Fetch() (*latest.FetchResponse, error) {
	fr := &latest.FetchResponse{
		Meta: &latest.Meta{URL: r.entry.ProjectURL},
	}

	v, err := version.NewVersion(strings.TrimSpace(r.entry.Version))
	if err != nil {
		fr.Malformeds = append(fr.Malformeds, r.entry.Version)
	} else {
		fr.Versions = append(fr.Versions, v)
	}

	return fr, nil
}
