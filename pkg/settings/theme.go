package settings

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ThemeRef names one theme to apply during resolution. Either Inline carries
// the settings fragment directly, or ID (plus optional Version) is resolved
// through the resolver's theme loaders.
type ThemeRef struct {
	ID      string    `yaml:"id,omitempty" json:"id,omitempty"`
	Version string    `yaml:"version,omitempty" json:"version,omitempty"`
	Inline  *Settings `yaml:"inline,omitempty" json:"inline,omitempty"`
}

// ThemeLoader fetches the settings fragment of a named theme.
type ThemeLoader interface {
	Load(ctx context.Context, id, version string) (*Settings, error)
}

// DirLoader reads theme fragments from a filesystem directory. It looks for
// "<id>@<version>.yaml" first and falls back to "<id>.yaml".
type DirLoader struct {
	FS fs.FS
}

func NewDirLoader(fsys fs.FS) *DirLoader {
	return &DirLoader{FS: fsys}
}

func (l *DirLoader) Load(_ context.Context, id, version string) (*Settings, error) {
	if l == nil || l.FS == nil {
		return nil, errors.New("dir loader has no filesystem")
	}
	if id == "" {
		return nil, errors.New("theme id is empty")
	}
	candidates := []string{id + ".yaml"}
	if version != "" {
		candidates = []string{fmt.Sprintf("%s@%s.yaml", id, version), id + ".yaml"}
	}
	var lastErr error
	for _, name := range candidates {
		data, err := fs.ReadFile(l.FS, name)
		if err != nil {
			lastErr = err
			continue
		}
		return parseThemeFragment(data, name)
	}
	return nil, errors.Wrapf(lastErr, "theme %q not found", id)
}

// HTTPLoader fetches theme fragments from a CDN-style base URL, using the
// layout <base>/<id>/<version>/settings.yaml. Version defaults to "latest".
type HTTPLoader struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (l *HTTPLoader) Load(ctx context.Context, id, version string) (*Settings, error) {
	if l == nil || l.BaseURL == "" {
		return nil, errors.New("http loader has no base url")
	}
	if id == "" {
		return nil, errors.New("theme id is empty")
	}
	if version == "" {
		version = "latest"
	}
	u := fmt.Sprintf("%s/%s/%s/settings.yaml", strings.TrimRight(l.BaseURL, "/"), url.PathEscape(id), url.PathEscape(version))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build theme request")
	}
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch theme %q", id)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch theme %q: unexpected status %d", id, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrapf(err, "read theme %q", id)
	}
	return parseThemeFragment(data, u)
}

func parseThemeFragment(data []byte, source string) (*Settings, error) {
	frag := &Settings{}
	if err := yaml.Unmarshal(data, frag); err != nil {
		return nil, errors.Wrapf(err, "parse theme fragment %s", source)
	}
	return frag, nil
}
