package settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirLoaderReadsYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"midnight.yaml": &fstest.MapFile{Data: []byte(
			"theme:\n  font_family: \"Fira Sans, sans-serif\"\n  mobile_enabled: true\n",
		)},
		"midnight@2.yaml": &fstest.MapFile{Data: []byte(
			"theme:\n  font_family: \"Fira Mono, monospace\"\n",
		)},
	}
	loader := NewDirLoader(fsys)

	frag, err := loader.Load(context.Background(), "midnight", "")
	require.NoError(t, err)
	require.NotNil(t, frag.Theme)
	assert.Equal(t, "Fira Sans, sans-serif", frag.Theme.FontFamily)
	require.NotNil(t, frag.Theme.MobileEnabled)
	assert.True(t, *frag.Theme.MobileEnabled)

	// versioned file preferred when present
	frag, err = loader.Load(context.Background(), "midnight", "2")
	require.NoError(t, err)
	assert.Equal(t, "Fira Mono, monospace", frag.Theme.FontFamily)

	// unknown version falls back to the unversioned file
	frag, err = loader.Load(context.Background(), "midnight", "9")
	require.NoError(t, err)
	assert.Equal(t, "Fira Sans, sans-serif", frag.Theme.FontFamily)
}

func TestDirLoaderErrors(t *testing.T) {
	loader := NewDirLoader(fstest.MapFS{
		"broken.yaml": &fstest.MapFile{Data: []byte("theme: [not a mapping")},
	})

	_, err := loader.Load(context.Background(), "missing", "")
	assert.Error(t, err)

	_, err = loader.Load(context.Background(), "broken", "")
	assert.Error(t, err)

	_, err = loader.Load(context.Background(), "", "")
	assert.Error(t, err)
}

func TestHTTPLoaderFetchesSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/themes/solar/latest/settings.yaml":
			_, _ = w.Write([]byte("theme:\n  primary_color: \"#fca311\"\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := NewHTTPLoader(srv.URL + "/themes")

	frag, err := loader.Load(context.Background(), "solar", "")
	require.NoError(t, err)
	require.NotNil(t, frag.Theme)
	assert.Equal(t, "#fca311", frag.Theme.PrimaryColor)

	_, err = loader.Load(context.Background(), "nope", "")
	assert.Error(t, err)
}

func TestHTTPLoaderRejectsEmptyConfig(t *testing.T) {
	loader := &HTTPLoader{}
	_, err := loader.Load(context.Background(), "solar", "")
	assert.Error(t, err)
}
