package widget

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/flow"
	"github.com/go-go-golems/marionette/pkg/platform"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// gatedResolver settles only once release is closed, so tests control when
// readiness flips.
type gatedResolver struct {
	release chan struct{}
	result  settings.Settings
	calls   atomic.Int32
}

func newGatedResolver(result settings.Settings) *gatedResolver {
	return &gatedResolver{release: make(chan struct{}), result: result}
}

func (r *gatedResolver) Resolve(context.Context, *settings.Settings, []settings.ThemeRef) settings.Settings {
	r.calls.Add(1)
	<-r.release
	return r.result
}

func resolvedConfig(mutators ...func(*settings.Settings)) settings.Settings {
	cfg := settings.Defaults()
	for _, m := range mutators {
		m(&cfg)
	}
	return cfg
}

func waitReady(t *testing.T, r *Root) {
	t.Helper()
	require.Eventually(t, r.Ready, time.Second, 5*time.Millisecond)
}

func TestRenderNothingBeforeResolutionSettles(t *testing.T) {
	resolver := newGatedResolver(resolvedConfig())
	r, err := New(WithResolver(resolver))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf))
	assert.Zero(t, buf.Len())

	r.Start(context.Background())
	require.NoError(t, r.Render(context.Background(), &buf))
	assert.Zero(t, buf.Len(), "still resolving, gate stays closed")
	assert.Equal(t, PhaseResolving, r.Phase())

	close(resolver.release)
	waitReady(t, r)
	require.NoError(t, r.Render(context.Background(), &buf))
	assert.NotZero(t, buf.Len())
}

func TestRenderDisabledPlatformStaysHidden(t *testing.T) {
	resolver := newGatedResolver(resolvedConfig(func(s *settings.Settings) {
		s.Theme.DesktopEnabled = settings.Bool(false)
		s.Theme.MobileEnabled = settings.Bool(true)
	}))
	close(resolver.release)

	r, err := New(WithResolver(resolver), WithPlatform(platform.Desktop))
	require.NoError(t, err)
	r.Start(context.Background())
	waitReady(t, r)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf))
	assert.Zero(t, buf.Len())
}

func TestRenderContainerCarriesResolvedFont(t *testing.T) {
	resolver := newGatedResolver(resolvedConfig(func(s *settings.Settings) {
		s.Theme.FontFamily = "Inter, sans-serif"
	}))
	close(resolver.release)

	r, err := New(WithResolver(resolver), WithPlatform(platform.Desktop))
	require.NoError(t, err)
	r.Start(context.Background())
	waitReady(t, r)

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, `class="marionette-widget"`))
	assert.Contains(t, out, `font-family:Inter, sans-serif`)
	assert.True(t, strings.HasSuffix(out, "</div>"))
}

func TestStartIsIdempotent(t *testing.T) {
	resolver := newGatedResolver(resolvedConfig())
	close(resolver.release)

	r, err := New(WithResolver(resolver))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		r.Start(context.Background())
	}
	waitReady(t, r)
	for i := 0; i < 5; i++ {
		r.Start(context.Background())
		require.NoError(t, r.Render(context.Background(), io.Discard))
	}

	assert.Equal(t, int32(1), resolver.calls.Load())
	assert.Equal(t, PhaseReady, r.Phase())
}

func TestDefaultFlowReachesBody(t *testing.T) {
	resolver := newGatedResolver(resolvedConfig())
	close(resolver.release)

	var seen *flow.Graph
	probe := NodeFunc(func(ctx context.Context, _ io.Writer) error {
		seen, _ = FlowGraphFrom(ctx)
		return nil
	})

	r, err := New(WithResolver(resolver), WithBody(probe))
	require.NoError(t, err)
	r.Start(context.Background())
	waitReady(t, r)

	require.NoError(t, r.Render(context.Background(), io.Discard))
	require.NotNil(t, seen)
	assert.Equal(t, flow.DefaultStartID, seen.Start().ID)
}

func TestCustomFlowReachesBody(t *testing.T) {
	resolver := newGatedResolver(resolvedConfig())
	close(resolver.release)

	g, err := flow.New("greet", flow.Block{ID: "greet", Message: "yo"})
	require.NoError(t, err)

	var seen *flow.Graph
	probe := NodeFunc(func(ctx context.Context, _ io.Writer) error {
		seen, _ = FlowGraphFrom(ctx)
		return nil
	})

	r, err := New(WithResolver(resolver), WithFlow(g), WithBody(probe))
	require.NoError(t, err)
	r.Start(context.Background())
	waitReady(t, r)

	require.NoError(t, r.Render(context.Background(), io.Discard))
	require.NotNil(t, seen)
	assert.Equal(t, "greet", seen.Start().ID)
}

func TestAdvanceFlagsOmitProviderLayers(t *testing.T) {
	cases := []struct {
		name         string
		mutate       func(*settings.Settings)
		wantSettings bool
		wantMessages bool
		wantPaths    bool
	}{
		{"all widget-owned", func(*settings.Settings) {}, true, true, true},
		{"custom messages", func(s *settings.Settings) { s.Advance.UseCustomMessages = settings.Bool(true) }, true, false, true},
		{"custom paths", func(s *settings.Settings) { s.Advance.UseCustomPaths = settings.Bool(true) }, true, true, false},
		{"custom settings", func(s *settings.Settings) { s.Advance.UseCustomSettings = settings.Bool(true) }, false, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := newGatedResolver(resolvedConfig(tc.mutate))
			close(resolver.release)

			var gotSettings, gotMessages, gotPaths bool
			probe := NodeFunc(func(ctx context.Context, _ io.Writer) error {
				_, gotSettings = SettingsStoreFrom(ctx)
				_, gotMessages = MessagesStoreFrom(ctx)
				_, gotPaths = PathsStoreFrom(ctx)
				return nil
			})

			r, err := New(WithResolver(resolver), WithBody(probe))
			require.NoError(t, err)
			r.Start(context.Background())
			waitReady(t, r)
			require.NoError(t, r.Render(context.Background(), io.Discard))

			assert.Equal(t, tc.wantSettings, gotSettings)
			assert.Equal(t, tc.wantMessages, gotMessages)
			assert.Equal(t, tc.wantPaths, gotPaths)
		})
	}
}

func TestReadyImpliesSettingsAlreadyWritten(t *testing.T) {
	resolver := newGatedResolver(resolvedConfig(func(s *settings.Settings) {
		s.Theme.FontFamily = "monospace"
	}))
	close(resolver.release)

	r, err := New(WithResolver(resolver))
	require.NoError(t, err)
	r.Start(context.Background())
	waitReady(t, r)

	// readiness flips only after the store write, so this never observes the
	// zero configuration
	assert.Equal(t, "monospace", r.Settings().Get().FontFamily())
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(WithFlow(nil))
	assert.Error(t, err)
	_, err = New(WithBody(nil))
	assert.Error(t, err)
	_, err = New(WithResolver(nil))
	assert.Error(t, err)
	_, err = New(WithBus(nil))
	assert.Error(t, err)
}
