package widget

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/bus"
	"github.com/go-go-golems/marionette/pkg/chat"
	"github.com/go-go-golems/marionette/pkg/flow"
	"github.com/go-go-golems/marionette/pkg/platform"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// Root orchestrates one mounted widget: it resolves configuration once on
// Start, gates visibility per platform, and composes the provider layers
// around the body on every render.
type Root struct {
	logger   zerolog.Logger
	resolver settings.Resolver

	userSettings *settings.Settings
	themes       []settings.ThemeRef
	flowGraph    *flow.Graph
	body         Node
	platform     platform.Kind

	lc lifecycle

	settingsStore *Store[settings.Settings]
	messages      *Store[[]chat.Message]
	paths         *Store[[]string]
}

// Option configures a Root before its stores are created.
type Option func(*Root) error

// WithFlow sets the conversation flow; when absent the built-in default flow
// is used.
func WithFlow(g *flow.Graph) Option {
	return func(r *Root) error {
		if g == nil {
			return errors.New("flow graph is nil")
		}
		r.flowGraph = g
		return nil
	}
}

// WithSettings supplies the application's partial settings fragment.
func WithSettings(s *settings.Settings) Option {
	return func(r *Root) error {
		r.userSettings = s
		return nil
	}
}

// WithThemes supplies themes to merge, in order, beneath the user settings.
func WithThemes(themes ...settings.ThemeRef) Option {
	return func(r *Root) error {
		r.themes = append(r.themes, themes...)
		return nil
	}
}

// WithBody sets the application-owned widget body.
func WithBody(n Node) Option {
	return func(r *Root) error {
		if n == nil {
			return errors.New("body node is nil")
		}
		r.body = n
		return nil
	}
}

// WithPlatform fixes the platform classification for this mount.
func WithPlatform(k platform.Kind) Option {
	return func(r *Root) error {
		r.platform = k
		return nil
	}
}

// WithResolver replaces the default settings resolver.
func WithResolver(resolver settings.Resolver) Option {
	return func(r *Root) error {
		if resolver == nil {
			return errors.New("resolver is nil")
		}
		r.resolver = resolver
		return nil
	}
}

// WithBus wires store writes to b so observers outside the render tree see
// them.
func WithBus(b *bus.Bus) Option {
	return func(r *Root) error {
		if b == nil {
			return errors.New("bus is nil")
		}
		r.messages = NewPublishedStore([]chat.Message{}, b, bus.TopicMessagesUpdated)
		r.paths = NewPublishedStore([]string{}, b, bus.TopicPathsUpdated)
		r.settingsStore = NewPublishedStore(settings.Settings{}, b, bus.TopicSettingsUpdated)
		return nil
	}
}

// WithLogger replaces the root logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Root) error {
		r.logger = logger
		return nil
	}
}

// New builds a Root. Stores start empty; the settings store is not
// authoritative until resolution has settled.
func New(opts ...Option) (*Root, error) {
	r := &Root{
		logger:        log.With().Str("component", "widget").Logger(),
		resolver:      settings.NewResolver(),
		flowGraph:     flow.Default(),
		body:          DefaultBody(),
		platform:      platform.Desktop,
		settingsStore: NewStore(settings.Settings{}),
		messages:      NewStore([]chat.Message{}),
		paths:         NewStore([]string{}),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, errors.Wrap(err, "configure widget root")
		}
	}
	return r, nil
}

// Start triggers configuration resolution exactly once; every later call is
// a no-op. Resolution runs off the caller's goroutine and the settings store
// is written before readiness flips, so no observer ever sees Ready with a
// stale configuration. There is no error path: the resolver degrades to
// defaults instead of failing, and if it never settles the widget simply
// stays invisible.
func (r *Root) Start(ctx context.Context) {
	if !r.lc.advance(PhaseUninitialized, PhaseResolving) {
		return
	}
	r.logger.Debug().Str("platform", r.platform.String()).Msg("resolving widget settings")
	go func() {
		resolved := r.resolver.Resolve(ctx, r.userSettings, r.themes)
		r.settingsStore.Set(resolved)
		if r.lc.advance(PhaseResolving, PhaseReady) {
			r.logger.Debug().
				Bool("desktop_enabled", resolved.DesktopEnabled()).
				Bool("mobile_enabled", resolved.MobileEnabled()).
				Msg("widget settings resolved")
		}
	}()
}

// Phase returns the current lifecycle phase.
func (r *Root) Phase() Phase {
	return r.lc.Phase()
}

// Ready reports whether resolution has settled.
func (r *Root) Ready() bool {
	return r.lc.Phase() == PhaseReady
}

// Settings returns the settings store. Its value is the zero Settings until
// resolution settles.
func (r *Root) Settings() *Store[settings.Settings] { return r.settingsStore }

// Messages returns the widget-owned message history store. When the
// configuration sets use_custom_messages the store still exists but is never
// mounted into the render tree.
func (r *Root) Messages() *Store[[]chat.Message] { return r.messages }

// Paths returns the widget-owned path history store.
func (r *Root) Paths() *Store[[]string] { return r.paths }

// Flow returns the conversation flow handed to the body.
func (r *Root) Flow() *flow.Graph { return r.flowGraph }

// Platform returns the classification fixed at construction.
func (r *Root) Platform() platform.Kind { return r.platform }

// Render writes the widget to w, or nothing while the gate is closed. The
// gate is re-evaluated on every call; the provider composition is rebuilt
// from the resolved settings each time.
func (r *Root) Render(ctx context.Context, w io.Writer) error {
	cfg := r.settingsStore.Get()
	if !ShouldRender(r.Ready(), r.platform.IsDesktop(), cfg) {
		return nil
	}

	ctx = WithFlowGraph(ctx, r.flowGraph)
	composed := Compose(r.body, r.decorators(cfg))

	// The container is the outermost layer: the resolved font applies to the
	// whole composition, including the settings provider beneath it.
	if _, err := fmt.Fprintf(w, `<div class="marionette-widget" style="font-family:%s">`, html.EscapeString(cfg.FontFamily())); err != nil {
		return errors.Wrap(err, "write widget container")
	}
	if err := composed.Render(ctx, w); err != nil {
		return errors.Wrap(err, "render widget body")
	}
	if _, err := io.WriteString(w, "</div>"); err != nil {
		return errors.Wrap(err, "write widget container")
	}
	return nil
}

// decorators is the fixed provider order: messages, paths, settings, with
// settings outermost. A store whose advance flag is set is omitted; the
// application mounts its own replacement outside this Root.
func (r *Root) decorators(cfg settings.Settings) []Decorator {
	return []Decorator{
		{Name: "messages", Enabled: !cfg.UseCustomMessages(), Wrap: ProvideMessages(r.messages)},
		{Name: "paths", Enabled: !cfg.UseCustomPaths(), Wrap: ProvidePaths(r.paths)},
		{Name: "settings", Enabled: !cfg.UseCustomSettings(), Wrap: ProvideSettings(r.settingsStore)},
	}
}
