package widget

import (
	"context"

	"github.com/go-go-golems/marionette/pkg/chat"
	"github.com/go-go-golems/marionette/pkg/flow"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// Context keys for the scoped state descendants read during rendering. One
// key type per store keeps the three stores fully decoupled.
type (
	settingsStoreKey struct{}
	messagesStoreKey struct{}
	pathsStoreKey    struct{}
	flowGraphKey     struct{}
)

// WithSettingsStore injects the settings store into the render context.
func WithSettingsStore(ctx context.Context, s *Store[settings.Settings]) context.Context {
	return context.WithValue(ctx, settingsStoreKey{}, s)
}

// SettingsStoreFrom returns the settings store injected by a provider layer,
// or false when the embedding application opted out of the widget-owned one.
func SettingsStoreFrom(ctx context.Context) (*Store[settings.Settings], bool) {
	s, ok := ctx.Value(settingsStoreKey{}).(*Store[settings.Settings])
	return s, ok
}

// WithMessagesStore injects the message history store into the render context.
func WithMessagesStore(ctx context.Context, s *Store[[]chat.Message]) context.Context {
	return context.WithValue(ctx, messagesStoreKey{}, s)
}

// MessagesStoreFrom returns the message history store, if mounted.
func MessagesStoreFrom(ctx context.Context) (*Store[[]chat.Message], bool) {
	s, ok := ctx.Value(messagesStoreKey{}).(*Store[[]chat.Message])
	return s, ok
}

// WithPathsStore injects the path history store into the render context.
func WithPathsStore(ctx context.Context, s *Store[[]string]) context.Context {
	return context.WithValue(ctx, pathsStoreKey{}, s)
}

// PathsStoreFrom returns the path history store, if mounted.
func PathsStoreFrom(ctx context.Context) (*Store[[]string], bool) {
	s, ok := ctx.Value(pathsStoreKey{}).(*Store[[]string])
	return s, ok
}

// WithFlowGraph injects the conversation flow into the render context. The
// Root always provides it; it is not subject to the advance flags.
func WithFlowGraph(ctx context.Context, g *flow.Graph) context.Context {
	return context.WithValue(ctx, flowGraphKey{}, g)
}

// FlowGraphFrom returns the conversation flow for the current render.
func FlowGraphFrom(ctx context.Context) (*flow.Graph, bool) {
	g, ok := ctx.Value(flowGraphKey{}).(*flow.Graph)
	return g, ok
}
