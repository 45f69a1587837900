package widget

import (
	"context"
	"io"

	"github.com/go-go-golems/marionette/pkg/chat"
	"github.com/go-go-golems/marionette/pkg/settings"
)

// Decorator is one optional provider layer around the widget body. A
// disabled decorator is omitted entirely, not replaced by a passthrough.
type Decorator struct {
	Name    string
	Enabled bool
	Wrap    func(Node) Node
}

// Compose folds decorators onto body in slice order: the last enabled entry
// becomes the outermost layer. The fixed order for the widget stores is
// messages, paths, settings, which keeps settings outermost so theme
// decisions wrap the whole composition.
func Compose(body Node, decorators []Decorator) Node {
	out := body
	for _, d := range decorators {
		if !d.Enabled || d.Wrap == nil {
			continue
		}
		out = d.Wrap(out)
	}
	return out
}

// ProvideSettings wraps a node so descendants can reach the settings store.
func ProvideSettings(s *Store[settings.Settings]) func(Node) Node {
	return func(next Node) Node {
		return NodeFunc(func(ctx context.Context, w io.Writer) error {
			return next.Render(WithSettingsStore(ctx, s), w)
		})
	}
}

// ProvideMessages wraps a node so descendants can reach the message history.
func ProvideMessages(s *Store[[]chat.Message]) func(Node) Node {
	return func(next Node) Node {
		return NodeFunc(func(ctx context.Context, w io.Writer) error {
			return next.Render(WithMessagesStore(ctx, s), w)
		})
	}
}

// ProvidePaths wraps a node so descendants can reach the path history.
func ProvidePaths(s *Store[[]string]) func(Node) Node {
	return func(next Node) Node {
		return NodeFunc(func(ctx context.Context, w io.Writer) error {
			return next.Render(WithPathsStore(ctx, s), w)
		})
	}
}
