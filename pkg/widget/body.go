package widget

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/pkg/errors"
)

// DefaultBody is a minimal placeholder body used when the embedding
// application has not supplied one. It shows the header title, the current
// flow block's message and the message count; real message rendering and
// input controls are application concerns.
func DefaultBody() Node {
	return NodeFunc(func(ctx context.Context, w io.Writer) error {
		title := ""
		if store, ok := SettingsStoreFrom(ctx); ok {
			cfg := store.Get()
			if cfg.Header != nil {
				title = cfg.Header.Title
			}
		}
		blockMsg := ""
		if g, ok := FlowGraphFrom(ctx); ok {
			blockMsg = g.Start().Message
		}
		count := 0
		if store, ok := MessagesStoreFrom(ctx); ok {
			count = len(store.Get())
		}

		_, err := fmt.Fprintf(w,
			`<div class="marionette-body"><header>%s</header><p>%s</p><span data-messages="%d"></span></div>`,
			html.EscapeString(title), html.EscapeString(blockMsg), count)
		return errors.Wrap(err, "render default body")
	})
}
