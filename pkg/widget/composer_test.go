package widget

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/marionette/pkg/chat"
	"github.com/go-go-golems/marionette/pkg/settings"
)

func labelled(name string) func(Node) Node {
	return func(next Node) Node {
		return NodeFunc(func(ctx context.Context, w io.Writer) error {
			if _, err := io.WriteString(w, name+"("); err != nil {
				return err
			}
			if err := next.Render(ctx, w); err != nil {
				return err
			}
			_, err := io.WriteString(w, ")")
			return err
		})
	}
}

func TestComposeOrderLastEnabledIsOutermost(t *testing.T) {
	body := NodeFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "body")
		return err
	})
	composed := Compose(body, []Decorator{
		{Name: "messages", Enabled: true, Wrap: labelled("messages")},
		{Name: "paths", Enabled: true, Wrap: labelled("paths")},
		{Name: "settings", Enabled: true, Wrap: labelled("settings")},
	})

	var buf bytes.Buffer
	require.NoError(t, composed.Render(context.Background(), &buf))
	assert.Equal(t, "settings(paths(messages(body)))", buf.String())
}

func TestComposeSkipsDisabledLayers(t *testing.T) {
	body := NodeFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "body")
		return err
	})
	composed := Compose(body, []Decorator{
		{Name: "messages", Enabled: true, Wrap: labelled("messages")},
		{Name: "paths", Enabled: false, Wrap: labelled("paths")},
		{Name: "settings", Enabled: true, Wrap: labelled("settings")},
	})

	var buf bytes.Buffer
	require.NoError(t, composed.Render(context.Background(), &buf))
	assert.Equal(t, "settings(messages(body))", buf.String())
}

func TestComposeNoDecoratorsRendersBareBody(t *testing.T) {
	body := NodeFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "body")
		return err
	})

	var buf bytes.Buffer
	require.NoError(t, Compose(body, nil).Render(context.Background(), &buf))
	assert.Equal(t, "body", buf.String())

	buf.Reset()
	allDisabled := []Decorator{{Name: "messages", Enabled: false, Wrap: labelled("messages")}}
	require.NoError(t, Compose(body, allDisabled).Render(context.Background(), &buf))
	assert.Equal(t, "body", buf.String())
}

func TestProvidersInjectStores(t *testing.T) {
	settingsStore := NewStore(settings.Settings{Theme: &settings.ThemeSettings{FontFamily: "serif"}})
	messagesStore := NewStore([]chat.Message{chat.NewMessage(chat.SenderBot, "hi")})
	pathsStore := NewStore([]string{"start"})

	var (
		gotSettings bool
		gotMessages bool
		gotPaths    bool
	)
	probe := NodeFunc(func(ctx context.Context, _ io.Writer) error {
		_, gotSettings = SettingsStoreFrom(ctx)
		_, gotMessages = MessagesStoreFrom(ctx)
		_, gotPaths = PathsStoreFrom(ctx)
		return nil
	})

	composed := Compose(probe, []Decorator{
		{Name: "messages", Enabled: true, Wrap: ProvideMessages(messagesStore)},
		{Name: "paths", Enabled: false, Wrap: ProvidePaths(pathsStore)},
		{Name: "settings", Enabled: true, Wrap: ProvideSettings(settingsStore)},
	})
	require.NoError(t, composed.Render(context.Background(), io.Discard))

	assert.True(t, gotSettings)
	assert.True(t, gotMessages)
	assert.False(t, gotPaths)
}
