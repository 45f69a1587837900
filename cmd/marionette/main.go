package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/marionette/pkg/bus"
	"github.com/go-go-golems/marionette/pkg/platform"
	"github.com/go-go-golems/marionette/pkg/settings"
	"github.com/go-go-golems/marionette/pkg/web"
	"github.com/go-go-golems/marionette/pkg/widget"
)

func main() {
	root := &cobra.Command{
		Use:   "marionette",
		Short: "Embeddable web chat widget",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initLogging()
		},
	}
	root.PersistentFlags().String("log-level", "info", "zerolog level (trace, debug, info, warn, error)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the widget with a demo configuration",
		RunE:  runServe,
	}
	serve.Flags().String("addr", ":8080", "HTTP listen address")
	serve.Flags().String("theme-dir", "", "directory of theme YAML files")
	serve.Flags().String("theme-url", "", "CDN-style base URL for named themes")
	serve.Flags().StringSlice("themes", nil, "theme ids to apply, in order (id or id@version)")
	serve.Flags().String("settings-file", "", "YAML file with partial widget settings")
	serve.Flags().Duration("idle-timeout", 5*time.Minute, "evict sessions with no sockets after this long")
	root.AddCommand(serve)

	viper.SetEnvPrefix("MARIONETTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	bindFlags(root)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindFlags(root *cobra.Command) {
	for _, cmd := range append([]*cobra.Command{root}, root.Commands()...) {
		_ = viper.BindPFlags(cmd.Flags())
		_ = viper.BindPFlags(cmd.PersistentFlags())
	}
}

func initLogging() error {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return errors.Wrap(err, "parse log level")
	}
	zerolog.SetGlobalLevel(level)
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resolver, err := buildResolver()
	if err != nil {
		return err
	}
	userSettings, err := loadUserSettings(viper.GetString("settings-file"))
	if err != nil {
		return err
	}
	themes := parseThemeRefs(viper.GetStringSlice("themes"))

	hub, err := web.NewHub(web.HubConfig{
		BaseCtx:     ctx,
		IdleTimeout: viper.GetDuration("idle-timeout"),
		NewRoot: func(userAgent string, b *bus.Bus) (*widget.Root, error) {
			return widget.New(
				widget.WithBus(b),
				widget.WithResolver(resolver),
				widget.WithPlatform(platform.Classify(userAgent)),
				widget.WithSettings(userSettings),
				widget.WithThemes(themes...),
			)
		},
	})
	if err != nil {
		return err
	}

	router, err := web.NewRouter(hub)
	if err != nil {
		return err
	}
	srv, err := web.NewServer(viper.GetString("addr"), hub, router.Handler())
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func buildResolver() (settings.Resolver, error) {
	var opts []settings.ResolverOption
	if dir := viper.GetString("theme-dir"); dir != "" {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, errors.Errorf("theme-dir %q is not a directory", dir)
		}
		opts = append(opts, settings.WithThemeLoader(settings.NewDirLoader(os.DirFS(dir))))
	}
	if url := viper.GetString("theme-url"); url != "" {
		opts = append(opts, settings.WithThemeLoader(settings.NewHTTPLoader(url)))
	}
	return settings.NewResolver(opts...), nil
}

func loadUserSettings(path string) (*settings.Settings, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read settings file")
	}
	s := &settings.Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "parse settings file")
	}
	return s, nil
}

func parseThemeRefs(ids []string) []settings.ThemeRef {
	refs := make([]settings.ThemeRef, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ref := settings.ThemeRef{ID: id}
		if at := strings.LastIndex(id, "@"); at > 0 {
			ref.ID, ref.Version = id[:at], id[at+1:]
		}
		refs = append(refs, ref)
	}
	return refs
}
