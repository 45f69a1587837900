package settings

import (
	"context"
	"reflect"

	"dario.cat/mergo"
	"github.com/rs/zerolog/log"
)

// Resolver merges partial user settings and themes into one fully-defaulted
// Settings. Resolve is total and never fails: malformed or unfetchable inputs
// degrade to whatever has been merged so far, because the widget must still
// be able to decide visibility.
type Resolver interface {
	Resolve(ctx context.Context, user *Settings, themes []ThemeRef) Settings
}

// DefaultResolver resolves named themes through an ordered list of loaders;
// the first loader that succeeds wins.
//
// Merge precedence, lowest to highest: Defaults, themes in the order given,
// user settings. Within a fragment, a nil pointer leaves the value beneath
// untouched while an explicit value (including false) overrides it.
type DefaultResolver struct {
	loaders []ThemeLoader
}

type ResolverOption func(*DefaultResolver)

// WithThemeLoader appends a loader consulted for named themes.
func WithThemeLoader(l ThemeLoader) ResolverOption {
	return func(r *DefaultResolver) {
		if l != nil {
			r.loaders = append(r.loaders, l)
		}
	}
}

func NewResolver(opts ...ResolverOption) *DefaultResolver {
	r := &DefaultResolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ Resolver = &DefaultResolver{}

func (r *DefaultResolver) Resolve(ctx context.Context, user *Settings, themes []ThemeRef) Settings {
	out := Defaults()
	for _, ref := range themes {
		frag := ref.Inline
		if frag == nil && ref.ID != "" {
			frag = r.loadTheme(ctx, ref)
		}
		if frag == nil {
			continue
		}
		mergeFragment(&out, *frag)
	}
	if user != nil {
		mergeFragment(&out, *user)
	}
	return out
}

func (r *DefaultResolver) loadTheme(ctx context.Context, ref ThemeRef) *Settings {
	for _, loader := range r.loaders {
		frag, err := loader.Load(ctx, ref.ID, ref.Version)
		if err != nil {
			log.Warn().Err(err).
				Str("component", "settings").
				Str("theme", ref.ID).
				Str("version", ref.Version).
				Msg("theme loader failed, trying next")
			continue
		}
		return frag
	}
	log.Warn().
		Str("component", "settings").
		Str("theme", ref.ID).
		Msg("theme could not be loaded, skipping")
	return nil
}

func mergeFragment(dst *Settings, src Settings) {
	err := mergo.Merge(dst, src, mergo.WithOverride, mergo.WithTransformers(optionalFlagTransformer{}))
	if err != nil {
		// mergo only errors on invalid arguments; fragments are plain structs,
		// so degrade by keeping what was merged so far.
		log.Warn().Err(err).Str("component", "settings").Msg("fragment merge failed, ignoring fragment")
	}
}

// optionalFlagTransformer makes *bool fields behave as optional flags: a nil
// source pointer leaves the destination alone, a non-nil one replaces it even
// when it points at false. Without this, mergo would treat *false as a zero
// value and drop it.
type optionalFlagTransformer struct{}

func (optionalFlagTransformer) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Bool {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if !src.IsNil() && dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}
