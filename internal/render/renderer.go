package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"runtime/debug"

	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
)

// ErrRender marks a render that could not produce an image.
var ErrRender = errors.New("render failed")

// Renderer turns standings, leaderboards and join events into images. It is
// safe for concurrent use; each call builds its own canvas and font faces.
type Renderer struct {
	theme    Theme
	fonts    *Fonts
	resolver *AssetResolver
	assets   *AssetLoader
	logger   *logging.Logger
	pick     func(n int) int
}

type Option func(*Renderer)

func WithLogger(logger *logging.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPicker replaces the random choice used for welcome backgrounds.
func WithPicker(pick func(n int) int) Option {
	return func(r *Renderer) {
		if pick != nil {
			r.pick = pick
		}
	}
}

func NewRenderer(theme Theme, fonts *Fonts, resolver *AssetResolver, assets *AssetLoader, opts ...Option) *Renderer {
	if fonts == nil {
		fonts = MustDefaultFonts()
	}
	if resolver == nil {
		resolver = NewAssetResolver(".")
	}
	if assets == nil {
		assets = NewAssetLoader(nil)
	}
	r := &Renderer{
		theme:    theme,
		fonts:    fonts,
		resolver: resolver,
		assets:   assets,
		logger:   logging.Default(),
		pick:     rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Theme() Theme {
	return r.theme
}

func (r *Renderer) Resolver() *AssetResolver {
	return r.resolver
}

// decoration is the single place where asset failures turn into fallbacks:
// each candidate path is tried in order and the first that decodes wins. When
// none does the caller gets nil and skips the element.
func (r *Renderer) decoration(ctx context.Context, kind AssetKind, size image.Point, paths ...string) image.Image {
	for _, path := range paths {
		var (
			img image.Image
			err error
		)
		if size.X > 0 && size.Y > 0 {
			img, err = r.assets.LoadScaled(ctx, kind, path, size.X, size.Y)
		} else {
			img, err = r.assets.Load(ctx, kind, path)
		}
		if err == nil {
			return img
		}
		r.logger.DebugContext(ctx, "decorative asset unavailable", "kind", string(kind), "path", path, "error", err)
	}
	return nil
}

// guard converts a panic inside a render into ErrRender so callers never see
// a partial image.
func (r *Renderer) guard(ctx context.Context, op string, img *image.Image, err *error) {
	rec := recover()
	if rec == nil {
		if *err != nil {
			*img = nil
		}
		return
	}
	*img = nil
	*err = fmt.Errorf("%w: %s: %v", ErrRender, op, rec)
	r.logger.ErrorContext(ctx, "render panicked", "op", op, "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
}
