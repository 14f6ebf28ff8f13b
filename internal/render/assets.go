package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/riskibarqy/ssl-bot/internal/domain/league"
	"github.com/riskibarqy/ssl-bot/internal/domain/standing"
	"github.com/riskibarqy/ssl-bot/internal/platform/cache"
)

type AssetKind string

const (
	AssetFont       AssetKind = "font"
	AssetTeamLogo   AssetKind = "team_logo"
	AssetLeagueLogo AssetKind = "league_logo"
	AssetTrophy     AssetKind = "trophy"
	AssetBackground AssetKind = "background"
	AssetAvatar     AssetKind = "avatar"
)

var errAssetPathEmpty = errors.New("asset path is empty")

// AssetError reports a decorative asset that could not be used.
type AssetError struct {
	Kind AssetKind
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

const (
	logosDir          = "graphics/logos"
	trophiesDir       = "graphics/trophies"
	welcomeImagesDir  = "graphics/welcome_images"
	defaultLogoFile   = "league-logo.png"
	majorTrophyFile   = "SSL_Major_Trophy_Front.png"
	minorTrophyFile   = "SSL_Minor_Trophy_Front.png"
	academyLogoPrefix = "academy_"
)

// AssetResolver maps teams, leagues and tiers to image paths under Root.
type AssetResolver struct {
	root   string
	exists func(path string) bool
}

func NewAssetResolver(root string) *AssetResolver {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	return &AssetResolver{root: root, exists: fileExists}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (r *AssetResolver) path(parts ...string) string {
	return filepath.Join(append([]string{r.root}, parts...)...)
}

func (r *AssetResolver) DefaultLogo() string {
	return r.path(logosDir, defaultLogoFile)
}

// TeamLogo matches name case-insensitively against the known team sets. Unknown
// teams and missing files resolve to DefaultLogo.
func (r *AssetResolver) TeamLogo(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	file := strings.ReplaceAll(key, " ", "_") + ".png"

	var candidate string
	switch league.ClassifyTeam(key) {
	case league.TeamMain:
		candidate = r.path(logosDir, file)
	case league.TeamAcademy:
		candidate = r.path(logosDir, academyLogoPrefix+file)
	default:
		return r.DefaultLogo()
	}

	if !r.exists(candidate) {
		return r.DefaultLogo()
	}
	return candidate
}

// LeagueLogo picks the division badge when the division is known, either from
// the division argument or a "division 1"/"division 2" marker in name, and the
// tier's overall logo otherwise.
func (r *AssetResolver) LeagueLogo(name string, division standing.Division) string {
	tier := league.TierFromName(name)
	lower := strings.ToLower(name)

	if division != standing.DivisionOne && division != standing.DivisionTwo {
		switch {
		case strings.Contains(lower, "division 1"):
			division = standing.DivisionOne
		case strings.Contains(lower, "division 2"):
			division = standing.DivisionTwo
		}
	}

	switch division {
	case standing.DivisionOne, standing.DivisionTwo:
		prefix := "minors"
		if tier == league.TierMajor {
			prefix = "majors"
		}
		return r.path(logosDir, prefix+"_division_"+string(division)+"_logo.png")
	default:
		return r.TierLogo(tier)
	}
}

func (r *AssetResolver) TierLogo(tier league.Tier) string {
	if tier == league.TierMajor {
		return r.path(logosDir, "major_league_logo.png")
	}
	return r.path(logosDir, "minor_league_logo.png")
}

func (r *AssetResolver) Trophy(tier league.Tier) string {
	if tier == league.TierMajor {
		return r.path(trophiesDir, majorTrophyFile)
	}
	return r.path(trophiesDir, minorTrophyFile)
}

// WelcomeBackgrounds lists banner backgrounds in a stable order.
func (r *AssetResolver) WelcomeBackgrounds() ([]string, error) {
	dir := r.path(welcomeImagesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &AssetError{Kind: AssetBackground, Path: dir, Err: err}
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// AssetLoader decodes images from disk through a process-wide cache keyed by
// path. Assets are assumed immutable for the life of the process.
type AssetLoader struct {
	store *cache.Store[image.Image]
	open  func(path string) (image.Image, error)
}

func NewAssetLoader(store *cache.Store[image.Image]) *AssetLoader {
	if store == nil {
		store = cache.NewStore[image.Image](0)
	}
	return &AssetLoader{store: store, open: decodeFile}
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// Load returns the decoded image or an *AssetError. Failures are not cached.
func (l *AssetLoader) Load(ctx context.Context, kind AssetKind, path string) (image.Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &AssetError{Kind: kind, Path: path, Err: errAssetPathEmpty}
	}

	img, err := l.store.GetOrLoad(ctx, "asset:"+path, func(context.Context) (image.Image, error) {
		return l.open(path)
	})
	if err != nil {
		return nil, &AssetError{Kind: kind, Path: path, Err: err}
	}
	return img, nil
}

// scaledKey namespaces resized variants of one asset.
func scaledKey(path string, w, h int) string {
	return "asset:" + path + "@" + strconv.Itoa(w) + "x" + strconv.Itoa(h)
}

// LoadScaled returns the asset resized to exactly w×h with Lanczos filtering.
// Resized variants are cached next to the original.
func (l *AssetLoader) LoadScaled(ctx context.Context, kind AssetKind, path string, w, h int) (image.Image, error) {
	src, err := l.Load(ctx, kind, path)
	if err != nil {
		return nil, err
	}
	return l.store.GetOrLoad(ctx, scaledKey(path, w, h), func(context.Context) (image.Image, error) {
		return imaging.Resize(src, w, h, imaging.Lanczos), nil
	})
}
