// Package classify decides what each input entry is: an archive to unpack, a
// directory holding a loose media/overlay pair, a "main" media file, an
// overlay image, or a standalone file to copy. Roles come from filename
// substrings; content kinds come from byte sniffing, never from the nominal
// extension.
package classify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/snapmerge/internal/sniff"
)

// Role is the part a file plays in a media/overlay pair, inferred from its
// filename.
type Role int

const (
	RoleNone      Role = iota // Neither pattern matched: standalone file.
	RoleMain                  // Name contains "main": primary media.
	RoleOverlay               // Name contains "overlay": transparent layer.
	RoleAmbiguous             // Both patterns matched: cannot be resolved.
)

// String returns a short label for logging.
func (r Role) String() string {
	switch r {
	case RoleMain:
		return "main"
	case RoleOverlay:
		return "overlay"
	case RoleAmbiguous:
		return "ambiguous"
	default:
		return "standalone"
	}
}

// ErrRoleMatch is returned when a set of candidate files does not resolve to
// exactly one main media file and one overlay image.
var ErrRoleMatch = errors.New("entries do not resolve to one media and one overlay")

// Unit is one classified top-level input entry.
type Unit struct {
	SourcePath string
	Name       string // Base name of SourcePath.
	Role       Role
	Kind       sniff.Kind
	Ext        string // Canonical extension from sniffing; empty when unknown.
	IsArchive  bool   // ZIP container, routed to extraction.
	IsDir      bool   // Directory, routed to pair discovery.
	IsOpaque   bool   // Recognized non-ZIP compressed container, copied as-is.
}

// DetectRole applies the two filename predicates to name (extension
// excluded). A name matching both patterns is RoleAmbiguous rather than a
// silent pick; the caller surfaces it as a per-unit failure.
func DetectRole(name string) Role {
	base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	hasMain := strings.Contains(base, "main")
	hasOverlay := strings.Contains(base, "overlay")
	switch {
	case hasMain && hasOverlay:
		return RoleAmbiguous
	case hasMain:
		return RoleMain
	case hasOverlay:
		return RoleOverlay
	default:
		return RoleNone
	}
}

// Classify stats and sniffs one filesystem entry and returns its Unit.
// Content that matches no signature yields KindUnknown with no error; the
// pipeline decides whether that is a failure or an opaque copy.
func Classify(path string) (Unit, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Unit{}, err
	}

	u := Unit{
		SourcePath: path,
		Name:       filepath.Base(path),
	}
	if fi.IsDir() {
		u.IsDir = true
		return u, nil
	}

	u.Role = DetectRole(u.Name)

	if sniff.IsZipFile(path) {
		u.IsArchive = true
		return u, nil
	}
	if sniff.IsOpaqueArchive(path) {
		u.IsOpaque = true
		return u, nil
	}

	kind, ext, err := sniff.DetectFile(path)
	if err != nil && !errors.Is(err, sniff.ErrUnsupportedType) {
		return Unit{}, err
	}
	u.Kind = kind
	u.Ext = ext
	return u, nil
}

// ResolvePair classifies each candidate path by role and content and returns
// the (media, overlay) pair. It fails with [ErrRoleMatch] unless exactly one
// main media file and one overlay PNG are present. Used for both extracted
// archive entries and directory units.
func ResolvePair(paths []string) (media, overlay string, err error) {
	var mains, overlays []string

	for _, p := range paths {
		role := DetectRole(filepath.Base(p))
		kind, ext, serr := sniff.DetectFile(p)
		if serr != nil {
			continue
		}
		switch role {
		case RoleMain:
			if kind == sniff.KindImage || kind == sniff.KindVideo {
				mains = append(mains, p)
			}
		case RoleOverlay:
			if kind == sniff.KindImage && ext == ".png" {
				overlays = append(overlays, p)
			}
		}
	}

	if len(mains) != 1 || len(overlays) != 1 {
		return "", "", fmt.Errorf("%w: %d media, %d overlay", ErrRoleMatch, len(mains), len(overlays))
	}
	return mains[0], overlays[0], nil
}

// DiscoverPair lists a directory and infers the (media, overlay) pair it
// contains without requiring an archive. Exported as a library entry point.
func DiscoverPair(dir string) (media, overlay string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	return ResolvePair(paths)
}

// PairBase returns the portion of name before its role token (extension
// excluded, case preserved), trimmed of trailing separators. It is used to
// match loose sibling pairs at the input root: "img1_main.jpg" and
// "img1_overlay.png" share base "img1". Returns "" when the role token is
// absent or nothing precedes it; callers compare bases case-insensitively.
func PairBase(name string, role Role) string {
	token := ""
	switch role {
	case RoleMain:
		token = "main"
	case RoleOverlay:
		token = "overlay"
	default:
		return ""
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.Index(strings.ToLower(base), token)
	if idx < 0 {
		return ""
	}
	return strings.TrimRight(base[:idx], "-_ .")
}
