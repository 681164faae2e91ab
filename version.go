package xdb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meigma/xdb/internal/dbtype"
	"github.com/meigma/xdb/internal/scrambler"
)

// Version is a set of archive format bits. Operations require exactly one.
type Version uint8

// Archive format versions.
const (
	Version1114 Version = 1 << iota
	Version2215
	Version2945
	Version2947RU
	Version2947WW
	VersionXDB
)

// versionLegacy collects the formats the packer cannot write.
const versionLegacy = Version1114 | Version2215 | Version2945

var versionNames = [...]struct {
	v    Version
	name string
}{
	{Version1114, "1114"},
	{Version2215, "2215"},
	{Version2945, "2945"},
	{Version2947RU, "2947ru"},
	{Version2947WW, "2947ww"},
	{VersionXDB, "xdb"},
}

// String returns the format names joined with "|", or "auto" for none.
func (v Version) String() string {
	if v == 0 {
		return "auto"
	}
	var names []string
	for _, n := range versionNames {
		if v&n.v != 0 {
			names = append(names, n.name)
		}
	}
	if rest := v &^ (versionLegacy | Version2947RU | Version2947WW | VersionXDB); rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint8(rest)))
	}
	return strings.Join(names, "|")
}

// Single reports whether exactly one format bit is set.
func (v Version) Single() bool {
	return v != 0 && v&(v-1) == 0
}

// Layout returns the entry table layout for a single-bit version.
func (v Version) Layout() Layout {
	switch v {
	case Version1114:
		return dbtype.Layout1114
	case Version2215:
		return dbtype.Layout2215
	case Version2945:
		return dbtype.Layout2945
	case Version2947RU, Version2947WW, VersionXDB:
		return dbtype.Layout2947
	default:
		return 0
	}
}

// cipher returns the HEADER cipher for v, or nil when the table is stored
// in the clear.
func (v Version) cipher() (*scrambler.Scrambler, error) {
	switch v {
	case Version2947RU:
		return scrambler.New(scrambler.VariantRU)
	case Version2947WW:
		return scrambler.New(scrambler.VariantWW)
	default:
		return nil, nil //nolint:nilnil // no cipher for this version
	}
}

// ResolveUnpackVersion picks the format for reading archivePath. Explicit
// flags win; otherwise the extension decides (.xrp, .xpN, .xdbN, .dbN).
// It fails with ErrUnspecifiedVersion unless exactly one bit results.
func ResolveUnpackVersion(flags Version, archivePath string) (Version, error) {
	v := flags
	if v == 0 {
		ext := filepath.Ext(archivePath)
		switch {
		case IsXDB(ext), IsDB(ext):
			v = VersionXDB
		case IsXRP(ext):
			v = Version1114
		case IsXP(ext):
			v = Version2215
		}
	}
	if !v.Single() {
		return 0, fmt.Errorf("%w: %s for %s", ErrUnspecifiedVersion, v, archivePath)
	}
	return v, nil
}

// ResolvePackVersion picks the format for writing targetPath. Only 2947RU,
// 2947WW and XDB can be written; an .xdbN target adds XDB to flags.
func ResolvePackVersion(flags Version, targetPath string) (Version, error) {
	if flags&versionLegacy != 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedVersion, flags&versionLegacy)
	}
	v := flags
	if IsXDB(filepath.Ext(targetPath)) {
		v |= VersionXDB
	}
	if !v.Single() {
		return 0, fmt.Errorf("%w: %s for %s", ErrUnspecifiedVersion, v, targetPath)
	}
	return v, nil
}

// IsXRP reports whether ext is ".xrp".
func IsXRP(ext string) bool {
	return strings.EqualFold(ext, ".xrp")
}

// IsXP reports whether ext is ".xp" followed by one alphanumeric character.
func IsXP(ext string) bool {
	return numberedExt(ext, ".xp")
}

// IsXDB reports whether ext is ".xdb" followed by one alphanumeric character.
func IsXDB(ext string) bool {
	return numberedExt(ext, ".xdb")
}

// IsDB reports whether ext is ".db" followed by one alphanumeric character.
func IsDB(ext string) bool {
	return numberedExt(ext, ".db")
}

// IsKnown reports whether ext names any archive format.
func IsKnown(ext string) bool {
	return IsDB(ext) || IsXDB(ext) || IsXRP(ext) || IsXP(ext)
}

func numberedExt(ext, prefix string) bool {
	if len(ext) != len(prefix)+1 || !strings.EqualFold(ext[:len(prefix)], prefix) {
		return false
	}
	c := ext[len(prefix)]
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
