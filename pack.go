package xdb

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/meigma/xdb/internal/chunk"
	"github.com/meigma/xdb/internal/compression"
	"github.com/meigma/xdb/internal/platform"
	"github.com/meigma/xdb/internal/scrambler"
	"github.com/meigma/xdb/internal/sizing"
	"github.com/meigma/xdb/internal/table"
)

// PackStats counts the contents of a packed archive.
type PackStats struct {
	// Folders is the number of folder records.
	Folders int

	// Files is the number of file records.
	Files int

	// DataBytes is the total size of the file payloads.
	DataBytes uint64

	// HeaderBytes is the stored size of the entry table.
	HeaderBytes int
}

// Pack builds an archive at target from the contents of srcDir.
//
// The archive is written to a temporary file beside target and renamed
// into place on success. Payloads are stored as-is with their CRC-32;
// paths are lower-cased. The entry table lists every folder, then every
// file, each in byte order, and is LZHUF compressed and scrambled for the
// RU and WW formats. Symbolic links are not followed.
//
// The context is checked between entries.
func Pack(ctx context.Context, srcDir, target string, opts ...PackOption) (PackStats, error) {
	cfg := packConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &packer{cfg: &cfg}

	info, err := os.Stat(srcDir)
	if err != nil {
		return PackStats{}, fmt.Errorf("open source: %w", err)
	}
	if !info.IsDir() {
		return PackStats{}, &fs.PathError{Op: "pack", Path: srcDir, Err: ErrSourceNotDir}
	}
	if target == "" {
		return PackStats{}, errors.New("xdb: output path required")
	}

	version, err := ResolvePackVersion(cfg.version, target)
	if err != nil {
		return PackStats{}, err
	}
	cipher, err := version.cipher()
	if err != nil {
		return PackStats{}, err
	}

	root, err := os.OpenRoot(srcDir)
	if err != nil {
		return PackStats{}, err
	}
	defer root.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), ".xdb-*")
	if err != nil {
		return PackStats{}, fmt.Errorf("create output: %w", err)
	}
	tmpPath := tmp.Name()
	p.skip = inside(srcDir, tmpPath, target)
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()        //nolint:errcheck // best-effort cleanup
			_ = os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		}
	}()

	p.log().Info("packing archive", "dir", srcDir, "target", target, "version", version.String())

	stats, err := p.write(ctx, root, tmp, version, cipher)
	if err != nil {
		return PackStats{}, err
	}
	if err := tmp.Close(); err != nil {
		return PackStats{}, fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return PackStats{}, fmt.Errorf("rename output: %w", err)
	}
	committed = true

	p.log().Info("pack complete",
		"folders", stats.Folders,
		"files", stats.Files,
		"data_bytes", stats.DataBytes,
		"header_bytes", stats.HeaderBytes)
	return stats, nil
}

// packer holds state for archive creation.
type packer struct {
	cfg  *packConfig
	skip []string // slash paths below the source that belong to the output
}

// log returns the logger, falling back to a discard logger if nil.
func (p *packer) log() *slog.Logger {
	if p.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.cfg.logger
}

// reportProgress sends a progress event if a callback is configured.
func (p *packer) reportProgress(stage ProgressStage, path string, bytesDone uint64, done, total int) {
	if p.cfg.progress == nil {
		return
	}
	p.cfg.progress(ProgressEvent{
		Stage:        stage,
		Path:         path,
		BytesDone:    bytesDone,
		EntriesDone:  done,
		EntriesTotal: total,
	})
}

func (p *packer) write(ctx context.Context, root *os.Root, out io.WriteSeeker, version Version, cipher *scrambler.Scrambler) (PackStats, error) {
	var stats PackStats
	w, err := chunk.NewWriter(out)
	if err != nil {
		return stats, err
	}

	if err := p.writeUserData(w, version); err != nil {
		return stats, err
	}

	if err := w.OpenChunk(chunk.IDData); err != nil {
		return stats, err
	}
	folders, files, err := p.walk(ctx, root, w, &stats)
	if err != nil {
		return stats, err
	}
	if err := w.CloseChunk(); err != nil {
		return stats, fmt.Errorf("close data chunk: %w", sizeErr(err))
	}

	p.reportProgress(StageWritingHeader, "", stats.DataBytes, len(folders)+len(files), len(folders)+len(files))

	byPath := func(a, b Entry) int { return strings.Compare(a.Path, b.Path) }
	slices.SortStableFunc(folders, byPath)
	slices.SortStableFunc(files, byPath)
	folders = p.dedupe(folders)
	files = p.dedupe(files)
	stats.Folders, stats.Files = len(folders), len(files)

	raw, err := table.Encode(Layout2947, slices.Concat(folders, files))
	if err != nil {
		return stats, err
	}
	stored, err := compression.CompressTable(raw)
	if err != nil {
		return stats, err
	}
	if cipher != nil {
		cipher.Encrypt(stored, stored)
	}
	if err := w.WriteChunk(chunk.IDHeader|chunk.FlagCompressed, stored); err != nil {
		return stats, fmt.Errorf("write header chunk: %w", sizeErr(err))
	}
	stats.HeaderBytes = len(stored)

	p.log().Debug("entry table written", "entries", len(folders)+len(files), "raw", len(raw), "stored", len(stored))
	return stats, nil
}

// writeUserData copies the user data file into a USERDATA chunk.
func (p *packer) writeUserData(w *chunk.Writer, version Version) error {
	path := p.cfg.userDataPath
	if path == "" {
		return nil
	}
	if version != VersionXDB {
		p.log().Warn("user data ignored for this version", "path", path, "version", version.String())
		return nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // caller-chosen input file
	if err != nil {
		p.log().Warn("can't load user data", "path", path, "error", err)
		return nil
	}
	if err := w.WriteChunk(chunk.IDUserData, data); err != nil {
		return fmt.Errorf("write user data chunk: %w", sizeErr(err))
	}
	p.log().Debug("user data written", "path", path, "size", len(data))
	return nil
}

// walk copies every regular file below root into the open DATA chunk and
// records every directory.
func (p *packer) walk(ctx context.Context, root *os.Root, w *chunk.Writer, stats *PackStats) (folders, files []Entry, err error) {
	buf := make([]byte, 32*1024)
	p.reportProgress(StageEnumerating, "", 0, 0, 0)

	err = fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		if slices.Contains(p.skip, path) {
			p.log().Debug("skipped output file", "path", path)
			return nil
		}
		if d.IsDir() {
			folders = append(folders, Entry{Path: lowerASCII(path), Folder: true})
			return nil
		}

		fsPath := filepath.FromSlash(path)
		ok, err := platform.IsRegular(root, fsPath, d)
		if err != nil {
			return err
		}
		if !ok {
			p.log().Debug("skipped non-regular file", "path", path)
			return nil
		}

		entry, err := p.copyFile(root, w, buf, path, fsPath)
		if err != nil {
			if errors.Is(err, platform.ErrSymlink) {
				p.log().Debug("skipped symlink", "path", path)
				return nil
			}
			return err
		}
		files = append(files, entry)
		stats.DataBytes += uint64(entry.SizeReal)
		p.reportProgress(StageWritingData, entry.Path, stats.DataBytes, len(files), 0)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return folders, files, nil
}

// copyFile appends one file to the DATA chunk and returns its record.
func (p *packer) copyFile(root *os.Root, w *chunk.Writer, buf []byte, path, fsPath string) (Entry, error) {
	f, err := platform.OpenFileNoFollow(root, fsPath)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, err
	}
	if !info.Mode().IsRegular() {
		return Entry{}, fmt.Errorf("not a regular file: %s", path)
	}
	size := info.Size()
	if _, err := sizing.ToUint32(size, ErrSizeOverflow); err != nil {
		return Entry{}, fmt.Errorf("%w: %s is %d bytes", err, path, size)
	}
	offset, err := sizing.ToUint32(w.Tell(), ErrSizeOverflow)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: archive exceeds 4 GiB", err)
	}

	crc := crc32.NewIEEE()
	n, err := io.CopyBuffer(io.MultiWriter(w, crc), io.LimitReader(f, size+1), buf)
	if err != nil {
		return Entry{}, fmt.Errorf("write %s: %w", path, sizeErr(err))
	}
	if err := platform.CheckUnchanged(f, path, size, n); err != nil {
		return Entry{}, err
	}

	return Entry{
		Path:           lowerASCII(path),
		Offset:         offset,
		SizeReal:       uint32(n),
		SizeCompressed: uint32(n),
		CRC:            crc.Sum32(),
		HasCRC:         true,
	}, nil
}

// dedupe drops records whose path repeats the previous one. Lower-casing
// can fold distinct source names together.
func (p *packer) dedupe(entries []Entry) []Entry {
	return slices.CompactFunc(entries, func(a, b Entry) bool {
		if a.Path != b.Path {
			return false
		}
		p.log().Warn("duplicate path after lower-casing", "path", b.Path)
		return true
	})
}

// inside returns the paths, relative to dir and slash separated, of those
// names that lie below dir.
func inside(dir string, names ...string) []string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	var rels []string
	for _, name := range names {
		abs, err := filepath.Abs(name)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absDir, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

// sizeErr maps the chunk writer's overflow error onto ErrSizeOverflow.
func sizeErr(err error) error {
	if errors.Is(err, chunk.ErrSizeOverflow) {
		return fmt.Errorf("%w: %w", ErrSizeOverflow, err)
	}
	return err
}
