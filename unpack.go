package xdb

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/meigma/xdb/internal/extract"
	"github.com/meigma/xdb/internal/mmap"
)

// Unpack extracts the archive at archivePath.
//
// The version is resolved before any I/O. The archive is then mapped, the
// output directory created and the entry table decoded; failures up to
// this point abort the operation. Entries are processed in table order:
// folders are created, files are expanded, verified and written. A file
// whose write fails is retried once after creating its parent directory.
// Per-entry failures are logged and counted in UnpackStats.Failed.
//
// The context is checked between entries.
func Unpack(ctx context.Context, archivePath string, opts ...UnpackOption) (UnpackStats, error) {
	cfg := newUnpackConfig(opts)
	u := &unpacker{cfg: &cfg}

	version, err := ResolveUnpackVersion(cfg.version, archivePath)
	if err != nil {
		return UnpackStats{}, err
	}

	f, err := mmap.Open(archivePath, mmap.WithLogger(cfg.logger))
	if err != nil {
		return UnpackStats{}, fmt.Errorf("open archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			u.log().Warn("release archive", "path", archivePath, "error", cerr)
		}
	}()

	outDir := cfg.outputDir
	if outDir == "" {
		outDir = filepath.Dir(archivePath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return UnpackStats{}, fmt.Errorf("create output directory: %w", err)
	}

	sink := cfg.sink
	if sink == nil {
		fsink, err := extract.NewFileSink(outDir, extract.WithDirectWrites(cfg.directWrites))
		if err != nil {
			return UnpackStats{}, err
		}
		defer fsink.Close()
		sink = fsink
	}

	u.log().Info("unpacking archive", "path", archivePath, "version", version.String(), "out", outDir)
	u.reportProgress(StageReadingHeader, "", 0, 0, 0, 0)

	a, err := newArchive(f.Data(), version, archiveConfig{
		logger:       cfg.logger,
		maxFileSize:  cfg.maxFileSize,
		maxTableSize: cfg.maxTableSize,
		verifyCRC:    cfg.verifyCRC,
	})
	if err != nil {
		return UnpackStats{}, err
	}

	stats, err := u.extract(ctx, a, sink)
	if err != nil {
		return stats, err
	}

	if cfg.userDataPath != "" {
		if !u.writeUserData(a, cfg.userDataPath) {
			stats.Failed++
		}
	}

	u.log().Info("unpack complete",
		"files", stats.Files,
		"folders", stats.Folders,
		"filtered", stats.Filtered,
		"failed", stats.Failed,
		"bytes", stats.Bytes)
	return stats, nil
}

// Extract writes the archive's entries to sink. Version, output directory
// and user data options are ignored.
func (a *Archive) Extract(ctx context.Context, sink Sink, opts ...UnpackOption) (UnpackStats, error) {
	cfg := newUnpackConfig(opts)
	u := &unpacker{cfg: &cfg}
	return u.extract(ctx, a, sink)
}

type unpacker struct {
	cfg *unpackConfig
}

// log returns the logger, falling back to a discard logger if nil.
func (u *unpacker) log() *slog.Logger {
	if u.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return u.cfg.logger
}

// reportProgress sends a progress event if a callback is configured.
func (u *unpacker) reportProgress(stage ProgressStage, path string, bytesDone, bytesTotal uint64, done, total int) {
	if u.cfg.progress == nil {
		return
	}
	u.cfg.progress(ProgressEvent{
		Stage:        stage,
		Path:         path,
		BytesDone:    bytesDone,
		BytesTotal:   bytesTotal,
		EntriesDone:  done,
		EntriesTotal: total,
	})
}

// filtered reports whether the mask excludes a file entry. Records at
// offset zero are never filtered, including 1114 files stored there.
func (u *unpacker) filtered(e *Entry, mask string) bool {
	return mask != "" && !e.Folder && e.Offset != 0 && !strings.Contains(e.Path, mask)
}

func (u *unpacker) extract(ctx context.Context, a *Archive, sink Sink) (UnpackStats, error) {
	var stats UnpackStats
	mask := strings.ReplaceAll(u.cfg.mask, `\`, "/")

	var bytesTotal uint64
	if a.Layout() != Layout1114 {
		for i := range a.entries {
			bytesTotal += uint64(a.entries[i].SizeReal)
		}
	}
	total := len(a.entries)

	for i := range a.entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		e := &a.entries[i]
		u.reportProgress(StageExtracting, e.Path, stats.Bytes, bytesTotal, i, total)

		if u.filtered(e, mask) {
			stats.Filtered++
			continue
		}

		target := NormalizePath(e.Path)
		if !fs.ValidPath(target) || (target == "." && !e.Folder) {
			u.log().Warn("skipping invalid path", "path", e.Path)
			stats.Failed++
			continue
		}

		if e.Folder {
			if err := sink.CreatePath(target); err != nil {
				u.log().Warn("create folder failed", "path", target, "error", err)
				stats.Failed++
				continue
			}
			stats.Folders++
			continue
		}

		n, err := u.extractFile(a, e, target, sink)
		if err != nil {
			u.log().Warn("extract failed", "path", e.Path, "error", err)
			stats.Failed++
			continue
		}
		stats.Files++
		stats.Bytes += uint64(n)
	}

	u.reportProgress(StageExtracting, "", stats.Bytes, bytesTotal, total, total)
	return stats, nil
}

// extractFile expands and writes one file, returning the bytes written.
func (u *unpacker) extractFile(a *Archive, e *Entry, target string, sink Sink) (int, error) {
	buf, err := a.expand(e, u.cfg.verifyCRC)
	if err != nil {
		return 0, err
	}
	defer buf.Release()

	if buf.Len() == 0 && a.Layout() == Layout1114 && !e.Uncompressed {
		u.log().Debug("nothing to write", "path", target)
		return 0, nil
	}
	if err := u.writeWithFallback(sink, target, buf.Bytes()); err != nil {
		return 0, err
	}
	u.log().Debug("extracted", "path", target, "offset", e.Offset, "size_real", buf.Len())
	return buf.Len(), nil
}

// writeWithFallback writes data once and, on failure, creates the parent
// directory if it is missing and retries exactly once.
func (u *unpacker) writeWithFallback(sink Sink, target string, data []byte) error {
	err := sink.WriteFile(target, data)
	if err == nil {
		return nil
	}
	u.log().Debug("write failed, retrying", "path", target, "error", err)

	if parent := path.Dir(target); !sink.FolderExists(parent) {
		if mkErr := sink.CreatePath(parent); mkErr != nil {
			u.log().Warn("create directory failed", "path", parent, "error", mkErr)
		}
	}
	if err := sink.WriteFile(target, data); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

// writeUserData stores the USERDATA chunk at dest. It reports false only
// when the chunk exists but could not be written.
func (u *unpacker) writeUserData(a *Archive, dest string) bool {
	data, ok := a.UserData()
	if !ok {
		u.log().Info("archive has no user data")
		return true
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil { //nolint:gosec // caller-chosen output file
		u.log().Warn("write user data failed", "path", dest, "error", err)
		return false
	}
	u.log().Debug("wrote user data", "path", dest, "size", len(data))
	return true
}
