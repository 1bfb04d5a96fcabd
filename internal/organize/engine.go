// Package organize places a rom chosen from an archive into the library:
// it extracts the entry into the staging directory, repacks it on its own
// and copies the new archive into the platform directory for its type.
package organize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"romselect/internal/config"
	"romselect/internal/errors"
	"romselect/internal/log"
	"romselect/pkg/types"

	"github.com/dustin/go-humanize"
)

// BackupSuffixLayout is the time layout appended to a file moved out of
// the way, e.g. "rom.7z._2024_03_09_141502".
const BackupSuffixLayout = "_2006_01_02_150405"

// Engine runs the install pipeline
type Engine struct {
	archiver Archiver
	config   *config.Config
	out      io.Writer
	now      func() time.Time
}

// New creates a new install engine using archiver and the directories,
// output format and extension table from cfg.
func New(archiver Archiver, cfg *config.Config) *Engine {
	return &Engine{
		archiver: archiver,
		config:   cfg,
		out:      io.Discard,
		now:      time.Now,
	}
}

// SetOutput sets where progress messages are written
func (e *Engine) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	e.out = w
}

// Install extracts entry from archivePath into the staging directory,
// packs it into <stem>.<format> next to it and copies that archive into
// the platform directory mapped from the entry's extension. Any file that
// would be overwritten along the way is first renamed to a timestamped
// backup. The platform directory must already exist.
func (e *Engine) Install(ctx context.Context, archivePath string, entry types.Entry) (types.InstallResult, error) {
	result := types.InstallResult{Entry: entry}
	work := e.config.Directories.Work

	result.ExtractedPath = filepath.Join(work, filepath.FromSlash(entry.Name))
	if err := e.backup(&result, result.ExtractedPath); err != nil {
		return result, err
	}

	log.Debugf("Extracting %s from %s", entry.Name, archivePath)
	if err := e.archiver.Extract(ctx, archivePath, work, entry.Name); err != nil {
		return result, err
	}
	fmt.Fprintf(e.out, "Extracted %s\n", result.ExtractedPath)

	result.ArchivePath = filepath.Join(work, entry.Stem()+"."+e.config.Archiver.Format)
	if err := e.backup(&result, result.ArchivePath); err != nil {
		return result, err
	}

	log.Debugf("Compressing %s into %s", result.ExtractedPath, result.ArchivePath)
	if err := e.archiver.Create(ctx, result.ArchivePath, result.ExtractedPath); err != nil {
		return result, err
	}
	fmt.Fprintf(e.out, "Compressed %s\n", result.ArchivePath)

	platformDir, err := e.platformDir(entry)
	if err != nil {
		return result, err
	}

	result.LibraryPath = filepath.Join(platformDir, filepath.Base(result.ArchivePath))
	if err := e.backup(&result, result.LibraryPath); err != nil {
		return result, err
	}

	n, err := copyFile(result.ArchivePath, result.LibraryPath)
	if err != nil {
		return result, err
	}
	fmt.Fprintf(e.out, "Copied %s to %s (%s)\n", filepath.Base(result.ArchivePath), platformDir, humanize.Bytes(uint64(n)))

	log.LogWithFields(
		log.F("entry", entry.Name),
		log.F("library_path", result.LibraryPath),
		log.F("backups", len(result.Backups)),
	).Info("Installed rom")

	return result, nil
}

func (e *Engine) platformDir(entry types.Entry) (string, error) {
	ext := entry.Ext()
	dir, ok := e.config.PlatformDir(ext)
	if !ok {
		known := errors.Newf("known types: %s", strings.Join(e.config.KnownExtensions(), ", "))
		return "", errors.NewExtensionError("unknown rom type", ext, errors.UnmappedExtension, known)
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return "", errors.NewFileError("platform directory does not exist", dir, errors.DirectoryNotFound, err)
	}
	if err != nil {
		return "", errors.NewFileError("cannot access platform directory", dir, errors.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return "", errors.NewFileError("platform path is not a directory", dir, errors.DirectoryNotFound, nil)
	}
	return dir, nil
}

func (e *Engine) backup(result *types.InstallResult, path string) error {
	moved, err := backupAt(path, e.now())
	if err != nil {
		return err
	}
	if moved != "" {
		result.Backups = append(result.Backups, moved)
	}
	return nil
}

// Backup renames an existing file at path to path plus a timestamp suffix,
// adding "_(n)" when that name is taken. It returns the new name, or ""
// when there was nothing at path.
func Backup(path string) (string, error) {
	return backupAt(path, time.Now())
}

func backupAt(path string, now time.Time) (string, error) {
	_, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.NewFileError("cannot check for existing file", path, errors.FileAccessDenied, err)
	}

	backupPath, err := uniqueName(path + "." + now.Format(BackupSuffixLayout))
	if err != nil {
		return "", err
	}

	if err := os.Rename(path, backupPath); err != nil {
		return "", errors.NewFileError("failed to back up existing file", path, errors.FileOperationFailed, err)
	}

	log.LogWithFields(log.F("path", path), log.F("backup", backupPath)).Warn("Existing file moved to backup")
	return backupPath, nil
}

// uniqueName returns name, or name with a counter appended if it exists
func uniqueName(name string) (string, error) {
	if _, err := os.Lstat(name); os.IsNotExist(err) {
		return name, nil
	}

	for counter := 1; counter <= 1000; counter++ {
		candidate := fmt.Sprintf("%s_(%d)", name, counter)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}

	return "", errors.NewFileError("failed to find unique backup name after 1000 attempts", name, errors.FileOperationFailed, nil)
}

func copyFile(src, dest string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, errors.NewFileError("failed to open archive for copy", src, errors.FileNotFound, err)
	}
	defer srcFile.Close()

	destFile, err := os.Create(dest)
	if err != nil {
		return 0, errors.NewFileError("failed to create library file", dest, errors.FileCreateFailed, err)
	}

	n, err := io.Copy(destFile, srcFile)
	if err != nil {
		destFile.Close()
		return n, errors.NewFileError("failed to copy archive", dest, errors.FileOperationFailed, err)
	}
	if err := destFile.Close(); err != nil {
		return n, errors.NewFileError("failed to finish library file", dest, errors.FileOperationFailed, err)
	}
	return n, nil
}
