package organize

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"romselect/internal/archive"
	"romselect/internal/config"
	"romselect/internal/errors"
	"romselect/pkg/testutils"
	"romselect/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingArchiver writes predictable files instead of running an archiver
type recordingArchiver struct {
	calls      []string
	extractErr error
	createErr  error
}

func (r *recordingArchiver) List(ctx context.Context, archivePath string) ([]types.Entry, error) {
	r.calls = append(r.calls, "l")
	return nil, nil
}

func (r *recordingArchiver) Extract(ctx context.Context, archivePath, dir, name string) error {
	r.calls = append(r.calls, "x")
	if r.extractErr != nil {
		return r.extractErr
	}
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("rom:"+name), 0644)
}

func (r *recordingArchiver) Create(ctx context.Context, target, source string) error {
	r.calls = append(r.calls, "a")
	if r.createErr != nil {
		return r.createErr
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	return os.WriteFile(target, append([]byte("packed:"), data...), 0644)
}

func setupEngine(t *testing.T, archiver Archiver, platforms ...string) (*Engine, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewTestConfig(dir)
	require.NoError(t, os.MkdirAll(cfg.Directories.Work, 0755))
	for _, p := range platforms {
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.Directories.Roms, p), 0755))
	}
	engine := New(archiver, cfg)
	engine.now = func() time.Time { return time.Date(2024, time.March, 9, 14, 15, 2, 0, time.UTC) }
	return engine, cfg
}

func TestInstall(t *testing.T) {
	ctx := context.Background()
	entry := types.Entry{Name: "Game (U) [!].nes", Size: 40976}

	t.Run("copies the new archive into the platform directory", func(t *testing.T) {
		fake := &recordingArchiver{}
		engine, cfg := setupEngine(t, fake, "nes")
		var out bytes.Buffer
		engine.SetOutput(&out)

		result, err := engine.Install(ctx, "/roms/Game.7z", entry)
		require.NoError(t, err)

		assert.Equal(t, []string{"x", "a"}, fake.calls)
		assert.Equal(t, filepath.Join(cfg.Directories.Work, "Game (U) [!].nes"), result.ExtractedPath)
		assert.Equal(t, filepath.Join(cfg.Directories.Work, "Game (U) [!].7z"), result.ArchivePath)
		assert.Equal(t, filepath.Join(cfg.Directories.Roms, "nes", "Game (U) [!].7z"), result.LibraryPath)
		assert.Empty(t, result.Backups)

		content, err := os.ReadFile(result.LibraryPath)
		require.NoError(t, err)
		assert.Equal(t, "packed:rom:Game (U) [!].nes", string(content))

		assert.Contains(t, out.String(), "Extracted ")
		assert.Contains(t, out.String(), "Compressed ")
		assert.Contains(t, out.String(), "Copied Game (U) [!].7z to ")
	})

	t.Run("zip output format", func(t *testing.T) {
		engine, cfg := setupEngine(t, &recordingArchiver{}, "gba")
		cfg.Archiver.Format = config.FormatZip

		result, err := engine.Install(ctx, "/roms/Game.7z", types.Entry{Name: "Game.GBA"})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cfg.Directories.Roms, "gba", "Game.zip"), result.LibraryPath)
	})

	t.Run("entry inside a folder", func(t *testing.T) {
		engine, cfg := setupEngine(t, &recordingArchiver{}, "snes")

		result, err := engine.Install(ctx, "/roms/Set.7z", types.Entry{Name: "roms/Game (U).smc"})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cfg.Directories.Work, "roms", "Game (U).smc"), result.ExtractedPath)
		assert.Equal(t, filepath.Join(cfg.Directories.Work, "Game (U).7z"), result.ArchivePath)
		assert.Equal(t, filepath.Join(cfg.Directories.Roms, "snes", "Game (U).7z"), result.LibraryPath)
	})

	t.Run("existing files are backed up at every step", func(t *testing.T) {
		engine, cfg := setupEngine(t, &recordingArchiver{}, "nes")
		staged := filepath.Join(cfg.Directories.Work, "Game (U) [!].nes")
		packed := filepath.Join(cfg.Directories.Work, "Game (U) [!].7z")
		library := filepath.Join(cfg.Directories.Roms, "nes", "Game (U) [!].7z")
		testutils.CreateTestFilesWithContent(t, "/", map[string]string{
			staged:  "old staged",
			packed:  "old packed",
			library: "old library",
		})

		result, err := engine.Install(ctx, "/roms/Game.7z", entry)
		require.NoError(t, err)

		suffix := "._2024_03_09_141502"
		assert.Equal(t, []string{staged + suffix, packed + suffix, library + suffix}, result.Backups)

		for path, want := range map[string]string{
			staged + suffix:  "old staged",
			packed + suffix:  "old packed",
			library + suffix: "old library",
			library:          "packed:rom:Game (U) [!].nes",
		} {
			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, want, string(got), path)
		}
	})

	t.Run("unmapped extension copies nothing", func(t *testing.T) {
		fake := &recordingArchiver{}
		engine, cfg := setupEngine(t, fake, "nes")

		result, err := engine.Install(ctx, "/roms/Game.7z", types.Entry{Name: "Game.xyz"})
		require.Error(t, err)
		assert.True(t, errors.IsUnmappedExtension(err))
		assert.Empty(t, result.LibraryPath)

		var extErr *errors.ExtensionError
		require.True(t, errors.As(err, &extErr))
		assert.Equal(t, "xyz", extErr.Extension())
		assert.Contains(t, err.Error(), "unknown rom type: xyz: known types: a26, a78, fds, gb, gba, gbc")

		entries, err := os.ReadDir(filepath.Join(cfg.Directories.Roms, "nes"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("entry without extension is unmapped", func(t *testing.T) {
		engine, _ := setupEngine(t, &recordingArchiver{}, "nes")
		_, err := engine.Install(ctx, "/roms/Game.7z", types.Entry{Name: "README"})
		assert.True(t, errors.IsUnmappedExtension(err))
	})

	t.Run("missing platform directory is never created", func(t *testing.T) {
		engine, cfg := setupEngine(t, &recordingArchiver{})

		_, err := engine.Install(ctx, "/roms/Game.7z", entry)
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryNotFound(err))

		_, statErr := os.Stat(filepath.Join(cfg.Directories.Roms, "nes"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("extract failure stops the pipeline", func(t *testing.T) {
		toolErr := errors.NewToolError("archiver failed", archive.OpExtract, errors.ToolFailed, nil).WithExitCode(2)
		fake := &recordingArchiver{extractErr: toolErr}
		engine, _ := setupEngine(t, fake, "nes")

		_, err := engine.Install(ctx, "/roms/Game.7z", entry)
		assert.True(t, errors.IsToolFailed(err))
		assert.Equal(t, []string{"x"}, fake.calls)
	})

	t.Run("create failure stops before copying", func(t *testing.T) {
		toolErr := errors.NewToolError("archiver failed", archive.OpCreate, errors.ToolFailed, nil)
		engine, cfg := setupEngine(t, &recordingArchiver{createErr: toolErr}, "nes")

		_, err := engine.Install(ctx, "/roms/Game.7z", entry)
		assert.True(t, errors.IsToolFailed(err))

		entries, err := os.ReadDir(filepath.Join(cfg.Directories.Roms, "nes"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestInstallWithFakeArchiver(t *testing.T) {
	dir := t.TempDir()
	tool, err := archive.New(testutils.WriteFakeArchiver(t, dir))
	require.NoError(t, err)

	entries := []types.Entry{{Name: "Game (U) [!].gb", Size: 32768}}
	src := testutils.WriteFakeArchive(t, dir, "Game.7z", entries)

	cfg := config.NewTestConfig(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Directories.Roms, "gb"), 0755))

	result, err := New(tool, cfg).Install(context.Background(), src, entries[0])
	require.NoError(t, err)

	content, err := os.ReadFile(result.LibraryPath)
	require.NoError(t, err)
	assert.Equal(t, "rom:Game (U) [!].gb", string(content))
}

func TestInstallerFactory(t *testing.T) {
	defer ResetInstallerFactory()

	var gotCfg *config.Config
	SetInstallerFactory(func(archiver Archiver, cfg *config.Config) Installer {
		gotCfg = cfg
		return New(archiver, cfg)
	})

	cfg := config.NewTestConfig(t.TempDir())
	installer := CurrentInstallerFactory(&recordingArchiver{}, cfg)
	assert.NotNil(t, installer)
	assert.Same(t, cfg, gotCfg)

	ResetInstallerFactory()
	_, ok := CurrentInstallerFactory(&recordingArchiver{}, cfg).(*Engine)
	assert.True(t, ok)
}
