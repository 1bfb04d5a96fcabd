package organize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBackupFunctionality tests the backup feature in detail
func TestBackupFunctionality(t *testing.T) {
	stamp := time.Date(2024, time.March, 9, 14, 15, 2, 0, time.UTC)

	t.Run("RoundTripPreservesBytes", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "Game.7z")
		original := []byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c, 0x00, 0x04, 0xff}
		require.NoError(t, os.WriteFile(path, original, 0644))

		backupPath, err := backupAt(path, stamp)
		require.NoError(t, err)
		assert.Equal(t, path+"._2024_03_09_141502", backupPath)

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "original path should be free after backup")

		content, err := os.ReadFile(backupPath)
		require.NoError(t, err)
		assert.Equal(t, original, content)
	})

	t.Run("NothingToBackUp", func(t *testing.T) {
		dir := t.TempDir()
		backupPath, err := backupAt(filepath.Join(dir, "missing.nes"), stamp)
		require.NoError(t, err)
		assert.Empty(t, backupPath)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("SameSecondCollision", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "Game.nes")

		var backups []string
		for i, content := range []string{"first", "second", "third"} {
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			backupPath, err := backupAt(path, stamp)
			require.NoError(t, err, "backup %d", i)
			backups = append(backups, backupPath)
		}

		base := path + "._2024_03_09_141502"
		assert.Equal(t, []string{base, base + "_(1)", base + "_(2)"}, backups)

		for i, content := range []string{"first", "second", "third"} {
			got, err := os.ReadFile(backups[i])
			require.NoError(t, err)
			assert.Equal(t, content, string(got))
		}
	})

	t.Run("DirectoriesAreMovedToo", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "Game.nes")
		require.NoError(t, os.MkdirAll(filepath.Join(path, "inner"), 0755))

		backupPath, err := backupAt(path, stamp)
		require.NoError(t, err)
		info, err := os.Stat(filepath.Join(backupPath, "inner"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("BackupUsesCurrentTime", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "rom.gba")
		require.NoError(t, os.WriteFile(path, []byte("rom"), 0644))

		backupPath, err := Backup(path)
		require.NoError(t, err)
		suffix := strings.TrimPrefix(backupPath, path+".")
		_, err = time.Parse(BackupSuffixLayout, suffix)
		assert.NoError(t, err, "suffix %q should follow the backup layout", suffix)
	})
}
