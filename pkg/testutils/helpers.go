package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"romselect/pkg/types"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}

// ListingText renders entries the way `7z l -slt` prints them, including
// the archive header block and the per-entry metadata lines.
func ListingText(archive string, entries []types.Entry) string {
	var sb strings.Builder
	sb.WriteString("\n7-Zip [64] 16.02 : Copyright (c) 1999-2016 Igor Pavlov : 2016-05-21\n")
	sb.WriteString("Scanning the drive for archives:\n1 file, 1024 bytes (1 KiB)\n\n")
	sb.WriteString("Listing archive: " + archive + "\n\n--\n")
	sb.WriteString("Path = " + archive + "\nType = 7z\nPhysical Size = 1024\nHeaders Size = 122\nMethod = LZMA2:24\nSolid = +\nBlocks = 1\n\n----------\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "Path = %s\nSize = %d\nPacked Size = %d\nModified = 2004-03-28 12:00:00\nAttributes = A_ -rw-r--r--\nCRC = 3F1E2B9C\nEncrypted = -\nMethod = LZMA2:24\nBlock = 0\n\n", e.Name, e.Size, e.Size/2)
	}
	return sb.String()
}

// WriteFakeArchive writes a stand-in archive understood by the fake
// archiver: its content is the listing the fake prints back.
func WriteFakeArchive(t *testing.T, dir, name string, entries []types.Entry) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(ListingText(path, entries)), 0644))
	return path
}

// FakeArchiverFailEnv names the archiver operation (l, x, a) the fake
// archiver should fail with exit status 2.
const FakeArchiverFailEnv = "FAKE_ARCHIVER_FAIL"

// FakeArchiverLogEnv names a file the fake archiver appends each
// invocation's subcommand to.
const FakeArchiverLogEnv = "FAKE_ARCHIVER_LOG"

const fakeArchiverScript = `#!/bin/sh
cmd="$1"
shift
if [ -n "$FAKE_ARCHIVER_LOG" ]; then
	echo "$cmd" >> "$FAKE_ARCHIVER_LOG"
fi
if [ "$FAKE_ARCHIVER_FAIL" = "$cmd" ]; then
	echo "Forced failure for $cmd"
	echo "ERROR: forced failure" >&2
	exit 2
fi
out=""
while [ $# -gt 0 ]; do
	case "$1" in
	--) shift; break ;;
	-o*) out="${1#-o}"; shift ;;
	*) shift ;;
	esac
done
case "$cmd" in
l)
	[ -f "$1" ] || { echo "ERROR: $1 : cannot find the file" >&2; exit 2; }
	cat "$1"
	;;
x)
	[ -f "$1" ] || { echo "ERROR: $1 : cannot find the file" >&2; exit 2; }
	grep -Fxq -- "Path = $2" "$1" || { echo "No files to process" >&2; exit 1; }
	mkdir -p "$(dirname "$out/$2")" || exit 2
	printf 'rom:%s' "$2" > "$out/$2" || exit 2
	echo "Everything is Ok"
	;;
a)
	[ -f "$2" ] || { echo "ERROR: $2 : cannot find the file" >&2; exit 2; }
	cp "$2" "$1" || exit 2
	echo "Everything is Ok"
	;;
*)
	echo "unsupported command $cmd" >&2
	exit 7
	;;
esac
`

// WriteFakeArchiver installs a shell script named 7z in dir that emulates
// the list, extract and create commands. Tests using it are skipped on
// Windows.
func WriteFakeArchiver(t *testing.T, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake archiver needs a POSIX shell")
	}
	path := filepath.Join(dir, "7z")
	require.NoError(t, os.WriteFile(path, []byte(fakeArchiverScript), 0755))
	return path
}

// ReadInvocations returns the subcommands recorded in the fake archiver log
func ReadInvocations(t *testing.T, logPath string) []string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Fields(string(data))
}
