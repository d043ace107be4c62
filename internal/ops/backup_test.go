package ops

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	got := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	files := map[string]string{
		"tasks.json":         `{"tasklist_tasks":[{"id":"a","text":"Buy milk","completed":false}]}`,
		"archive/tasks.json": `{"tasklist_tasks":[]}`,
	}
	writeTree(t, src, files)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, BackupDataDir(src, archive))

	out := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, RestoreDataDir(archive, out))

	assert.Equal(t, files, readTree(t, out))
}

func TestBackup_SkipsTempFilesAndLogs(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	writeTree(t, src, map[string]string{
		"tasks.json":         `{}`,
		"tasks.json-123.tmp": `{"half`,
		"tui.log":            "{\"level\":\"info\"}\n",
	})

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	require.NoError(t, BackupDataDir(src, archive))

	out := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, RestoreDataDir(archive, out))

	assert.Equal(t, map[string]string{"tasks.json": `{}`}, readTree(t, out))
}

func TestBackup_ArchiveInsideSourceIsNotIncluded(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	writeTree(t, src, map[string]string{"tasks.json": `{}`})

	archive := filepath.Join(src, "backup.tar.gz")
	require.NoError(t, BackupDataDir(src, archive))

	out := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, RestoreDataDir(archive, out))
	assert.Equal(t, map[string]string{"tasks.json": `{}`}, readTree(t, out))
}

func TestBackup_RejectsMissingOrFileSource(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, BackupDataDir(filepath.Join(dir, "nope"), filepath.Join(dir, "a.tar.gz")))

	file := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))
	assert.Error(t, BackupDataDir(file, filepath.Join(dir, "b.tar.gz")))
}

func TestRestoreDataDir_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len("bad")),
	}))
	_, err = tw.Write([]byte("bad"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	assert.Error(t, RestoreDataDir(archive, filepath.Join(t.TempDir(), "out")))
}

func TestDirDigest_StableAndContentSensitive(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeTree(t, a, map[string]string{"tasks.json": `{"x":1}`, "tui.log": "one"})
	writeTree(t, b, map[string]string{"tasks.json": `{"x":1}`, "tui.log": "two"})

	da, err := DirDigest(a)
	require.NoError(t, err)
	db, err := DirDigest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)

	writeTree(t, b, map[string]string{"tasks.json": `{"x":2}`})
	db, err = DirDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}

func TestDrill(t *testing.T) {
	data := filepath.Join(t.TempDir(), "data")
	writeTree(t, data, map[string]string{"tasks.db": "sqlite bytes", "tasks.json": `{}`})

	work := t.TempDir()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rep, err := Drill(data, work, now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(work, "tasklist-drill-20260102T030405Z.tar.gz"), rep.Archive)
	assert.FileExists(t, rep.Archive)
	assert.DirExists(t, rep.RestoreDir)
	assert.NotEmpty(t, rep.Digest)
}
