package testsupport

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// ArchiveEntry is one member of a fixture archive. A name ending in "/" is a
// directory.
type ArchiveEntry struct {
	Name    string
	Content string
}

// Entries converts a name to content map into sorted archive entries.
func Entries(files map[string]string) []ArchiveEntry {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]ArchiveEntry, 0, len(names))
	for _, name := range names {
		out = append(out, ArchiveEntry{Name: name, Content: files[name]})
	}
	return out
}

// WriteZip writes a zip archive holding entries to path.
func WriteZip(t testing.TB, path string, entries []ArchiveEntry) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			t.Fatalf("zip create %s: %v", entry.Name, err)
		}
		if _, err := w.Write([]byte(entry.Content)); err != nil {
			t.Fatalf("zip write %s: %v", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	writeBytes(t, path, buf.Bytes())
}

// WriteTar writes an uncompressed tar archive holding entries to path.
func WriteTar(t testing.TB, path string, entries []ArchiveEntry) {
	t.Helper()

	writeBytes(t, path, tarBytes(t, entries))
}

// WriteTarGz writes a gzip-compressed tar archive holding entries to path.
func WriteTarGz(t testing.TB, path string, entries []ArchiveEntry) {
	t.Helper()

	writeBytes(t, path, gzipBytes(t, tarBytes(t, entries)))
}

// WriteGzip writes content as a single gzip stream to path.
func WriteGzip(t testing.TB, path, content string) {
	t.Helper()

	writeBytes(t, path, gzipBytes(t, []byte(content)))
}

func tarBytes(t testing.TB, entries []ArchiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, entry := range entries {
		hdr := &tar.Header{Name: entry.Name, Mode: 0o644, Size: int64(len(entry.Content)), Typeflag: tar.TypeReg}
		if len(entry.Name) > 0 && entry.Name[len(entry.Name)-1] == '/' {
			hdr = &tar.Header{Name: entry.Name, Mode: 0o755, Typeflag: tar.TypeDir}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", entry.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(entry.Content)); err != nil {
				t.Fatalf("tar write %s: %v", entry.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	return buf.Bytes()
}

func gzipBytes(t testing.TB, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
