package extract

import (
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
)

// Format describes how one archive is read.
type Format struct {
	// Name is a short label such as "zip" or "tar.gz".
	Name string
	// Stem names the output directory.
	Stem string
	// Extractor reads multi-entry archives. Nil for single-stream files.
	Extractor archives.Extractor
	// Stream decompresses single-stream files such as notes.txt.gz.
	Stream archives.Decompressor
}

var containers = map[string]archives.Extractor{
	".zip": archives.Zip{},
	".tar": archives.Tar{},
	".rar": archives.Rar{},
	".7z":  archives.SevenZip{},
}

var compressions = map[string]archives.Compression{
	".gz":  archives.Gz{},
	".bz2": archives.Bz2{},
	".xz":  archives.Xz{},
	".zst": archives.Zstd{},
}

// DetectFormat infers the archive format from name. It reports false for
// names whose extension is not a supported archive or compression suffix.
func DetectFormat(name string) (Format, bool) {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return Format{}, false
	}

	if ex, ok := containers[ext]; ok {
		return Format{Name: strings.TrimPrefix(ext, "."), Stem: stem, Extractor: ex}, true
	}
	if ext == ".tgz" {
		return compressedTar(".gz", stem), true
	}
	if _, ok := compressions[ext]; !ok {
		return Format{}, false
	}
	if inner := filepath.Ext(stem); strings.EqualFold(inner, ".tar") && stem != inner {
		return compressedTar(ext, strings.TrimSuffix(stem, inner)), true
	}
	return Format{Name: strings.TrimPrefix(ext, "."), Stem: stem, Stream: compressions[ext]}, true
}

func compressedTar(ext, stem string) Format {
	return Format{
		Name: "tar" + ext,
		Stem: stem,
		Extractor: archives.CompressedArchive{
			Extraction:  archives.Tar{},
			Compression: compressions[ext],
		},
	}
}
