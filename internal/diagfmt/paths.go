package diagfmt

import (
	"os"
	"path/filepath"
	"strings"

	"ablpp/internal/source"
)

// displayPath форматирует путь файла согласно режиму
func displayPath(files *source.FileTable, id source.FileID, mode PathMode, baseDir string) string {
	if files == nil || int(id) >= files.Len() {
		return "<unknown>"
	}
	path := files.Path(id)
	f := files.Get(id)
	if mode == PathModeBasename {
		return source.BaseName(path)
	}
	if f != nil && f.Flags&source.FileVirtual != 0 {
		return path
	}
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}

	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeRelative:
		return relativeTo(path, baseDir)
	default:
		// auto: относительный, если файл внутри baseDir
		rel := relativeTo(path, baseDir)
		if strings.HasPrefix(rel, "..") {
			if abs, err := filepath.Abs(path); err == nil {
				return filepath.ToSlash(abs)
			}
			return path
		}
		return rel
	}
}

func relativeTo(path, baseDir string) string {
	if baseDir == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(baseDir, abs)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
