package pack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/daforge-labs/daforge/internal/config"
	"github.com/klauspost/compress/flate"
)

// ErrFolderNotFound indicates the manifest folder to archive is missing.
var ErrFolderNotFound = errors.New("manifest folder not found")

// Archive zips the agent's materialized manifest folder into
// <package-dir>/<name>.zip, preserving relative paths including nested
// subfolders. An existing archive of the same name is removed first:
// re-packaging replaces, it never merges. Returns the archive path.
func Archive(layout config.Layout, name string) (string, error) {
	source := layout.ManifestFolder(name)
	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrFolderNotFound, source)
	}

	if err := os.MkdirAll(layout.PackageDir, 0755); err != nil {
		return "", fmt.Errorf("creating package folder %s: %w", layout.PackageDir, err)
	}

	zipPath := layout.ArchivePath(name)
	if _, err := os.Stat(zipPath); err == nil {
		if err := os.Remove(zipPath); err != nil {
			return "", fmt.Errorf("removing existing archive %s: %w", zipPath, err)
		}
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("creating archive %s: %w", zipPath, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	if err := addFolder(w, source); err != nil {
		w.Close()
		return "", fmt.Errorf("archiving %s: %w", source, err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive %s: %w", zipPath, err)
	}

	return zipPath, nil
}

// addFolder walks the folder and writes every regular file into the zip
// under its slash-separated relative path. An empty folder yields a valid
// archive with zero entries.
func addFolder(w *zip.Writer, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(entry, src)
		return err
	})
}
