package export

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/docnest/docnest/internal/errors"
)

// CreateArchive packages the staging workspace into a single tar.gz at
// destPath. It writes to destPath+".tmp" and renames on success so a
// failed run never leaves a partial artifact at the destination. The
// workspace is not needed after this returns.
func CreateArchive(workspaceDir, destPath string) (size int64, checksum string, err error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, "", apperrors.Wrap(apperrors.ErrIO, "failed to create destination directory", err)
	}

	tmpPath := destPath + ".tmp"
	if err := writeArchive(workspaceDir, tmpPath); err != nil {
		os.Remove(tmpPath)
		return 0, "", err
	}

	size, checksum, err = fileDigest(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return 0, "", apperrors.Wrap(apperrors.ErrIO, "failed to read archive back", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, "", apperrors.Wrap(apperrors.ErrIO, "failed to move archive to destination", err)
	}

	return size, checksum, nil
}

// writeArchive streams the workspace tree into a tar.gz file at tmpPath.
func writeArchive(workspaceDir, tmpPath string) error {
	outFile, err := os.Create(tmpPath)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrIO, "failed to create archive file", err)
	}
	defer outFile.Close()

	gzw := gzip.NewWriter(outFile)
	tw := tar.NewWriter(gzw)

	err = filepath.Walk(workspaceDir, func(file string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		header, err := tar.FileInfoHeader(fi, fi.Name())
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(workspaceDir, file)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		in, err := os.Open(file)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, in)
		in.Close()
		return err
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to package staging workspace", err)
	}

	if err := tw.Close(); err != nil {
		return apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to finalize tar stream", err)
	}
	if err := gzw.Close(); err != nil {
		return apperrors.Wrap(apperrors.ErrArchiveFailed, "failed to finalize gzip stream", err)
	}
	return outFile.Close()
}

// fileDigest returns the size and SHA-256 hex digest of a file.
func fileDigest(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, f)
	if err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(hash.Sum(nil)), nil
}
