package sdk

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"flustudio/internal/logx"
)

const (
	// extractProgressStep controls how often extraction progress fires.
	extractProgressStep = 100

	archiveDeleteRetries = 5
	archiveDeleteDelay   = 500 * time.Millisecond
)

// ExtractProgressFunc receives (entries written, total entries) during
// archive extraction.
type ExtractProgressFunc func(done, total int)

// Installer unpacks downloaded SDK archives into the managed SDK directory.
type Installer struct {
	// BaseDir is the managed SDK directory; each version installs to
	// BaseDir/flutter_<version>.
	BaseDir string

	Logger logx.Logger
}

func (in Installer) logger() logx.Logger {
	if in.Logger == nil {
		return logx.Noop{}
	}
	return in.Logger
}

// InstallDir returns the managed install location for a version.
func (in Installer) InstallDir(version string) string {
	return filepath.Join(in.BaseDir, "flutter_"+version)
}

// Install unpacks the zip at archivePath into the managed directory for
// version and returns the install path. The archive's top-level flutter/
// directory is renamed to flutter_<version>; an existing install of the
// same version is replaced. The archive file is deleted afterwards with
// retries, and a stuck delete is logged rather than failed.
func (in Installer) Install(archivePath, version string, progress ExtractProgressFunc) (string, error) {
	installDir := in.InstallDir(version)

	if err := os.RemoveAll(installDir); err != nil {
		return "", fmt.Errorf("remove previous install: %w", err)
	}
	if err := os.MkdirAll(in.BaseDir, 0o755); err != nil {
		return "", fmt.Errorf("create sdk directory: %w", err)
	}

	if err := in.extract(archivePath, progress); err != nil {
		return "", err
	}

	// SDK archives unpack to a flutter/ top-level directory.
	extracted := filepath.Join(in.BaseDir, "flutter")
	if _, err := os.Stat(extracted); err == nil {
		if err := os.Rename(extracted, installDir); err != nil {
			return "", fmt.Errorf("rename extracted sdk: %w", err)
		}
	}

	if !Validate(installDir) {
		return "", fmt.Errorf("verify install: %s missing after extraction", filepath.Join("bin", binaryName()))
	}

	in.deleteArchive(archivePath)

	in.logger().Printf("installed sdk %s at %s", version, installDir)
	return installDir, nil
}

func (in Installer) extract(archivePath string, progress ExtractProgressFunc) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	total := len(reader.File)
	for i, file := range reader.File {
		target := filepath.Join(in.BaseDir, filepath.FromSlash(file.Name))
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, file.Mode()); err != nil {
				return fmt.Errorf("create dir %s: %w", target, err)
			}
		} else {
			if err := extractFile(file, target); err != nil {
				return err
			}
		}
		if progress != nil && ((i+1)%extractProgressStep == 0 || i+1 == total) {
			progress(i+1, total)
		}
	}
	return nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("prepare file %s: %w", target, err)
	}
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", file.Name, err)
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode())
	if err != nil {
		rc.Close()
		return fmt.Errorf("create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		rc.Close()
		out.Close()
		return fmt.Errorf("copy file %s: %w", target, err)
	}
	rc.Close()
	if err := out.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}
	return nil
}

// deleteArchive removes the downloaded archive. Windows keeps the file
// locked briefly after extraction, so removal retries before giving up.
func (in Installer) deleteArchive(archivePath string) {
	for attempt := 0; attempt < archiveDeleteRetries; attempt++ {
		err := os.Remove(archivePath)
		if err == nil || os.IsNotExist(err) {
			return
		}
		if attempt < archiveDeleteRetries-1 {
			time.Sleep(archiveDeleteDelay)
			continue
		}
		in.logger().Printf("archive not deleted after %d attempts: %s", archiveDeleteRetries, archivePath)
	}
}
