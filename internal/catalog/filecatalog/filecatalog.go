// Package filecatalog is the default catalog.Handler: a filesystem-backed
// catalog keyed by run_id, matching artifact name patterns with
// bmatcuk/doublestar's glob support (spec.md §4.6's "name pattern").
package filecatalog

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dagrunner/dagrunner/internal/catalog"
	"github.com/dagrunner/dagrunner/internal/fileutil"
	"github.com/dagrunner/dagrunner/internal/runlog"
	"github.com/dagrunner/dagrunner/internal/stringutil"
)

var _ catalog.Handler = (*FileCatalog)(nil)

// FileCatalog stores one subdirectory per run_id under Root, mirroring
// artifacts named by glob patterns into and out of each node's compute data
// folder.
type FileCatalog struct {
	Root               string
	DefaultComputeData string
}

// New creates a FileCatalog rooted at root, creating it if needed.
func New(root, defaultComputeDataFolder string) (*FileCatalog, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create catalog root %q: %w", root, err)
	}
	return &FileCatalog{Root: root, DefaultComputeData: defaultComputeDataFolder}, nil
}

func (c *FileCatalog) ComputeDataFolder() string {
	return c.DefaultComputeData
}

func (c *FileCatalog) runDir(runID string) string {
	return filepath.Join(c.Root, fileutil.SafeName(runID))
}

func (c *FileCatalog) Get(ctx context.Context, pattern, runID, computeDataFolder string, syncedCatalogs map[string]bool) ([]runlog.CatalogItem, error) {
	return c.sync(c.runDir(runID), computeDataFolder, pattern, syncedCatalogs, runlog.CatalogStageGet)
}

func (c *FileCatalog) Put(ctx context.Context, pattern, runID, computeDataFolder string, syncedCatalogs map[string]bool) ([]runlog.CatalogItem, error) {
	return c.sync(computeDataFolder, c.runDir(runID), pattern, syncedCatalogs, runlog.CatalogStagePut)
}

func (c *FileCatalog) SyncBetweenRuns(ctx context.Context, previousRunID, runID string) error {
	src := c.runDir(previousRunID)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	dst := c.runDir(runID)
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %v", catalog.ErrHandler, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		return copyFile(path, target)
	})
}

// sync copies every file under srcDir matching pattern into dstDir,
// skipping names already present in syncedCatalogs, and returns a catalog
// item per newly synced file.
func (c *FileCatalog) sync(srcDir, dstDir, pattern string, syncedCatalogs map[string]bool, stage runlog.CatalogStage) ([]runlog.CatalogItem, error) {
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return nil, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(srcDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %v", catalog.ErrHandler, pattern, err)
	}

	var items []runlog.CatalogItem
	for _, src := range matches {
		info, err := os.Stat(src)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(srcDir, src)
		if err != nil {
			return nil, err
		}
		if syncedCatalogs[rel] {
			continue
		}

		dst := filepath.Join(dstDir, rel)
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("%w: %v", catalog.ErrHandler, err)
		}
		hash, err := hashFile(dst)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", catalog.ErrHandler, err)
		}

		syncedCatalogs[rel] = true
		items = append(items, runlog.CatalogItem{Name: rel, ContentHash: hash, Stage: stage})
	}
	return items, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return stringutil.Base58Encode(h.Sum(nil)), nil
}
