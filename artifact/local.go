package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local implements Uploader on the local filesystem. Objects land under
// {baseDir}/{bucket}/{key}. It backs tests and offline runs where object
// storage is out of reach.
type Local struct {
	baseDir string
}

// NewLocal creates a filesystem uploader rooted at baseDir.
func NewLocal(baseDir string) *Local {
	return &Local{baseDir: baseDir}
}

// Path returns the filesystem location an upload to (bucket, key) lands at.
func (u *Local) Path(bucket, key string) string {
	return filepath.Join(u.baseDir, bucket, filepath.FromSlash(key))
}

// Upload copies localPath into the store, overwriting any previous object at
// the same address.
func (u *Local) Upload(_ context.Context, localPath, bucket, key string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer src.Close()

	dest := u.Path(bucket, key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	dst, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s -> %s: %w", localPath, dest, err)
	}
	return nil
}
