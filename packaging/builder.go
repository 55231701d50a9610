// Package packaging turns local sources into versioned, self-contained zip
// archives ready for upload. A build never mutates the original source tree:
// everything happens on an isolated copy inside an exclusively-owned temporary
// directory, with guaranteed cleanup on every exit path.
package packaging

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Builder runs the packaging pipeline: sanitize, preprocess, vendor
// dependencies, tag a content version, archive.
type Builder struct {
	logger *slog.Logger

	// execCommand builds external commands (git, pip); tests substitute it.
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// Option configures a Builder.
type Option func(*Builder)

// WithExecCommand substitutes the factory used to build external commands
// (git, pip). Tests use it to pin the source-control state.
func WithExecCommand(f func(ctx context.Context, name string, args ...string) *exec.Cmd) Option {
	return func(b *Builder) { b.execCommand = f }
}

// NewBuilder creates a Builder. A nil logger falls back to slog.Default.
func NewBuilder(logger *slog.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Builder{
		logger:      logger,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildDir packages the directory at srcDir into a zip archive named
// {basename}{-revision}.zip. It returns the archive path and a cleanup
// function releasing the temporary directory holding it; callers must invoke
// cleanup whether or not the upload that follows succeeds.
func (b *Builder) BuildDir(ctx context.Context, srcDir string, params map[string]any) (string, func(), error) {
	staging, err := b.stage(srcDir)
	if err != nil {
		return "", nil, err
	}
	defer os.RemoveAll(staging)

	if err := Sanitize(staging); err != nil {
		return "", nil, fmt.Errorf("packaging: sanitize %s: %w", srcDir, err)
	}
	if err := PreprocessDir(staging, params); err != nil {
		return "", nil, err
	}
	if err := b.vendor(ctx, staging); err != nil {
		return "", nil, err
	}

	suffix, err := b.versionSuffix(ctx)
	if err != nil {
		return "", nil, err
	}

	outDir, err := os.MkdirTemp("", "humilis-pkg-")
	if err != nil {
		return "", nil, fmt.Errorf("packaging: create archive dir: %w", err)
	}
	archive := filepath.Join(outDir, filepath.Base(srcDir)+suffix+".zip")
	if err := ZipDir(staging, archive); err != nil {
		os.RemoveAll(outDir)
		return "", nil, err
	}

	b.logger.Info("built deployment package", "source", srcDir, "archive", archive)
	return archive, func() { os.RemoveAll(outDir) }, nil
}

// BuildFile packages a single source file into a zip archive holding exactly
// one entry named by the file's basename. The returned cleanup function has
// the same contract as in BuildDir.
func (b *Builder) BuildFile(ctx context.Context, srcFile string, params map[string]any) (string, func(), error) {
	b.logger.Info("creating deployment package", "source", srcFile)

	staging, err := b.stage(srcFile)
	if err != nil {
		return "", nil, err
	}
	defer os.RemoveAll(staging)

	stagedFile := filepath.Join(staging, filepath.Base(srcFile))
	if err := Preprocess(stagedFile, params); err != nil {
		return "", nil, err
	}

	suffix, err := b.versionSuffix(ctx)
	if err != nil {
		return "", nil, err
	}

	base := filepath.Base(srcFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	outDir, err := os.MkdirTemp("", "humilis-pkg-")
	if err != nil {
		return "", nil, fmt.Errorf("packaging: create archive dir: %w", err)
	}
	archive := filepath.Join(outDir, stem+suffix+".zip")
	if err := ZipFile(stagedFile, base, archive); err != nil {
		os.RemoveAll(outDir)
		return "", nil, err
	}

	return archive, func() { os.RemoveAll(outDir) }, nil
}

// stage copies the source file or directory aside into a fresh temporary
// directory so the pipeline's in-place transformations never touch the
// original tree. The directory name carries a random token so concurrent
// builds of the same source cannot collide.
func (b *Builder) stage(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("packaging: stat %s: %w", src, err)
	}

	staging, err := os.MkdirTemp("", "humilis-stage-"+uuid.NewString()[:8]+"-")
	if err != nil {
		return "", fmt.Errorf("packaging: create staging dir: %w", err)
	}

	if info.IsDir() {
		if err := copyTree(src, staging); err != nil {
			os.RemoveAll(staging)
			return "", fmt.Errorf("packaging: stage %s: %w", src, err)
		}
	} else {
		dest := filepath.Join(staging, filepath.Base(src))
		if err := copyFile(src, dest, info.Mode().Perm()); err != nil {
			os.RemoveAll(staging)
			return "", fmt.Errorf("packaging: stage %s: %w", src, err)
		}
	}
	return staging, nil
}

// vendor installs declared dependencies into dir so the archive is
// self-contained. A requirements.txt wins over a setup.py; with neither
// present, vendoring is a no-op.
func (b *Builder) vendor(ctx context.Context, dir string) error {
	var cmd *exec.Cmd
	switch {
	case fileExists(filepath.Join(dir, "requirements.txt")):
		cmd = b.execCommand(ctx, "pip", "install", "-r", filepath.Join(dir, "requirements.txt"), "-t", dir)
	case fileExists(filepath.Join(dir, "setup.py")):
		cmd = b.execCommand(ctx, "pip", "install", dir, "-t", dir)
	default:
		return nil
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("packaging: vendor dependencies in %s: %w (%s)", dir, err, strings.TrimSpace(stderr.String()))
	}
	b.logger.Info("vendored dependencies", "dir", dir)
	return nil
}

// headRevision returns the current source-control revision, or "" when the
// working directory is not inside a repository. Only unexpected git failures
// are reported as errors.
func (b *Builder) headRevision(ctx context.Context) (string, error) {
	cmd := b.execCommand(ctx, "git", "rev-parse", "HEAD")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(strings.ToLower(stderr.String()), "not a git repository") {
			return "", nil
		}
		return "", fmt.Errorf("packaging: git rev-parse: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// versionSuffix returns "-{revision}" when a revision is available and ""
// otherwise. The suffix makes the deployment engine see content changes as
// new archive names.
func (b *Builder) versionSuffix(ctx context.Context) (string, error) {
	rev, err := b.headRevision(ctx)
	if err != nil {
		return "", err
	}
	if rev == "" {
		return "", nil
	}
	return "-" + rev, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
