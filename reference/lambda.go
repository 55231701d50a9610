package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/waldt/humilis/layer"
	"github.com/waldt/humilis/packaging"
)

// lambdaResolver builds a deployable package from a local source and uploads
// it through the file resolver's addressing. Directories go through the full
// packaging pipeline, pre-built .zip files are uploaded as-is, and any other
// file becomes a single-entry archive.
type lambdaResolver struct {
	builder *packaging.Builder
	file    *fileResolver
}

func (r *lambdaResolver) Name() string { return "lambda" }

func (r *lambdaResolver) Resolve(ctx context.Context, l *layer.Layer, cfg *layer.Config, args Args) (any, error) {
	path, err := args.String("path")
	if err != nil {
		return nil, err
	}
	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(l.Basedir, path)
	}

	switch kind, err := pathKind(fullPath); {
	case err != nil:
		return nil, err
	case kind == kindDir:
		archive, cleanup, err := r.builder.BuildDir(ctx, fullPath, l.LoaderParams)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return r.file.upload(ctx, l, cfg, archive)
	case kind == kindZip:
		return r.file.upload(ctx, l, cfg, fullPath)
	default:
		archive, cleanup, err := r.builder.BuildFile(ctx, fullPath, l.LoaderParams)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return r.file.upload(ctx, l, cfg, archive)
	}
}

type sourceKind int

const (
	kindFile sourceKind = iota
	kindDir
	kindZip
)

func pathKind(path string) (sourceKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return kindFile, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return kindDir, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return kindZip, nil
	}
	return kindFile, nil
}
