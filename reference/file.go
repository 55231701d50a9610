package reference

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/waldt/humilis/artifact"
	"github.com/waldt/humilis/layer"
)

// fileResolver uploads a local file to object storage and resolves to its
// remote address. Re-resolving the same reference overwrites the same
// address.
type fileResolver struct {
	uploader artifact.Uploader
}

func (r *fileResolver) Name() string { return "file" }

func (r *fileResolver) Resolve(ctx context.Context, l *layer.Layer, cfg *layer.Config, args Args) (any, error) {
	path, err := args.String("path")
	if err != nil {
		return nil, err
	}
	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(l.Basedir, path)
	}
	return r.upload(ctx, l, cfg, fullPath)
}

// upload stores fullPath at the layer's address for that file and returns the
// {s3bucket, s3key} mapping. The lambda resolver reuses this path for built
// archives.
func (r *fileResolver) upload(ctx context.Context, l *layer.Layer, cfg *layer.Config, fullPath string) (map[string]any, error) {
	bucket, key := remoteAddress(l, cfg, fullPath)
	if err := r.uploader.Upload(ctx, fullPath, bucket, key); err != nil {
		return nil, fmt.Errorf("upload %s: %w", fullPath, err)
	}
	l.Log().Info("uploaded file", "source", fullPath, "bucket", bucket, "key", key)
	return map[string]any{"s3bucket": bucket, "s3key": key}, nil
}

// remoteAddress computes the deterministic object-storage address for a local
// file: {s3prefix}{env}[/{stage}]/{layer}/{basename}. Repeated deployments of
// the same layer and file converge on the same key; content changes are told
// apart by the version suffix baked into the basename.
func remoteAddress(l *layer.Layer, cfg *layer.Config, fullPath string) (bucket, key string) {
	prefix := cfg.Profile.S3Prefix + l.EnvName + "/"
	if l.EnvStage != "" {
		prefix += l.EnvStage + "/"
	}
	key = prefix + l.Name + "/" + filepath.Base(fullPath)
	return cfg.Profile.Bucket, key
}
