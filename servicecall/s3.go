package servicecall

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/waldt/humilis/layer"
)

// S3Facade exposes a small set of S3 operations to service-call references.
// Methods are dispatched by an explicit switch; unknown names are an error
// rather than a reflective lookup.
type S3Facade struct {
	client *s3.Client
}

// NewS3Facade wraps an S3 client as a facade.
func NewS3Facade(client *s3.Client) *S3Facade {
	return &S3Facade{client: client}
}

// S3Factory returns a Factory for the given client; the humilis config is
// not consulted because the client already carries region and credentials.
func S3Factory(client *s3.Client) Factory {
	return func(_ *layer.Config) (Facade, error) {
		return NewS3Facade(client), nil
	}
}

// Name implements Facade.
func (f *S3Facade) Name() string { return "s3" }

// Call implements Facade.
func (f *S3Facade) Call(ctx context.Context, method string, _ []any, kwargs map[string]any) (any, error) {
	switch method {
	case "list_buckets":
		return f.listBuckets(ctx)
	case "head_object":
		return f.headObject(ctx, kwargs)
	default:
		return nil, fmt.Errorf("%w: s3.%s", ErrUnknownMethod, method)
	}
}

func (f *S3Facade) listBuckets(ctx context.Context) (any, error) {
	out, err := f.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("servicecall: s3 list_buckets: %w", err)
	}
	buckets := make([]any, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, map[string]any{"name": aws.ToString(b.Name)})
	}
	return buckets, nil
}

func (f *S3Facade) headObject(ctx context.Context, kwargs map[string]any) (any, error) {
	bucket, _ := kwargs["bucket"].(string)
	key, _ := kwargs["key"].(string)
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("servicecall: s3 head_object needs bucket and key kwargs")
	}
	out, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("servicecall: s3 head_object %s/%s: %w", bucket, key, err)
	}
	return map[string]any{
		"content_length": aws.ToInt64(out.ContentLength),
		"etag":           aws.ToString(out.ETag),
		"metadata":       out.Metadata,
	}, nil
}
