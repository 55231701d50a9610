package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 implements Uploader on an S3-compatible backend.
type S3 struct {
	client *s3.Client
}

// NewS3 creates an S3 uploader.
func NewS3(client *s3.Client) *S3 {
	return &S3{client: client}
}

// Upload puts the file at localPath under s3://{bucket}/{key}. The SHA256 of
// the content is recorded as object metadata so repeated uploads of identical
// content are distinguishable from content changes.
func (u *S3) Upload(ctx context.Context, localPath, bucket, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("checksum %s: %w", localPath, err)
	}
	checksum := hex.EncodeToString(hasher.Sum(nil))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", localPath, err)
	}

	metadata := map[string]string{
		"checksum":    checksum,
		"uploaded-at": time.Now().UTC().Format(time.RFC3339),
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:   &bucket,
		Key:      &key,
		Body:     f,
		Metadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}
