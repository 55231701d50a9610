// Package artifact defines the object-storage boundary the file and lambda
// resolvers upload through. An uploader stores a local file under a
// (bucket, key) address; re-uploading to the same address overwrites.
package artifact

import "context"

// Uploader stores local files in object storage.
type Uploader interface {
	// Upload copies the file at localPath to the given bucket and key.
	Upload(ctx context.Context, localPath, bucket, key string) error
}
