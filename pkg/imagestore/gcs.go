package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	xe "github.com/opst/vettracker/pkg/errors"
	"google.golang.org/api/option"
)

type gcs struct {
	client *storage.Client
	bucket string
	prefix string
}

// GCS stores images as objects in a Cloud Storage bucket.
//
// When credentialsFile is empty, the application default credentials are used.
func GCS(ctx context.Context, bucket string, credentialsFile string) (Store, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &gcs{
		client: client,
		bucket: bucket,
		prefix: fmt.Sprintf("https://storage.googleapis.com/%s/", bucket),
	}, nil
}

func (g *gcs) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := NewName(filename)
	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = ContentType(filename)
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, io.LimitReader(r, MaxSize+1)); err != nil {
		w.Close()
		return "", xe.Wrap(err)
	}
	if err := w.Close(); err != nil {
		return "", xe.Wrap(err)
	}
	return g.prefix + name, nil
}

func (g *gcs) Delete(ctx context.Context, url string) error {
	if isDefault(url) || !strings.HasPrefix(url, g.prefix) {
		return nil
	}
	name := strings.TrimPrefix(url, g.prefix)
	err := g.client.Bucket(g.bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return xe.Wrap(err)
	}
	return nil
}
