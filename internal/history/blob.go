package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JaimeStill/veritas/pkg/storage"
)

const blobContentType = "application/json"

// BlobBackend keeps each key as a JSON blob named <key>.json.
type BlobBackend struct {
	store storage.System
}

// NewBlobBackend creates a backend over the given blob storage system.
func NewBlobBackend(store storage.System) *BlobBackend {
	return &BlobBackend{store: store}
}

func (b *BlobBackend) Read(ctx context.Context, key string) ([]byte, error) {
	body, err := b.store.Download(ctx, blobName(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", blobName(key), err)
	}
	return data, nil
}

func (b *BlobBackend) Write(ctx context.Context, key string, data []byte) error {
	return b.store.Upload(ctx, blobName(key), bytes.NewReader(data), blobContentType)
}

func (b *BlobBackend) Delete(ctx context.Context, key string) error {
	if err := b.store.Delete(ctx, blobName(key)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func blobName(key string) string {
	return key + ".json"
}
