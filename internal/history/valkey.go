package history

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// ValkeyBackend keeps each key as a string value under <prefix><key>.
type ValkeyBackend struct {
	client valkey.Client
	prefix string
}

// NewValkeyBackend creates a backend over the given valkey client.
func NewValkeyBackend(client valkey.Client, prefix string) *ValkeyBackend {
	return &ValkeyBackend{client: client, prefix: prefix}
}

func (v *ValkeyBackend) Read(ctx context.Context, key string) ([]byte, error) {
	cmd := v.client.B().Get().Key(v.prefix + key).Build()
	data, err := v.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", v.prefix+key, err)
	}
	return data, nil
}

func (v *ValkeyBackend) Write(ctx context.Context, key string, data []byte) error {
	cmd := v.client.B().Set().Key(v.prefix + key).Value(valkey.BinaryString(data)).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s: %w", v.prefix+key, err)
	}
	return nil
}

func (v *ValkeyBackend) Delete(ctx context.Context, key string) error {
	cmd := v.client.B().Del().Key(v.prefix + key).Build()
	n, err := v.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return fmt.Errorf("del %s: %w", v.prefix+key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
