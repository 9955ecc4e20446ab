package storage

import (
	"context"
	"errors"
	"testing"
)

func TestNewFromDriver(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewFromDriver(context.Background(), "ftp", FactoryOptions{Bucket: "docs"})
		if !errors.Is(err, ErrUnknownDriver) {
			t.Fatalf("expected ErrUnknownDriver, got %v", err)
		}
	})

	t.Run("bucket required", func(t *testing.T) {
		_, err := NewFromDriver(context.Background(), DriverMinIO, FactoryOptions{})
		if err == nil {
			t.Fatal("expected error for empty bucket")
		}
	})

	t.Run("minio without network", func(t *testing.T) {
		// minio.New only parses the endpoint, no request is made.
		st, err := NewFromDriver(context.Background(), " MinIO ", FactoryOptions{
			Bucket: "docs",
			MinIO:  MinIOOptions{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := st.(*MinIOAdapter); !ok {
			t.Fatalf("expected *MinIOAdapter, got %T", st)
		}
		if err := st.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	})
}
