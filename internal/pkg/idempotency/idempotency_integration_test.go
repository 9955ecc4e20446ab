//go:build integration

package idempotency

import (
	"context"
	"errors"
	"testing"

	"github.com/lankagov/gnportal/internal/pkg/testkit"
)

func TestStateTracker_Do(t *testing.T) {
	rdb := testkit.Redis(t)
	st := New(rdb)
	ctx := context.Background()

	t.Run("second call replays the stored result", func(t *testing.T) {
		// Arrange
		calls := 0
		fn := func(context.Context) ([]byte, error) {
			calls++
			return []byte(`{"id":"42"}`), nil
		}

		// Act
		first, err1 := st.Do(ctx, "book:1", fn)
		second, err2 := st.Do(ctx, "book:1", fn)

		// Assert
		if err1 != nil || err2 != nil {
			t.Fatalf("Do() errors = %v, %v", err1, err2)
		}
		if calls != 1 {
			t.Fatalf("fn ran %d times, want 1", calls)
		}
		if string(first) != string(second) {
			t.Fatalf("replayed %q, want %q", second, first)
		}
	})

	t.Run("failed call releases the key", func(t *testing.T) {
		// Arrange
		boom := errors.New("boom")

		// Act
		_, err := st.Do(ctx, "book:2", func(context.Context) ([]byte, error) { return nil, boom })
		got, retryErr := st.Do(ctx, "book:2", func(context.Context) ([]byte, error) { return []byte("ok"), nil })

		// Assert
		if !errors.Is(err, boom) {
			t.Fatalf("first Do() error = %v, want boom", err)
		}
		if retryErr != nil || string(got) != "ok" {
			t.Fatalf("retry = %q, %v", got, retryErr)
		}
	})

	t.Run("call in flight is reported", func(t *testing.T) {
		// Arrange
		entered := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			_, err := st.Do(ctx, "book:3", func(context.Context) ([]byte, error) {
				close(entered)
				<-release
				return []byte("ok"), nil
			})
			done <- err
		}()
		<-entered

		// Act
		_, err := st.Do(ctx, "book:3", func(context.Context) ([]byte, error) { return []byte("dup"), nil })
		close(release)

		// Assert
		if !errors.Is(err, ErrAlreadyInProgress) {
			t.Fatalf("Do() error = %v, want ErrAlreadyInProgress", err)
		}
		if err := <-done; err != nil {
			t.Fatalf("first Do() error = %v", err)
		}
	})
}
