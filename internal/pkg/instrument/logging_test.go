package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLogger_MasksAndAddsCorrelation(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := NewLogger(&buf, "gnportal", nil, []string{"password", "Code"})
	ctx := SetCorrelationID(context.Background(), "cid-123")

	// Act
	logger.InfoContext(ctx, "otp issued",
		"code", "482913",
		"nic", "200156789012",
		"body", map[string]any{"password": "secret", "nested": map[string]any{"code": "1"}},
		slog.Group("req", slog.String("password", "x")),
	)

	// Assert
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if got["code"] != Masked {
		t.Fatalf("code not masked: %v", got["code"])
	}
	if got["nic"] != "200156789012" {
		t.Fatalf("nic should stay visible: %v", got["nic"])
	}
	body := got["body"].(map[string]any)
	if body["password"] != Masked || body["nested"].(map[string]any)["code"] != Masked {
		t.Fatalf("body not masked: %v", body)
	}
	if got["req"].(map[string]any)["password"] != Masked {
		t.Fatalf("group not masked: %v", got["req"])
	}
	if got["correlation_id"] != "cid-123" || got["service"] != "gnportal" {
		t.Fatalf("missing context attrs: %v", got)
	}
}

func TestMaskJSON(t *testing.T) {
	keys := MaskKeys([]string{" Token "})

	out, ok := MaskJSON([]byte(`[{"token":"abc","id":1}]`), keys)
	if !ok || out != `[{"id":1,"token":"***"}]` {
		t.Fatalf("MaskJSON() = %q, %v", out, ok)
	}
	if _, ok := MaskJSON([]byte("plain"), keys); ok {
		t.Fatal("plain text must not be treated as JSON")
	}
}
