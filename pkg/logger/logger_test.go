package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsPropagate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "pos-api", Output: &buf})

	ctx := logg.WithOrderID(context.Background(), "ord-1")
	ctx = logg.WithField(ctx, "intent", "checkout")
	logg.Info(ctx, "checkout.accepted")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not json: %v", err)
	}
	if entry["service"] != "pos-api" {
		t.Fatalf("service = %v", entry["service"])
	}
	if entry["order_id"] != "ord-1" {
		t.Fatalf("order_id = %v", entry["order_id"])
	}
	if entry["intent"] != "checkout" {
		t.Fatalf("intent = %v", entry["intent"])
	}
	if entry["message"] != "checkout.accepted" {
		t.Fatalf("message = %v", entry["message"])
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatal("debug should parse")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatal("empty should default to info")
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatal("garbage should default to info")
	}
}
