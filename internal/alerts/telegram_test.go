package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gold-spread-tracker/internal/config"
	"gold-spread-tracker/internal/market"

	"go.uber.org/zap"
)

func TestTelegramDisabledIsNoop(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	tg := newTelegram(config.TelegramConfig{Enabled: false}, zap.NewNop(), srv.URL, srv.Client())
	if err := tg.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("disabled send must not fail: %v", err)
	}
	if calls != 0 {
		t.Fatalf("disabled client must not call the API")
	}
}

func TestTelegramSendsPayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	cfg := config.TelegramConfig{Enabled: true, Token: "tok", ChatID: "42"}
	tg := newTelegram(cfg, zap.NewNop(), srv.URL, srv.Client())
	if err := tg.Send(context.Background(), "spread update"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/bottok/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["chat_id"] != "42" || gotBody["text"] != "spread update" {
		t.Fatalf("unexpected payload %v", gotBody)
	}
}

func TestTelegramAPIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	cfg := config.TelegramConfig{Enabled: true, Token: "tok", ChatID: "42"}
	tg := newTelegram(cfg, zap.NewNop(), srv.URL, srv.Client())
	err := tg.Send(context.Background(), "msg")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestTelegramRequiresCredentials(t *testing.T) {
	tg := newTelegram(config.TelegramConfig{Enabled: true}, zap.NewNop(), "http://unused", nil)
	if err := tg.Send(context.Background(), "msg"); err == nil {
		t.Fatalf("expected error without token/chat_id")
	}
}

func TestFormatLatest(t *testing.T) {
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	series := []market.Series{
		{Alias: "XAU", Points: []market.Point{{Time: base, Price: 100}}},
		{Alias: "XAUT", Points: []market.Point{{Time: base, Price: 99}}},
		{Alias: "PAXG", Points: []market.Point{{Time: base, Price: 101}}},
	}
	table, err := market.BuildAligned(series)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := market.AddSpreads(table); err != nil {
		t.Fatalf("spreads: %v", err)
	}
	msg := FormatLatest(table, []string{"XAU", "XAUT", "PAXG"})
	for _, want := range []string{
		"2026-08-29 12:00 UTC",
		"XAU: 100.00",
		"XAU_minus_XAUT: +1.00",
		"XAU_minus_PAXG: -1.00",
		"PAXG_minus_XAUT: +2.00",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestFormatLatestEmptyTable(t *testing.T) {
	table := &market.Table{}
	if msg := FormatLatest(table, nil); msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
}
