package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendPostsToChat(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseForm()
		gotChat = r.FormValue("chat_id")
		gotText = r.FormValue("text")
	}))
	defer srv.Close()

	n := NewNotifier("token123", "chat42")
	n.baseURL = srv.URL

	err := n.Send(context.Background(), []string{"ignored@example.org"}, "Alerte veille : 1 alerte(s)", "digest body", "<html/>")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotPath != "/bottoken123/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotChat != "chat42" {
		t.Fatalf("unexpected chat %q", gotChat)
	}
	if !strings.Contains(gotText, "Alerte veille") || !strings.Contains(gotText, "digest body") {
		t.Fatalf("unexpected text %q", gotText)
	}
}

func TestSendMisconfigured(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "").Send(context.Background(), nil, "s", "p", "h"); err == nil {
		t.Fatal("expected error when token missing")
	}
}

func TestSendAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewNotifier("bad", "chat")
	n.baseURL = srv.URL
	if err := n.Send(context.Background(), nil, "s", "p", "h"); err == nil {
		t.Fatal("expected API error")
	}
}
