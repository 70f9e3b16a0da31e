package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/aliasclient/internal/config"
	"github.com/samvad-hq/aliasclient/pkg/httpclient"
)

type captureLogger struct {
	infos, warns, errors []string
}

func (l *captureLogger) InfoObj(msg, _ string, _ interface{})  { l.infos = append(l.infos, msg) }
func (l *captureLogger) DebugObj(string, string, interface{})  {}
func (l *captureLogger) WarnObj(msg, _ string, _ interface{})  { l.warns = append(l.warns, msg) }
func (l *captureLogger) ErrorObj(msg, _ string, _ interface{}) { l.errors = append(l.errors, msg) }

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	aliases := filepath.Join(dir, "aliases.yaml")
	content := `
aliases:
  - name: posts
    path: /posts
  - name: post
    path: /posts/:id
`
	if err := os.WriteFile(aliases, []byte(content), 0o644); err != nil {
		t.Fatalf("write aliases: %v", err)
	}
	return &config.Config{
		AppName:                "test",
		BaseURL:                baseURL,
		Timeout:                2 * time.Second,
		AliasesFile:            aliases,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "journal.db"),
		JournalTTL:             time.Hour,
		JournalCleanupInterval: time.Hour,
	}
}

func newPostsServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		switch {
		case r.URL.Path == "/posts/404":
			http.Error(w, "missing", http.StatusNotFound)
			return
		case r.URL.Path == "/moved":
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
			"body":   string(raw),
		})
	}))
}

func TestCallerCallAndHistory(t *testing.T) {
	srv := newPostsServer(t)
	defer srv.Close()

	log := &captureLogger{}
	caller, err := NewCaller(testConfig(t, srv.URL), log)
	if err != nil {
		t.Fatalf("NewCaller: %v", err)
	}
	defer caller.Close()

	res, err := caller.Call(context.Background(), Call{
		Method: "put",
		Path:   "post",
		Params: map[string]any{"id": 7, "title": "hi"},
	})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Failed() || res.Err != nil {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Method != http.MethodPut || res.Path != "/posts/7" {
		t.Fatalf("unexpected result %s %s", res.Method, res.Path)
	}
	echo, err := httpclient.DecodeJSON[map[string]string](res.Response)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if echo["path"] != "/posts/7" {
		t.Fatalf("server saw path %q", echo["path"])
	}

	res, err = caller.Call(context.Background(), Call{Method: "GET", Path: "post", Params: map[string]any{"id": 404}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !res.Failed() || res.Err != nil {
		t.Fatalf("expected failure status without error, got err=%v", res.Err)
	}

	history, err := caller.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(history))
	}
	if history[0].Status != http.StatusNotFound || history[0].Path != "/posts/404" {
		t.Fatalf("unexpected newest entry %#v", history[0])
	}
	if history[1].Input != "post" || history[1].Status != http.StatusOK {
		t.Fatalf("unexpected oldest entry %#v", history[1])
	}
	if len(log.infos) == 0 || len(log.warns) != 1 {
		t.Fatalf("expected success and failure logs, got infos=%v warns=%v", log.infos, log.warns)
	}
}

func TestCallerRedirectIsNeitherSuccessNorFailure(t *testing.T) {
	srv := newPostsServer(t)
	defer srv.Close()

	log := &captureLogger{}
	caller, err := NewCaller(testConfig(t, srv.URL), log)
	if err != nil {
		t.Fatalf("NewCaller: %v", err)
	}
	defer caller.Close()

	res, err := caller.Call(context.Background(), Call{Method: "get", Path: "/moved"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Failed() {
		t.Fatalf("304 should not count as a failure")
	}
	if len(log.infos) != 1 || log.infos[0] != "call returned non-success status" {
		t.Fatalf("unexpected logs %v", log.infos)
	}
}

func TestCallerNormalizesTransportFailure(t *testing.T) {
	srv := newPostsServer(t)
	base := srv.URL
	srv.Close()

	log := &captureLogger{}
	caller, err := NewCaller(testConfig(t, base), log)
	if err != nil {
		t.Fatalf("NewCaller: %v", err)
	}
	defer caller.Close()

	res, err := caller.Call(context.Background(), Call{Method: "delete", Path: "post", Params: map[string]any{"id": 1}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Err == nil || !res.Failed() {
		t.Fatalf("expected a failed result")
	}
	if res.Response.StatusCode() != http.StatusServiceUnavailable {
		t.Fatalf("expected synthetic 503, got %d", res.Response.StatusCode())
	}
	if len(log.errors) != 1 {
		t.Fatalf("expected one error log, got %v", log.errors)
	}

	history, err := caller.History(1)
	if err != nil || len(history) != 1 {
		t.Fatalf("History: %v (%d entries)", err, len(history))
	}
	if history[0].Status != http.StatusServiceUnavailable || history[0].Error == "" {
		t.Fatalf("unexpected journal entry %#v", history[0])
	}
}

func TestCallerRejectsUnsupportedMethod(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.StorageType = "none"
	caller, err := NewCaller(cfg, nil)
	if err != nil {
		t.Fatalf("NewCaller: %v", err)
	}
	if _, err := caller.Call(context.Background(), Call{Method: "TRACE", Path: "/x"}); err == nil {
		t.Fatalf("expected error for unsupported method")
	}
}

func TestNewCallerWithoutAliasFile(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.AliasesFile = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.StorageType = "none"

	log := &captureLogger{}
	caller, err := NewCaller(cfg, log)
	if err != nil {
		t.Fatalf("NewCaller: %v", err)
	}
	if len(log.warns) != 1 {
		t.Fatalf("expected a warning about the missing aliases file")
	}
	if got := caller.client.Resolve("post", nil); got != "post" {
		t.Fatalf("expected literal fallback, got %q", got)
	}
}

func TestNewCallerRejectsBadAliasFile(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	if err := os.WriteFile(cfg.AliasesFile, []byte("aliases: []"), 0o644); err != nil {
		t.Fatalf("write aliases: %v", err)
	}
	if _, err := NewCaller(cfg, nil); err == nil {
		t.Fatalf("expected error for empty alias file")
	}
}
