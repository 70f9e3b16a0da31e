package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samvad-hq/aliasclient/internal/config"
	"github.com/samvad-hq/aliasclient/internal/logger"
	"github.com/samvad-hq/aliasclient/internal/storage"
	"github.com/samvad-hq/aliasclient/pkg/aliasclient"
	"github.com/samvad-hq/aliasclient/pkg/httpclient"
)

// Caller wires together config, the alias table, the HTTP client and the call journal.
type Caller struct {
	cfg     *config.Config
	client  *aliasclient.Client[string]
	journal storage.Journal
	log     logger.Logger
}

// Call is one request to issue.
type Call struct {
	Method string
	// Path is an alias name or a literal path.
	Path string
	// Params fills path placeholders; for POST, PUT and PATCH it is also the body.
	Params  map[string]any
	Request *httpclient.RequestConfig
}

// Result is the outcome of a Call. Err is already normalized, so Err.Response is
// always set when Err is.
type Result struct {
	Method   string
	Path     string
	Response httpclient.Response
	Err      *httpclient.Error
	Duration time.Duration
}

// Failed reports whether the call errored or came back with a failure status.
func (r Result) Failed() bool {
	return r.Err != nil || aliasclient.IsFailure(r.Response)
}

// NewCaller builds a caller runtime from config.
func NewCaller(cfg *config.Config, log logger.Logger) (*Caller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	aliases, err := loadAliases(cfg.AliasesFile, log)
	if err != nil {
		return nil, err
	}

	var resolverOpts []aliasclient.ResolverOption
	if cfg.StrictParams {
		resolverOpts = append(resolverOpts, aliasclient.WithStrictParams())
	}

	client, err := aliasclient.New(aliasclient.Options[string]{
		Config: httpclient.Config{
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout,
			RetryCount:        cfg.RetryCount,
			RetryWaitTime:     cfg.RetryWait,
			FailOnErrorStatus: cfg.FailOnErrorStatus,
		},
		Aliases:         aliases,
		Logger:          log,
		ResolverOptions: resolverOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}

	journal, err := storage.NewJournal(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	return &Caller{
		cfg:     cfg,
		client:  client,
		journal: journal,
		log:     log,
	}, nil
}

// loadAliases reads the alias file. An empty path or a missing file yields an empty
// table, in which case every path is used literally.
func loadAliases(path string, log logger.Logger) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.WarnObj("aliases file not found; using literal paths", "aliases_file", path)
		return nil, nil
	}

	aliases, err := aliasclient.LoadAliasFile[string](path)
	if err != nil {
		return nil, fmt.Errorf("load aliases: %w", err)
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	log.DebugObj("aliases loaded", "aliases_meta", map[string]any{
		"count": len(names),
		"names": names,
	})
	return aliases, nil
}

// Call issues the request, normalizes any error, logs the classification and
// records the outcome in the journal. The returned error is only set for an
// unsupported method; request failures are reported through Result.Err.
func (c *Caller) Call(ctx context.Context, call Call) (Result, error) {
	method, ok := normalizeMethod(call.Method)
	if !ok {
		return Result{}, fmt.Errorf("unsupported method %q", call.Method)
	}
	call.Method = method

	var params any
	if call.Params != nil {
		params = call.Params
	}

	start := time.Now()
	resp, err := c.client.Do(ctx, call.Method, call.Path, params, call.Request)
	res := Result{
		Method:   call.Method,
		Path:     c.client.Resolve(call.Path, params),
		Response: resp,
		Duration: time.Since(start),
	}
	if err == nil && resp == nil {
		err = errors.New("no response received")
	}
	if err != nil {
		res.Err = aliasclient.Normalize(err)
		res.Response = res.Err.Response
	}

	c.logResult(call, res)
	c.record(call, res)
	return res, nil
}

func (c *Caller) logResult(call Call, res Result) {
	meta := map[string]any{
		"method":      res.Method,
		"input":       call.Path,
		"path":        res.Path,
		"status":      res.Response.StatusCode(),
		"status_text": res.Response.StatusText(),
		"elapsed_ms":  res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		meta["error"] = res.Err.Error()
	}

	switch {
	case res.Err != nil:
		c.log.ErrorObj("call failed", "http_call", meta)
	case aliasclient.IsSuccessful(res.Response):
		c.log.InfoObj("call succeeded", "http_call", meta)
	case aliasclient.IsFailure(res.Response):
		c.log.WarnObj("call returned failure status", "http_call", meta)
	default:
		c.log.InfoObj("call returned non-success status", "http_call", meta)
	}
}

func (c *Caller) record(call Call, res Result) {
	entry := storage.Entry{
		Method:     res.Method,
		Input:      call.Path,
		Path:       res.Path,
		Status:     res.Response.StatusCode(),
		StatusText: res.Response.StatusText(),
		DurationMs: res.Duration.Milliseconds(),
		At:         time.Now().UTC(),
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	if err := c.journal.Record(entry); err != nil {
		c.log.ErrorObj("journal record failed", "error", err.Error())
	}
}

// History returns up to limit recent journal entries, newest first.
func (c *Caller) History(limit int) ([]storage.Entry, error) {
	return c.journal.Recent(limit)
}

// Close releases the journal.
func (c *Caller) Close() error {
	if c == nil || c.journal == nil {
		return nil
	}
	return c.journal.Close()
}
