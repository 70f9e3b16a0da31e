package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samvad-hq/aliasclient/internal/app"
	"github.com/samvad-hq/aliasclient/internal/config"
	"github.com/samvad-hq/aliasclient/internal/logger"
	"github.com/spf13/pflag"
)

// errCallFailed marks a call that completed but was classified as a failure.
var errCallFailed = errors.New("call failed")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errCallFailed) {
			fmt.Fprintf(os.Stderr, "aliascall: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("aliascall", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.String("base-url", "", "base URL prepended to every path")
	flags.Int64("timeout-seconds", 20, "request timeout in seconds")
	flags.Int("retry-count", 0, "retries performed by the HTTP client")
	flags.String("aliases-file", "./configs/aliases.yaml", "YAML or JSON alias table")
	flags.Bool("fail-on-error-status", false, "treat responses with status >= 400 as errors")
	flags.Bool("strict-params", false, "keep 0 and false in interpolated paths")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("storage-type", "bbolt", "journal backend: bbolt or none")
	flags.String("bbolt-path", "./data/journal.db", "journal database path")
	headers := flags.StringArrayP("header", "H", nil, "request header, \"Name: value\" (repeatable)")
	query := flags.StringArrayP("query", "q", nil, "query parameter, key=value (repeatable)")
	data := flags.StringP("data", "d", "", "JSON object used as parameters and body")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: aliascall [flags] <get|post|put|patch|delete> <alias|path> [key=value | key:=json ...]")
		fmt.Fprintln(stderr, "       aliascall [flags] history [n]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	inv, err := app.ParseInvocation(app.Inputs{
		Args:    flags.Args(),
		Headers: *headers,
		Query:   *query,
		Data:    *data,
	})
	if err != nil {
		flags.Usage()
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("aliascall starting", "config", cfg)

	caller, err := app.NewCaller(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize caller", "error", err.Error())
		return err
	}
	defer caller.Close()

	if inv.History {
		return printHistory(caller, inv.Limit, stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := caller.Call(ctx, inv.Call)
	if err != nil {
		return err
	}

	fmt.Fprintf(stderr, "%s %s -> %d %s\n", res.Method, res.Path, res.Response.StatusCode(), res.Response.StatusText())
	if body := res.Response.Body(); len(body) > 0 {
		stdout.Write(body)
		if body[len(body)-1] != '\n' {
			fmt.Fprintln(stdout)
		}
	}
	if res.Failed() {
		return errCallFailed
	}
	return nil
}

func printHistory(caller *app.Caller, limit int, out io.Writer) error {
	entries, err := caller.History(limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-6s %-30s %d %s (%dms)", e.At.Local().Format(time.DateTime), e.Method, e.Path, e.Status, e.StatusText, e.DurationMs)
		if e.Input != e.Path {
			line += "  [" + e.Input + "]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
