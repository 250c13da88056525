// Command axes is the thin entry point over the core described in
// SPEC_FULL.md: it resolves a context string to a project, loads that
// project's merged layer chain, specializes and flattens the requested
// script, validates the residual CLI args against its parameter
// contract, and executes it. The CLI grammar itself (flag parsing,
// `init`/`info`/`tree` subcommands, session management) is a dispatcher
// concern the spec explicitly leaves out of the core's scope; this
// binary wires just enough argv handling to drive the core end to end.
//
// Usage: axes <context> <script> [args...]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/axes-build/axes/internal/cache"
	"github.com/axes-build/axes/internal/config"
	"github.com/axes-build/axes/internal/ctxresolve"
	"github.com/axes-build/axes/internal/executor"
	"github.com/axes-build/axes/internal/exitcode"
	"github.com/axes-build/axes/internal/index"
	"github.com/axes-build/axes/internal/params"
	"github.com/axes-build/axes/internal/resolver"
	"github.com/axes-build/axes/internal/specializer"
	"github.com/axes-build/axes/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "axes: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	if len(os.Args) < 3 {
		return exitcode.ParamValidation, fmt.Errorf("usage: axes <context> <script> [args...]")
	}
	ctxStr, scriptName, residual := os.Args[1], os.Args[2], os.Args[3:]

	cfg, err := config.Load("")
	if err != nil {
		return exitcode.CacheIO, fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	logger.Info("starting axes", "version", Version, "context", ctxStr, "script", scriptName)

	signalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	indexPath, err := defaultIndexPath()
	if err != nil {
		return exitcode.CacheIO, fmt.Errorf("locating global index: %w", err)
	}
	idx, err := loadOrBootstrapIndex(indexPath)
	if err != nil {
		return exitcode.CacheIO, fmt.Errorf("loading global index: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return exitcode.CacheIO, fmt.Errorf("getting working directory: %w", err)
	}
	leaf, err := ctxresolve.New(idx).Resolve(ctxStr, uuid.Nil, cwd)
	if err != nil {
		return exitcode.ContextResolution, err
	}
	entry := idx.Entries[leaf]

	cacheDir := cfg.Cache.Dir
	if cacheDir == "" {
		cacheDir = defaultCacheDir()
	}
	store, err := cache.New(cacheDir)
	if err != nil {
		return exitcode.CacheIO, err
	}

	facade, err := resolver.NewLoader(idx, store).Load(signalCtx, leaf)
	if err != nil {
		return exitcode.CacheIO, fmt.Errorf("loading layer chain: %w", err)
	}

	if err := index.Save(indexPath, idx); err != nil {
		logger.Warn("failed to persist global index", "error", err)
	}

	universal, ok := facade.GetScript(scriptName)
	if !ok {
		return exitcode.ParamValidation, fmt.Errorf("no such script %q", scriptName)
	}

	host := specializer.HostPlatform()
	specialized := specializer.Specialize(universal, host)

	flattened, err := executor.FlattenScript(specialized, facade, host)
	if err != nil {
		return exitcode.CacheIO, err
	}
	defs := (&task.SpecializedTask{Name: scriptName, Commands: flattened}).ParameterDefs()

	values, _, err := params.Resolve(defs, residual)
	if err != nil {
		return exitcode.ParamValidation, err
	}

	opts := facade.GetOptions()
	shellPath := opts.Shell
	if shellPath == "" {
		shellPath = cfg.Shell.Path
	}

	exec := &executor.Executor{
		Facade:      facade,
		Host:        host,
		Env:         facade.GetEnv(),
		Params:      values,
		ProjectUUID: leaf,
		ProjectName: entry.Name,
		ProjectPath: entry.Path,
		Shell:       []string{shellPath, "-c"},
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}

	code, err := exec.Run(specialized)
	if err != nil {
		return exitcode.CacheIO, err
	}
	return code, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultIndexPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "axes", "index.bin"), nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".axes-cache"
	}
	return filepath.Join(dir, "axes", "layers")
}

// loadOrBootstrapIndex loads the persisted global index, or starts a
// fresh empty one if none exists yet. Rebuilding a lost or corrupt index
// from filesystem sidecars (index.RebuildFromFilesystem) needs a scan
// root the dispatcher doesn't have in this minimal form — a full `axes
// doctor` command would take that root as an explicit argument.
func loadOrBootstrapIndex(path string) (*index.GlobalIndex, error) {
	idx, err := index.Load(path)
	if err == nil {
		return idx, nil
	}
	if os.IsNotExist(err) {
		return index.New(), nil
	}
	return nil, err
}
