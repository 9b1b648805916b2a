package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rubiojr/seekr/pkg/api"
	"github.com/rubiojr/seekr/pkg/debounce"
	"github.com/rubiojr/seekr/pkg/log"
	"github.com/rubiojr/seekr/pkg/maintenance"
	"github.com/rubiojr/seekr/pkg/realtime"
	"github.com/rubiojr/seekr/pkg/search"
	"github.com/urfave/cli/v3"
)

var serveLogger = log.ForService("serve")

// changeSettle coalesces the bursts of events a single SQLite commit or an
// editor save produces.
const changeSettle = 250 * time.Millisecond

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the search API and WebSocket server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (defaults to server.port)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.String("host"), c.Int("port"))
		},
	}
}

// serve runs the API server until SIGINT or SIGTERM
func serve(ctx context.Context, configPath, host string, port int) error {
	cfg, store, err := openStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	addr := cfg.ServerAddr()

	hub := realtime.NewHub(0)
	server := api.NewServer(store, hub, search.OptionsFromConfig(cfg.Search))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	upkeep := maintenance.NewScheduler(maintenance.Config{Interval: cfg.Server.OptimizeInterval.Duration}, store)
	if err := upkeep.Start(ctx); err != nil {
		return fmt.Errorf("starting maintenance: %w", err)
	}
	defer upkeep.Stop()

	watcher, err := newChangeWatcher(store.Path(), configPath, hub)
	if err != nil {
		serveLogger.Warnf("live refresh disabled: %v", err)
	} else {
		defer watcher.Close()
		go watcher.Run()
	}

	errCh := make(chan error, 1)
	go func() {
		serveLogger.Infof("listening on http://%s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	case <-sigCh:
		fmt.Println("\nShutting down...")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// changeWatcher turns filesystem events on the database (including its WAL
// files) and the config file into hub broadcasts.
type changeWatcher struct {
	watcher    *fsnotify.Watcher
	hub        *realtime.Hub
	dbPath     string
	configPath string

	dataChanged   *debounce.Debouncer
	configChanged *debounce.Debouncer
}

func newChangeWatcher(dbPath, configPath string, hub *realtime.Hub) (*changeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	cw := &changeWatcher{
		watcher:    w,
		hub:        hub,
		dbPath:     filepath.Clean(dbPath),
		configPath: filepath.Clean(configPath),
	}
	cw.dataChanged = debounce.New(changeSettle, func() { cw.broadcast(realtime.KindDataChanged, cw.dbPath) })
	cw.configChanged = debounce.New(changeSettle, func() { cw.broadcast(realtime.KindConfigChanged, cw.configPath) })

	// Directories are watched so that atomic replacements (rename over the
	// file) and freshly created WAL files are seen.
	dirs := map[string]struct{}{filepath.Dir(cw.dbPath): {}}
	if _, err := os.Stat(cw.configPath); err == nil {
		dirs[filepath.Dir(cw.configPath)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		serveLogger.Debugf("watching %s for changes", dir)
	}
	return cw, nil
}

// Run processes events until the watcher is closed.
func (cw *changeWatcher) Run() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handle(event)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			serveLogger.Warnf("watcher error: %v", err)
		}
	}
}

func (cw *changeWatcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	name := filepath.Clean(event.Name)
	switch {
	case isDatabaseFile(cw.dbPath, name):
		cw.dataChanged.Trigger()
	case name == cw.configPath:
		cw.configChanged.Trigger()
	}
}

func (cw *changeWatcher) broadcast(kind, path string) {
	n := cw.hub.Broadcast(realtime.NewEvent(kind, path))
	serveLogger.Debugf("%s: notified %d sessions", kind, n)
	if kind == realtime.KindConfigChanged {
		serveLogger.Infof("config file changed; restart to apply new search settings")
	}
}

// Close stops watching and cancels pending broadcasts.
func (cw *changeWatcher) Close() {
	cw.dataChanged.Stop()
	cw.configChanged.Stop()
	if err := cw.watcher.Close(); err != nil {
		serveLogger.Warnf("failed to close watcher: %v", err)
	}
}

// isDatabaseFile reports whether name is the database or one of its
// -wal, -shm and -journal companions.
func isDatabaseFile(dbPath, name string) bool {
	if name == dbPath {
		return true
	}
	suffix, ok := strings.CutPrefix(name, dbPath)
	if !ok {
		return false
	}
	switch suffix {
	case "-wal", "-shm", "-journal":
		return true
	}
	return false
}
