package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/shellauth/internal/callback"
	"github.com/desertthunder/shellauth/internal/flow"
	"github.com/desertthunder/shellauth/internal/idp"
	"github.com/desertthunder/shellauth/internal/server"
	"github.com/desertthunder/shellauth/internal/session"
	"github.com/desertthunder/shellauth/internal/shared"
	"github.com/desertthunder/shellauth/internal/store"
	"github.com/desertthunder/shellauth/internal/ui"
	"github.com/desertthunder/shellauth/internal/webview"
)

// shell bundles the assembled coordinator with its local HTTP surface.
type shell struct {
	bus         *callback.Bus
	coordinator *flow.Coordinator
	httpServer  *http.Server
	db          *sql.DB
}

func (s *shell) close() {
	if s.db != nil {
		s.db.Close()
	}
}

// assembleShell wires bus, session factory, coordinator, and the bridge
// router for the configured capability level. The audit trail is optional:
// a database failure degrades to running without one.
func (r *Runner) assembleShell(config *shared.Config, view webview.Notifier) (*shell, error) {
	capability, err := session.ParseCapability(config.App.Capability)
	if err != nil {
		return nil, err
	}

	scheme := config.App.CallbackScheme()
	bus := &callback.Bus{}
	factory := session.NewFactory(session.Factory{
		Capability: capability,
		Bus:        bus,
		Logger:     r.logger,
	})

	var db *sql.DB
	var recorder flow.Recorder
	if config.Database.Path != "" {
		db, err = shared.NewDatabase(config.Database.Path)
		if err != nil {
			r.logger.Warnf("audit database unavailable %v", err)
		} else {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			if err := shared.RunMigrations(db); err != nil {
				r.logger.Warnf("failed to run migrations %v", err)
				db.Close()
				db = nil
			} else {
				recorder = store.NewAudit(db)
			}
		}
	}

	coordinator := flow.New(flow.Opts{
		Scheme:   scheme,
		Bus:      bus,
		Factory:  factory,
		View:     view,
		Recorder: recorder,
		Logger:   r.logger,
	})

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewBridgeHandler(coordinator, config.Server.BridgeRate, r.logger))
	router.Handler(server.NewRedirectHandler(scheme, bus, r.logger))

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return &shell{bus: bus, coordinator: coordinator, httpServer: httpServer, db: db}, nil
}

// loadConfig resolves the effective configuration for a command invocation.
// A --config flag pointing at an existing file wins over the config the
// Runner was constructed with.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath != "" && configPath != r.configPath {
		if _, err := os.Stat(configPath); err == nil {
			if config, err := shared.LoadConfig(configPath); err == nil {
				return config
			}
			r.logger.Warnf("failed to load config at %s, using defaults", configPath)
		}
	}

	if r.config != nil {
		return r.config
	}

	return shared.DefaultConfig()
}

// Setup creates the config file and initializes the audit database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		r.logger.Warnf("skipping config creation %v", err)
	} else {
		r.writePlain("%s Config written to %s\n", ui.Styles.OK("✓"), configPath)
	}

	config := r.loadConfig(cmd)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlain("%s Audit database ready at %s\n", ui.Styles.OK("✓"), config.Database.Path)

	return nil
}

// Serve runs the local bridge and redirect listener until the context is canceled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	view := webview.NewView(&scriptLog{runner: r}, r.logger)
	sh, err := r.assembleShell(config, view)
	if err != nil {
		return err
	}
	defer sh.close()

	r.writePlain("%s Bridge listening at %s\n", ui.Styles.OK("→"), sh.httpServer.Addr)
	r.writePlain("%s\n", ui.Styles.Help("POST /bridge to start a flow, redirects land on /"+shared.CallbackPath))

	serverErrors := make(chan error, 1)
	go func() {
		if err := sh.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sh.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	return nil
}

// Auth drives a single authorization flow from the terminal.
//
// Opens the configured identity provider's authorize URL through the selected
// session provider and waits for the redirect to land on the loopback
// listener.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	scheme := config.App.CallbackScheme()

	endpoint := cmd.String("endpoint")
	if endpoint == "" {
		client, err := idp.NewClient(config.IDP, scheme)
		if err != nil {
			return err
		}
		endpoint = client.AuthorizeURL(shared.GenerateState())
	}

	view := newTerminalView()
	sh, err := r.assembleShell(config, view)
	if err != nil {
		return err
	}
	defer sh.close()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting redirect listener at %v", sh.httpServer.Addr)
		if err := sh.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for authorization...\n")
	if err := sh.coordinator.StartOAuth(endpoint); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var delivered string

	select {
	case delivered = <-view.Received():
		// Token posted to the web content channel
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sh.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	r.writePlainln("%s Authorization successful", ui.Styles.OK("✓"))
	r.writePlain("%s Delivered to web content: %s\n", ui.Styles.OK("✓"), delivered)

	return nil
}

// Flows lists recent authorization flows from the audit trail.
func (r *Runner) Flows(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	flows, err := store.NewAudit(db).Recent(int(limit))
	if err != nil {
		return fmt.Errorf("failed to list flows: %w", err)
	}

	if useJSON {
		return r.writeJSON(flows, pretty)
	}

	r.writePlain("Found %d flows:\n\n", len(flows))
	for i, f := range flows {
		outcome := f.Outcome
		switch outcome {
		case flow.OutcomeTokenDelivered:
			outcome = ui.Styles.OK(outcome)
		case flow.OutcomeDenied:
			outcome = ui.Styles.Err(outcome)
		default:
			outcome = ui.Styles.Warn(outcome)
		}

		r.writePlain("%d. %s\n", i+1, f.ID)
		r.writePlain("   Host: %s\n", f.EndpointHost)
		r.writePlain("   Variant: %s\n", f.Variant)
		r.writePlain("   Outcome: %s\n", outcome)
		r.writePlain("   Started: %s\n", f.StartedAt.Format(time.RFC3339))
		if f.CompletedAt != nil {
			r.writePlain("   Completed: %s\n", f.CompletedAt.Format(time.RFC3339))
		}
		r.writePlain("\n")
	}

	return nil
}

// terminalView stands in for the embedded web content when a flow is driven
// from the terminal. The first posted message is printed and handed to the
// waiting command.
type terminalView struct {
	received chan string
	once     sync.Once
}

func newTerminalView() *terminalView {
	return &terminalView{received: make(chan string, 1)}
}

// PostMessage implements [webview.Notifier].
func (v *terminalView) PostMessage(data string) {
	v.once.Do(func() {
		v.received <- data
		close(v.received)
	})
}

// Received returns the channel carrying the first delivered payload.
func (v *terminalView) Received() <-chan string {
	return v.received
}

// scriptLog is the serve-mode script evaluation channel: there is no real
// webview attached, so evaluated scripts are logged instead.
type scriptLog struct {
	runner *Runner
}

// EvaluateJavaScript implements [webview.Evaluator].
func (s *scriptLog) EvaluateJavaScript(script string) {
	s.runner.logger.Info("webview evaluate", "script", script)
}
