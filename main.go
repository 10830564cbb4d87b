// Command minesweeper runs the minesweeper game server.
//
// It supports three modes:
//  1. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "discord" – runs the Discord bot answering !play in allowed channels
//  3. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings are read from .env, flags, environment variables and an optional
// minesweeper.{toml,yaml,json} file in the config directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Barkoczy/discord-minesweeper/api"
	"github.com/Barkoczy/discord-minesweeper/game/config"
	"github.com/Barkoczy/discord-minesweeper/game/service"
	"github.com/Barkoczy/discord-minesweeper/game/session"
	"github.com/Barkoczy/discord-minesweeper/internal/logging"
	"github.com/Barkoczy/discord-minesweeper/transport/discord"
	"github.com/Barkoczy/discord-minesweeper/transport/mcp"
	"github.com/Barkoczy/discord-minesweeper/transport/websocket"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Minesweeper Server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env before flags read their environment sources.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("error loading .env file")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logrus.WithError(err).Fatal("minesweeper failed")
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "minesweeper",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (trace, debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logging.FormatText,
				Usage:   "log format (text or json)",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   ".",
				Usage:   "directory containing minesweeper.{toml,yaml,json}",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			discordCommand(),
			mcpCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, WebSocket, and MCP endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := initializeServices(cmd)
			if err != nil {
				return err
			}
			go app.manager.RunSweeper(ctx, app.settings.SweepInterval, app.settings.IdleTimeout)

			addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
			return runHTTPServer(ctx, app, addr, ngrokOptions{
				enabled:   cmd.Bool("ngrok"),
				authToken: cmd.String("ngrok-auth"),
				domain:    cmd.String("ngrok-domain"),
			})
		},
	}
}

func discordCommand() *cli.Command {
	return &cli.Command{
		Name:  "discord",
		Usage: "run the Discord bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Discord bot token",
				Sources: cli.EnvVars("TOKEN", "DISCORD_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "default-channel",
				Usage:   "channel ID the bot always answers in",
				Sources: cli.EnvVars("DEFAULT_CHANNEL_ID"),
			},
			&cli.StringFlag{
				Name:    "allowed-channels",
				Value:   config.DefaultAllowListFile,
				Usage:   "file with one allowed channel ID per line",
				Sources: cli.EnvVars("ALLOWED_CHANNELS_FILE"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			token := cmd.String("token")
			if token == "" {
				return errors.New("discord token is required (--token or TOKEN)")
			}

			app, err := initializeServices(cmd)
			if err != nil {
				return err
			}

			allowed := config.LoadAllowedChannels(cmd.String("default-channel"), cmd.String("allowed-channels"), app.log)

			bot, err := discord.New(token, app.games, allowed, app.log)
			if err != nil {
				return err
			}
			if err := bot.Open(); err != nil {
				return err
			}
			defer bot.Close()

			go app.manager.RunSweeper(ctx, app.settings.SweepInterval, app.settings.IdleTimeout)

			<-ctx.Done()
			app.log.Info("shutting down Discord bot")
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server, using an external API or an internal one",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8080",
				Usage:   "REST API to proxy to when it is reachable",
				Sources: cli.EnvVars("MINESWEEPER_API_URL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := initializeServices(cmd)
			if err != nil {
				return err
			}
			return runStdioMCP(ctx, app, cmd.String("api-url"))
		},
	}
}

// application holds the wired core shared by every mode
type application struct {
	settings config.Settings
	manager  *session.Manager
	games    service.GameService
	log      *logrus.Logger
}

// initializeServices wires logging, settings, the session registry and the
// game service.
func initializeServices(cmd *cli.Command) (*application, error) {
	logger, err := logging.New(cmd.String("log-level"), cmd.String("log-format"), os.Stderr)
	if err != nil {
		return nil, err
	}

	configManager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	settings := configManager.Settings()

	manager, err := session.NewManager(settings.BoardSize, settings.Mines, session.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"version":        Version,
		"config":         configManager.ConfigFile(),
		"board_size":     settings.BoardSize,
		"mines":          settings.Mines,
		"idle_timeout":   settings.IdleTimeout,
		"sweep_interval": settings.SweepInterval,
	}).Infof("starting %s", AppName)

	return &application{
		settings: settings,
		manager:  manager,
		games:    service.NewGameService(manager),
		log:      logger,
	}, nil
}

// newRouter mounts the REST API, WebSocket hub and /mcp endpoint
func newRouter(app *application, hub *websocket.Hub, baseURL string) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(app.games, hub, app.log))
	mainRouter.Handle("/mcp", mcp.NewClient(baseURL).HTTPHandler())
	return mainRouter
}

type ngrokOptions struct {
	enabled   bool
	authToken string
	domain    string
}

// runHTTPServer serves until ctx is done, optionally through an ngrok tunnel
func runHTTPServer(ctx context.Context, app *application, addr string, ngrokOpts ngrokOptions) error {
	hub := websocket.NewHub(app.log)
	go hub.Run(ctx)

	handler := newRouter(app, hub, fmt.Sprintf("http://%s", addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		app.log.WithFields(logrus.Fields{
			"rest":      fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?player=<player_id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("HTTP server listening on %s", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if ngrokOpts.enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, app.log, handler, ngrokOpts)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		app.log.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		app.log.WithError(err).Warn("HTTP server shutdown error")
	}

	wg.Wait()
	app.log.Info("server stopped")
	return runErr
}

func runNgrok(ctx context.Context, log logrus.FieldLogger, handler http.Handler, opts ngrokOptions) {
	if opts.authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	log.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if opts.domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.domain))
		log.WithField("domain", opts.domain).Info("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.authToken))
	if err != nil {
		log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.WithFields(logrus.Fields{
		"rest":      ngrokURL + "/api",
		"websocket": ngrokURL + "/ws?player=<player_id>",
		"mcp":       ngrokURL + "/mcp",
	}).Infof("ngrok tunnel established: %s", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.WithError(err).Error("ngrok server error")
	}
	log.Info("ngrok tunnel closed")
}

// apiAvailable reports whether a minesweeper API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns its base URL
func startInternalAPI(ctx context.Context, app *application) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub(app.log)
	go hub.Run(ctx)

	httpServer := &http.Server{Handler: api.NewServer(app.games, hub, app.log)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.WithError(err).Error("internal HTTP server error")
		}
	}()

	return fmt.Sprintf("http://%s", listener.Addr().String()), httpServer, nil
}

// runStdioMCP proxies MCP over stdio to externalURL, or to an internal API
// when nothing answers there.
func runStdioMCP(ctx context.Context, app *application, externalURL string) error {
	baseURL := externalURL

	if apiAvailable(externalURL) {
		app.log.WithField("url", externalURL).Info("external API server found, using it for MCP")
	} else {
		app.log.Info("no external API server found, starting internal HTTP server")

		internalURL, httpServer, err := startInternalAPI(ctx, app)
		if err != nil {
			return err
		}
		defer httpServer.Close()

		go app.manager.RunSweeper(ctx, app.settings.SweepInterval, app.settings.IdleTimeout)
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL)
	app.log.WithField("api", baseURL).Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
