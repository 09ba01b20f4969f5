// raddecoded is a RADIUS attribute decoding daemon: it accepts UDP
// packets, decodes every attribute using internal/radius, and exports
// decode outcome counters over Prometheus.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/trace"
	"sync/atomic"
	"syscall"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/go-radius/raddecode/internal/config"
	"github.com/go-radius/raddecode/internal/dictionary"
	"github.com/go-radius/raddecode/internal/radius"
	"github.com/go-radius/raddecode/internal/radiusmetrics"
	appversion "github.com/go-radius/raddecode/internal/version"
)

// shutdownTimeout is the maximum time to wait for HTTP servers to drain
// active connections during graceful shutdown.
const shutdownTimeout = 10 * time.Second

// maxPacketSize is the largest UDP datagram the listener will read,
// matching RADIUS's own 4096-byte packet ceiling (RFC 2865 Section 3).
const maxPacketSize = 4096

// flightRecorderMinAge is the minimum window age for the flight recorder.
const flightRecorderMinAge = 500 * time.Millisecond

// flightRecorderMaxBytes is the upper bound on flight recorder window size.
const flightRecorderMaxBytes = 2 * 1024 * 1024 // 2 MiB

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()),
		)
		return 1
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(config.ParseLogLevel(cfg.Log.Level))
	logger := newLoggerWithLevel(cfg.Log, logLevel)

	logger.Info("raddecoded starting",
		slog.String("version", appversion.Version),
		slog.String("listen_addr", cfg.Listen.Addr),
		slog.String("metrics_addr", cfg.Metrics.Addr),
	)

	fr := startFlightRecorder(logger)

	dict, err := dictionary.Load(cfg.Decoder.DictionaryPath)
	if err != nil {
		logger.Error("failed to load dictionary",
			slog.String("path", cfg.Decoder.DictionaryPath),
			slog.String("error", err.Error()),
		)
		return 1
	}

	reg := prometheus.NewRegistry()
	collector := radiusmetrics.New(reg)

	clients := newClientTable(cfg.Clients)

	if err := runServers(cfg, dict, clients, collector, reg, logger, *configPath, logLevel, fr); err != nil {
		logger.Error("raddecoded exited with error", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("raddecoded stopped")
	return 0
}

// clientTable is an atomically-swappable map of client source address to
// shared secret, so SIGHUP reload can pick up new/changed clients without
// disturbing the in-flight decode loop.
type clientTable struct {
	secrets atomic.Pointer[map[string][]byte]
}

func newClientTable(clients []config.ClientConfig) *clientTable {
	t := &clientTable{}
	t.store(clients)
	return t
}

func (t *clientTable) store(clients []config.ClientConfig) {
	m := make(map[string][]byte, len(clients))
	for _, c := range clients {
		m[c.Addr] = []byte(c.Secret)
	}
	t.secrets.Store(&m)
}

func (t *clientTable) secretFor(host string) []byte {
	m := t.secrets.Load()
	if m == nil {
		return nil
	}
	return (*m)[host]
}

// runServers starts the UDP decode loop, the metrics/health HTTP server,
// the systemd watchdog goroutine, and the SIGHUP reload goroutine under
// one errgroup.Group, stopping everything on SIGINT/SIGTERM.
func runServers(
	cfg *config.Config,
	dict *dictionary.Dictionary,
	clients *clientTable,
	collector *radiusmetrics.Collector,
	reg *prometheus.Registry,
	logger *slog.Logger,
	configPath string,
	logLevel *slog.LevelVar,
	fr *trace.FlightRecorder,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	conn, err := net.ListenPacket("udp", cfg.Listen.Addr)
	if err != nil {
		return fmt.Errorf("listen udp %s: %w", cfg.Listen.Addr, err)
	}
	defer conn.Close()

	metricsSrv := newMetricsServer(cfg.Metrics, reg)

	g.Go(func() error {
		return serveDecodeLoop(gCtx, conn, dict, clients, cfg.Decoder, collector, logger)
	})

	lc := net.ListenConfig{}
	g.Go(func() error {
		logger.Info("metrics server listening", slog.String("addr", cfg.Metrics.Addr), slog.String("path", cfg.Metrics.Path))
		return listenAndServe(gCtx, &lc, metricsSrv, cfg.Metrics.Addr)
	})

	g.Go(func() error {
		return runWatchdog(gCtx, logger)
	})

	sigHUP := make(chan os.Signal, 1)
	signal.Notify(sigHUP, syscall.SIGHUP)
	g.Go(func() error {
		defer signal.Stop(sigHUP)
		handleSIGHUP(gCtx, sigHUP, configPath, logLevel, clients, logger)
		return nil
	})

	notifyReady(logger)

	g.Go(func() error {
		<-gCtx.Done()
		return gracefulShutdown(gCtx, conn, logger, fr, metricsSrv)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run servers: %w", err)
	}
	return nil
}

// serveDecodeLoop reads UDP datagrams, decodes every attribute in each
// one, and updates the decode-outcome counters. It returns only when ctx
// is cancelled or the socket read fails for a reason other than a normal
// shutdown close.
func serveDecodeLoop(
	ctx context.Context,
	conn net.PacketConn,
	dict *dictionary.Dictionary,
	clients *clientTable,
	decCfg config.DecoderConfig,
	collector *radiusmetrics.Collector,
	logger *slog.Logger,
) error {
	buf := make([]byte, maxPacketSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read udp packet: %w", err)
		}
		collector.PacketsSeen.Inc()

		secret := clients.secretFor(hostOf(addr))
		if secret == nil {
			logger.Warn("packet from unknown client, skipping", slog.String("addr", addr.String()))
			continue
		}

		decodePacketAttributes(buf[:n], dict, secret, decCfg, collector, logger)
	}
}

// decodePacketAttributes walks the attribute TLV stream following a
// 20-byte RADIUS header (RFC 2865 Section 3) and decodes each one.
func decodePacketAttributes(
	packet []byte,
	dict *dictionary.Dictionary,
	secret []byte,
	decCfg config.DecoderConfig,
	collector *radiusmetrics.Collector,
	logger *slog.Logger,
) {
	const headerLen = 20
	if len(packet) < headerLen {
		collector.DecodeFailures.WithLabelValues("insufficient_data").Inc()
		return
	}
	vector := append([]byte(nil), packet[4:20]...)
	attrs := packet[headerLen:]

	ctx := &radius.DecoderContext{
		Secret:              secret,
		Vector:              vector,
		TunnelPasswordZeros: decCfg.TunnelPasswordZeros,
		Dict:                dict,
	}

	for len(attrs) > 0 {
		cursor, consumed, err := radius.DecodePair(ctx, attrs)
		if err != nil {
			var decErr *radius.DecodeError
			kind := "unknown"
			if errors.As(err, &decErr) {
				kind = decErr.Kind.String()
			}
			collector.DecodeFailures.WithLabelValues(kind).Inc()
			logger.Debug("decode error", slog.String("error", err.Error()))
			return
		}
		for _, p := range cursor.Pairs() {
			collector.PairsDecoded.WithLabelValues(p.Attr.Kind.String()).Inc()
			if p.Attr.Flags.IsUnknown {
				collector.RawDemotions.WithLabelValues("decode_failed").Inc()
			}
		}
		attrs = attrs[consumed:]
	}
}

func hostOf(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

// -------------------------------------------------------------------------
// Systemd Integration — sd_notify + watchdog
// -------------------------------------------------------------------------

// notifyReady sends READY=1 to systemd, indicating the daemon has
// completed initialization and is ready to serve.
func notifyReady(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logger.Warn("failed to notify systemd readiness", slog.String("error", err.Error()))
		return
	}
	if sent {
		logger.Info("notified systemd: READY")
	}
}

// notifyStopping sends STOPPING=1 to systemd, indicating the daemon is
// beginning graceful shutdown.
func notifyStopping(logger *slog.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyStopping)
	if err != nil {
		logger.Warn("failed to notify systemd stopping", slog.String("error", err.Error()))
		return
	}
	if sent {
		logger.Info("notified systemd: STOPPING")
	}
}

// runWatchdog sends periodic watchdog keepalives to systemd at half the
// configured watchdog interval. If watchdog is not configured, it returns
// immediately.
func runWatchdog(ctx context.Context, logger *slog.Logger) error {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		logger.Warn("failed to check systemd watchdog", slog.String("error", err.Error()))
		return nil
	}
	if interval == 0 {
		logger.Debug("systemd watchdog not configured, skipping keepalive")
		return nil
	}

	tickInterval := interval / 2
	logger.Info("systemd watchdog enabled",
		slog.Duration("watchdog_sec", interval),
		slog.Duration("keepalive_interval", tickInterval),
	)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, wdErr := daemon.SdNotify(false, daemon.SdNotifyWatchdog); wdErr != nil {
				logger.Warn("failed to send watchdog keepalive", slog.String("error", wdErr.Error()))
			}
		}
	}
}

// -------------------------------------------------------------------------
// SIGHUP Reload — log level + client table
// -------------------------------------------------------------------------

// handleSIGHUP listens for SIGHUP signals and reloads configuration.
// On reload, the log level is updated dynamically via the shared LevelVar
// and the client secret table is swapped atomically. Blocks until ctx is
// cancelled.
func handleSIGHUP(
	ctx context.Context,
	sigHUP <-chan os.Signal,
	configPath string,
	logLevel *slog.LevelVar,
	clients *clientTable,
	logger *slog.Logger,
) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigHUP:
			logger.Info("received SIGHUP, reloading configuration")
			reloadConfig(configPath, logLevel, clients, logger)
		}
	}
}

// reloadConfig loads a fresh configuration from the given path, updates
// the dynamic log level, and swaps the client secret table. Errors during
// reload are logged but do not stop the daemon.
func reloadConfig(configPath string, logLevel *slog.LevelVar, clients *clientTable, logger *slog.Logger) {
	newCfg, err := loadConfig(configPath)
	if err != nil {
		logger.Error("failed to reload configuration, keeping current settings", slog.String("error", err.Error()))
		return
	}

	oldLevel := logLevel.Level()
	newLevel := config.ParseLogLevel(newCfg.Log.Level)
	logLevel.Set(newLevel)

	clients.store(newCfg.Clients)

	logger.Info("configuration reloaded",
		slog.String("old_log_level", oldLevel.String()),
		slog.String("new_log_level", newLevel.String()),
		slog.Int("clients", len(newCfg.Clients)),
	)
}

// -------------------------------------------------------------------------
// Graceful Shutdown
// -------------------------------------------------------------------------

// gracefulShutdown performs an orderly shutdown: signals systemd, stops
// the flight recorder, closes the UDP socket, then shuts down the given
// HTTP servers within shutdownTimeout.
//
// The parent context is already cancelled when this function is called. A
// fresh timeout context is created internally for server drain.
func gracefulShutdown(ctx context.Context, conn net.PacketConn, logger *slog.Logger, fr *trace.FlightRecorder, servers ...*http.Server) error {
	logger.Info("initiating graceful shutdown")
	notifyStopping(logger)

	if fr != nil {
		fr.Stop()
		logger.Debug("flight recorder stopped")
	}

	if err := conn.Close(); err != nil {
		logger.Warn("failed to close udp listener", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("shutdown server: %w", err))
		}
	}
	return shutdownErr
}

// -------------------------------------------------------------------------
// Flight Recorder
// -------------------------------------------------------------------------

// startFlightRecorder initializes and starts the runtime/trace
// FlightRecorder for post-mortem debugging of decode failures. The
// recorder maintains a rolling window of execution trace data that can be
// dumped on demand.
func startFlightRecorder(logger *slog.Logger) *trace.FlightRecorder {
	fr := trace.NewFlightRecorder(trace.FlightRecorderConfig{
		MinAge:   flightRecorderMinAge,
		MaxBytes: flightRecorderMaxBytes,
	})

	if err := fr.Start(); err != nil {
		logger.Warn("failed to start flight recorder", slog.String("error", err.Error()))
		return nil
	}

	logger.Info("flight recorder started",
		slog.Duration("min_age", flightRecorderMinAge),
		slog.Uint64("max_bytes", flightRecorderMaxBytes),
	)

	return fr
}

// -------------------------------------------------------------------------
// Server Setup
// -------------------------------------------------------------------------

// listenAndServe creates a TCP listener using the ListenConfig (for noctx
// compliance) and serves HTTP requests until the server is shut down.
func listenAndServe(ctx context.Context, lc *net.ListenConfig, srv *http.Server, addr string) error {
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
	return nil
}

// newMetricsServer creates an HTTP server for the Prometheus metrics
// endpoint plus a gRPC-health-v1 StaticChecker served over h2c, so
// orchestrators can health-check the daemon without a TLS terminator.
func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	checker := grpchealth.NewStaticChecker(grpchealth.HealthV1ServiceName)
	mux.Handle(grpchealth.NewHandler(checker))

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// loadConfig loads configuration from a file path or returns defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

// newLoggerWithLevel creates a structured logger using a shared LevelVar
// for dynamic log level changes.
func newLoggerWithLevel(cfg config.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
