package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/moira-alert/mutguard/api/handler"
	"github.com/moira-alert/mutguard/cmd"
	"github.com/moira-alert/mutguard/logging"
	logger "github.com/moira-alert/mutguard/logging/zerolog_adapter"
	"github.com/moira-alert/mutguard/metrics"
)

const serviceName = "gateway"

var (
	configFileName         = flag.String("config", "/etc/mutguard/mutguard.yml", "Path to configuration file")
	printVersion           = flag.Bool("version", false, "Print version and exit")
	printDefaultConfigFlag = flag.Bool("default-config", false, "Print default config and exit")
)

// Mutguard gateway bin version
var (
	MutguardVersion = "unknown"
	GitCommit       = "unknown"
	GoVersion       = "unknown"
)

func main() {
	flag.Parse()
	if *printVersion {
		fmt.Println("Mutguard Gateway")
		fmt.Println("Version:", MutguardVersion)
		fmt.Println("Git Commit:", GitCommit)
		fmt.Println("Go Version:", GoVersion)
		os.Exit(0)
	}

	config := getDefault()
	if *printDefaultConfigFlag {
		cmd.PrintConfig(config)
		os.Exit(0)
	}

	err := cmd.ReadConfig(*configFileName, &config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can not read settings: %s\n", err.Error())
		os.Exit(1)
	}

	log, err := logger.ConfigureLog(config.Logger.LogFile, config.Logger.LogLevel, serviceName, config.Logger.LogPrettyFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can not configure log: %s\n", err.Error())
		os.Exit(1)
	}

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msg(fmt.Sprintf(format, args...))
	})); err != nil {
		log.Warning().
			Error(err).
			Msg("Can not set GOMAXPROCS")
	}

	gatewayConfig, err := config.Gateway.getSettings()
	if err != nil {
		log.Fatal().
			Error(err).
			Msg("Invalid gateway settings")
	}

	registry, err := config.Overrides.getRegistry()
	if err != nil {
		log.Fatal().
			Error(err).
			Msg("Invalid overrides settings")
	}

	source, closers, err := config.getPolicySource(log)
	if err != nil {
		log.Fatal().
			Error(err).
			Msg("Can not configure policy source")
	}
	defer closeAll(closers)

	telemetry, err := cmd.ConfigureTelemetry(log, config.Telemetry, serviceName)
	if err != nil {
		log.Fatal().
			Error(err).
			Msg("Can not start telemetry")
	}
	defer telemetry.Stop()

	httpHandler, err := handler.NewHandler(gatewayConfig, source, registry, log, metrics.ConfigureGuardMetrics(telemetry.Metrics))
	if err != nil {
		log.Fatal().
			Error(err).
			Msg("Can not configure gateway handler")
	}

	listener, err := net.Listen("tcp", gatewayConfig.Listen)
	if err != nil {
		log.Fatal().
			Error(err).
			Msg("Failed to start listening")
	}

	log.Info().
		String("listen", gatewayConfig.Listen).
		String("upstream", gatewayConfig.Upstream.String()).
		String("policy", config.Policy.Type).
		Msg("Start listening")

	server := &http.Server{
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		server.Serve(listener) //nolint
	}()
	defer Stop(log, server)

	log.Info().
		String("mutguard_version", MutguardVersion).
		Msg("Mutguard Gateway Started")

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	log.Info().Msg(fmt.Sprint(<-ch))
	log.Info().Msg("Mutguard Gateway shutting down.")
}

// Stop Mutguard gateway HTTP server
func Stop(log logging.Logger, server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().
			Error(err).
			Msg("Can't stop Mutguard Gateway correctly")
	}
	log.Info().
		String("mutguard_version", MutguardVersion).
		Msg("Mutguard Gateway Stopped")
}
