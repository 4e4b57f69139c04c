package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/jwtradera/scrt-strongbox/common"
	"github.com/jwtradera/scrt-strongbox/gate"
	"github.com/jwtradera/scrt-strongbox/httpserver"
	"github.com/jwtradera/scrt-strongbox/interfaces"
	"github.com/jwtradera/scrt-strongbox/metrics"
	"github.com/jwtradera/scrt-strongbox/store"
	"github.com/jwtradera/scrt-strongbox/viewingkey"
)

var flags []cli.Flag = []cli.Flag{
	&cli.StringFlag{
		Name:  "listen-addr",
		Value: "127.0.0.1:8080",
		Usage: "address to listen on for API",
	},
	&cli.StringFlag{
		Name:  "metrics-addr",
		Value: "127.0.0.1:8090",
		Usage: "address to listen on for Prometheus metrics",
	},
	&cli.StringFlag{
		Name:  "state-store",
		Value: "mem://local",
		Usage: "state store URI: mem://, file://, vault:// or s3://",
	},
	&cli.StringFlag{
		Name:  "bootstrap-owner",
		Value: "",
		Usage: "hex address to instantiate the strongbox for at startup (requires seed shares)",
	},
	&cli.StringSliceFlag{
		Name:  "seed-share",
		Usage: "hex-encoded Shamir share of the master seed, repeat per share",
	},
	&cli.BoolFlag{
		Name:  "log-json",
		Value: false,
		Usage: "log in JSON format",
	},
	&cli.BoolFlag{
		Name:  "log-debug",
		Value: false,
		Usage: "log debug messages",
	},
	&cli.BoolFlag{
		Name:  "log-uid",
		Value: false,
		Usage: "generate a uuid and add to all log messages",
	},
	&cli.StringFlag{
		Name:  "log-service",
		Value: common.PackageName,
		Usage: "add 'service' tag to logs",
	},
	&cli.BoolFlag{
		Name:  "pprof",
		Value: false,
		Usage: "enable pprof debug endpoint",
	},
	&cli.Int64Flag{
		Name:  "drain-seconds",
		Value: 45,
		Usage: "seconds to wait in drain HTTP request",
	},
}

func main() {
	app := &cli.App{
		Name:  "strongboxd",
		Usage: "Serve the strongbox secret store API",
		Flags: flags,
		Action: func(cCtx *cli.Context) error {
			listenAddr := cCtx.String("listen-addr")
			metricsAddr := cCtx.String("metrics-addr")
			stateStoreURI := cCtx.String("state-store")
			bootstrapOwner := cCtx.String("bootstrap-owner")
			seedShares := cCtx.StringSlice("seed-share")
			logJSON := cCtx.Bool("log-json")
			logDebug := cCtx.Bool("log-debug")
			logUID := cCtx.Bool("log-uid")
			logService := cCtx.String("log-service")
			enablePprof := cCtx.Bool("pprof")
			drainDuration := time.Duration(cCtx.Int64("drain-seconds")) * time.Second

			logger := common.SetupLogger(&common.LoggingOpts{
				Debug:   logDebug,
				JSON:    logJSON,
				Service: logService,
				Version: common.Version,
			})

			if logUID {
				id := uuid.Must(uuid.NewRandom())
				logger = logger.With("uid", id.String())
			}

			// Resolve the state store backend
			location, err := interfaces.NewStateLocation(stateStoreURI)
			if err != nil {
				logger.Error("Invalid state store URI", "uri", stateStoreURI, "err", err)
				return err
			}

			stateStore, err := store.NewFactory(logger).StoreFor(location)
			if err != nil {
				logger.Error("Failed to create state store", "err", err)
				return err
			}
			if !stateStore.Available(context.Background()) {
				logger.Error("State store is not available", "store", stateStore.Name())
				return fmt.Errorf("state store %s unavailable", stateStore.Name())
			}
			logger.Info("State store ready", "store", stateStore.Name(), "location", stateStore.LocationURI())

			strongboxGate := gate.New(logger)

			// Optional startup instantiation from Shamir seed shares
			if bootstrapOwner != "" {
				owner, err := interfaces.NewIdentityFromHex(bootstrapOwner)
				if err != nil {
					logger.Error("Invalid bootstrap owner address", "err", err)
					return err
				}

				if len(seedShares) == 0 {
					logger.Error("bootstrap-owner requires at least one seed-share")
					return fmt.Errorf("bootstrap-owner requires seed shares")
				}

				shares := make([][]byte, 0, len(seedShares))
				for _, share := range seedShares {
					raw, err := hex.DecodeString(share)
					if err != nil {
						logger.Error("Invalid seed share encoding", "err", err)
						return fmt.Errorf("invalid seed share: %w", err)
					}
					shares = append(shares, raw)
				}

				seed, err := viewingkey.CombineSeedShares(shares)
				if err != nil {
					logger.Error("Failed to combine seed shares", "err", err)
					return err
				}

				err = strongboxGate.Instantiate(context.Background(), stateStore, owner, seed)
				if err != nil {
					logger.Error("Failed to instantiate strongbox", "err", err)
					return err
				}
				logger.Info("Strongbox instantiated at startup", "owner", owner.String())
			}

			// Set up the metrics listener
			var metricsSrv *metrics.MetricsServer
			var recorder httpserver.OperationRecorder
			if metricsAddr != "" {
				metricsSrv, err = metrics.New(common.PackageName, metricsAddr)
				if err != nil {
					logger.Error("Failed to create metrics server", "err", err)
					return err
				}
				recorder = metricsSrv
			}

			cfg := &httpserver.HTTPServerConfig{
				ListenAddr:               listenAddr,
				MetricsAddr:              metricsAddr,
				Log:                      logger,
				EnablePprof:              enablePprof,
				DrainDuration:            drainDuration,
				GracefulShutdownDuration: 30 * time.Second,
				ReadTimeout:              60 * time.Second,
				WriteTimeout:             30 * time.Second,
			}

			handler := httpserver.NewHandler(strongboxGate, stateStore, recorder, logger)

			server, err := httpserver.New(cfg, handler, metricsSrv)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			logger.Info("Starting server")
			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
