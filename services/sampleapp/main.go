package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/iulianpascalau/dogstatsd-checker/commonGo"
	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/config"
	"github.com/iulianpascalau/dogstatsd-checker/services/sampleapp/factory"
	"github.com/multiversx/mx-chain-core-go/core"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	logsDirectory     = "logs"
	logsPrefix        = "sampleapp"
	logsRotateAfter   = 12 * time.Hour
	logsRotateAfterMB = 256
)

// version is set with -ldflags="-X main.version=<tag>"
var version = "undefined"

var log = logger.GetOrCreate("sampleapp")

var appFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "log-level",
		Usage: "logger `LEVELS` as comma separated package:level pairs, e.g. *:INFO,emitter:DEBUG",
		Value: "*:" + logger.LogInfo.String(),
	},
	cli.BoolFlag{
		Name:  "log-save",
		Usage: "also write the logs into rotated files",
	},
	cli.StringFlag{
		Name:  "working-directory",
		Usage: "`DIR` holding the logs folder when --log-save is set",
	},
	cli.StringFlag{
		Name:  "config",
		Usage: "`FILE` with the TOML configuration",
		Value: "./config.toml",
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "sampleapp"
	app.Usage = "HTTP worker simulator that pushes its metrics to a DogStatsD server"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Flags = appFlags
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Error("sample application stopped", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	closeLogs, err := setupLogging(c)
	if err != nil {
		return err
	}
	defer closeLogs()

	cfg := config.Config{}
	err = core.LoadTomlFile(&cfg, c.GlobalString("config"))
	if err != nil {
		return fmt.Errorf("%w while loading %s", err, c.GlobalString("config"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg)
}

// setupLogging applies the log levels and, if requested, attaches the rotated file logger
func setupLogging(c *cli.Context) (func(), error) {
	noop := func() {}

	err := logger.SetLogLevel(c.GlobalString("log-level"))
	if err != nil {
		return noop, err
	}

	fileLogging, err := commonGo.AttachFileLogger(log, logsDirectory, logsPrefix,
		c.GlobalBool("log-save"), c.GlobalString("working-directory"))
	if err != nil {
		return noop, err
	}
	if check.IfNil(fileLogging) {
		return noop, nil
	}

	err = fileLogging.ChangeFileLifeSpan(logsRotateAfter, logsRotateAfterMB)
	if err != nil {
		_ = fileLogging.Close()
		return noop, err
	}

	return func() {
		_ = fileLogging.Close()
	}, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	handler, err := factory.NewComponentsHandler(cfg)
	if err != nil {
		return err
	}

	handler.Start()
	log.Info("sample application running", "version", version, "pid", os.Getpid(),
		"http", handler.GetServer().Address(), "statsd", handler.GetPusher().Address())

	<-ctx.Done()

	log.Info("shutdown requested, closing components")
	handler.Close()

	return nil
}
