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
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/config"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/factory"
	"github.com/iulianpascalau/dogstatsd-checker/services/checker/harness"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "checker"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
	envFile              = "./.env"
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	checkerHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("checker")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,listener:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the listener package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the checker will store its logs.",
		Value: "",
	}
	// configFile defines the path to the checker's TOML configuration
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "This flag specifies the `path` of the TOML configuration file.",
		Value: "./config.toml",
	}

	exitCode = factory.ExitCodeSuccess
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = checkerHelpTemplate
	app.Name = "DogStatsD checker"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This is the entry point for validating the DogStatsD metrics emitted by an application under test"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configFile,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}

	app.Action = run

	err := app.Run(os.Args)
	if fileLogging != nil {
		_ = fileLogging.Close()
	}
	if err != nil {
		log.Error(err.Error())
		os.Exit(factory.ExitCodeFailure)
	}

	os.Exit(exitCode)
}

func run(ctx *cli.Context) error {
	saveLogFile := ctx.GlobalBool(logSaveFile.Name)
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, defaultLogsPath, logFilePrefix, saveLogFile, workingDir)
	if err != nil {
		return err
	}

	if !check.IfNil(fileLogging) {
		timeLogLifeSpan := time.Second * time.Duration(logFileLifeSpanInSec)
		sizeLogLifeSpanInMB := uint64(logFileLifeSpanInMB)
		err = fileLogging.ChangeFileLifeSpan(timeLogLifeSpan, sizeLogLifeSpanInMB)
		if err != nil {
			return err
		}
	}

	log.Info("Starting DogStatsD checker", "version", appVersion, "pid", os.Getpid())

	cfg, err := config.LoadConfig(ctx.GlobalString(configFile.Name))
	if err != nil {
		return err
	}

	envOverrides, err := commonGo.ReadEnvOverrides(envFile, config.EnvKeys())
	if err != nil {
		return err
	}
	err = config.ApplyEnvOverrides(cfg, envOverrides)
	if err != nil {
		return err
	}

	handler, err := factory.NewComponentsHandler(*cfg)
	if err != nil {
		return err
	}
	defer handler.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exitCode, err = handler.Run(runCtx)
	if err != nil {
		return err
	}

	fmt.Print(harness.FormatReport(handler.Report()))
	log.Info("DogStatsD checker finished", "exit code", exitCode)

	return nil
}
