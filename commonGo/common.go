package commonGo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// AttachFileLogger attaches, if required, a log file
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	var err error
	var logFile FileLoggingHandler
	if saveLogFile {
		argsFileLogging := file.ArgsFileLogging{
			WorkingDir:      workingDir,
			DefaultLogsPath: defaultLogsPath,
			LogFilePrefix:   logFilePrefix,
		}
		logFile, err = file.NewFileLogging(argsFileLogging)
		if err != nil {
			return nil, fmt.Errorf("%w creating a log file", err)
		}
	}

	err = logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	return logFile, nil
}

// ReadEnvOverrides returns the values of the provided keys, read from the env file and then from the process
// environment (which takes precedence). Keys that are set nowhere are omitted. A missing env file is not an error.
func ReadEnvOverrides(envFile string, keys []string) (map[string]string, error) {
	fromFile, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w while reading env file %s", err, envFile)
		}
		fromFile = make(map[string]string)
	}

	result := make(map[string]string)
	for _, key := range keys {
		val, found := os.LookupEnv(key)
		if !found || len(val) == 0 {
			val = fromFile[key]
		}
		if len(val) == 0 {
			continue
		}

		result[key] = val
	}

	return result, nil
}

// CronJobStarter is able to start a go routine that periodically calls the provided handler. The time between calls is
// provided as timeToCall. A non-positive timeToCall disables the job.
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	if timeToCall <= 0 {
		return
	}

	go func() {
		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()
}
