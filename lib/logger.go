package lib

import (
	"os"

	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and library users that never call InitLogger still get a usable Log.
func init() {
	InitLogger(false)
}

// InitLogger sets up the package logger. Logs go to stderr so they never mix with
// the post rendering printed on stdout.
func InitLogger(verbose bool) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	Log = logger.WithFields(logrus.Fields{"is_development": os.Getenv("MLNEWS_ENV") != "production"})
}
