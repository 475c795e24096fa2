package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// setupLogging keeps the daemon quiet unless INFO=1 or DEBUG=1 is set.
// Verbose exchanges are logged at info level, so verbose raises the level too.
func setupLogging(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch {
	case isDebug():
		logrus.SetLevel(logrus.DebugLevel)
	case isInfo() || verbose:
		logrus.SetLevel(logrus.InfoLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func isInfo() bool {
	return os.Getenv("INFO") == "1"
}

func isDebug() bool {
	return os.Getenv("DEBUG") == "1"
}
