// Command server runs a headless remnant session with scripted participants
// and an optional websocket admin console.
package main

import (
	"os"

	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.WithError(err).Error("server exited")
		os.Exit(1)
	}
}
