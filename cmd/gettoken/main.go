package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daryadaneshmand/Oura-data/internal/auth"
	"github.com/daryadaneshmand/Oura-data/internal/logging"

	log "github.com/sirupsen/logrus"
)

// One-time OAuth2 flow to obtain an Oura access token.
//
// Prerequisites:
//   - OURA_CLIENT_ID and OURA_CLIENT_SECRET set in the environment
//   - http://localhost:3000/callback added to the Oura OAuth app's
//     redirect URIs
//
// The obtained token is written to the env file as OURA_TOKEN.
func main() {
	envFilePath := flag.String("env-file", ".env", "env file to write OURA_TOKEN into")
	logLevel := flag.String("log-level", "debug", "log level")
	flag.Parse()

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    *logLevel,
		Environment: "development",
	})

	clientID := os.Getenv("OURA_CLIENT_ID")
	clientSecret := os.Getenv("OURA_CLIENT_SECRET")

	flow, err := auth.NewFlow(clientID, clientSecret)
	if err != nil {
		log.Errorf("OURA_CLIENT_ID and OURA_CLIENT_SECRET must be set: %s", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		receivedSig := <-chOsInterrupt
		log.Warnf("signal [%s] received, aborting ...", receivedSig)
		cancel()
	}()

	authURL := flow.AuthCodeURL()
	fmt.Println("open this URL in a browser and authorize the app:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()
	fmt.Println("waiting for the callback on http://localhost:3000/callback ...")

	token, err := flow.Run(ctx)
	if err != nil {
		log.Errorf("authorization failed: %s", err)
		os.Exit(1)
	}

	if err := auth.SaveTokenToEnvFile(*envFilePath, token.AccessToken); err != nil {
		log.Errorf("save token: %s", err)
		os.Exit(1)
	}

	fmt.Printf("token saved to %s as OURA_TOKEN\n", *envFilePath)
}
