// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/carehome-sync/internal/client"
	"github.com/MKhiriev/carehome-sync/internal/config"
	"github.com/MKhiriev/carehome-sync/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("carehome-agent").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("carehome-agent", cfg.API.LogFile)

	app, err := client.NewApp(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init agent error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("agent run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
