// Package main is the entry point for the mod2midi API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/mod2midi/pkg/api"
	"github.com/james-see/mod2midi/pkg/config"
)

func main() {
	configFile := flag.String("config", "", "Config file")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	fmt.Printf("Starting mod2midi API server on port %d...\n", cfg.Server.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Server.Port)

	if err := api.StartServer(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
