package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/appetiteclub/pos/cmd/utils/internal/commands"
	"github.com/aquamarinepk/aqm"
)

const (
	appName    = "pos-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "hash-pin" {
		if len(os.Args) < 3 {
			log.Fatalf("Usage: %s hash-pin <pin>", appName)
		}
		if err := commands.HashPin(os.Stdout, os.Args[2]); err != nil {
			log.Fatalf("Hash pin failed: %v", err)
		}
		return
	}

	config, err := aqm.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logLevel := config.GetStringOrDef("log.level", "info")
	logger := aqm.NewLogger(logLevel)

	ctx := context.Background()

	switch command {
	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("Demo seeding failed: %v", err)
		}
		logger.Info("Demo seeding completed successfully")

	case "clear-orders":
		if err := commands.ClearOrders(ctx, config, logger); err != nil {
			log.Fatalf("Clear orders failed: %v", err)
		}
		logger.Info("Orders cleared successfully")

	case "reset-db":
		if err := commands.ResetDB(ctx, config, logger); err != nil {
			log.Fatalf("Database reset failed: %v", err)
		}
		logger.Info("Database reset completed successfully")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - POS utility commands

Usage:
  %s <command> [options]

Commands:
  seed-demo      Apply demo seeding (menu, tables, staff)
  clear-orders   Remove every order and free occupied tables
  reset-db       Delete every POS collection (USE WITH CAUTION)
  hash-pin       Print the bcrypt hash of a staff PIN
  version        Print version information
  help           Show this help message

Environment Variables:
  UTILS_STORE_DRIVER   memory, mongo, postgres or nats (default: memory)
  UTILS_DB_MONGO_URL   MongoDB connection URL (default: mongodb://localhost:27017)
  UTILS_DB_POSTGRES_DSN  Postgres DSN
  UTILS_NATS_URL       NATS server URL
  UTILS_LOG_LEVEL      Log level: debug, info, warn, error (default: info)

Examples:
  UTILS_STORE_DRIVER=mongo %s seed-demo
  %s hash-pin 4321
  UTILS_STORE_DRIVER=postgres %s reset-db

`, appName, appName, appName, appName, appName)
}
