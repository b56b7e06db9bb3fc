package main

import (
	"fmt"
	"os"

	"github.com/akeren/resfi-api/config"
	"github.com/akeren/resfi-api/internal/log"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger)

	os.Exit(run(logger, os.Args[1:]))
}

func run(logger *log.Logger, args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "migrate":
		direction := "up"
		if len(args) > 1 {
			direction = args[1]
		}
		if err := runMigrations(logger, direction); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			return 1
		}
		return 0

	case "waitlist":
		if len(args) < 2 || args[1] != "export" {
			fmt.Fprintln(os.Stderr, "usage: cli waitlist export")
			return 1
		}
		if err := exportWaitlist(logger, os.Stdout); err != nil {
			logger.Error("Waitlist export failed", "error", err.Error())
			return 1
		}
		return 0

	case "help", "-h", "--help":
		printUsage()
		return 0

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate [up|down]  Apply (or revert) SQL migrations from MIGRATIONS_DIR and exit")
	fmt.Println("  waitlist export    Print every waitlist entry as JSON to stdout")
	fmt.Println("  help               Show this message")
}
