package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Get subcommand
	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "sections":
		handleSections(args)
	case "list":
		handleList(args)
	case "read":
		handleRead(args)
	case "search":
		handleSearch(args)
	case "books":
		handleBooks(args)
	case "settings":
		if len(args) < 1 {
			printSettingsUsage()
			os.Exit(1)
		}
		handleSettingsCommand(args[0], args[1:])
	case "cache":
		if len(args) < 1 {
			printCacheUsage()
			os.Exit(1)
		}
		handleCacheCommand(args[0], args[1:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("crimetalk - CrimeTalk reader CLI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  crimetalk <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  sections   List sections and their tabs")
	fmt.Println("  list       List the articles of a tab")
	fmt.Println("  read       Read an article")
	fmt.Println("  search     Search the tabs of a section")
	fmt.Println("  books      List CrimeTalk books")
	fmt.Println("  settings   Show or change reader settings")
	fmt.Println("  cache      Inspect or clear remembered listings")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  crimetalk list library \"Featured Articles\"")
	fmt.Println("  crimetalk search press_cuttings prison --format json")
	fmt.Println("  crimetalk settings set timeout_seconds 20")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  CRIMETALK_DB         Path to the reader database (default: crimetalk.db)")
	fmt.Println("  CRIMETALK_LOG_LEVEL  Log level: debug, info, warn, error (default: info)")
}
