package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pevans/crimetalk/config"
)

func handleSettingsCommand(action string, args []string) {
	switch action {
	case "get":
		handleSettingsGet(args)
	case "set":
		handleSettingsSet(args)
	case "help", "--help", "-h":
		printSettingsUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown settings command: %s\n\n", action)
		printSettingsUsage()
		os.Exit(1)
	}
}

func printSettingsUsage() {
	fmt.Println("crimetalk settings - Show or change reader settings")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  crimetalk settings <action> [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  get          Show all settings")
	fmt.Println("  set <k> <v>  Change one setting")
	fmt.Println("  help         Show this help message")
	fmt.Println()
	fmt.Printf("Settings: %s\n", strings.Join(config.SettingKeys(), ", "))
	fmt.Printf("timeout_seconds must be between %d and %d.\n", config.MinTimeoutSeconds, config.MaxTimeoutSeconds)
}

func handleSettingsGet(args []string) {
	fs := flag.NewFlagSet("settings get", flag.ExitOnError)
	format := fs.String("format", "table", "Output format: table, json")
	fs.Parse(args)
	checkFormat(*format)

	store := openSettingsStore()
	defer store.Close()

	settings, err := store.GetSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read settings: %v\n", err)
		os.Exit(1)
	}

	if *format == "json" {
		printJSON(settings)
		return
	}

	fmt.Printf("%-32s %d\n", "timeout_seconds", settings.TimeoutSeconds)
	fmt.Printf("%-32s %t\n", "load_in_browser", settings.LoadInBrowser)
	fmt.Printf("%-32s %t\n", "dark_theme", settings.DarkTheme)
	fmt.Printf("%-32s %t\n", "learned_navigation", settings.LearnedNavigation)
	fmt.Printf("%-32s %t\n", "learned_press_cuttings_warning", settings.LearnedPressCuttingsWarning)
}

func handleSettingsSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Error: setting name and value are required\n")
		fmt.Fprintf(os.Stderr, "Usage: crimetalk settings set <name> <value>\n")
		os.Exit(1)
	}
	key, value := args[0], args[1]

	store := openSettingsStore()
	defer store.Close()

	settings, err := store.GetSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read settings: %v\n", err)
		os.Exit(1)
	}

	if err := settings.Set(key, value); err != nil {
		if errors.Is(err, config.ErrUnknownSetting) {
			fmt.Fprintf(os.Stderr, "Error: %v (known: %s)\n", err, strings.Join(config.SettingKeys(), ", "))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	if err := store.UpdateSettings(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to update settings: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Set %s = %s\n", key, value)
}
