package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/pevans/crimetalk/cache"
)

func handleCacheCommand(action string, args []string) {
	switch action {
	case "list":
		handleCacheList(args)
	case "clear":
		handleCacheClear(args)
	case "help", "--help", "-h":
		printCacheUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown cache command: %s\n\n", action)
		printCacheUsage()
		os.Exit(1)
	}
}

func printCacheUsage() {
	fmt.Println("crimetalk cache - Inspect or clear remembered listings")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  crimetalk cache <action> [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  list         List remembered listings")
	fmt.Println("  clear [url]  Forget one listing, or all of them")
	fmt.Println("  help         Show this help message")
}

func handleCacheList(args []string) {
	fs := flag.NewFlagSet("cache list", flag.ExitOnError)
	fs.Parse(args)

	store := openSnapshotStore()
	defer store.Close()

	snapshots, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list snapshots: %v\n", err)
		os.Exit(1)
	}

	if len(snapshots) == 0 {
		fmt.Println("No remembered listings.")
		return
	}

	fmt.Printf("%-16s %-8s %s\n", "FETCHED", "ITEMS", "URL")
	fmt.Println("----------------------------------------------------------------------------------------------------")
	for _, snapshot := range snapshots {
		fmt.Printf("%-16s %-8d %s\n",
			snapshot.FetchedAt.Local().Format("2006-01-02 15:04"),
			len(snapshot.Items),
			truncate(snapshot.SourceURL, 74),
		)
	}
}

func handleCacheClear(args []string) {
	store := openSnapshotStore()
	defer store.Close()

	var urls []string
	if len(args) > 0 {
		urls = args
	} else {
		snapshots, err := store.List()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list snapshots: %v\n", err)
			os.Exit(1)
		}
		for _, snapshot := range snapshots {
			urls = append(urls, snapshot.SourceURL)
		}
	}

	cleared := 0
	for _, url := range urls {
		if err := store.Delete(url); err != nil {
			if errors.Is(err, cache.ErrSnapshotNotFound) {
				fmt.Fprintf(os.Stderr, "Warning: no remembered listing for %s\n", url)
				continue
			}
			fmt.Fprintf(os.Stderr, "Error: failed to delete snapshot: %v\n", err)
			os.Exit(1)
		}
		cleared++
	}

	fmt.Printf("✓ Cleared %d remembered listing(s)\n", cleared)
}
