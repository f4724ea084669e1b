package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pevans/crimetalk"
	"github.com/pevans/crimetalk/catalog"
	"github.com/pevans/crimetalk/scraper"
)

// commandContext returns a context cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func parseSection(name string) scraper.SectionKind {
	kind, err := scraper.ParseSectionKind(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return kind
}

func checkFormat(format string) {
	if format != "table" && format != "json" {
		fmt.Fprintf(os.Stderr, "Error: --format must be 'table' or 'json'\n")
		os.Exit(1)
	}
}

func handleSections(args []string) {
	fs := flag.NewFlagSet("sections", flag.ExitOnError)
	format := fs.String("format", "table", "Output format: table, json")
	fs.Parse(args)
	checkFormat(*format)

	sections := catalog.Default().Sections
	if *format == "json" {
		printJSON(map[string]any{"sections": sections, "total": len(sections)})
		return
	}

	for _, section := range sections {
		fmt.Printf("%s (%s)\n", section.Title, section.Kind)
		for _, source := range section.Sources {
			fmt.Printf("  %s\n", source.Title)
		}
		fmt.Println()
	}
}

func handleList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	refresh := fs.Bool("refresh", false, "Reload from the site instead of using the remembered listing")
	feed := fs.Bool("feed", false, "Read the tab's RSS feed instead of its page")
	format := fs.String("format", "table", "Output format: table, json")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		os.Exit(2)
	}
	checkFormat(*format)

	if len(positional) < 2 {
		fmt.Fprintf(os.Stderr, "Error: section and tab are required\n")
		fmt.Fprintf(os.Stderr, "Usage: crimetalk list <section> <tab> [--refresh] [--feed] [--format table|json]\n")
		os.Exit(1)
	}
	kind := parseSection(positional[0])
	tab := strings.Join(positional[1:], " ")

	a := openApp()
	defer a.Close()

	ctx, cancel := commandContext()
	defer cancel()

	var result *crimetalk.ListingResult
	if *feed {
		result, err = a.reader.ListTabFeed(ctx, kind, tab)
	} else {
		result, err = a.reader.ListTab(ctx, kind, tab, *refresh)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printListing(result, *format)
}

func handleSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	format := fs.String("format", "table", "Output format: table, json")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		os.Exit(2)
	}
	checkFormat(*format)

	if len(positional) < 2 {
		fmt.Fprintf(os.Stderr, "Error: section and query are required\n")
		fmt.Fprintf(os.Stderr, "Usage: crimetalk search <section> <query> [--format table|json]\n")
		os.Exit(1)
	}
	kind := parseSection(positional[0])
	query := strings.Join(positional[1:], " ")

	a := openApp()
	defer a.Close()

	ctx, cancel := commandContext()
	defer cancel()

	result, err := a.reader.SearchSection(ctx, kind, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printListing(result, *format)
}

func handleRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	section := fs.String("section", "library", "Section the article belongs to")
	echo := fs.Bool("echo", false, "Echo the browser command instead of executing it")
	format := fs.String("format", "table", "Output format: table, json")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		os.Exit(2)
	}
	checkFormat(*format)

	if len(positional) < 1 {
		fmt.Fprintf(os.Stderr, "Error: article link is required\n")
		fmt.Fprintf(os.Stderr, "Usage: crimetalk read <link> [--section library|press_cuttings] [--echo]\n")
		os.Exit(1)
	}
	kind := parseSection(*section)

	a := openApp()
	defer a.Close()

	ctx, cancel := commandContext()
	defer cancel()

	view, err := a.reader.OpenArticle(ctx, kind, positional[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if view.OpenInBrowser {
		if err := openInBrowser(view.Link, *echo); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *format == "json" {
		printJSON(view)
		return
	}
	printArticle(view)
}

func handleBooks(args []string) {
	fs := flag.NewFlagSet("books", flag.ExitOnError)
	format := fs.String("format", "table", "Output format: table, json")
	fs.Parse(args)
	checkFormat(*format)

	books := catalog.Default().Books
	if *format == "json" {
		printJSON(map[string]any{"books": books, "total": len(books)})
		return
	}

	for _, book := range books {
		fmt.Println(book.Title)
		if book.Author != "" {
			fmt.Printf("   by %s\n", book.Author)
		}
		fmt.Printf("   Info: %s\n", book.InfoURL)
		fmt.Printf("   Cover: %s\n", book.CoverURL)
		fmt.Println()
	}
}
