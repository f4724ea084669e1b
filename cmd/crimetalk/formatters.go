package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pevans/crimetalk"
	"github.com/pevans/crimetalk/scraper"
)

// printJSON prints v as indented JSON
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(data))
}

// printListing prints a listing or search result in the given format
func printListing(result *crimetalk.ListingResult, format string) {
	if format == "json" {
		printJSON(result)
		return
	}

	if len(result.Items) == 0 {
		fmt.Printf("No articles to display (%s).\n", result.Message)
		return
	}

	printSummariesTable(result.Items)
	if result.Cached && result.FetchedAt != nil {
		fmt.Printf("Remembered listing from %s. Use --refresh to reload.\n",
			result.FetchedAt.Local().Format("2006-01-02 15:04"))
	}
}

// printSummariesTable prints summaries in human-readable table format
func printSummariesTable(items []scraper.ArticleSummary) {
	fmt.Printf("%d articles\n\n", len(items))

	for _, item := range items {
		fmt.Printf("%s\n", truncate(item.Title, 70))

		var details []string
		if item.Date != "" {
			details = append(details, item.Date)
		}
		if item.Author != "" {
			details = append(details, item.Author)
		}
		if item.Hits != nil {
			details = append(details, *item.Hits)
		}
		if len(details) > 0 {
			fmt.Printf("   %s\n", strings.Join(details, " | "))
		}
		fmt.Printf("   URL: %s\n", item.Link)
		fmt.Println()
	}
}

// printArticle prints the body blocks of an article
func printArticle(view *crimetalk.ArticleView) {
	if len(view.Blocks) == 0 {
		fmt.Printf("Article is empty (%s).\n", view.Message)
		return
	}

	fmt.Printf("%s\n\n", view.Link)
	for _, block := range view.Blocks {
		if block.Text != "" {
			text := wrapText(block.Text, 80)
			if block.Emphasis == scraper.EmphasisBold {
				text = strings.ToUpper(text)
			}
			fmt.Println(text)
		}
		if block.ImageURL != nil {
			fmt.Printf("[image: %s]\n", *block.ImageURL)
		}
		fmt.Println()
	}
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// wrapText wraps text to a maximum line width
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n")
}
