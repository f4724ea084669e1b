package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// browserCommand returns the command that opens link in the default
// browser on the given platform.
func browserCommand(goos, link string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{link}, nil
	case "linux":
		return "xdg-open", []string{link}, nil
	case "windows":
		return "cmd", []string{"/c", "start", link}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// openInBrowser opens link in the default browser, or prints the command
// when echo is set.
func openInBrowser(link string, echo bool) error {
	browserCmd, cmdArgs, err := browserCommand(runtime.GOOS, link)
	if err != nil {
		return err
	}

	// If echo mode, print the command instead of executing it
	if echo {
		fmt.Printf("%s %s\n", browserCmd, strings.Join(cmdArgs, " "))
		return nil
	}

	cmd := exec.Command(browserCmd, cmdArgs...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open URL: %w", err)
	}

	fmt.Printf("✓ Opening in browser: %s\n", link)
	return nil
}
