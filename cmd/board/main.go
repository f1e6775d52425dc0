package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"bites4life/internal/dashboard/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	prefsPath := flag.String("prefs", "", "preferences file (defaults to ~/.config/riderboard/prefs.toml)")
	apiURL := flag.String("api", "", "board API base URL (optional)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (optional)")
	email := flag.String("email", "", "admin email, required when the API enforces auth")
	save := flag.Bool("save", false, "write -api, -poll and -email back to the preferences file")
	logFile := flag.String("log", "", "write diagnostics to this file")
	flag.Parse()

	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "riderboard")
		if err != nil {
			fmt.Fprintf(os.Stderr, "riderboard: %v\n", err)
			return 1
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		PrefsPath: *prefsPath,
		APIURL:    *apiURL,
		PollEvery: *pollSeconds,
		Email:     *email,
		Password:  os.Getenv("RIDERBOARD_PASSWORD"),
		SavePrefs: *save,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "riderboard: %v\n", err)
		return 1
	}
	return 0
}
