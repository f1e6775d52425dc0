// Package app wires the board client, poller and UI together.
package app

import (
	"context"
	"fmt"
	"time"

	"bites4life/internal/dashboard/client"
	"bites4life/internal/dashboard/prefs"
	"bites4life/internal/dashboard/state"
	"bites4life/internal/dashboard/ui"
)

// Options configure the board application. Zero fields fall back to the
// preferences file.
type Options struct {
	PrefsPath string
	APIURL    string
	PollEvery int // seconds
	Email     string
	Password  string
	SavePrefs bool
}

// Run boots the board TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return err
	}
	if opts.APIURL != "" {
		userPrefs.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		userPrefs.PollSeconds = opts.PollEvery
	}
	if opts.Email != "" {
		userPrefs.Email = opts.Email
	}
	if opts.SavePrefs {
		if err := prefs.Save(opts.PrefsPath, userPrefs); err != nil {
			return err
		}
	}

	c, err := client.New(userPrefs.APIURL)
	if err != nil {
		return fmt.Errorf("init board client: %w", err)
	}

	if userPrefs.Email != "" && opts.Password != "" {
		if _, err := c.Login(ctx, userPrefs.Email, opts.Password); err != nil {
			return fmt.Errorf("login as %s: %w", userPrefs.Email, err)
		}
	}

	store := &state.Store{}
	interval := time.Duration(userPrefs.PollSeconds) * time.Second
	poller := NewPoller(store, c, interval)

	poller.Start(ctx)

	return ui.Run(ui.Options{
		Context:    ctx,
		Dispatcher: c,
		Store:      store,
		Refresh:    poller.Trigger,
		PollTick:   time.Second,
		Title:      c.BaseURL(),
	})
}
