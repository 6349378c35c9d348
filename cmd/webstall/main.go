package main

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"webstall/internal/api"
	"webstall/internal/config"
	"webstall/internal/coordinate"
	"webstall/internal/event"
	"webstall/internal/state"
	"webstall/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bus := event.NewBus(nil)
	data := state.New(bus)
	client := api.New(cfg.API.BaseURL, cfg.API.CDNURL, cfg.API.Timeout())

	app := tui.New(ctx, cfg, bus, client)
	coordinate.New(bus, data, app.Views(), app.Remote(), nil).Register()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
