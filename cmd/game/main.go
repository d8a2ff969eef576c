package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/quest-chronicles/internal/catalog"
	"github.com/tatianab/quest-chronicles/internal/config"
	"github.com/tatianab/quest-chronicles/internal/engine"
	"github.com/tatianab/quest-chronicles/internal/narrator"
	"github.com/tatianab/quest-chronicles/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := tea.LogToFile(cfg.LogFile, "quest-chronicles")
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	quests, items, err := catalog.Load(cfg.DataDir)
	if err != nil {
		fmt.Printf("Error loading game data: %v\n", err)
		os.Exit(1)
	}
	log.Printf("loaded %d quests and %d items from %s", quests.Len(), items.Len(), cfg.DataDir)

	var n narrator.Narrator = narrator.Plain{}
	if cfg.NarrationEnabled() {
		g, err := narrator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("narration disabled: %v", err)
		} else {
			defer g.Close()
			n = g
		}
	}

	game := &tui.Game{
		Quests: quests,
		Items:  items,
		Config: engine.SessionConfig{
			SaveDir:           cfg.SaveDir,
			InventoryCapacity: cfg.InventoryCapacity,
			ReviveCost:        cfg.ReviveCost,
			SpecialCooldown:   cfg.SpecialCooldown,
			Roller:            cfg.Rand(),
		},
	}

	if err := tui.Run(game, n); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
