package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tatianab/quest-chronicles/internal/catalog"
	"github.com/tatianab/quest-chronicles/internal/config"
	"github.com/tatianab/quest-chronicles/internal/engine"
	"github.com/tatianab/quest-chronicles/internal/models"
	"github.com/tatianab/quest-chronicles/internal/narrator"
	"github.com/tatianab/quest-chronicles/internal/tui"
)

const maxTurns = 200

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	quests, items, err := catalog.Load(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to load game data: %v", err)
	}

	saveDir, err := os.MkdirTemp("", "quest-chronicles-sim-")
	if err != nil {
		log.Fatalf("Failed to create save dir: %v", err)
	}
	defer os.RemoveAll(saveDir)

	var n narrator.Narrator = narrator.Plain{}
	if cfg.NarrationEnabled() {
		g, err := narrator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create narrator: %v", err)
		}
		defer g.Close()
		n = g
	}

	game := &tui.Game{
		Quests: quests,
		Items:  items,
		Config: engine.SessionConfig{
			SaveDir:           saveDir,
			InventoryCapacity: cfg.InventoryCapacity,
			ReviveCost:        cfg.ReviveCost,
			SpecialCooldown:   cfg.SpecialCooldown,
			Roller:            cfg.Rand(),
		},
	}

	p := &player{game: game, narrator: n}

	fmt.Println("--- Creating a character ---")
	p.play(ctx, "new Simula Warrior")

	for turn := 1; turn <= maxTurns; turn++ {
		c := game.Session.Character
		if len(c.CompletedQuests) == quests.Len() {
			fmt.Printf("Game Ended: all quests completed in %d turns!\n", turn-1)
			break
		}
		if game.Mode() == tui.ModeDead && c.Gold < game.Session.ReviveCost() {
			fmt.Println("Game Ended: dead and too poor to be revived.")
			break
		}
		action := p.nextAction()
		fmt.Printf("--- Turn %d: %s ---\n", turn, action)
		p.play(ctx, action)
	}

	fmt.Println("--- Final state ---")
	p.play(ctx, "stats")
	p.play(ctx, "quests")
	p.play(ctx, "/quit")
}

// player is a scripted player. A quest counts as done once a battle has
// been won while it was active.
type player struct {
	game     *tui.Game
	narrator narrator.Narrator
	wins     int
}

func (p *player) play(ctx context.Context, line string) {
	reply, err := p.game.Exec(line)
	if err != nil {
		log.Fatalf("Command %q failed: %v", line, err)
	}
	for _, l := range reply.Lines {
		fmt.Println(l)
	}
	for _, ev := range reply.Events {
		if ev.Kind == narrator.KindVictory {
			p.wins++
		}
		text, err := p.narrator.Narrate(ctx, ev)
		if err != nil {
			fmt.Printf("Warning: narration failed: %v\n", err)
			continue
		}
		fmt.Printf("  ~ %s\n", text)
	}
}

// nextAction picks the next command: survive, gear up, turn in quests, take
// new ones, then fight.
func (p *player) nextAction() string {
	game := p.game
	s := game.Session
	c := s.Character

	switch game.Mode() {
	case tui.ModeDead:
		return "revive"
	case tui.ModeBattle:
		b := s.Battle()
		if c.Health*4 < c.MaxHealth && b.Enemy.Health > c.Strength*2 {
			return "run"
		}
		if b.SpecialAvailable() && (c.Class != models.Cleric || c.Health*2 < c.MaxHealth) {
			return "special"
		}
		return "attack"
	}

	if c.Health*2 < c.MaxHealth {
		if s.Ledger.HasItem(c, "health_potion") {
			return "use health_potion"
		}
		if c.Gold >= 20 && s.Ledger.SpaceRemaining(c) > 0 {
			return "buy health_potion"
		}
	}
	if c.Weapon == nil {
		if s.Ledger.HasItem(c, "iron_sword") {
			return "equip iron_sword"
		}
		if c.Gold >= 70 {
			return "buy iron_sword"
		}
	}
	if len(c.ActiveQuests) > 0 && p.wins > 0 {
		p.wins--
		return "complete " + c.ActiveQuests[0]
	}
	if avail := s.Available(); len(avail) > 0 {
		p.wins = 0
		return "accept " + avail[0].ID
	}
	return "explore"
}
