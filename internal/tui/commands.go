package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tatianab/quest-chronicles/internal/catalog"
	"github.com/tatianab/quest-chronicles/internal/engine"
	"github.com/tatianab/quest-chronicles/internal/models"
	"github.com/tatianab/quest-chronicles/internal/narrator"
)

// Mode is the screen the player is on.
type Mode int

const (
	ModeTitle Mode = iota
	ModePlaying
	ModeBattle
	ModeDead
)

// Reply is the output of one command.
type Reply struct {
	Lines  []string
	Events []narrator.Event
	Quit   bool
}

func (r *Reply) say(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

func (r *Reply) event(ev narrator.Event) {
	r.Events = append(r.Events, ev)
}

// Game dispatches typed commands against the catalogs and, once a character
// is loaded, its session.
type Game struct {
	Quests  *catalog.Quests
	Items   *catalog.Items
	Config  engine.SessionConfig
	Session *engine.Session
}

// Mode derives the current screen from the session.
func (g *Game) Mode() Mode {
	switch {
	case g.Session == nil:
		return ModeTitle
	case engine.IsDead(g.Session.Character):
		return ModeDead
	case g.Session.Battle() != nil:
		return ModeBattle
	}
	return ModePlaying
}

// playerErrors are the failures caused by a command the player typed. Any
// other error is reported to the caller.
var playerErrors = []error{
	models.ErrCharacterNotFound,
	models.ErrInvalidCharacterClass,
	models.ErrInvalidCharacterName,
	models.ErrCharacterDead,
	models.ErrInvalidOperation,
	models.ErrInsufficientResources,
	models.ErrInventoryFull,
	models.ErrItemNotFound,
	models.ErrInvalidItemType,
	models.ErrMalformedEffect,
	models.ErrQuestNotFound,
	models.ErrQuestNotActive,
	models.ErrQuestAlreadyCompleted,
	models.ErrQuestAlreadyActive,
	models.ErrRequirementsNotMet,
	models.ErrInsufficientLevel,
	models.ErrInvalidTarget,
	models.ErrCombatNotActive,
	models.ErrAbilityUnavailable,
	models.ErrInvalidSaveFormat,
	models.ErrCorruptedSaveData,
	errUsage,
}

var errUsage = errors.New("usage")

func isPlayerError(err error) bool {
	return slices.ContainsFunc(playerErrors, func(target error) bool {
		return errors.Is(err, target)
	})
}

// Exec runs one command line. Mistakes by the player come back as reply
// lines; the error is only set for failures the game cannot recover from,
// such as a save that cannot be written.
func (g *Game) Exec(line string) (Reply, error) {
	var r Reply
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return r, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch cmd {
	case "/quit", "quit", "exit":
		err = g.quit(&r)
	case "help", "?":
		g.help(&r)
	default:
		switch g.Mode() {
		case ModeTitle:
			err = g.title(&r, cmd, args)
		case ModeBattle:
			err = g.battle(&r, cmd, args)
		case ModeDead:
			err = g.dead(&r, cmd, args)
		default:
			err = g.play(&r, cmd, args)
		}
	}
	if err != nil {
		if !isPlayerError(err) {
			return r, err
		}
		r.say("Error: %v", err)
	}
	return r, nil
}

func (g *Game) quit(r *Reply) error {
	r.Quit = true
	if g.Session == nil {
		return nil
	}
	if err := g.Session.Save(); err != nil {
		return err
	}
	r.say("Game saved. Farewell, %s.", g.Session.Character.Name)
	return nil
}

func (g *Game) help(r *Reply) {
	switch g.Mode() {
	case ModeTitle:
		r.say("new <name> <class>   create a character (%s)", classList())
		r.say("load <name>          continue a saved game")
		r.say("list                 show saved characters")
		r.say("delete <name>        remove a save")
	case ModeBattle:
		r.say("attack (1)  special (2)  run (3)  stats  inv")
	case ModeDead:
		r.say("revive (%d gold)  menu  /quit", g.Session.ReviveCost())
	default:
		r.say("stats  inv  use|equip|drop <item>  unequip weapon|armor")
		r.say("shop  buy|sell <item>")
		r.say("quests  available  accept|abandon|complete|chain <quest>")
		r.say("explore  save  export  menu")
	}
	r.say("/quit saves and exits")
}

func classList() string {
	names := make([]string, len(models.Classes))
	for i, c := range models.Classes {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func need(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	return nil
}

func (g *Game) saveDir() string {
	if g.Config.SaveDir == "" {
		return models.DefaultSaveDir
	}
	return g.Config.SaveDir
}

func (g *Game) title(r *Reply, cmd string, args []string) error {
	switch cmd {
	case "new":
		if err := need(args, 2, "new <name> <class>"); err != nil {
			return err
		}
		class, err := models.ParseClass(args[len(args)-1])
		if err != nil {
			return err
		}
		c, err := models.NewCharacter(strings.Join(args[:len(args)-1], " "), class)
		if err != nil {
			return err
		}
		saved, err := models.ListSavedCharacters(g.saveDir())
		if err != nil {
			return err
		}
		if slices.Contains(saved, c.Name) {
			return fmt.Errorf("%w: a save named %s already exists, load it or delete it first", models.ErrInvalidCharacterName, c.Name)
		}
		g.start(c)
		if err := g.Session.Save(); err != nil {
			return err
		}
		r.say("Welcome, %s the %s!", c.Name, c.Class)
		r.say("Type help for commands.")
	case "load":
		if err := need(args, 1, "load <name>"); err != nil {
			return err
		}
		cfg := g.Config
		cfg.SaveDir = g.saveDir()
		s, err := engine.LoadSession(strings.Join(args, " "), g.Quests, g.Items, cfg)
		if err != nil {
			return err
		}
		g.Session = s
		c := s.Character
		r.say("Welcome back, %s (level %d %s).", c.Name, c.Level, c.Class)
	case "list":
		names, err := models.ListSavedCharacters(g.saveDir())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			r.say("No saved characters.")
			return nil
		}
		r.say("Saved characters: %s", strings.Join(names, ", "))
	case "delete":
		if err := need(args, 1, "delete <name>"); err != nil {
			return err
		}
		name := strings.Join(args, " ")
		if err := models.DeleteCharacter(g.saveDir(), name); err != nil {
			return err
		}
		r.say("Deleted %s.", name)
	default:
		return fmt.Errorf("%w: unknown command %q, try help", models.ErrInvalidOperation, cmd)
	}
	return nil
}

func (g *Game) start(c *models.Character) {
	cfg := g.Config
	cfg.SaveDir = g.saveDir()
	g.Session = engine.NewSession(c, g.Quests, g.Items, cfg)
}

func (g *Game) play(r *Reply, cmd string, args []string) error {
	s := g.Session
	c := s.Character
	switch cmd {
	case "stats", "status":
		r.Lines = append(r.Lines, statsLines(s)...)
	case "inv", "inventory":
		r.Lines = append(r.Lines, inventoryLines(s)...)
	case "use":
		if err := need(args, 1, "use <item>"); err != nil {
			return err
		}
		msg, err := s.Use(args[0])
		if err != nil {
			return err
		}
		r.say("%s", msg)
	case "equip":
		if err := need(args, 1, "equip <item>"); err != nil {
			return err
		}
		msg, err := s.Equip(args[0])
		if err != nil {
			return err
		}
		r.say("%s", msg)
	case "unequip":
		if err := need(args, 1, "unequip weapon|armor"); err != nil {
			return err
		}
		kind, err := models.ParseItemType(args[0])
		if err != nil {
			return err
		}
		id, err := s.Unequip(kind)
		if err != nil {
			return err
		}
		if id == "" {
			r.say("Nothing equipped as %s.", kind)
			return nil
		}
		r.say("Unequipped %s.", g.itemName(id))
	case "drop":
		if err := need(args, 1, "drop <item>"); err != nil {
			return err
		}
		if err := s.Drop(args[0]); err != nil {
			return err
		}
		r.say("Dropped %s.", g.itemName(args[0]))
	case "shop":
		r.say("Shop (you have %d gold):", c.Gold)
		for _, it := range g.Items.All() {
			r.say("  %-16s %-18s %4d gold  %s", it.ID, it.Name, it.Cost, it.Description)
		}
	case "buy":
		if err := need(args, 1, "buy <item>"); err != nil {
			return err
		}
		if err := s.Buy(args[0]); err != nil {
			return err
		}
		r.say("Bought %s. %d gold left.", g.itemName(args[0]), c.Gold)
	case "sell":
		if err := need(args, 1, "sell <item>"); err != nil {
			return err
		}
		price, err := s.Sell(args[0])
		if err != nil {
			return err
		}
		r.say("Sold %s for %d gold.", g.itemName(args[0]), price)
	case "quests":
		r.Lines = append(r.Lines, questLines(s)...)
	case "available":
		avail := s.Available()
		if len(avail) == 0 {
			r.say("No quests available right now.")
			return nil
		}
		for _, q := range avail {
			r.say("  %-16s %s (level %d, %d xp, %d gold)", q.ID, q.Title, q.RequiredLevel, q.RewardXP, q.RewardGold)
		}
	case "accept":
		if err := need(args, 1, "accept <quest>"); err != nil {
			return err
		}
		if err := s.Accept(args[0]); err != nil {
			return err
		}
		q, _ := g.Quests.Get(args[0])
		r.say("Quest accepted: %s", q.Title)
		r.event(narrator.NewEvent(narrator.KindQuestAccepted, c, q.Title))
	case "abandon":
		if err := need(args, 1, "abandon <quest>"); err != nil {
			return err
		}
		if err := s.Abandon(args[0]); err != nil {
			return err
		}
		r.say("Quest abandoned: %s", args[0])
	case "complete":
		if err := need(args, 1, "complete <quest>"); err != nil {
			return err
		}
		reward, err := s.Complete(args[0])
		if err != nil {
			return err
		}
		q, _ := g.Quests.Get(args[0])
		r.say("Quest complete: %s! +%d XP, +%d gold.", q.Title, reward.XP, reward.Gold)
		r.event(narrator.NewEvent(narrator.KindQuestCompleted, c, q.Title))
		if reward.LevelsGained > 0 {
			r.say("Level up! You are now level %d.", c.Level)
			r.event(narrator.NewEvent(narrator.KindLevelUp, c, ""))
		}
	case "chain":
		if err := need(args, 1, "chain <quest>"); err != nil {
			return err
		}
		chain, err := s.Chain(args[0])
		if err != nil {
			return err
		}
		r.say("%s", strings.Join(chain, " -> "))
	case "explore":
		b, err := s.Explore()
		if err != nil {
			return err
		}
		r.say("A wild %s appears! (%d HP)", b.Enemy.Name, b.Enemy.Health)
		r.say("attack (1), %s (2), run (3)", strings.ToLower(engine.SpecialName(c.Class)))
		r.event(narrator.NewEvent(narrator.KindExplore, c, b.Enemy.Name))
	case "save":
		if err := s.Save(); err != nil {
			return err
		}
		r.say("Game saved.")
	case "export":
		path, err := s.Export()
		if err != nil {
			return err
		}
		r.say("Exported to %s.", path)
	case "menu", "/menu":
		if err := s.Save(); err != nil {
			return err
		}
		r.say("Game saved. Back to the title screen.")
		g.Session = nil
	case "revive":
		return s.Revive()
	default:
		return fmt.Errorf("%w: unknown command %q, try help", models.ErrInvalidOperation, cmd)
	}
	return nil
}

func (g *Game) battle(r *Reply, cmd string, args []string) error {
	s := g.Session
	switch cmd {
	case "stats", "status", "inv", "inventory":
		return g.play(r, cmd, args)
	}
	action, err := engine.ParseAction(cmd)
	if err != nil {
		return err
	}
	b := s.Battle()
	round, err := s.Fight(action)
	if err != nil {
		return err
	}
	r.Lines = append(r.Lines, round.Log...)
	if round.State == engine.StateActive {
		r.say("%s: %d/%d HP | You: %d/%d HP", b.Enemy.Name, b.Enemy.Health, b.Enemy.MaxHealth, s.Character.Health, s.Character.MaxHealth)
		return nil
	}
	if ev, ok := narrator.BattleEvent(b); ok {
		r.event(ev)
	}
	if res, _ := b.Result(); res.LevelsGained > 0 {
		r.event(narrator.NewEvent(narrator.KindLevelUp, s.Character, ""))
	}
	if round.State == engine.StateEnemyWon {
		r.say("Type revive to return for %d gold.", s.ReviveCost())
	}
	return nil
}

func (g *Game) dead(r *Reply, cmd string, args []string) error {
	s := g.Session
	switch cmd {
	case "revive":
		if err := s.Revive(); err != nil {
			return err
		}
		r.say("You are revived with %d HP.", s.Character.Health)
		r.event(narrator.NewEvent(narrator.KindRevive, s.Character, ""))
		return nil
	case "stats", "status", "menu", "/menu", "save":
		return g.play(r, cmd, args)
	}
	return fmt.Errorf("%w: you are dead, type revive", models.ErrCharacterDead)
}

func (g *Game) itemName(id string) string {
	if it, ok := g.Items.Get(id); ok && it.Name != "" {
		return it.Name
	}
	return id
}

func statsLines(s *engine.Session) []string {
	c := s.Character
	lines := []string{
		fmt.Sprintf("%s the %s, level %d", c.Name, c.Class, c.Level),
		fmt.Sprintf("HP %d/%d  STR %d  MAG %d", c.Health, c.MaxHealth, c.Strength, c.Magic),
		fmt.Sprintf("XP %d/%d  Gold %d", c.Experience, engine.XPToNextLevel(c.Level), c.Gold),
	}
	if c.Weapon != nil {
		lines = append(lines, fmt.Sprintf("Weapon: %s (%s)", c.Weapon.ItemID, c.Weapon.Effect))
	}
	if c.Armor != nil {
		lines = append(lines, fmt.Sprintf("Armor: %s (%s)", c.Armor.ItemID, c.Armor.Effect))
	}
	return lines
}

func inventoryLines(s *engine.Session) []string {
	stacks := s.Ledger.Summary(s.Character)
	if len(stacks) == 0 {
		return []string{"Your pack is empty."}
	}
	lines := []string{fmt.Sprintf("Inventory (%d/%d):", len(s.Character.Inventory), s.Ledger.Capacity)}
	for _, st := range stacks {
		lines = append(lines, fmt.Sprintf("  %s x%d", st.ItemID, st.Count))
	}
	return lines
}

func questLines(s *engine.Session) []string {
	c := s.Character
	lines := []string{fmt.Sprintf("Quests: %.0f%% complete", engine.CompletionPercentage(c, s.Quests))}
	for _, q := range engine.ActiveQuests(c, s.Quests) {
		lines = append(lines, fmt.Sprintf("  [active] %s: %s", q.ID, q.Title))
	}
	for _, q := range engine.CompletedQuests(c, s.Quests) {
		lines = append(lines, fmt.Sprintf("  [done]   %s: %s", q.ID, q.Title))
	}
	xp, gold := engine.TotalRewardsEarned(c, s.Quests)
	lines = append(lines, fmt.Sprintf("Rewards earned: %d XP, %d gold", xp, gold))
	return lines
}
