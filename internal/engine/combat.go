package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tatianab/quest-chronicles/internal/models"
)

// State is where a battle stands. Everything but StateActive is terminal.
type State int

const (
	StateActive State = iota
	StatePlayerWon
	StateEnemyWon
	StateEscaped
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePlayerWon:
		return "player won"
	case StateEnemyWon:
		return "enemy won"
	case StateEscaped:
		return "escaped"
	default:
		return "unknown"
	}
}

// Action is a player's choice for a turn.
type Action int

const (
	ActionAttack Action = iota + 1
	ActionSpecial
	ActionRun
)

// ParseAction accepts the menu number or the action name.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "attack", "a":
		return ActionAttack, nil
	case "2", "special", "s":
		return ActionSpecial, nil
	case "3", "run", "r", "flee":
		return ActionRun, nil
	}
	return 0, fmt.Errorf("%w: unknown action %q", models.ErrInvalidOperation, s)
}

// Winner names the outcome of a finished battle.
type Winner string

const (
	WinnerPlayer  Winner = "player"
	WinnerEnemy   Winner = "enemy"
	WinnerEscaped Winner = "escaped"
)

// Result is what a finished battle paid out.
type Result struct {
	Winner       Winner
	XPGained     int
	GoldGained   int
	LevelsGained int
}

// Round reports one player turn and the enemy's reply.
type Round struct {
	Number int
	Log    []string
	State  State
}

// Roller supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// Chances used by the coin-flip mechanics.
const (
	EscapeChance   = 0.5
	CriticalChance = 0.5
	ClericHeal     = 30
)

// Damage is the basic attack formula. It never returns less than 1.
func Damage(attackerStrength, defenderStrength int) int {
	return max(1, attackerStrength-defenderStrength/4)
}

// Battle is a single encounter between a character and an enemy.
type Battle struct {
	ID        string
	Character *models.Character
	Enemy     *models.Enemy

	roller       Roller
	state        State
	round        int
	cooldown     int
	cooldownLeft int
	result       Result
}

// BattleOption configures a battle.
type BattleOption func(*Battle)

// WithSpecialCooldown makes the special ability unavailable for n rounds
// after each use.
func WithSpecialCooldown(n int) BattleOption {
	return func(b *Battle) {
		b.cooldown = max(0, n)
	}
}

// NewBattle opens an encounter. A dead character cannot fight.
func NewBattle(c *models.Character, e *models.Enemy, roller Roller, opts ...BattleOption) (*Battle, error) {
	if IsDead(c) {
		return nil, fmt.Errorf("%w: cannot start a battle", models.ErrCharacterDead)
	}
	if e == nil || e.Health <= 0 {
		return nil, fmt.Errorf("%w: enemy cannot fight", models.ErrInvalidTarget)
	}
	b := &Battle{
		ID:        uuid.NewString(),
		Character: c,
		Enemy:     e,
		roller:    roller,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Battle) State() State { return b.state }

// Result returns the outcome once the battle has ended.
func (b *Battle) Result() (Result, bool) {
	return b.result, b.state != StateActive
}

// SpecialAvailable reports whether ActionSpecial may be taken this round.
func (b *Battle) SpecialAvailable() bool {
	return b.state == StateActive && b.cooldownLeft == 0
}

// Take plays one round: the player's action, then the enemy's attack unless
// the battle ended first.
func (b *Battle) Take(action Action) (Round, error) {
	if b.state != StateActive {
		return Round{}, models.ErrCombatNotActive
	}
	if action == ActionSpecial {
		if b.cooldownLeft > 0 {
			return Round{}, fmt.Errorf("%w: %d more round(s) to wait", models.ErrAbilityUnavailable, b.cooldownLeft)
		}
		if _, ok := specials[b.Character.Class]; !ok {
			return Round{}, fmt.Errorf("%w: no special ability for class %q", models.ErrAbilityUnavailable, b.Character.Class)
		}
	}

	b.round++
	r := Round{Number: b.round}
	logf := func(format string, args ...any) {
		r.Log = append(r.Log, fmt.Sprintf(format, args...))
	}

	switch action {
	case ActionAttack:
		dmg := Damage(b.Character.Strength, b.Enemy.Strength)
		b.hitEnemy(dmg)
		logf("You dealt %d damage!", dmg)
	case ActionSpecial:
		logf("%s", specials[b.Character.Class](b))
		b.cooldownLeft = b.cooldown + 1
	case ActionRun:
		if b.roller.Float64() < EscapeChance {
			b.state = StateEscaped
			b.result = Result{Winner: WinnerEscaped}
			logf("You escaped successfully!")
			r.State = b.state
			return r, nil
		}
		logf("You failed to escape!")
	default:
		b.round--
		return Round{}, fmt.Errorf("%w: unknown action %d", models.ErrInvalidOperation, action)
	}

	if err := b.checkEnd(logf); err != nil || b.state != StateActive {
		r.State = b.state
		return r, err
	}

	dmg := Damage(b.Enemy.Strength, b.Character.Strength)
	b.Character.Apply(models.StatHealth, -dmg)
	logf("%s dealt %d damage!", b.Enemy.Name, dmg)
	err := b.checkEnd(logf)

	if b.cooldownLeft > 0 {
		b.cooldownLeft--
	}
	r.State = b.state
	return r, err
}

// Run takes rounds chosen by choose until the battle ends.
func (b *Battle) Run(choose func(*Battle) Action) (Result, error) {
	for b.state == StateActive {
		if _, err := b.Take(choose(b)); err != nil {
			return Result{}, err
		}
	}
	return b.result, nil
}

// StartBattle fights e to the end with basic attacks.
func StartBattle(c *models.Character, e *models.Enemy, roller Roller) (Result, error) {
	b, err := NewBattle(c, e, roller)
	if err != nil {
		return Result{}, err
	}
	return b.Run(func(*Battle) Action { return ActionAttack })
}

func (b *Battle) hitEnemy(dmg int) {
	b.Enemy.Health = max(0, b.Enemy.Health-dmg)
}

// checkEnd settles the battle if either side is down. Victory pays out
// through the progression rules.
func (b *Battle) checkEnd(logf func(string, ...any)) error {
	switch {
	case b.Enemy.Health <= 0:
		b.state = StatePlayerWon
		b.result = Result{Winner: WinnerPlayer, XPGained: b.Enemy.XPReward, GoldGained: b.Enemy.GoldReward}
		logf("%s defeated!", b.Enemy.Name)
		levels, err := GainExperience(b.Character, b.result.XPGained)
		if err != nil {
			return err
		}
		if _, err := AdjustGold(b.Character, b.result.GoldGained); err != nil {
			return err
		}
		b.result.LevelsGained = levels
		logf("Gained %d XP and %d gold.", b.result.XPGained, b.result.GoldGained)
		if levels > 0 {
			logf("Level up! You are now level %d.", b.Character.Level)
		}
	case b.Character.Health <= 0:
		b.state = StateEnemyWon
		b.result = Result{Winner: WinnerEnemy}
		logf("You were defeated!")
	}
	return nil
}

var specials = map[models.Class]func(*Battle) string{
	models.Warrior: powerStrike,
	models.Mage:    fireball,
	models.Rogue:   criticalStrike,
	models.Cleric:  clericHeal,
}

func powerStrike(b *Battle) string {
	dmg := b.Character.Strength * 2
	b.hitEnemy(dmg)
	return fmt.Sprintf("Power Strike hits for %d damage!", dmg)
}

func fireball(b *Battle) string {
	dmg := b.Character.Magic * 2
	b.hitEnemy(dmg)
	return fmt.Sprintf("Fireball burns for %d damage!", dmg)
}

func criticalStrike(b *Battle) string {
	if b.roller.Float64() < CriticalChance {
		dmg := b.Character.Strength * 3
		b.hitEnemy(dmg)
		return fmt.Sprintf("Critical Strike lands for %d damage!", dmg)
	}
	return "Critical Strike missed!"
}

func clericHeal(b *Battle) string {
	healed := Heal(b.Character, ClericHeal)
	return fmt.Sprintf("Heal restores %d HP.", healed)
}

// SpecialName is the display name of a class's ability.
func SpecialName(class models.Class) string {
	switch class {
	case models.Warrior:
		return "Power Strike"
	case models.Mage:
		return "Fireball"
	case models.Rogue:
		return "Critical Strike"
	case models.Cleric:
		return "Heal"
	}
	return ""
}
