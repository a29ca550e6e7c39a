package loop

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/arena/internal/input"
	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

const step = 10 * time.Millisecond

func newFight(t *testing.T, mode Mode) *Match {
	t.Helper()
	m, err := NewMatch(Settings{Mode: mode, SkipIntro: true})
	require.NoError(t, err)
	require.NoError(t, m.Start())
	require.Equal(t, PhaseFighting, m.Phase())
	return m
}

func hold(slot object.Slot, a input.Action) input.Keys {
	var k input.Keys
	k.Slots[slot-1] = a
	return k
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// shootInto places a projectile one step short of (x, y) so the next tick lands on it.
func shootInto(m *Match, owner object.Slot, x, y float64) {
	m.projectiles = append(m.projectiles, &object.Projectile{
		X:     x - config.ProjectileSpeed,
		Y:     y,
		Dir:   object.DirRight,
		Speed: config.ProjectileSpeed,
		Owner: owner,
	})
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"duo": ModeDuo, "Solo": ModeSolo, " trio ": ModeTrio} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("squad")
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = NewMatch(Settings{Mode: Mode(7)})
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestLifecycleErrors(t *testing.T) {
	m, err := NewMatch(Settings{Mode: ModeDuo})
	require.NoError(t, err)

	assert.ErrorIs(t, m.Tick(step, input.Keys{}), ErrNotStarted)
	assert.False(t, m.TogglePause(), "lobby cannot pause")

	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.Start(), ErrAlreadyStarted)
}

func TestParticipants(t *testing.T) {
	duo, err := NewMatch(Settings{Mode: ModeDuo, Names: [2]string{"  alice ", ""}})
	require.NoError(t, err)
	require.Len(t, duo.Players(), 2)
	assert.Equal(t, "alice", duo.Player(object.Slot1).Name)
	assert.Equal(t, config.DefaultPlayer2Name, duo.Player(object.Slot2).Name)
	assert.False(t, duo.Player(object.Slot2).IsComputer())
	assert.Nil(t, duo.Player(object.Slot3))

	solo, err := NewMatch(Settings{Mode: ModeSolo, Names: [2]string{"", "ignored"}})
	require.NoError(t, err)
	require.Len(t, solo.Players(), 2)
	assert.Equal(t, config.DefaultPlayer1Name, solo.Player(object.Slot1).Name)
	assert.Equal(t, config.ComputerName, solo.Player(object.Slot2).Name)
	assert.True(t, solo.Player(object.Slot2).IsComputer())

	trio, err := NewMatch(Settings{Mode: ModeTrio, Names: [2]string{"a-very-long-player-name", "bob"}})
	require.NoError(t, err)
	require.Len(t, trio.Players(), 3)
	assert.Equal(t, "a-very-long-play", trio.Player(object.Slot1).Name)
	assert.Equal(t, "bob", trio.Player(object.Slot2).Name)
	assert.Equal(t, config.ComputerName, trio.Player(object.Slot3).Name)

	for i, p := range trio.Players() {
		assert.Equal(t, config.SpawnColumns[i], p.X)
		assert.Equal(t, float64(config.ArenaHeight)/2-config.PlayerSize/2, p.Y)
		assert.Equal(t, object.SlotColor(p.Slot), p.Color)
	}
}

func TestDuoFinalHit(t *testing.T) {
	m := newFight(t, ModeDuo)
	p1 := m.Player(object.Slot1)
	p1.Health = 10
	cx, cy := p1.Center()
	shootInto(m, object.Slot2, cx, cy)

	require.NoError(t, m.Tick(step, input.Keys{}))

	assert.Equal(t, 0, p1.Health)
	assert.Empty(t, m.Projectiles())
	assert.Equal(t, PhaseOver, m.Phase())
	assert.Equal(t, Outcome{Over: true, Winner: config.DefaultPlayer2Name, Slot: object.Slot2}, m.Outcome())

	events := m.Events()
	assert.Equal(t, 1, countEvents(events, EventPlayerHit))
	require.Equal(t, EventMatchEnded, events[len(events)-1].Kind)
	assert.Equal(t, config.DefaultPlayer2Name, events[len(events)-1].Winner)

	assert.ErrorIs(t, m.Tick(step, input.Keys{}), ErrMatchOver)
}

func TestTrioComputerWins(t *testing.T) {
	m := newFight(t, ModeTrio)
	m.Player(object.Slot1).Health = 0
	p2 := m.Player(object.Slot2)
	p2.Health = 10
	cx, cy := p2.Center()
	shootInto(m, object.Slot3, cx, cy)

	require.NoError(t, m.Tick(step, input.Keys{}))

	o := m.Outcome()
	assert.True(t, o.Over)
	assert.False(t, o.Draw)
	assert.Equal(t, config.ComputerName, o.Winner)
	assert.Equal(t, object.Slot3, o.Slot)
}

func TestTrioDraw(t *testing.T) {
	m := newFight(t, ModeTrio)
	m.Player(object.Slot1).Health = 0
	m.Player(object.Slot2).Health = 0
	p3 := m.Player(object.Slot3)
	p3.Health = 10
	cx, cy := p3.Center()
	shootInto(m, object.Slot1, cx, cy)

	require.NoError(t, m.Tick(step, input.Keys{}))

	assert.Equal(t, PhaseOver, m.Phase())
	assert.Equal(t, Outcome{Over: true, Draw: true}, m.Outcome())
	events := m.Events()
	last := events[len(events)-1]
	assert.Equal(t, EventMatchEnded, last.Kind)
	assert.True(t, last.Draw)
	assert.Empty(t, last.Winner)
	assert.True(t, m.Snapshot().Draw)
}

func TestTrioUndecided(t *testing.T) {
	m := newFight(t, ModeTrio)
	m.Player(object.Slot1).Health = 0

	require.NoError(t, m.Tick(step, input.Keys{}))
	assert.Equal(t, PhaseFighting, m.Phase())
	assert.False(t, Evaluate(m).Over)
}

func TestEvaluateIsPure(t *testing.T) {
	m := newFight(t, ModeDuo)
	m.Player(object.Slot2).Health = 0

	first := Evaluate(m)
	second := Evaluate(m)
	assert.Equal(t, first, second)
	assert.Equal(t, config.DefaultPlayer1Name, first.Winner)
	assert.Equal(t, PhaseFighting, m.Phase(), "evaluation does not end the match")
	assert.Empty(t, m.Events())

	// Player 1 is checked first when both are down.
	m.Player(object.Slot1).Health = 0
	assert.Equal(t, config.DefaultPlayer2Name, Evaluate(m).Winner)
}

func TestShieldBreaksAtTick200(t *testing.T) {
	m := newFight(t, ModeDuo)
	p1 := m.Player(object.Slot1)
	shield := hold(object.Slot1, input.Action{Shield: true})

	for i := 1; i < 200; i++ {
		require.NoError(t, m.Tick(step, shield))
		require.True(t, p1.ShieldActive, "tick %d", i)
	}
	assert.InDelta(t, 0.5, p1.Shield, 1e-9)
	assert.Zero(t, countEvents(m.Events(), EventShieldBroken))

	require.NoError(t, m.Tick(step, shield))
	assert.Zero(t, p1.Shield)
	assert.False(t, p1.ShieldActive)
	assert.True(t, p1.ShieldBroken)
	assert.Equal(t, 1, countEvents(m.Events(), EventShieldBroken))

	// Holding the key does nothing while the shield is broken.
	require.NoError(t, m.Tick(step, shield))
	assert.False(t, p1.ShieldActive)

	// Repair lands 3000ms after the break.
	for i := 0; i < 298; i++ {
		require.NoError(t, m.Tick(step, input.Keys{}))
	}
	assert.True(t, p1.ShieldBroken)
	assert.Zero(t, p1.Shield)

	require.NoError(t, m.Tick(step, input.Keys{}))
	assert.False(t, p1.ShieldBroken)
	assert.InDelta(t, config.ShieldRecharge, p1.Shield, 1e-9)
}

func TestAIFiresOncePerCooldown(t *testing.T) {
	m := newFight(t, ModeSolo)
	ai := m.Player(object.Slot2)
	ai.X = 350 // 250 units between centers

	require.NoError(t, m.Tick(time.Millisecond, input.Keys{}))
	assert.Equal(t, 1, countEvents(m.Events(), EventShotFired))
	require.Len(t, m.Projectiles(), 1)
	assert.Equal(t, object.DirLeft, m.Projectiles()[0].Dir)
	assert.Equal(t, object.Slot2, m.Projectiles()[0].Owner)
	assert.False(t, ai.CanShoot)

	for i := 0; i < 49; i++ {
		require.NoError(t, m.Tick(time.Millisecond, input.Keys{}))
	}
	assert.Zero(t, countEvents(m.Events(), EventShotFired))

	require.NoError(t, m.Tick(time.Millisecond, input.Keys{}))
	assert.Equal(t, 1, countEvents(m.Events(), EventShotFired))
}

func TestAIHoldsFireOutOfRange(t *testing.T) {
	m := newFight(t, ModeSolo)
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Tick(step, input.Keys{}))
	}
	assert.Zero(t, countEvents(m.Events(), EventShotFired))
	assert.Empty(t, m.Projectiles())
	assert.Equal(t, 600-5*config.PlayerSpeed, m.Player(object.Slot2).X)
}

func TestHumanNeedsReleaseToShootAgain(t *testing.T) {
	m := newFight(t, ModeDuo)
	fire := hold(object.Slot1, input.Action{Shoot: true})

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Tick(step, fire))
	}
	assert.Equal(t, 1, countEvents(m.Events(), EventShotFired))

	require.NoError(t, m.Tick(step, input.Keys{}))
	require.NoError(t, m.Tick(step, fire))
	events := m.Events()
	require.Equal(t, 1, countEvents(events, EventShotFired))
	assert.Equal(t, object.Slot1, events[0].Slot)
}

func TestShotTravelsAlongLastDir(t *testing.T) {
	m := newFight(t, ModeDuo)
	p1 := m.Player(object.Slot1)
	cx, cy := p1.Center()

	require.NoError(t, m.Tick(step, hold(object.Slot1, input.Action{Shoot: true})))
	require.Len(t, m.Projectiles(), 1)
	pr := m.Projectiles()[0]
	assert.Equal(t, object.DirRight, pr.Dir)
	assert.Equal(t, cx+config.ProjectileSpeed, pr.X)
	assert.Equal(t, cy, pr.Y)
}

func TestLeftAtEdge(t *testing.T) {
	m := newFight(t, ModeDuo)
	p1 := m.Player(object.Slot1)
	p1.X = 0

	require.NoError(t, m.Tick(step, hold(object.Slot1, input.Action{Left: true})))
	assert.Zero(t, p1.X)
	assert.Equal(t, object.DirLeft, p1.LastDir)
}

func TestLastDirKeptWithoutKeys(t *testing.T) {
	m := newFight(t, ModeDuo)
	p2 := m.Player(object.Slot2)
	require.NoError(t, m.Tick(step, hold(object.Slot2, input.Action{Up: true, Right: true})))
	assert.Equal(t, object.DirUp, p2.LastDir)
	assert.Equal(t, 600+config.PlayerSpeed, p2.X)

	require.NoError(t, m.Tick(step, input.Keys{}))
	assert.Equal(t, object.DirUp, p2.LastDir)
}

func TestBlockedPairRollsBackBoth(t *testing.T) {
	m := newFight(t, ModeDuo)
	p1, p2 := m.Player(object.Slot1), m.Player(object.Slot2)
	// 10 units apart: one step each brings them inside the margin.
	p1.X = 300
	p2.X = 350

	var k input.Keys
	k.Slots[0] = input.Action{Right: true, Down: true}
	k.Slots[1] = input.Action{Left: true}
	require.NoError(t, m.Tick(step, k))

	assert.Equal(t, 300.0, p1.X)
	assert.Equal(t, 350.0, p2.X)
	// The vertical step is resolved on its own and still happens.
	assert.Equal(t, 340+config.PlayerSpeed, p1.Y)
	assert.Equal(t, object.DirDown, p1.LastDir)
	assert.Equal(t, object.DirLeft, p2.LastDir)
}

func TestProjectileNeverHitsOwner(t *testing.T) {
	for _, slot := range []object.Slot{object.Slot1, object.Slot2, object.Slot3} {
		m := newFight(t, ModeTrio)
		owner := m.Player(slot)
		cx, cy := owner.Center()
		shootInto(m, slot, cx, cy)

		require.NoError(t, m.Tick(step, input.Keys{}))
		assert.Equal(t, config.MaxHealth, owner.Health, "slot %d", slot)
		assert.Len(t, m.Projectiles(), 1, "slot %d", slot)
		assert.Zero(t, countEvents(m.Events(), EventPlayerHit), "slot %d", slot)
	}
}

func TestProjectileHitsFirstSlotInOrder(t *testing.T) {
	m := newFight(t, ModeTrio)
	p1, p2 := m.Player(object.Slot1), m.Player(object.Slot2)
	// Stack player 2 over player 1 so one point is inside both boxes.
	p2.X, p2.Y = p1.X, p1.Y
	cx, cy := p1.Center()
	shootInto(m, object.Slot3, cx, cy)

	m.updateProjectiles()
	assert.Equal(t, config.MaxHealth-config.ProjectileDamage, p1.Health)
	assert.Equal(t, config.MaxHealth, p2.Health)
	assert.Empty(t, m.Projectiles())
}

func TestProjectileLeavesArena(t *testing.T) {
	m := newFight(t, ModeDuo)
	m.projectiles = append(m.projectiles, &object.Projectile{
		X: 5, Y: 360, Dir: object.DirLeft, Speed: config.ProjectileSpeed, Owner: object.Slot2,
	})

	require.NoError(t, m.Tick(step, input.Keys{}))
	assert.Empty(t, m.Projectiles())
	for _, p := range m.Players() {
		assert.Equal(t, config.MaxHealth, p.Health)
	}
	assert.Zero(t, countEvents(m.Events(), EventPlayerHit))
}

func TestProjectileSurvivesInFlight(t *testing.T) {
	m := newFight(t, ModeDuo)
	m.projectiles = append(m.projectiles, &object.Projectile{
		X: 300, Y: 100, Dir: object.DirDown, Speed: config.ProjectileSpeed, Owner: object.Slot1,
	})

	require.NoError(t, m.Tick(step, input.Keys{}))
	require.Len(t, m.Projectiles(), 1)
	assert.Equal(t, 110.0, m.Projectiles()[0].Y)
}

func TestIntroPhases(t *testing.T) {
	m, err := NewMatch(Settings{Mode: ModeTrio})
	require.NoError(t, err)
	require.NoError(t, m.Start())
	require.Equal(t, PhaseDropIn, m.Phase())
	for _, p := range m.Players() {
		assert.Equal(t, -p.Height, p.Y)
	}

	dest := float64(config.ArenaHeight)/2 - config.PlayerSize/2
	dropTicks := int((dest + config.PlayerSize) / config.DropSpeed)
	for i := 0; i < dropTicks-1; i++ {
		require.NoError(t, m.Tick(step, hold(object.Slot1, input.Action{Left: true, Shoot: true})))
	}
	assert.Equal(t, PhaseDropIn, m.Phase())
	require.NoError(t, m.Tick(step, input.Keys{}))
	assert.Equal(t, PhaseAnnounce, m.Phase())
	for _, p := range m.Players() {
		assert.Equal(t, dest, p.Y)
	}
	// Input is ignored during the intro.
	assert.Equal(t, config.SpawnColumns[0], m.Player(object.Slot1).X)
	assert.Empty(t, m.Projectiles())

	announceTicks := int(config.AnnounceFor / step)
	for i := 0; i < announceTicks-1; i++ {
		require.NoError(t, m.Tick(step, input.Keys{}))
	}
	assert.Equal(t, PhaseAnnounce, m.Phase())
	require.NoError(t, m.Tick(step, input.Keys{}))
	assert.Equal(t, PhaseFighting, m.Phase())
}

func TestPauseFreezesClock(t *testing.T) {
	m := newFight(t, ModeSolo)
	ai := m.Player(object.Slot2)
	ai.X = 350

	require.NoError(t, m.Tick(time.Millisecond, input.Keys{}))
	require.False(t, ai.CanShoot)
	clock, ticks := m.Clock(), m.Ticks()
	x := ai.X

	require.True(t, m.TogglePause())
	for i := 0; i < 100; i++ {
		require.NoError(t, m.Tick(time.Millisecond, input.Keys{}))
	}
	assert.Equal(t, clock, m.Clock())
	assert.Equal(t, ticks, m.Ticks())
	assert.Equal(t, x, ai.X)
	assert.False(t, ai.CanShoot, "cooldowns do not run while paused")
	assert.True(t, m.Snapshot().Paused)

	require.False(t, m.TogglePause())
	require.NoError(t, m.Tick(time.Millisecond, input.Keys{}))
	assert.Equal(t, clock+time.Millisecond, m.Clock())
	assert.False(t, ai.CanShoot)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	m := newFight(t, ModeTrio)
	require.NoError(t, m.Tick(step, hold(object.Slot1, input.Action{Shoot: true})))

	s := m.Snapshot()
	require.Len(t, s.Players, 3)
	require.Len(t, s.Projectiles, 1)
	assert.Equal(t, "trio", s.Mode)
	assert.Equal(t, "fighting", s.Phase)
	assert.Equal(t, "green", s.Players[2].Color)
	assert.True(t, s.Players[2].Computer)
	assert.Equal(t, int64(10), s.ClockMS)

	s.Players[0].Health = 1
	s.Projectiles[0].X = -1
	assert.Equal(t, config.MaxHealth, m.Player(object.Slot1).Health)
	assert.NotEqual(t, -1.0, m.Projectiles()[0].X)
}

func TestEventsDrain(t *testing.T) {
	m := newFight(t, ModeDuo)
	require.NoError(t, m.Tick(step, hold(object.Slot1, input.Action{Shoot: true})))
	events := m.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventShotFired, events[0].Kind)
	assert.Equal(t, step, events[0].At)
	assert.Nil(t, m.Events())
}

func randomAction(r *rand.Rand) input.Action {
	return input.Action{
		Up:     r.Intn(3) == 0,
		Down:   r.Intn(3) == 0,
		Left:   r.Intn(3) == 0,
		Right:  r.Intn(3) == 0,
		Shoot:  r.Intn(4) == 0,
		Shield: r.Intn(5) == 0,
	}
}

func checkInvariants(t *testing.T, m *Match, tick int) {
	t.Helper()
	for _, p := range m.Players() {
		require.True(t, p.Rect().Inside(m.Bounds()), "tick %d: slot %d out of bounds at (%v,%v)", tick, p.Slot, p.X, p.Y)
		require.GreaterOrEqual(t, p.Health, 0)
		require.LessOrEqual(t, p.Health, config.MaxHealth)
		require.GreaterOrEqual(t, p.Shield, 0.0)
		require.LessOrEqual(t, p.Shield, config.MaxShield)
		require.False(t, p.ShieldActive && p.ShieldBroken, "tick %d: slot %d shield active and broken", tick, p.Slot)
	}
	for _, pair := range m.pairs() {
		require.False(t, physics.Overlaps(pair[0].Rect(), pair[1].Rect()),
			"tick %d: slots %d and %d overlap", tick, pair[0].Slot, pair[1].Slot)
	}
}

func TestRandomInputKeepsStateValid(t *testing.T) {
	cases := []struct {
		mode  Mode
		human []object.Slot
	}{
		{ModeDuo, []object.Slot{object.Slot1, object.Slot2}},
		{ModeSolo, []object.Slot{object.Slot1}},
		{ModeTrio, []object.Slot{object.Slot1, object.Slot2}},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			for seed := int64(1); seed <= 50; seed++ {
				m := newFight(t, tc.mode)
				r := rand.New(rand.NewSource(seed))
				for i := 0; i < 3000 && m.Phase() != PhaseOver; i++ {
					var k input.Keys
					for _, s := range tc.human {
						k.Slots[s-1] = randomAction(r)
					}
					require.NoError(t, m.Tick(config.TargetFrameTime, k))
					checkInvariants(t, m, i)
				}
			}
		})
	}
}

func TestTrioRestoreKeepsHumansApart(t *testing.T) {
	m := newFight(t, ModeTrio)
	p1, p2, ai := m.Player(object.Slot1), m.Player(object.Slot2), m.Player(object.Slot3)

	// Humans stacked with a 12 unit gap, the computer to their right and
	// closer to player 1. Both humans step down; the computer then cuts into
	// player 2, which puts player 2 back right under player 1.
	p1.X, p1.Y = 344, 375
	p2.X, p2.Y = 348, 427
	ai.X, ai.Y = 400, 400

	var k input.Keys
	k.Slots[0] = input.Action{Down: true}
	k.Slots[1] = input.Action{Down: true}
	require.NoError(t, m.Tick(step, k))

	assert.Equal(t, position{344, 375}, position{p1.X, p1.Y})
	assert.Equal(t, position{348, 427}, position{p2.X, p2.Y})
	assert.Equal(t, position{400, 400}, position{ai.X, ai.Y})
	assert.Equal(t, object.DirDown, p1.LastDir)
	checkInvariants(t, m, 0)
}
