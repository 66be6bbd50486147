package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jfmyers9/hush/internal/journal"
	"github.com/jfmyers9/hush/internal/vlc"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// fakeObserver reports a fixed verdict that tests flip between ticks
type fakeObserver struct {
	other      bool
	calls      int
	noDeadline bool
}

func (f *fakeObserver) OtherPlaying(ctx context.Context) bool {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		f.noDeadline = true
	}
	return f.other
}

// fakePlayer behaves like VLC: a successful toggle flips playing/paused
type fakePlayer struct {
	state      vlc.PlayState
	unknown    bool  // Probes report StateUnknown while set
	toggleErr  error // Toggle fails and leaves the state alone while set
	probes     int
	toggles    int
	noDeadline bool
	toggled    chan struct{}
}

func (f *fakePlayer) PlayState(ctx context.Context) vlc.PlayState {
	f.probes++
	if _, ok := ctx.Deadline(); !ok {
		f.noDeadline = true
	}
	if f.unknown {
		return vlc.StateUnknown
	}
	return f.state
}

func (f *fakePlayer) Toggle(ctx context.Context) error {
	f.toggles++
	if _, ok := ctx.Deadline(); !ok {
		f.noDeadline = true
	}
	if f.toggled != nil {
		f.toggled <- struct{}{}
	}
	if f.toggleErr != nil {
		return f.toggleErr
	}
	switch f.state {
	case vlc.StatePlaying:
		f.state = vlc.StatePaused
	default:
		f.state = vlc.StatePlaying
	}
	return nil
}

// fakeRecorder keeps recorded entries in memory
type fakeRecorder struct {
	entries []journal.Entry
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, e journal.Entry) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.entries = append(f.entries, e)
	return int64(len(f.entries)), nil
}

func newTestReconciler(observer *fakeObserver, player *fakePlayer, recorder Recorder) *Reconciler {
	return NewReconciler(ReconcilerConfig{
		Interval:     time.Second,
		ProbeTimeout: time.Second,
		Clock:        clockwork.NewFakeClock(),
		Recorder:     recorder,
	}, observer, player, zerolog.Nop())
}

func TestReconciler_Seed(t *testing.T) {
	tests := []struct {
		state      vlc.PlayState
		wantPaused bool
	}{
		{vlc.StatePlaying, false},
		{vlc.StatePaused, true},
		{vlc.StateStopped, true},
		{vlc.StateUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			player := &fakePlayer{state: tt.state}
			r := newTestReconciler(&fakeObserver{}, player, nil)

			r.Seed(context.Background())

			if r.Paused() != tt.wantPaused {
				t.Errorf("Paused() = %v, want %v", r.Paused(), tt.wantPaused)
			}
			if player.probes != 1 {
				t.Errorf("expected one seed probe, got %d", player.probes)
			}
			if player.toggles != 0 {
				t.Errorf("seeding must not toggle, got %d", player.toggles)
			}
		})
	}
}

func TestReconciler_AgreementIsIdempotent(t *testing.T) {
	for _, other := range []bool{false, true} {
		state := vlc.StatePlaying
		if other {
			state = vlc.StatePaused
		}
		player := &fakePlayer{state: state}
		observer := &fakeObserver{other: other}
		r := newTestReconciler(observer, player, nil)
		r.Seed(context.Background())
		before := r.Paused()

		for i := 0; i < 5; i++ {
			d := r.Tick(context.Background())
			if d.Action != ActionNone {
				t.Fatalf("tick %d: expected no action, got %v", i, d.Action)
			}
		}

		if r.Paused() != before {
			t.Errorf("belief changed from %v to %v", before, r.Paused())
		}
		if player.toggles != 0 {
			t.Errorf("expected no toggles, got %d", player.toggles)
		}
		if player.probes != 1 {
			t.Errorf("player probed on agreeing ticks: %d probes", player.probes)
		}
		if observer.calls != 5 {
			t.Errorf("expected one observer query per tick, got %d", observer.calls)
		}
	}
}

func TestReconciler_SingleTogglePerDrift(t *testing.T) {
	player := &fakePlayer{state: vlc.StatePlaying}
	observer := &fakeObserver{other: false}
	r := newTestReconciler(observer, player, nil)
	r.Seed(context.Background())

	if r.Paused() {
		t.Fatal("expected seeded belief unpaused")
	}

	observer.other = true
	for i := 0; i < 10; i++ {
		r.Tick(context.Background())
	}

	if player.toggles != 1 {
		t.Errorf("expected exactly one toggle, got %d", player.toggles)
	}
	if !r.Paused() {
		t.Error("expected belief paused")
	}
	if player.state != vlc.StatePaused {
		t.Errorf("expected player paused, got %v", player.state)
	}

	// And back again when the other session stops
	observer.other = false
	for i := 0; i < 10; i++ {
		r.Tick(context.Background())
	}

	if player.toggles != 2 {
		t.Errorf("expected exactly two toggles overall, got %d", player.toggles)
	}
	if r.Paused() || player.state != vlc.StatePlaying {
		t.Errorf("expected resumed player, belief paused=%v state=%v", r.Paused(), player.state)
	}
}

func TestReconciler_UnknownProbeIsSafe(t *testing.T) {
	player := &fakePlayer{state: vlc.StatePlaying}
	observer := &fakeObserver{other: false}
	r := newTestReconciler(observer, player, nil)
	r.Seed(context.Background())

	player.unknown = true
	observer.other = true

	for i := 0; i < 3; i++ {
		d := r.Tick(context.Background())
		if d.Action != ActionSkip {
			t.Fatalf("tick %d: expected skip, got %v", i, d.Action)
		}
	}

	if player.toggles != 0 {
		t.Errorf("unknown probe triggered %d toggles", player.toggles)
	}
	if r.Paused() {
		t.Error("unknown probe moved belief")
	}

	// Once the probe recovers the drift is acted on
	player.unknown = false
	if d := r.Tick(context.Background()); d.Action != ActionToggle {
		t.Errorf("expected toggle after probe recovers, got %v", d.Action)
	}
}

func TestReconciler_AbsorbsExternalChange(t *testing.T) {
	player := &fakePlayer{state: vlc.StatePaused}
	observer := &fakeObserver{other: true}
	r := newTestReconciler(observer, player, nil)
	r.Seed(context.Background())

	if !r.Paused() {
		t.Fatal("expected seeded belief paused")
	}

	// User resumes the player by hand and the other session stops
	player.state = vlc.StatePlaying
	observer.other = false

	d := r.Tick(context.Background())
	if d.Action != ActionAbsorb {
		t.Fatalf("expected absorb, got %v", d.Action)
	}
	if player.toggles != 0 {
		t.Errorf("absorbing must not toggle, got %d", player.toggles)
	}
	if r.Paused() {
		t.Error("expected belief to snap to unpaused")
	}
	if player.state != vlc.StatePlaying {
		t.Errorf("player state disturbed: %v", player.state)
	}
}

func TestReconciler_FailedToggleStillMovesBelief(t *testing.T) {
	player := &fakePlayer{state: vlc.StatePlaying, toggleErr: errors.New("connection refused")}
	observer := &fakeObserver{other: false}
	recorder := &fakeRecorder{}
	r := newTestReconciler(observer, player, recorder)
	r.Seed(context.Background())

	observer.other = true
	d := r.Tick(context.Background())
	if d.Action != ActionToggle {
		t.Fatalf("expected toggle, got %v", d.Action)
	}
	if !r.Paused() {
		t.Error("belief must flip even when the command failed")
	}
	if player.toggles != 1 {
		t.Errorf("command must not be retried within a tick, got %d", player.toggles)
	}

	// The player is still playing. When the other session stops the drift
	// check sees a playing player and converges without another toggle.
	player.toggleErr = nil
	observer.other = false
	d = r.Tick(context.Background())
	if d.Action != ActionAbsorb {
		t.Fatalf("expected absorb, got %v", d.Action)
	}
	if player.toggles != 1 {
		t.Errorf("expected no further toggle, got %d", player.toggles)
	}

	if len(recorder.entries) != 3 {
		t.Fatalf("expected seed, toggle and absorb entries, got %d", len(recorder.entries))
	}
	if recorder.entries[1].Kind != journal.KindToggle || recorder.entries[1].Error != "connection refused" {
		t.Errorf("unexpected toggle entry: %+v", recorder.entries[1])
	}
	if recorder.entries[2].Kind != journal.KindAbsorb {
		t.Errorf("unexpected absorb entry: %+v", recorder.entries[2])
	}
}

func TestReconciler_EndToEndScenario(t *testing.T) {
	player := &fakePlayer{state: vlc.StatePaused}
	observer := &fakeObserver{}
	r := newTestReconciler(observer, player, nil)
	r.Seed(context.Background())

	if !r.Paused() {
		t.Fatal("expected seeded belief paused")
	}

	// Tick 1: nothing else playing, player paused. Desired unpaused,
	// belief paused, probe paused: resume.
	// Tick 2: something else starts, player now playing: pause.
	// Tick 3: user unpauses by hand while the other session still plays:
	// desired paused equals belief paused, so nothing happens.
	steps := []struct {
		other      bool
		setState   vlc.PlayState
		wantAction Action
		wantPaused bool
	}{
		{false, vlc.StatePaused, ActionToggle, false},
		{true, vlc.StatePlaying, ActionToggle, true},
		{true, vlc.StatePlaying, ActionNone, true},
	}

	for i, step := range steps {
		observer.other = step.other
		player.state = step.setState

		d := r.Tick(context.Background())
		if d.Action != step.wantAction {
			t.Errorf("tick %d: action = %v, want %v", i+1, d.Action, step.wantAction)
		}
		if r.Paused() != step.wantPaused {
			t.Errorf("tick %d: paused = %v, want %v", i+1, r.Paused(), step.wantPaused)
		}
	}
}

func TestReconciler_ProbesAreBounded(t *testing.T) {
	player := &fakePlayer{state: vlc.StatePlaying}
	observer := &fakeObserver{other: true}
	r := newTestReconciler(observer, player, nil)

	r.Seed(context.Background())
	r.Tick(context.Background())

	if player.probes != 2 || player.toggles != 1 {
		t.Fatalf("unexpected calls: probes=%d toggles=%d", player.probes, player.toggles)
	}
	if player.noDeadline {
		t.Error("player calls must carry a deadline")
	}
	if observer.calls != 1 {
		t.Fatalf("expected one observer query, got %d", observer.calls)
	}
	if observer.noDeadline {
		t.Error("observer query must carry a deadline")
	}
}

func TestReconciler_RepeatedSkipsRecordedOnce(t *testing.T) {
	// VLC closed: seeds paused, nothing else plays, every tick drifts
	player := &fakePlayer{unknown: true}
	observer := &fakeObserver{other: false}
	recorder := &fakeRecorder{}
	r := newTestReconciler(observer, player, recorder)
	r.Seed(context.Background())

	for i := 0; i < 3600; i++ {
		if d := r.Tick(context.Background()); d.Action != ActionSkip {
			t.Fatalf("tick %d: expected skip, got %v", i, d.Action)
		}
	}

	if len(recorder.entries) != 2 {
		t.Fatalf("expected seed and a single skip entry, got %d", len(recorder.entries))
	}
	if recorder.entries[1].Kind != journal.KindSkip {
		t.Errorf("unexpected entry: %+v", recorder.entries[1])
	}

	// VLC starts answering: the resume is recorded, and a later outage
	// is recorded again once
	player.unknown = false
	player.state = vlc.StatePaused
	if d := r.Tick(context.Background()); d.Action != ActionToggle {
		t.Fatalf("expected toggle, got %v", d.Action)
	}

	player.unknown = true
	observer.other = true
	for i := 0; i < 10; i++ {
		r.Tick(context.Background())
	}

	kinds := make([]journal.Kind, len(recorder.entries))
	for i, e := range recorder.entries {
		kinds[i] = e.Kind
	}
	want := []journal.Kind{journal.KindSeed, journal.KindSkip, journal.KindToggle, journal.KindSkip}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds = %v, want %v", kinds, want)
			break
		}
	}
}

// fakePruner counts prunes
type fakePruner struct {
	calls  int
	maxAge time.Duration
}

func (f *fakePruner) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	f.calls++
	f.maxAge = maxAge
	return 0, nil
}

func TestReconciler_PrunesOnInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pruner := &fakePruner{}
	r := NewReconciler(ReconcilerConfig{
		Clock:     clock,
		Pruner:    pruner,
		Retention: 48 * time.Hour,
	}, &fakeObserver{}, &fakePlayer{}, zerolog.Nop())

	ctx := context.Background()

	r.maybePrune(ctx)
	if pruner.calls != 0 {
		t.Fatalf("pruned before the interval elapsed: %d", pruner.calls)
	}

	clock.Advance(DefaultPruneInterval)
	r.maybePrune(ctx)
	r.maybePrune(ctx)
	if pruner.calls != 1 {
		t.Fatalf("expected one prune per interval, got %d", pruner.calls)
	}
	if pruner.maxAge != 48*time.Hour {
		t.Errorf("maxAge = %v, want 48h", pruner.maxAge)
	}

	clock.Advance(DefaultPruneInterval)
	r.maybePrune(ctx)
	if pruner.calls != 2 {
		t.Errorf("expected a second prune, got %d", pruner.calls)
	}
}

func TestReconciler_RecorderFailureIsIgnored(t *testing.T) {
	player := &fakePlayer{state: vlc.StatePlaying}
	observer := &fakeObserver{other: true}
	r := newTestReconciler(observer, player, &fakeRecorder{err: errors.New("disk full")})

	r.Seed(context.Background())
	d := r.Tick(context.Background())

	if d.Action != ActionToggle || !r.Paused() {
		t.Errorf("recorder failure changed the decision: %+v", d)
	}
}

func TestReconciler_RunTicksOnClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	player := &fakePlayer{state: vlc.StatePlaying, toggled: make(chan struct{}, 1)}
	observer := &fakeObserver{other: true}
	recorder := &fakeRecorder{}
	r := NewReconciler(ReconcilerConfig{
		Interval: 500 * time.Millisecond,
		Clock:    clock,
		Recorder: recorder,
	}, observer, player, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	if err := clock.BlockUntilContext(waitCtx, 1); err != nil {
		t.Fatalf("reconciler never waited on the clock: %v", err)
	}
	clock.Advance(500 * time.Millisecond)

	select {
	case <-player.toggled:
	case <-time.After(5 * time.Second):
		t.Fatal("tick did not toggle the player")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if !r.Paused() {
		t.Error("expected belief paused after the tick")
	}
	if len(recorder.entries) < 2 || recorder.entries[0].Kind != journal.KindSeed {
		t.Errorf("unexpected journal entries: %+v", recorder.entries)
	}
	if !recorder.entries[0].Timestamp.Equal(clock.Now().Add(-500 * time.Millisecond)) {
		t.Errorf("seed entry not stamped with the reconciler clock: %v", recorder.entries[0].Timestamp)
	}
}
