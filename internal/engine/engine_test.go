package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzdarcy/rete/internal/ctxlog"
	"github.com/xzdarcy/rete/internal/eventbus"
	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
	"github.com/xzdarcy/rete/internal/testutil"
	"github.com/xzdarcy/rete/internal/validate"
)

const testScope = "demo@0.1.0"

// capture collects the events an engine emits.
type capture struct {
	mu    sync.Mutex
	errs  []eventbus.ErrorPayload
	warns []any
}

func (c *capture) errors() []eventbus.ErrorPayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]eventbus.ErrorPayload(nil), c.errs...)
}

func (c *capture) warnings() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.warns...)
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *testutil.Recorder, *capture) {
	t.Helper()

	reg := registry.New()
	rec := testutil.NewRecorder()
	rec.Register(reg, "rec")

	c := &capture{}
	bus := eventbus.NewBus()
	bus.Subscribe(eventbus.EventError, func(_ context.Context, p any) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.errs = append(c.errs, p.(eventbus.ErrorPayload))
	})
	bus.Subscribe(eventbus.EventWarn, func(_ context.Context, p any) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.warns = append(c.warns, p)
	})

	e := New(testScope, reg, append([]Option{WithEmitter(bus)}, opts...)...)
	return e, rec, c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	logger, _ := testutil.NewLogger()
	return ctxlog.WithLogger(context.Background(), logger)
}

func waitStarted(t *testing.T, rec *testutil.Recorder, id string) {
	t.Helper()
	for {
		select {
		case got := <-rec.Started():
			if got == id {
				return
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("node %q never started", id)
		}
	}
}

func TestRun_ChainSucceeds(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, ev := newTestEngine(t)
	g := testutil.NewGraph(t, testScope, "rec", []string{"a", "b", "c"},
		testutil.L("a", "out", "b", "in"),
		testutil.L("b", "out", "c", "in"),
	)

	// --- Act ---
	report := e.Run(testContext(t), g, "a")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Results, 3)
	assert.Empty(t, report.Failures)
	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, 1, rec.Calls(id), "node %s", id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, rec.Order())
	assert.Equal(t, registry.Inputs{"in": {"a"}}, rec.Inputs("b"))
	assert.Equal(t, registry.Outputs{"out": "c"}, report.Results["c"])
	assert.Empty(t, ev.errors())
	assert.Empty(t, ev.warnings())
	assert.Equal(t, StateIdle, e.State())
}

func TestRun_DiamondRunsEachNodeOnce(t *testing.T) {
	t.Parallel()

	diamond := func(t *testing.T) *graph.Graph {
		return testutil.NewGraph(t, testScope, "rec", []string{"a", "b", "c", "d"},
			testutil.L("a", "out", "b", "in"),
			testutil.L("a", "out", "c", "in"),
			testutil.L("b", "out", "d", "left"),
			testutil.L("c", "out", "d", "right"),
		)
	}

	for _, start := range []string{"a", "b", "d", ""} {
		t.Run("start="+start, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			e, rec, _ := newTestEngine(t)
			rec.SleepOn("b", 5*time.Millisecond)

			// --- Act ---
			report := e.Run(testContext(t), diamond(t), start)

			// --- Assert ---
			require.NotNil(t, report)
			assert.Equal(t, OutcomeSuccess, report.Outcome)
			for _, id := range []string{"a", "b", "c", "d"} {
				assert.Equal(t, 1, rec.Calls(id), "node %s", id)
			}
			assert.Equal(t, "a", rec.Order()[0])

			d := rec.Record("d")
			for _, id := range []string{"b", "c"} {
				assert.False(t, d.Start.Before(rec.Record(id).End), "d started before %s finished", id)
			}
			assert.Equal(t, registry.Inputs{"left": {"b"}, "right": {"c"}}, rec.Inputs("d"))
		})
	}
}

func TestRun_WideFanInSharesOneComputation(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	ids := []string{"hub", "sink"}
	var links []testutil.Link
	for _, leaf := range []string{"l01", "l02", "l03", "l04", "l05", "l06", "l07", "l08", "l09", "l10"} {
		ids = append(ids, leaf)
		links = append(links, testutil.L("hub", "out", leaf, "in"), testutil.L(leaf, "out", "sink", "in"))
	}
	g := testutil.NewGraph(t, testScope, "rec", ids, links...)
	rec.SleepOn("hub", 10*time.Millisecond)

	// --- Act ---
	report := e.Run(testContext(t), g, "sink")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 1, rec.Calls("hub"))
	assert.Equal(t, len(ids), rec.Total())
	assert.Len(t, rec.Inputs("sink")["in"], 10)
	assert.Equal(t, "l01", rec.Inputs("sink")["in"][0], "connection order is preserved")
}

func TestRun_CycleIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, ev := newTestEngine(t)
	g := testutil.NewGraph(t, testScope, "rec", []string{"a", "b"},
		testutil.L("a", "out", "b", "in"),
		testutil.L("b", "out", "a", "in"),
	)

	// --- Act ---
	report := e.Run(testContext(t), g, "a")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeError, report.Outcome)
	assert.Zero(t, rec.Total())
	require.Len(t, ev.errors(), 1)
	assert.Equal(t, MsgRecursion, ev.errors()[0].Message)
	assert.Contains(t, []any{"a", "b"}, ev.errors()[0].Data)
	assert.Equal(t, StateIdle, e.State())
}

func TestRun_MissingStartNode(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, ev := newTestEngine(t)
	g := testutil.NewGraph(t, testScope, "rec", []string{"a"})

	// --- Act ---
	report := e.Run(testContext(t), g, "zzz")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeError, report.Outcome)
	assert.Zero(t, rec.Total())
	require.Len(t, ev.errors(), 1)
	assert.Equal(t, eventbus.ErrorPayload{Message: MsgNodeNotFound, Data: "zzz"}, ev.errors()[0])
	assert.Equal(t, StateIdle, e.State())
}

func TestRun_ValidationFailure(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, ev := newTestEngine(t)
	g := testutil.NewGraph(t, "other@0.1.0", "rec", []string{"a"})

	// --- Act ---
	report := e.Run(testContext(t), g, "a")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeError, report.Outcome)
	assert.Zero(t, rec.Total())
	require.Len(t, ev.errors(), 1)
	assert.Contains(t, ev.errors()[0].Message, "IDs not equal.")
	assert.Empty(t, report.Results)
}

func TestRun_ComponentFailureAborts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, ev := newTestEngine(t)
	boom := errors.New("boom")
	rec.FailOn("b", boom)
	g := testutil.NewGraph(t, testScope, "rec", []string{"a", "b", "c"},
		testutil.L("a", "out", "b", "in"),
		testutil.L("b", "out", "c", "in"),
	)

	// --- Act ---
	report := e.Run(testContext(t), g, "a")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeAborted, report.Outcome)
	assert.Equal(t, 1, rec.Calls("a"))
	assert.Equal(t, 1, rec.Calls("b"))
	assert.Zero(t, rec.Calls("c"))
	assert.True(t, report.Executed("a"))
	assert.False(t, report.Executed("c"))
	assert.ErrorIs(t, report.Failures["b"], boom)
	assert.Equal(t, registry.Outputs{"out": "b"}, report.Results["b"], "partial outputs are kept")

	require.Len(t, ev.warnings(), 1)
	assert.Equal(t, boom, ev.warnings()[0])
	assert.Equal(t, StateIdle, e.State())
}

func TestRun_ComponentPanicIsRecovered(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, ev := newTestEngine(t)
	rec.PanicOn("a", "kaboom")
	g := testutil.NewGraph(t, testScope, "rec", []string{"a"})

	// --- Act ---
	report := e.Run(testContext(t), g, "a")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeAborted, report.Outcome)
	var perr *PanicError
	require.ErrorAs(t, report.Failures["a"], &perr)
	assert.Equal(t, "a", perr.NodeID)
	assert.Equal(t, "kaboom", perr.Value)
	require.Len(t, ev.warnings(), 1)
	assert.IsType(t, &PanicError{}, ev.warnings()[0])
}

func TestRun_UnknownComponent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, _, ev := newTestEngine(t, WithValidator(validate.Pass))
	g := testutil.NewGraph(t, testScope, "missing", []string{"a"})

	// --- Act ---
	report := e.Run(testContext(t), g, "a")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeAborted, report.Outcome)
	assert.ErrorIs(t, report.Failures["a"], ErrUnknownComponent)
	require.Len(t, ev.warnings(), 1)
}

func TestRun_SweepsUnreachedIslands(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	g := testutil.NewGraph(t, testScope, "rec", []string{"a", "b", "x", "y", "z"},
		testutil.L("a", "out", "b", "in"),
		testutil.L("x", "out", "y", "in"),
	)

	// --- Act ---
	report := e.Run(testContext(t), g, "a")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 5, rec.Total())
	assert.Equal(t, []string{"a", "b", "x", "y", "z"}, rec.Order())
}

func TestRun_EmptyStartSweepsInIDOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	g := testutil.NewGraph(t, testScope, "rec", []string{"m", "c", "q", "a"})

	// --- Act ---
	report := e.Run(testContext(t), g, "")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, []string{"a", "c", "m", "q"}, rec.Order())
}

func TestRun_PassesArgsToComponents(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	g := testutil.NewGraph(t, testScope, "rec", []string{"a"})

	// --- Act ---
	report := e.Run(testContext(t), g, "a", 42, "extra")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, []any{42, "extra"}, rec.Args("a"))
}

func TestRun_LeavesCallerGraphUntouched(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, _, _ := newTestEngine(t)
	g := testutil.NewGraph(t, testScope, "rec", []string{"a", "b"}, testutil.L("a", "out", "b", "in"))
	before := g.Copy()
	nodeA := g.Nodes["a"]

	// --- Act ---
	report := e.Run(testContext(t), g, "a")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Same(t, nodeA, g.Nodes["a"])
	if diff := cmp.Diff(before, g); diff != "" {
		t.Errorf("graph changed during run (-before +after):\n%s", diff)
	}
}

func TestRun_BusyEngineReturnsNil(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	release := rec.BlockOn("a")
	g := testutil.NewGraph(t, testScope, "rec", []string{"a"})
	ctx := testContext(t)

	done := make(chan *Report, 1)
	go func() { done <- e.Run(ctx, g, "a") }()
	waitStarted(t, rec, "a")

	// --- Act ---
	second := e.Run(ctx, g, "a")

	// --- Assert ---
	assert.Nil(t, second)
	assert.Equal(t, StateRunning, e.State())

	release()
	first := <-done
	require.NotNil(t, first)
	assert.Equal(t, OutcomeSuccess, first.Outcome)
	assert.Equal(t, 1, rec.Calls("a"))
}

func TestAbort_MidRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	release := rec.BlockOn("a")
	g := testutil.NewGraph(t, testScope, "rec", []string{"a", "b", "c"},
		testutil.L("a", "out", "b", "in"),
	)
	ctx := testContext(t)

	done := make(chan *Report, 1)
	go func() { done <- e.Run(ctx, g, "a") }()
	waitStarted(t, rec, "a")

	// --- Act ---
	const callers = 3
	aborted := make(chan error, callers)
	for range callers {
		go func() { aborted <- e.Abort(ctx) }()
	}
	require.Eventually(t, func() bool { return e.State() == StateAborting }, 5*time.Second, time.Millisecond)

	// --- Assert ---
	assert.Nil(t, e.Run(ctx, g, "a"), "aborting engine rejects new runs")
	select {
	case <-aborted:
		t.Fatal("Abort returned before the run finished")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	report := <-done
	for range callers {
		assert.NoError(t, <-aborted)
	}
	require.NotNil(t, report)
	assert.Equal(t, OutcomeAborted, report.Outcome)
	assert.True(t, report.Executed("a"), "running components finish")
	assert.Zero(t, rec.Calls("b"))
	assert.Zero(t, rec.Calls("c"))
	assert.Equal(t, StateIdle, e.State())
}

func TestAbort_IdleReturnsImmediately(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t)

	require.NoError(t, e.Abort(context.Background()))
	assert.Equal(t, StateIdle, e.State())
}

func TestAbort_ContextDeadline(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	release := rec.BlockOn("a")
	defer release()
	g := testutil.NewGraph(t, testScope, "rec", []string{"a"})

	go e.Run(testContext(t), g, "a")
	waitStarted(t, rec, "a")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// --- Act ---
	err := e.Abort(ctx)

	// --- Assert ---
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateAborting, e.State())
}

func TestRun_ContextCancelAborts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	release := rec.BlockOn("a")
	g := testutil.NewGraph(t, testScope, "rec", []string{"a", "b"}, testutil.L("a", "out", "b", "in"))
	ctx, cancel := context.WithCancel(testContext(t))

	done := make(chan *Report, 1)
	go func() { done <- e.Run(ctx, g, "a") }()
	waitStarted(t, rec, "a")

	// --- Act ---
	cancel()
	require.Eventually(t, func() bool { return e.State() == StateAborting }, 5*time.Second, time.Millisecond)
	release()
	report := <-done

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeAborted, report.Outcome)
	assert.Zero(t, rec.Calls("b"))
}

func TestRun_InputPolicy(t *testing.T) {
	t.Parallel()

	// y reads from a node that does not exist, so its upstream cannot resolve.
	ghostGraph := func(t *testing.T) *graph.Graph {
		g := testutil.NewGraph(t, testScope, "rec", []string{"y"})
		g.Nodes["y"].Inputs["x"] = &graph.Input{Connections: []graph.InputConnection{{Node: "ghost", Output: "out"}}}
		return g
	}

	t.Run("best effort invokes with gaps", func(t *testing.T) {
		t.Parallel()

		e, rec, _ := newTestEngine(t, WithValidator(validate.Pass))

		report := e.Run(testContext(t), ghostGraph(t), "y")

		require.NotNil(t, report)
		assert.Equal(t, OutcomeAborted, report.Outcome)
		assert.Equal(t, 1, rec.Calls("y"))
		assert.Equal(t, registry.Inputs{"x": {nil}}, rec.Inputs("y"))
		assert.Empty(t, report.Failures)
	})

	t.Run("strict skips the node", func(t *testing.T) {
		t.Parallel()

		e, rec, ev := newTestEngine(t, WithValidator(validate.Pass), WithInputPolicy(Strict))

		report := e.Run(testContext(t), ghostGraph(t), "y")

		require.NotNil(t, report)
		assert.Equal(t, OutcomeAborted, report.Outcome)
		assert.Zero(t, rec.Calls("y"))
		assert.ErrorIs(t, report.Failures["y"], ErrMissingInput)
		assert.Equal(t, registry.Outputs{}, report.Results["y"])
		assert.Empty(t, ev.warnings())
	})

	failedUpstream := func(t *testing.T) *graph.Graph {
		return testutil.NewGraph(t, testScope, "rec", []string{"x", "d"}, testutil.L("x", "out", "d", "in"))
	}

	t.Run("best effort runs below a failed upstream", func(t *testing.T) {
		t.Parallel()

		e, rec, _ := newTestEngine(t)
		rec.FailOn("x", errors.New("bad x"))

		report := e.Run(testContext(t), failedUpstream(t), "d")

		require.NotNil(t, report)
		assert.Equal(t, OutcomeAborted, report.Outcome)
		assert.Equal(t, 1, rec.Calls("x"))
		assert.Equal(t, 1, rec.Calls("d"))
	})

	t.Run("strict skips a node below a failed upstream", func(t *testing.T) {
		t.Parallel()

		// --- Arrange ---
		e, rec, ev := newTestEngine(t, WithInputPolicy(Strict))
		rec.FailOn("x", errors.New("bad x"))

		// --- Act ---
		report := e.Run(testContext(t), failedUpstream(t), "d")

		// --- Assert ---
		require.NotNil(t, report)
		assert.Equal(t, OutcomeAborted, report.Outcome)
		assert.Equal(t, 1, rec.Calls("x"))
		assert.Zero(t, rec.Calls("d"))
		assert.EqualError(t, report.Failures["x"], "bad x")
		assert.ErrorIs(t, report.Failures["d"], ErrMissingInput)
		assert.Len(t, ev.warnings(), 1)
	})
}

func TestRun_RecoversAndReturnsToIdle(t *testing.T) {
	t.Parallel()

	panickyValidator := validate.Func(func(string, *graph.Graph) validate.Result { panic("validator bug") })
	panickyEmitter := eventbus.EmitterFunc(func(context.Context, string, any) { panic("subscriber bug") })

	testCases := []struct {
		name        string
		opts        []Option
		graph       func(t *testing.T) *graph.Graph
		failOn      string
		wantOutcome Outcome
	}{
		{
			name:        "validator panics",
			opts:        []Option{WithValidator(panickyValidator)},
			graph:       func(t *testing.T) *graph.Graph { return testutil.NewGraph(t, testScope, "rec", []string{"a"}) },
			wantOutcome: OutcomeError,
		},
		{
			name:        "nil graph",
			opts:        []Option{WithValidator(validate.Pass)},
			graph:       func(*testing.T) *graph.Graph { return nil },
			wantOutcome: OutcomeError,
		},
		{
			name:        "emitter panics on a component failure",
			opts:        []Option{WithEmitter(panickyEmitter)},
			graph:       func(t *testing.T) *graph.Graph { return testutil.NewGraph(t, testScope, "rec", []string{"a"}) },
			failOn:      "a",
			wantOutcome: OutcomeAborted,
		},
		{
			name:        "emitter panics on a rejected graph",
			opts:        []Option{WithEmitter(panickyEmitter)},
			graph:       func(*testing.T) *graph.Graph { return nil },
			wantOutcome: OutcomeError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			e, rec, _ := newTestEngine(t, tc.opts...)
			if tc.failOn != "" {
				rec.FailOn(tc.failOn, errors.New("boom"))
			}
			ctx := testContext(t)

			// --- Act ---
			var report *Report
			require.NotPanics(t, func() { report = e.Run(ctx, tc.graph(t), "") })

			// --- Assert ---
			require.NotNil(t, report)
			assert.Equal(t, tc.wantOutcome, report.Outcome)
			assert.Equal(t, StateIdle, e.State())
			require.NoError(t, e.Abort(context.Background()))
			again := e.Run(ctx, testutil.NewGraph(t, testScope, "rec", []string{"z"}), "z")
			assert.NotNil(t, again, "engine admits the next run")
		})
	}
}

func TestRun_NilGraphIsRejected(t *testing.T) {
	t.Parallel()

	e, _, ev := newTestEngine(t, WithValidator(validate.Pass))

	report := e.Run(testContext(t), nil, "a")

	require.NotNil(t, report)
	assert.Equal(t, OutcomeError, report.Outcome)
	assert.Equal(t, []eventbus.ErrorPayload{{Message: MsgNotSuitable}}, ev.errors())
}

func TestClone_IndependentLifecycle(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e, rec, _ := newTestEngine(t)
	release := rec.BlockOn("a")
	clone := e.Clone()
	ctx := testContext(t)

	done := make(chan *Report, 1)
	go func() {
		done <- e.Run(ctx, testutil.NewGraph(t, testScope, "rec", []string{"a"}), "a")
	}()
	waitStarted(t, rec, "a")

	// --- Act ---
	report := clone.Run(ctx, testutil.NewGraph(t, testScope, "rec", []string{"b"}), "b")

	// --- Assert ---
	require.NotNil(t, report)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, StateIdle, clone.State())
	assert.Equal(t, StateRunning, e.State())
	assert.Equal(t, e.ScopeID(), clone.ScopeID())
	assert.Same(t, e.Registry(), clone.Registry())

	release()
	require.NotNil(t, <-done)
}

func TestRun_ReusableAfterFinish(t *testing.T) {
	t.Parallel()

	e, rec, _ := newTestEngine(t)
	g := testutil.NewGraph(t, testScope, "rec", []string{"a"})
	ctx := testContext(t)

	first := e.Run(ctx, g, "a")
	second := e.Run(ctx, g, "a")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, 2, rec.Calls("a"), "memoization is scoped to one run")
}

func TestParseInputPolicy(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    InputPolicy
		wantErr bool
	}{
		{in: "", want: BestEffort},
		{in: "best-effort", want: BestEffort},
		{in: "STRICT", want: Strict},
		{in: "lenient", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseInputPolicy(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got.String(), "InputPolicy(")
		})
	}
}
