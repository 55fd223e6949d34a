package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/xzdarcy/rete/internal/graph"
	"github.com/xzdarcy/rete/internal/registry"
)

// ExecutionRecord holds the start and end times of one invocation.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Recorder is a component for engine tests. It counts invocations per node,
// records start and finish order, and can block, sleep, fail or panic on
// chosen nodes. By default every node writes its id to output "out".
type Recorder struct {
	mu       sync.Mutex
	calls    map[string]int
	order    []string
	finished []string
	records  map[string]*ExecutionRecord
	inputs   map[string]registry.Inputs
	args     map[string][]any

	blocks map[string]chan struct{}
	delays map[string]time.Duration
	fails  map[string]error
	panics map[string]any

	started chan string

	// Produce, when set, fills the outputs instead of the default.
	Produce func(node *graph.Node, inputs registry.Inputs, outputs registry.Outputs)
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		calls:   make(map[string]int),
		records: make(map[string]*ExecutionRecord),
		inputs:  make(map[string]registry.Inputs),
		args:    make(map[string][]any),
		blocks:  make(map[string]chan struct{}),
		delays:  make(map[string]time.Duration),
		fails:   make(map[string]error),
		panics:  make(map[string]any),
		started: make(chan string, 256),
	}
}

// Register registers the recorder under name.
func (r *Recorder) Register(reg *registry.Registry, name string) {
	reg.Register(name, r)
}

// FailOn makes node id return err.
func (r *Recorder) FailOn(id string, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails[id] = err
	return r
}

// PanicOn makes node id panic with v.
func (r *Recorder) PanicOn(id string, v any) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics[id] = v
	return r
}

// SleepOn makes node id sleep for d before finishing.
func (r *Recorder) SleepOn(id string, d time.Duration) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays[id] = d
	return r
}

// BlockOn makes node id wait until the returned release func is called.
func (r *Recorder) BlockOn(id string) (release func()) {
	ch := make(chan struct{})
	r.mu.Lock()
	r.blocks[id] = ch
	r.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Started delivers node ids as their invocations begin.
func (r *Recorder) Started() <-chan string {
	return r.started
}

// Compute implements registry.Component.
func (r *Recorder) Compute(ctx context.Context, node *graph.Node, inputs registry.Inputs, outputs registry.Outputs, args ...any) error {
	start := time.Now()

	r.mu.Lock()
	r.calls[node.ID]++
	r.order = append(r.order, node.ID)
	r.inputs[node.ID] = inputs
	r.args[node.ID] = args
	block := r.blocks[node.ID]
	delay := r.delays[node.ID]
	failErr := r.fails[node.ID]
	panicVal, shouldPanic := r.panics[node.ID]
	r.mu.Unlock()

	select {
	case r.started <- node.ID:
	default:
	}

	if block != nil {
		<-block
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	defer func() {
		r.mu.Lock()
		r.finished = append(r.finished, node.ID)
		r.records[node.ID] = &ExecutionRecord{Start: start, End: time.Now()}
		r.mu.Unlock()
	}()

	if shouldPanic {
		panic(panicVal)
	}

	if r.Produce != nil {
		r.Produce(node, inputs, outputs)
	} else {
		outputs["out"] = node.ID
	}
	return failErr
}

// Calls returns how many times node id was invoked.
func (r *Recorder) Calls(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

// Total returns the number of invocations across all nodes.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

// Order returns node ids in the order their invocations started.
func (r *Recorder) Order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// Finished returns node ids in the order their invocations ended.
func (r *Recorder) Finished() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.finished...)
}

// Inputs returns the inputs node id was invoked with.
func (r *Recorder) Inputs(id string) registry.Inputs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputs[id]
}

// Args returns the extra args node id was invoked with.
func (r *Recorder) Args(id string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.args[id]
}

// Record returns the timing of node id, or nil if it has not finished.
func (r *Recorder) Record(id string) *ExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id]
}
