package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/shaharia-lab/vscode-testkit/internal/event"
	"github.com/shaharia-lab/vscode-testkit/internal/logger"
)

// StepEvent describes a step after it has been executed.
type StepEvent struct {
	RunID    string
	Index    int
	Action   string
	Listener string
	Payload  any
}

// Result is the outcome of running one scenario.
type Result struct {
	RunID      string
	Scenario   string
	Path       string
	Skipped    bool
	SkipReason string
	Deliveries map[string][]any
	Panics     int
	Failures   []string
}

// Passed reports whether the scenario ran and met every expectation.
func (r Result) Passed() bool {
	return !r.Skipped && len(r.Failures) == 0
}

// Runner executes scenarios against a fresh emitter per run.
type Runner struct {
	channel logger.LogOutputChannel
	host    *semver.Version
	steps   *event.Emitter[StepEvent]
}

// NewRunner creates a runner that reports progress to channel and checks
// engine constraints against hostVersion.
func NewRunner(channel logger.LogOutputChannel, hostVersion string) (*Runner, error) {
	host, err := semver.NewVersion(hostVersion)
	if err != nil {
		return nil, fmt.Errorf("parsing host version %q: %w", hostVersion, err)
	}
	return &Runner{
		channel: channel,
		host:    host,
		steps:   event.NewEmitter[StepEvent](),
	}, nil
}

// OnDidRunStep fires after each executed step.
func (r *Runner) OnDidRunStep() event.Event[StepEvent] {
	return r.steps.Event()
}

// Dispose releases OnDidRunStep listeners. Later runs still execute but
// notify nobody.
func (r *Runner) Dispose() {
	r.steps.Dispose()
}

// Run executes s. Expectation mismatches are reported in Result.Failures;
// the returned error is reserved for invalid scenarios and cancellation.
func (r *Runner) Run(ctx context.Context, s Scenario) (Result, error) {
	res := Result{
		RunID:      uuid.NewString(),
		Scenario:   s.Name,
		Path:       s.Path,
		Deliveries: make(map[string][]any),
	}

	if err := s.Validate(); err != nil {
		return res, err
	}

	if s.Engine != "" {
		// Validate already parsed the constraint.
		c, _ := semver.NewConstraint(s.Engine)
		if !c.Check(r.host) {
			res.Skipped = true
			res.SkipReason = fmt.Sprintf("host %s does not satisfy engine %q", r.host, s.Engine)
			r.channel.Info("scenario skipped", "scenario", s.Name, "run_id", res.RunID, "reason", res.SkipReason)
			return res, nil
		}
	}

	r.channel.Info("scenario started", "scenario", s.Name, "run_id", res.RunID, "steps", len(s.Steps))

	hub := event.NewEmitter[any](
		event.WithLogger(slog.New(slog.DiscardHandler)),
		event.WithPanicHandler(func(rec any) {
			res.Panics++
			r.channel.Warn("listener panicked", "scenario", s.Name, "run_id", res.RunID, "panic", rec)
		}),
	)
	defer hub.Dispose()

	handles := make(map[string][]event.Disposable)
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("running scenario %q: %w", s.Name, err)
		}

		action, _ := st.Action()
		ev := StepEvent{RunID: res.RunID, Index: i, Action: action}

		switch action {
		case ActionSubscribe:
			name, panics := st.Subscribe, st.Panics
			if _, ok := res.Deliveries[name]; !ok {
				res.Deliveries[name] = nil
			}
			handles[name] = append(handles[name], hub.Subscribe(func(payload any) {
				res.Deliveries[name] = append(res.Deliveries[name], payload)
				if panics {
					panic(fmt.Sprintf("listener %s panicked on %v", name, payload))
				}
			}))
			ev.Listener = name
		case ActionFire:
			payload, _ := st.Payload()
			hub.Fire(payload)
			ev.Payload = payload
		case ActionDispose:
			for _, h := range handles[st.Dispose] {
				h.Dispose()
			}
			ev.Listener = st.Dispose
		case ActionDisposeHub:
			hub.Dispose()
		}

		r.channel.Trace("step executed", "scenario", s.Name, "run_id", res.RunID, "index", i, "action", action)
		r.steps.Fire(ev)
	}

	res.Failures = compare(s.Expect, res)
	if res.Passed() {
		r.channel.Info("scenario passed", "scenario", s.Name, "run_id", res.RunID)
	} else {
		r.channel.Error("scenario failed", "scenario", s.Name, "run_id", res.RunID, "failures", res.Failures)
	}
	return res, nil
}

func compare(want Expect, res Result) []string {
	var failures []string

	for _, name := range sortedKeys(want.Deliveries) {
		expected, got := want.Deliveries[name], res.Deliveries[name]
		if !samePayloads(expected, got) {
			failures = append(failures, fmt.Sprintf("listener %q: got deliveries %v, want %v", name, got, expected))
		}
	}
	for _, name := range sortedKeys(want.Counts) {
		if got := len(res.Deliveries[name]); got != want.Counts[name] {
			failures = append(failures, fmt.Sprintf("listener %q: got %d deliveries, want %d", name, got, want.Counts[name]))
		}
	}
	if want.Panics != nil && *want.Panics != res.Panics {
		failures = append(failures, fmt.Sprintf("got %d listener panics, want %d", res.Panics, *want.Panics))
	}
	return failures
}

func samePayloads(want, got []any) bool {
	if len(want) == 0 && len(got) == 0 {
		return true
	}
	return reflect.DeepEqual(want, got)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
