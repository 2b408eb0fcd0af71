package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/NethermindEth/juno-cheatnet/cheatnet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

var ErrNoFactory = errors.New("runner needs a runtime factory")

var (
	cases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cheatnet",
		Subsystem: "runner",
		Name:      "cases_total",
		Help:      "Test cases run, by status",
	}, []string{"status"})
	caseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cheatnet",
		Subsystem: "runner",
		Name:      "case_duration_seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})
)

// Case is one independent test case
type Case struct {
	Name string
	Run  func(ctx context.Context, rt *cheatnet.Runtime) error
}

// Factory returns a fresh Runtime; it is called once per case
type Factory func() (*cheatnet.Runtime, error)

type Status int

const (
	Passed Status = iota
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "PASS"
	case Failed:
		return "FAIL"
	case Skipped:
		return "SKIP"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Outcome is what running a Case produced
type Outcome struct {
	Name     string
	Status   Status
	Err      error
	Duration time.Duration
	Calls    int
	Errors   cheatnet.EncounteredErrors
}

type Runner struct {
	factory     Factory
	parallelism int
	log         utils.SimpleLogger
}

func New(factory Factory, log utils.SimpleLogger) *Runner {
	return &Runner{
		factory:     factory,
		parallelism: runtime.GOMAXPROCS(0),
		log:         log,
	}
}

// WithParallelism bounds the number of cases running at once
func (r *Runner) WithParallelism(n int) *Runner {
	if n > 0 {
		r.parallelism = n
	}
	return r
}

// Run executes every case and returns the outcomes in the order of cs. Cases
// never share a Runtime, so a panicking or failing case cannot affect others.
func (r *Runner) Run(ctx context.Context, cs []Case) ([]Outcome, error) {
	if r.factory == nil {
		return nil, ErrNoFactory
	}
	outcomes := make([]Outcome, len(cs))
	p := pool.New().WithMaxGoroutines(r.parallelism)
	for i := range cs {
		p.Go(func() {
			outcomes[i] = r.runCase(ctx, &cs[i])
		})
	}
	p.Wait()
	return outcomes, nil
}

func (r *Runner) runCase(ctx context.Context, c *Case) Outcome {
	out := Outcome{Name: c.Name}
	if err := ctx.Err(); err != nil {
		out.Status, out.Err = Skipped, err
		cases.WithLabelValues(out.Status.String()).Inc()
		return out
	}

	start := time.Now()
	rt, err := r.factory()
	if err != nil {
		out.Status, out.Err = Failed, fmt.Errorf("create runtime: %w", err)
	} else {
		var pc panics.Catcher
		pc.Try(func() {
			err = c.Run(ctx, rt)
		})
		if recovered := pc.Recovered(); recovered != nil {
			err = recovered.AsError()
		}
		out.Calls = len(rt.Traces())
		out.Errors = rt.EncounteredErrors()
		if err != nil {
			out.Status, out.Err = Failed, err
		}
	}
	out.Duration = time.Since(start)

	caseDuration.Observe(out.Duration.Seconds())
	cases.WithLabelValues(out.Status.String()).Inc()
	if out.Err != nil {
		r.log.Infow("Case failed", "name", c.Name, "err", out.Err)
	} else {
		r.log.Infow("Case passed", "name", c.Name, "duration", out.Duration)
	}
	return out
}

// AllPassed reports whether no outcome failed or was skipped
func AllPassed(outcomes []Outcome) bool {
	for i := range outcomes {
		if outcomes[i].Status != Passed {
			return false
		}
	}
	return true
}

// Report writes a summary table of outcomes
func Report(w io.Writer, outcomes []Outcome) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Case", "Status", "Calls", "Duration", "Error"})
	table.SetAutoWrapText(false)

	var failed int
	for i := range outcomes {
		o := &outcomes[i]
		msg := ""
		if o.Err != nil {
			msg = o.Err.Error()
			failed++
		}
		table.Append([]string{
			o.Name,
			o.Status.String(),
			fmt.Sprint(o.Calls),
			o.Duration.Round(time.Microsecond).String(),
			msg,
		})
	}
	table.SetFooter([]string{"Total", fmt.Sprintf("%d failed", failed), "", "", fmt.Sprintf("%d cases", len(outcomes))})
	table.Render()
}

// LogSummary logs one line with the pass and fail counts
func LogSummary(log utils.StructuredLogger, outcomes []Outcome) {
	var passed int
	for i := range outcomes {
		if outcomes[i].Status == Passed {
			passed++
		}
	}
	log.Info("Run finished", zap.Int("passed", passed), zap.Int("failed", len(outcomes)-passed))
}
