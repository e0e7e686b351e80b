package workload

import (
	"context"
	"io"
	"time"

	"github.com/VictorLowther/avlbag"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// Report summarizes a finished run.
type Report struct {
	Adds          int
	Removes       int
	Missed        int // Removes of values that were not in the bag.
	Probes        int
	EmptyProbes   int
	Verifications int
	FinalSize     int
	FinalHeight   int
	Duration      time.Duration
	// Samples maps each configured percentile to the item found there at the end of the run.
	Samples map[int]int
}

// Runner applies a generated workload to a Bag[int].
type Runner struct {
	Log zerolog.Logger
	// Progress, when set, receives a progress bar.
	Progress io.Writer

	cfg         Config
	opsTotal    *prometheus.CounterVec
	bagSize     prometheus.Gauge
	bagHeight   prometheus.Gauge
	verifyCount prometheus.Counter
}

// NewRunner registers the run's collectors on reg.  A nil reg leaves them unregistered.
func NewRunner(cfg Config, reg prometheus.Registerer, log zerolog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	factory := promauto.With(reg)
	return &Runner{
		Log: log,
		cfg: cfg,
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "avlbag_ops_total",
			Help: "bag operations applied, by operation and result",
		}, []string{"op", "result"}),
		bagSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "avlbag_size",
			Help: "items in the bag",
		}),
		bagHeight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "avlbag_height",
			Help: "height of the bag's tree",
		}),
		verifyCount: factory.NewCounter(prometheus.CounterOpts{
			Name: "avlbag_verifications_total",
			Help: "full structural checks of the bag",
		}),
	}, nil
}

// Run builds a fresh bag and applies every generated operation to it.  Cancellation is checked
// between operations; an interrupted run returns the report so far along with ctx's error.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	rep := Report{Samples: map[int]int{}}
	gen, err := NewGenerator(r.cfg)
	if err != nil {
		return rep, err
	}
	bag := avlbag.NewOrdered[int](avlbag.WithLogger(r.Log), avlbag.WithCapacity(r.cfg.InitialSize))

	var bar *progressbar.ProgressBar
	if r.Progress != nil {
		bar = progressbar.NewOptions(gen.Total(),
			progressbar.OptionSetWriter(r.Progress),
			progressbar.OptionSetDescription("applying operations"),
			progressbar.OptionSetWidth(50),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
		)
	}

	start := time.Now()
	since := start
	cnt := 0
	r.Log.Info().Int64("seed", r.cfg.Seed).Msgf("starting run of %s operations", humanize.Comma(int64(gen.Total())))
	for ; gen.Valid(); gen.Next() {
		if err := ctx.Err(); err != nil {
			rep.Duration = time.Since(start)
			return rep, errors.Wrapf(err, "interrupted after %d operations", cnt)
		}
		if err := r.apply(bag, gen.Op, &rep); err != nil {
			return rep, errors.Wrapf(err, "operation %d (%s)", cnt, gen.Op.Kind)
		}
		cnt++
		if bar != nil {
			_ = bar.Add(1)
		}
		if r.cfg.LogEvery > 0 && cnt%r.cfg.LogEvery == 0 {
			r.Log.Info().Msgf("applied %s operations in %s; %s ops/s; size=%s height=%d",
				humanize.Comma(int64(cnt)),
				time.Since(since),
				humanize.Comma(int64(float64(r.cfg.LogEvery)/time.Since(since).Seconds())),
				humanize.Comma(int64(bag.Size())),
				bag.Height())
			since = time.Now()
		}
		if r.cfg.VerifyEvery > 0 && cnt%r.cfg.VerifyEvery == 0 {
			if err := r.verify(bag, &rep); err != nil {
				return rep, errors.Wrapf(err, "after %d operations", cnt)
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if err := r.verify(bag, &rep); err != nil {
		return rep, errors.Wrap(err, "at end of run")
	}
	for _, p := range r.cfg.Percentiles {
		item, err := bag.ElementAtPercentile(p)
		if err != nil {
			break
		}
		rep.Samples[p] = item
	}
	rep.FinalSize, rep.FinalHeight = bag.Size(), bag.Height()
	rep.Duration = time.Since(start)
	r.Log.Info().
		Str("duration", rep.Duration.String()).
		Str("size", humanize.Comma(int64(rep.FinalSize))).
		Int("height", rep.FinalHeight).
		Int("missed_removes", rep.Missed).
		Msg("run complete")
	return rep, nil
}

func (r *Runner) apply(bag *avlbag.Bag[int], op Op, rep *Report) error {
	result := "ok"
	switch op.Kind {
	case OpAdd:
		if err := bag.Add(op.Value); err != nil {
			return err
		}
		rep.Adds++
	case OpRemove:
		rep.Removes++
		if !bag.Remove(op.Value) {
			rep.Missed++
			result = "missing"
		}
	case OpProbe:
		rep.Probes++
		_, err := bag.ElementAtPercentile(op.Percentile)
		switch {
		case errors.Is(err, avlbag.ErrEmpty):
			rep.EmptyProbes++
			result = "empty"
		case err != nil:
			return err
		}
	default:
		return errors.Errorf("unknown operation kind %d", op.Kind)
	}
	r.opsTotal.WithLabelValues(op.Kind.String(), result).Inc()
	r.bagSize.Set(float64(bag.Size()))
	r.bagHeight.Set(float64(bag.Height()))
	return nil
}

func (r *Runner) verify(bag *avlbag.Bag[int], rep *Report) error {
	rep.Verifications++
	r.verifyCount.Inc()
	if err := bag.Validate(); err != nil {
		r.Log.Error().Err(err).Msg("bag failed verification")
		return err
	}
	r.Log.Debug().Int("size", bag.Size()).Msg("bag verified")
	return nil
}
