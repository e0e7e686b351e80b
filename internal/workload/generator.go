package workload

import (
	"math/rand"
)

// OpKind says which bag operation an Op performs.
type OpKind int

const (
	OpAdd OpKind = iota
	OpRemove
	OpProbe
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpProbe:
		return "probe"
	}
	return "unknown"
}

// Op is a single bag operation.  Value is set for adds and removes, Percentile for probes.
type Op struct {
	Kind       OpKind
	Value      int
	Percentile int
}

// Generator emits the operations described by a Config.  The same Config always yields the
// same stream: InitialSize adds followed by Operations mixed adds, removes and probes.
type Generator struct {
	Op Op

	cfg     Config
	rand    *rand.Rand
	added   []int // Values added and not yet picked for removal.
	emitted int
	valid   bool
}

// NewGenerator validates cfg and positions the generator on its first operation.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gen := &Generator{
		cfg:   cfg,
		rand:  rand.New(rand.NewSource(cfg.Seed)),
		added: make([]int, 0, cfg.InitialSize),
	}
	gen.Next()
	return gen, nil
}

// Total is the number of operations the generator emits.
func (g *Generator) Total() int {
	return g.cfg.InitialSize + g.cfg.Operations
}

// Valid reports whether Op holds an operation, false once the stream is exhausted.
func (g *Generator) Valid() bool {
	return g.valid
}

// Next advances Op to the following operation.
func (g *Generator) Next() {
	if g.emitted >= g.Total() {
		g.valid = false
		return
	}
	g.valid = true
	if g.emitted < g.cfg.InitialSize {
		g.Op = g.add()
		g.emitted++
		return
	}
	g.emitted++
	switch f := g.rand.Float64(); {
	case f < g.cfg.RemoveFraction:
		g.Op = g.remove()
	case f < g.cfg.RemoveFraction+g.cfg.ProbeFraction:
		g.Op = g.probe()
	default:
		g.Op = g.add()
	}
}

func (g *Generator) add() Op {
	v := g.rand.Intn(g.cfg.ValueRange)
	g.added = append(g.added, v)
	return Op{Kind: OpAdd, Value: v}
}

// remove mostly picks a value that was added earlier.  One in ten picks is an arbitrary value,
// which may not be in the bag at all.
func (g *Generator) remove() Op {
	if len(g.added) == 0 || g.rand.Intn(10) == 0 {
		return Op{Kind: OpRemove, Value: g.rand.Intn(g.cfg.ValueRange)}
	}
	j := g.rand.Intn(len(g.added))
	v := g.added[j]
	last := len(g.added) - 1
	g.added[j] = g.added[last]
	g.added = g.added[:last]
	return Op{Kind: OpRemove, Value: v}
}

func (g *Generator) probe() Op {
	if len(g.cfg.Percentiles) == 0 {
		return Op{Kind: OpProbe, Percentile: g.rand.Intn(101)}
	}
	return Op{Kind: OpProbe, Percentile: g.cfg.Percentiles[g.rand.Intn(len(g.cfg.Percentiles))]}
}
