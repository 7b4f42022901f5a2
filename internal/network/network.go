// Package network builds the in-module reference dual policy/value network
// (one of the pluggable internal/evaluator.Evaluator implementations),
// using gorgonia.org/gorgonia the way the teacher declares it for exactly
// this purpose. The teacher's own graph-construction file was not present
// in the retrieved reference material (only dualnet/config.go shipped); the
// architecture below is a plain MLP tower over the flattened (2,S,S)
// planes, shaped by the teacher's dualnet.Config fields (K units per
// layer, SharedLayers layers, FC head width), substituting dense ReLU
// layers without skip connections for the convolutional residual tower a
// full AlphaZero net would use.
package network

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/mnkzero/mnkzero/internal/board"
)

// Config shapes the network, mirroring the teacher's dualnet.Config field
// names and validation style.
type Config struct {
	K            int // hidden width of each trunk layer
	SharedLayers int // number of dense ReLU trunk layers
	FC           int // policy/value head hidden width
	BatchSize    int
	Size         int // board side S
	ActionSpace  int
}

// DefaultConfig mirrors the teacher's dualnet.DefaultConf sizing heuristic
// (K scaled to board area, SharedLayers == board side).
func DefaultConfig(size, actionSpace int) Config {
	return Config{
		K:            roundToPow2((size * size) / 3),
		SharedLayers: size,
		FC:           2 * size * size,
		BatchSize:    256,
		Size:         size,
		ActionSpace:  actionSpace,
	}
}

// IsValid mirrors the teacher's dualnet.Config.IsValid.
func (c Config) IsValid() bool {
	return c.K >= 1 && c.ActionSpace >= 3 && c.SharedLayers >= 0 &&
		c.FC > 1 && c.BatchSize >= 1 && c.Size > 0
}

func roundToPow2(a int) int {
	if a < 1 {
		a = 1
	}
	n := a - 1
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	lt := n / 2
	if (a - lt) < (n - a) {
		return lt
	}
	return n
}

// Net is the dual policy/value network: one shared MLP trunk over
// the flattened input planes, branching into a policy head (softmax over
// ActionSpace) and a value head (tanh scalar).
type Net struct {
	conf Config

	g  *G.ExprGraph
	vm G.VM

	input *G.Node // (batch, 2*S*S)

	trunkW []*G.Node
	trunkB []*G.Node

	policyW, policyB *G.Node
	valueW1, valueB1 *G.Node
	valueW2, valueB2 *G.Node

	policyOut *G.Node
	valueOut  *G.Node
}

// New constructs a fresh Net graph for conf, with weights initialized via
// gorgonia's Gaussian initializer (Glorot-ish scale), mirroring the
// teacher's declared reliance on gorgonia's own init helpers rather than a
// hand-rolled RNG.
func New(conf Config) (*Net, error) {
	if !conf.IsValid() {
		return nil, errors.New("network: invalid config")
	}
	g := G.NewGraph()
	inputWidth := 2 * conf.Size * conf.Size

	n := &Net{conf: conf, g: g}
	n.input = G.NewMatrix(g, tensor.Float32, G.WithShape(conf.BatchSize, inputWidth), G.WithName("input"), G.WithInit(G.Zeroes()))

	prevWidth := inputWidth
	for i := 0; i < conf.SharedLayers; i++ {
		w := G.NewMatrix(g, tensor.Float32, G.WithShape(prevWidth, conf.K), G.WithName(fmt.Sprintf("trunk.w%d", i)), G.WithInit(G.GlorotN(1.0)))
		b := G.NewVector(g, tensor.Float32, G.WithShape(conf.K), G.WithName(fmt.Sprintf("trunk.b%d", i)), G.WithInit(G.Zeroes()))
		n.trunkW = append(n.trunkW, w)
		n.trunkB = append(n.trunkB, b)
		prevWidth = conf.K
	}

	n.policyW = G.NewMatrix(g, tensor.Float32, G.WithShape(prevWidth, conf.ActionSpace), G.WithName("policy.w"), G.WithInit(G.GlorotN(1.0)))
	n.policyB = G.NewVector(g, tensor.Float32, G.WithShape(conf.ActionSpace), G.WithName("policy.b"), G.WithInit(G.Zeroes()))

	n.valueW1 = G.NewMatrix(g, tensor.Float32, G.WithShape(prevWidth, conf.FC), G.WithName("value.w1"), G.WithInit(G.GlorotN(1.0)))
	n.valueB1 = G.NewVector(g, tensor.Float32, G.WithShape(conf.FC), G.WithName("value.b1"), G.WithInit(G.Zeroes()))
	n.valueW2 = G.NewMatrix(g, tensor.Float32, G.WithShape(conf.FC, 1), G.WithName("value.w2"), G.WithInit(G.GlorotN(1.0)))
	n.valueB2 = G.NewVector(g, tensor.Float32, G.WithShape(1), G.WithName("value.b2"), G.WithInit(G.Zeroes()))

	if err := n.build(); err != nil {
		return nil, errors.Wrap(err, "network: build graph")
	}
	n.vm = G.NewTapeMachine(g)
	return n, nil
}

// build wires the forward pass: trunk -> (policy head softmax, value head
// tanh), mirroring the teacher's declared use of gorgonia Must()-wrapped ops.
func (n *Net) build() error {
	h := n.input
	for i := range n.trunkW {
		lin := G.Must(G.Add(G.Must(G.Mul(h, n.trunkW[i])), n.trunkB[i]))
		h = G.Must(G.Rectify(lin))
	}

	policyLogits := G.Must(G.Add(G.Must(G.Mul(h, n.policyW)), n.policyB))
	policyOut, err := G.SoftMax(policyLogits)
	if err != nil {
		return err
	}
	n.policyOut = policyOut

	vh := G.Must(G.Rectify(G.Must(G.Add(G.Must(G.Mul(h, n.valueW1)), n.valueB1))))
	valueLogit := G.Must(G.Add(G.Must(G.Mul(vh, n.valueW2)), n.valueB2))
	valueOut, err := G.Tanh(valueLogit)
	if err != nil {
		return err
	}
	n.valueOut = valueOut
	return nil
}

// Evaluate implements internal/evaluator.Evaluator: it pads boards up to the
// network's configured batch size (the teacher's fixed-batch graph style),
// runs the forward pass, and slices the real results back out.
func (n *Net) Evaluate(boards []board.Board) ([][]float32, []float32, error) {
	if len(boards) == 0 {
		return nil, nil, nil
	}
	if len(boards) > n.conf.BatchSize {
		return nil, nil, errors.Errorf("network: batch of %d exceeds configured batch size %d", len(boards), n.conf.BatchSize)
	}

	inputWidth := 2 * n.conf.Size * n.conf.Size
	backing := make([]float32, n.conf.BatchSize*inputWidth)
	planeBuf := make([]float32, inputWidth)
	for i, b := range boards {
		b.PlaneFloats(planeBuf)
		copy(backing[i*inputWidth:(i+1)*inputWidth], planeBuf)
	}

	if err := G.Let(n.input, tensor.New(tensor.WithBacking(backing), tensor.WithShape(n.conf.BatchSize, inputWidth))); err != nil {
		return nil, nil, errors.Wrap(err, "network: bind input")
	}
	if err := n.vm.RunAll(); err != nil {
		return nil, nil, errors.Wrap(err, "network: forward pass")
	}
	defer n.vm.Reset()

	policyData := n.policyOut.Value().Data().([]float32)
	valueData := n.valueOut.Value().Data().([]float32)

	policy := make([][]float32, len(boards))
	value := make([]float32, len(boards))
	for i := range boards {
		row := make([]float32, n.conf.ActionSpace)
		copy(row, policyData[i*n.conf.ActionSpace:(i+1)*n.conf.ActionSpace])
		policy[i] = row
		value[i] = clamp(valueData[i], -1, 1)
	}
	return policy, value, nil
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
