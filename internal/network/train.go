package network

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// WeightDecay is the L2 penalty coefficient applied during training, per
// spec.md §4.F ("Weight decay 1e-4").
const WeightDecay = 1e-4

// Trainer wraps a separate training-shaped graph (batch size fixed by the
// batchSize argument to NewTrainer rather than the inference BatchSize) that shares
// its weight values with a Net by copy, mirroring the teacher's separate
// `dual.Train(nn, Xs, Policies, Values, batches, nniters)` entry point
// (agogo.go's LearnAZ), which takes already-assembled tensors and runs a
// fixed number of gradient steps against the live network.
type Trainer struct {
	net *Net

	g  *G.ExprGraph
	vm G.VM

	xs       *G.Node
	piTarget *G.Node
	vTarget  *G.Node

	trunkW []*G.Node
	trunkB []*G.Node

	policyW, policyB *G.Node
	valueW1, valueB1 *G.Node
	valueW2, valueB2 *G.Node

	loss   *G.Node
	solver G.Solver
}

// NewTrainer builds a training graph for net sized to batchSize examples per
// step, with weights initialized from net's current values, and an Adam
// solver at the given learning rate.
func NewTrainer(net *Net, batchSize int, lr float32) (*Trainer, error) {
	conf := net.conf
	g := G.NewGraph()
	inputWidth := 2 * conf.Size * conf.Size

	tr := &Trainer{net: net, g: g}
	tr.xs = G.NewMatrix(g, tensor.Float32, G.WithShape(batchSize, inputWidth), G.WithName("train.xs"))
	tr.piTarget = G.NewMatrix(g, tensor.Float32, G.WithShape(batchSize, conf.ActionSpace), G.WithName("train.pi"))
	tr.vTarget = G.NewVector(g, tensor.Float32, G.WithShape(batchSize), G.WithName("train.v"))

	prevWidth := inputWidth
	for i := range net.trunkW {
		w := cloneWithValue(g, net.trunkW[i])
		b := cloneWithValue(g, net.trunkB[i])
		tr.trunkW = append(tr.trunkW, w)
		tr.trunkB = append(tr.trunkB, b)
		prevWidth = conf.K
	}
	_ = prevWidth
	tr.policyW = cloneWithValue(g, net.policyW)
	tr.policyB = cloneWithValue(g, net.policyB)
	tr.valueW1 = cloneWithValue(g, net.valueW1)
	tr.valueB1 = cloneWithValue(g, net.valueB1)
	tr.valueW2 = cloneWithValue(g, net.valueW2)
	tr.valueB2 = cloneWithValue(g, net.valueB2)

	if err := tr.buildLoss(); err != nil {
		return nil, errors.Wrap(err, "network: build training graph")
	}

	params := tr.params()
	if _, err := G.Grad(tr.loss, params...); err != nil {
		return nil, errors.Wrap(err, "network: differentiate loss")
	}
	tr.vm = G.NewTapeMachine(g, G.BindDualValues(params...))
	tr.solver = G.NewAdamSolver(G.WithLearnRate(float64(lr)), G.WithL2Reg(WeightDecay))
	return tr, nil
}

// cloneWithValue makes a new node in g with the same shape/name as src and
// seeds its value from src's current bound value (weight sharing by copy,
// since gorgonia graphs cannot be shared directly across two VMs of
// different batch sizes).
func cloneWithValue(g *G.ExprGraph, src *G.Node) *G.Node {
	n := G.NewTensor(g, src.Dtype(), src.Shape().Dims(), G.WithShape(src.Shape()...), G.WithName(src.Name()+".train"), G.WithValue(src.Value()))
	return n
}

func (tr *Trainer) params() G.Nodes {
	params := G.Nodes{}
	params = append(params, tr.trunkW...)
	params = append(params, tr.trunkB...)
	params = append(params, tr.policyW, tr.policyB, tr.valueW1, tr.valueB1, tr.valueW2, tr.valueB2)
	return params
}

// buildLoss wires the training forward pass and the combined policy/value
// loss: MSE(v, v̂) - mean(sum(pi * log_softmax(p̂))), per spec.md §4.F.
func (tr *Trainer) buildLoss() error {
	h := tr.xs
	for i := range tr.trunkW {
		lin := G.Must(G.Add(G.Must(G.Mul(h, tr.trunkW[i])), tr.trunkB[i]))
		h = G.Must(G.Rectify(lin))
	}

	policyLogits := G.Must(G.Add(G.Must(G.Mul(h, tr.policyW)), tr.policyB))
	logProbs, err := G.LogSoftmax(policyLogits)
	if err != nil {
		return err
	}
	policyLoss := G.Must(G.Mean(G.Must(G.Sum(G.Must(G.HadamardProd(tr.piTarget, logProbs)), 1))))
	policyLoss = G.Must(G.Neg(policyLoss))

	vh := G.Must(G.Rectify(G.Must(G.Add(G.Must(G.Mul(h, tr.valueW1)), tr.valueB1))))
	valueLogit := G.Must(G.Add(G.Must(G.Mul(vh, tr.valueW2)), tr.valueB2))
	valuePred, err := G.Tanh(valueLogit)
	if err != nil {
		return err
	}
	valuePredFlat := G.Must(G.Reshape(valuePred, tr.vTarget.Shape()))
	diff := G.Must(G.Sub(tr.vTarget, valuePredFlat))
	valueLoss := G.Must(G.Mean(G.Must(G.Square(diff))))

	tr.loss = G.Must(G.Add(valueLoss, policyLoss))
	return nil
}

// Step runs one gradient step against the pre-assembled (xs, pi, v) batch
// and returns the scalar loss, mirroring dual.Train's per-batch iteration.
func (tr *Trainer) Step(xs, pi, v *tensor.Dense) (float32, error) {
	if err := G.Let(tr.xs, xs); err != nil {
		return 0, errors.Wrap(err, "network: bind xs")
	}
	if err := G.Let(tr.piTarget, pi); err != nil {
		return 0, errors.Wrap(err, "network: bind pi target")
	}
	if err := G.Let(tr.vTarget, v); err != nil {
		return 0, errors.Wrap(err, "network: bind v target")
	}

	if err := tr.vm.RunAll(); err != nil {
		return 0, errors.Wrap(err, "network: training forward/backward pass")
	}
	defer tr.vm.Reset()

	if err := tr.solver.Step(G.NodesToValueGrads(tr.params())); err != nil {
		return 0, errors.Wrap(err, "network: solver step")
	}

	lossVal := tr.loss.Value().Data().(float32)
	return lossVal, nil
}

// SyncToNet copies the trainer's current weight values back into the
// underlying Net's inference graph, so subsequent Evaluate calls see the
// trained weights — mirroring the teacher's SaveAZ/Load round trip, minus
// the filesystem step (that's handled by internal/registry on the caller's
// side, via Net.MarshalWeights/UnmarshalWeights).
func (tr *Trainer) SyncToNet() error {
	pairs := [][2]*G.Node{}
	for i := range tr.trunkW {
		pairs = append(pairs, [2]*G.Node{tr.trunkW[i], tr.net.trunkW[i]})
		pairs = append(pairs, [2]*G.Node{tr.trunkB[i], tr.net.trunkB[i]})
	}
	pairs = append(pairs,
		[2]*G.Node{tr.policyW, tr.net.policyW},
		[2]*G.Node{tr.policyB, tr.net.policyB},
		[2]*G.Node{tr.valueW1, tr.net.valueW1},
		[2]*G.Node{tr.valueB1, tr.net.valueB1},
		[2]*G.Node{tr.valueW2, tr.net.valueW2},
		[2]*G.Node{tr.valueB2, tr.net.valueB2},
	)
	for _, p := range pairs {
		if err := G.Let(p[1], p[0].Value()); err != nil {
			return errors.Wrap(err, "network: sync weights to inference graph")
		}
	}
	return nil
}
