package network

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func asFloat32Slice(n *G.Node) []float32 {
	data := n.Value().Data().([]float32)
	out := make([]float32, len(data))
	copy(out, data)
	return out
}

func setFloat32Slice(n *G.Node, data []float32) error {
	shape := n.Shape()
	t := tensor.New(tensor.WithBacking(data), tensor.WithShape(shape...))
	return errors.Wrap(G.Let(n, t), "network: bind checkpoint weight")
}

// weightBlob is the gob-encoded checkpoint shape: one flat float32 slice per
// weight tensor, in a fixed, deterministic order. Mirrors the teacher's
// SaveAZ/Load gob encoding of the whole Agent (agogo.go), narrowed here to
// just the tensors Evaluate/Step touch.
type weightBlob struct {
	Trunk   [][]float32
	TrunkB  [][]float32
	PolicyW []float32
	PolicyB []float32
	ValueW1 []float32
	ValueB1 []float32
	ValueW2 []float32
	ValueB2 []float32
}

// MarshalWeights gob-encodes the network's current weights for storage via
// internal/registry.Put, per spec.md §6 "Checkpoint files: <i>.pt".
func (n *Net) MarshalWeights() ([]byte, error) {
	blob := weightBlob{
		PolicyW: asFloat32Slice(n.policyW),
		PolicyB: asFloat32Slice(n.policyB),
		ValueW1: asFloat32Slice(n.valueW1),
		ValueB1: asFloat32Slice(n.valueB1),
		ValueW2: asFloat32Slice(n.valueW2),
		ValueB2: asFloat32Slice(n.valueB2),
	}
	for i := range n.trunkW {
		blob.Trunk = append(blob.Trunk, asFloat32Slice(n.trunkW[i]))
		blob.TrunkB = append(blob.TrunkB, asFloat32Slice(n.trunkB[i]))
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(blob); err != nil {
		return nil, errors.Wrap(err, "network: encode checkpoint")
	}
	return buf.Bytes(), nil
}

// UnmarshalWeights loads weights previously produced by MarshalWeights into
// this network's inference graph (the Net must have been constructed with
// the same Config the blob was saved from).
func (n *Net) UnmarshalWeights(data []byte) error {
	var blob weightBlob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&blob); err != nil {
		return errors.Wrap(err, "network: decode checkpoint")
	}
	if len(blob.Trunk) != len(n.trunkW) {
		return errors.Errorf("network: checkpoint has %d trunk layers, net has %d", len(blob.Trunk), len(n.trunkW))
	}
	for i := range n.trunkW {
		if err := setFloat32Slice(n.trunkW[i], blob.Trunk[i]); err != nil {
			return err
		}
		if err := setFloat32Slice(n.trunkB[i], blob.TrunkB[i]); err != nil {
			return err
		}
	}
	if err := setFloat32Slice(n.policyW, blob.PolicyW); err != nil {
		return err
	}
	if err := setFloat32Slice(n.policyB, blob.PolicyB); err != nil {
		return err
	}
	if err := setFloat32Slice(n.valueW1, blob.ValueW1); err != nil {
		return err
	}
	if err := setFloat32Slice(n.valueB1, blob.ValueB1); err != nil {
		return err
	}
	if err := setFloat32Slice(n.valueW2, blob.ValueW2); err != nil {
		return err
	}
	return setFloat32Slice(n.valueB2, blob.ValueB2)
}
