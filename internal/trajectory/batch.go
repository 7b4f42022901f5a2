package trajectory

import (
	"gorgonia.org/tensor"
)

// AssembleBatches packs records into dense (Xs, Policies, Values) tensors
// sized to whole batches of batchSize, dropping any remainder — exactly the
// teacher's prepareExamples (agogo.go) shape and truncation behavior,
// generalized from the teacher's per-game feature/height/width fields to
// this board's (2, S, S) canonical planes.
func AssembleBatches(records []Record, size, batchSize int) (Xs, Policies, Values *tensor.Dense, batches int) {
	batches = len(records) / batchSize
	total := batches * batchSize
	if batches == 0 {
		return nil, nil, nil, 0
	}

	actionSpace := size * size
	planeLen := 2 * actionSpace

	xsBacking := make([]float32, 0, total*planeLen)
	policiesBacking := make([]float32, 0, total*actionSpace)
	valuesBacking := make([]float32, 0, total)

	planeBuf := make([]float32, planeLen)
	for i := 0; i < total; i++ {
		r := records[i]
		r.Board.PlaneFloats(planeBuf)
		xsBacking = append(xsBacking, planeBuf...)
		policiesBacking = append(policiesBacking, r.Pi...)
		valuesBacking = append(valuesBacking, r.V)
	}

	Xs = tensor.New(tensor.WithBacking(xsBacking), tensor.WithShape(total, 2, size, size))
	Policies = tensor.New(tensor.WithBacking(policiesBacking), tensor.WithShape(total, actionSpace))
	Values = tensor.New(tensor.WithBacking(valuesBacking), tensor.WithShape(total))
	return Xs, Policies, Values, batches
}
