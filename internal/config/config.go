// Package config holds the single immutable set of tunables shared by every
// component: board size, network shape, search budgets, and filesystem
// paths. It plays the role of the teacher's dual.Config/mcts.Config/
// agogo.Config triad, collapsed into one struct.
package config

import "fmt"

// Config is the static configuration object. Build one with New and treat it
// as immutable thereafter; nothing in this module mutates a Config in place.
type Config struct {
	ChessboardSize int `json:"chessboard_size"`
	InARow         int `json:"in_a_row"`

	NumResidualBlocks     int `json:"num_residual_blocks"`
	NumFilters            int `json:"num_filters"`
	ValueHeadHiddenUnits  int `json:"value_head_hidden_units"`

	SelfplayNumSims   int     `json:"selfplay_num_sims"`
	SelfplayCPUCT     float32 `json:"selfplay_cpuct"`
	SelfplayAlpha     float32 `json:"selfplay_alpha"`
	SelfplayMCTSBatch int     `json:"selfplay_mcts_batch"`

	EvalFreq     int     `json:"eval_freq"`
	EvalNumSims  int     `json:"eval_num_sims"`
	EvalCPUCT    float32 `json:"eval_cpuct"`
	EvalMCTSBatch int    `json:"eval_mcts_batch"`

	TrainLR float32 `json:"train_lr"`

	CkptDir string `json:"ckpt_dir"`

	SelfPlayDevices []string `json:"self_play_devices"`
	TrainDevice     string   `json:"train_device"`

	// VirtualLoss is the pessimistic value (vloss) subtracted from sigma_v
	// during a virtual-loss descent. The reference implementation uses 1.
	VirtualLoss float32 `json:"virtual_loss"`

	// NoiseFromMoveEight preserves the reference self-play behaviour of
	// applying Dirichlet noise only once the move index reaches 8 (see
	// spec.md §9, "Noise schedule polarity"). Set false for the conventional
	// AlphaZero recipe (noise applied from move 0).
	NoiseFromMoveEight bool `json:"noise_from_move_eight"`
}

// Option configures a Config under construction.
type Option func(*Config)

// New builds a Config from sensible defaults for an m-n-k board of side s
// with a winning run of length k, then applies opts.
func New(s, k int, opts ...Option) Config {
	c := Config{
		ChessboardSize: s,
		InARow:         k,

		NumResidualBlocks:    3,
		NumFilters:           32,
		ValueHeadHiddenUnits: 128,

		SelfplayNumSims:   1000,
		SelfplayCPUCT:     3,
		SelfplayAlpha:     0.03,
		SelfplayMCTSBatch: 8,

		EvalFreq:      20,
		EvalNumSims:   1000,
		EvalCPUCT:     3,
		EvalMCTSBatch: 8,

		TrainLR: 1e-3,

		CkptDir: "ckpts",

		SelfPlayDevices: []string{"cpu", "cpu", "cpu"},
		TrainDevice:     "cpu",

		VirtualLoss:        1,
		NoiseFromMoveEight: true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithSelfPlayDevices overrides the self-play device identifier list.
func WithSelfPlayDevices(devices ...string) Option {
	return func(c *Config) { c.SelfPlayDevices = devices }
}

// WithTrainDevice overrides the trainer's device identifier.
func WithTrainDevice(device string) Option {
	return func(c *Config) { c.TrainDevice = device }
}

// WithCkptDir overrides the checkpoint directory.
func WithCkptDir(dir string) Option {
	return func(c *Config) { c.CkptDir = dir }
}

// WithVirtualLoss overrides the virtual-loss constant.
func WithVirtualLoss(vloss float32) Option {
	return func(c *Config) { c.VirtualLoss = vloss }
}

// IsValid reports whether the configuration is internally consistent,
// mirroring the teacher's dual.Config.IsValid/mcts.Config.IsValid pattern.
func (c Config) IsValid() bool {
	return c.ChessboardSize > 0 &&
		c.InARow > 0 &&
		c.InARow <= c.ChessboardSize &&
		c.NumResidualBlocks >= 0 &&
		c.NumFilters > 0 &&
		c.ValueHeadHiddenUnits > 0 &&
		c.SelfplayNumSims > 0 &&
		c.SelfplayCPUCT > 0 &&
		c.SelfplayAlpha > 0 &&
		c.SelfplayMCTSBatch > 0 &&
		c.EvalFreq > 0 &&
		c.EvalNumSims > 0 &&
		c.EvalCPUCT > 0 &&
		c.EvalMCTSBatch > 0 &&
		c.TrainLR > 0 &&
		c.CkptDir != "" &&
		len(c.SelfPlayDevices) > 0 &&
		c.TrainDevice != "" &&
		c.VirtualLoss > 0
}

// ActionSpace is the number of legal move slots: one per board cell.
func (c Config) ActionSpace() int {
	return c.ChessboardSize * c.ChessboardSize
}

func (c Config) String() string {
	return fmt.Sprintf("Config{S=%d K=%d sims(sp=%d,eval=%d) cpuct(sp=%v,eval=%v) ckpt=%q}",
		c.ChessboardSize, c.InARow, c.SelfplayNumSims, c.EvalNumSims,
		c.SelfplayCPUCT, c.EvalCPUCT, c.CkptDir)
}
