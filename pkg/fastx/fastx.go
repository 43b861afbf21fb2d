package fastx

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/tkoenig/sopnet/pkg/errors"
	"github.com/tkoenig/sopnet/pkg/network"
)

// DefaultMaxNewNodes is the default budget for nodes an engine may
// introduce in one extraction run.
const DefaultMaxNewNodes = 1000

// Options configures one extraction run.
type Options struct {
	// MaxNewNodes caps how many nodes the engine may introduce; it sizes
	// the extra identifier capacity reserved in the Context. Values <= 0
	// fall back to DefaultMaxNewNodes.
	MaxNewNodes int

	// Logger receives progress and integrity warnings. Defaults to a
	// discard logger.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.MaxNewNodes <= 0 {
		o.MaxNewNodes = DefaultMaxNewNodes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Run performs fast extract on the network with the given engine:
// validate -> build context -> extract -> reconstruct. It returns true if
// the network was changed.
//
// Run declines - returning false with the network byte-for-byte
// untouched - when the network cannot be put into cover form, when a node
// violates the engine's structural preconditions, when the engine reports
// no improvement (no error in that case), or when the engine's output
// violates its contract. Once reconstruction has begun there is no
// rollback; a post-reconstruction integrity failure is logged as a
// warning and the mutated network is still reported as changed.
func Run(nt *network.Network, eng Engine, opts Options) (bool, error) {
	opts.setDefaults()
	logger := opts.Logger

	if err := ensureCoverForm(nt); err != nil {
		return false, err
	}
	if !Check(nt) {
		return false, errors.New(errors.ErrCodePreconditionFanins,
			"nodes have duplicated or complemented fanins")
	}

	c := Build(nt, opts.MaxNewNodes)
	defer c.Release()

	nodesNew := eng.Extract(c)
	if nodesNew <= 0 {
		logger.Debug("no beneficial extraction found")
		return false, nil
	}

	if err := apply(nt, c, nodesNew); err != nil {
		return false, err
	}
	logger.Debug("reconstructed network", "new_nodes", nodesNew)

	if err := nt.Check(); err != nil {
		// Best effort: reconstruction has no undo log, so integrity
		// failures are flagged and the mutated network returned as-is.
		logger.Warn("network check failed after extraction", "err", err)
	}
	return true, nil
}

// ensureCoverForm verifies every logic node carries an SOP cover whose
// variable count matches its fanin list. Networks are SOP-native here, so
// this stands in for the cover-conversion step that precedes extraction;
// a failure means the network cannot be presented to the engine.
func ensureCoverForm(nt *network.Network) error {
	for _, n := range nt.LogicNodes() {
		cover := n.Cover()
		if cover == nil {
			return errors.New(errors.ErrCodeConversionFailed,
				"node %d has no cover", n.ID())
		}
		if cover.VarNum() != n.FaninNum() {
			return errors.New(errors.ErrCodeConversionFailed,
				"node %d cover has %d vars for %d fanins", n.ID(), cover.VarNum(), n.FaninNum())
		}
	}
	return nil
}
