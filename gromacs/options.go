package gromacs

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lixenwraith/mdconfig"
)

// TrajType selects a GROMACS trajectory format.
type TrajType string

const (
	TrajTRR TrajType = "TRR"
	TrajXTC TrajType = "XTC"
)

// ErrNoTrajectoryOutput indicates an MDP that writes no frames of the requested trajectory type.
var ErrNoTrajectoryOutput = errors.New("mdp results in no trajectory output")

// legacyContinuation is the name continuation had before GROMACS 4.6.
const legacyContinuation = "unconstrained-start"

// EnsureOptions makes sure gen-vel and continuation have the given values,
// so that a run continues from given coordinates and velocities instead of
// generating new ones. Setting an absent option is logged at info level,
// replacing a different value at warn level. A legacy unconstrained-start
// entry counts as continuation and is replaced by it.
func EnsureOptions(store *mdconfig.Store, genVel, continuation string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := ensureOption(store, "gen-vel", genVel, logger); err != nil {
		return err
	}

	if store.Has(legacyContinuation) {
		prev, err := store.Text(legacyContinuation)
		if err != nil {
			return err
		}
		if err := store.Delete(legacyContinuation); err != nil {
			return err
		}
		if !store.Has("continuation") {
			logger.Warn("replacing legacy mdp option",
				"option", legacyContinuation, "replacement", "continuation", "was", prev, "value", continuation)
			return store.Set("continuation", mdconfig.Scalar(continuation))
		}
	}

	return ensureOption(store, "continuation", continuation, logger)
}

func ensureOption(store *mdconfig.Store, key, want string, logger *slog.Logger) error {
	if !store.Has(key) {
		logger.Info("setting mdp option", "option", key, "value", want)
		return store.Set(key, mdconfig.Scalar(want))
	}

	have, err := store.Text(key)
	if err != nil {
		return err
	}
	if have != want {
		logger.Warn("overriding mdp option", "option", key, "value", want, "was", have)
		return store.Set(key, mdconfig.Scalar(want))
	}
	return nil
}

// NstoutFromMDP returns the smallest output interval, in steps, among the
// options controlling the given trajectory type. An interval of 0 disables
// output, as does an absent option.
func NstoutFromMDP(store *mdconfig.Store, traj TrajType) (int64, error) {
	var keys []string
	switch TrajType(strings.ToUpper(string(traj))) {
	case TrajTRR:
		keys = []string{"nstxout", "nstvout", "nstfout"}
	case TrajXTC:
		keys = []string{"nstxout-compressed", "nstxtcout"}
	default:
		return 0, fmt.Errorf("trajectory type must be one of %s or %s, got %q", TrajTRR, TrajXTC, traj)
	}

	var (
		nstout int64
		found  bool
	)
	for _, key := range keys {
		v, err := store.Int(key)
		if errors.Is(err, mdconfig.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if v == 0 {
			continue
		}
		if !found || v < nstout {
			nstout, found = v, true
		}
	}

	if !found {
		return 0, fmt.Errorf("%w (%s)", ErrNoTrajectoryOutput, traj)
	}
	return nstout, nil
}
