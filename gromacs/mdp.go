// FILE: lixenwraith/mdconfig/gromacs/mdp.go

// Package gromacs provides the GROMACS molecular dynamics parameter (MDP)
// dialect for mdconfig and helpers operating on MDP stores.
package gromacs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lixenwraith/mdconfig"
)

// DialectName identifies MDP stores in state snapshots.
const DialectName = "gromacs-mdp"

// Typed MDP options. Everything not listed is kept as text.
var (
	floatParams = []string{
		"tau-t", "ref-t", "compressibility", "ref-p",
		"annealing-time", "annealing-temp",
		"fep-lambdas", "coul-lambdas", "vdw-lambdas", "bonded-lambdas",
		"restraint-lambdas", "mass-lambdas", "temperature-lambdas",
		"deform", "accelerate",
		"electric-field-x", "electric-field-y", "electric-field-z",
		"pull-coord1-vec", "pull-coord1-origin",
	}
	floatSingletonParams = []string{
		"tinit", "dt", "tau-p", "init-lambda", "delta-lambda", "emtol", "emstep",
		"verlet-buffer-tolerance", "rlist", "rcoulomb-switch", "rcoulomb",
		"epsilon-r", "epsilon-rf", "rvdw-switch", "rvdw", "table-extension",
		"fourierspacing", "ewald-rtol", "ewald-rtol-lj", "epsilon-surface",
		"bd-fric", "gen-temp", "shake-tol", "cos-acceleration",
		"sc-alpha", "sc-sigma", "sc-r-power",
		"pull-coord1-init", "pull-coord1-rate", "pull-coord1-k",
	}
	intParams = []string{
		"annealing-npoints",
	}
	intSingletonParams = []string{
		"nsteps", "init-step", "simulation-part", "nstcomm", "nstcalcenergy",
		"nstenergy", "nstlog", "nstxout", "nstvout", "nstfout",
		"nstxout-compressed", "nstxtcout", "nstlist", "nsttcouple",
		"nstpcouple", "pme-order", "fourier-nx", "fourier-ny", "fourier-nz",
		"gen-seed", "ld-seed", "niter", "nstcgsteep", "nbfgscorr",
		"lincs-order", "lincs-iter", "nstdhdl", "init-lambda-state",
		"nstexpanded", "sc-power", "pull-ncoords", "pull-ngroups",
		"pull-nstxout", "pull-nstfout",
	}
)

// NormalizeKey maps an option name to its canonical form. GROMACS treats
// '-' and '_' as equivalent in option names; the dashed spelling is canonical.
func NormalizeKey(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// ParseLine implements the MDP line grammar. Text after ';' is a comment,
// the key is everything before the first '=' and the values are the
// whitespace separated fields after it. Values may themselves contain '=',
// as in "define = -DPOSRES_FC=1000".
func ParseLine(line string) (map[string][]string, error) {
	content, _, _ := strings.Cut(line, ";")
	key, value, found := strings.Cut(content, "=")
	if !found {
		if strings.TrimSpace(content) != "" {
			return nil, errors.New("line is neither a comment nor an option assignment")
		}
		return map[string][]string{}, nil
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("option assignment without option name")
	}
	return map[string][]string{NormalizeKey(key): strings.Fields(value)}, nil
}

// Dialect returns the MDP dialect declaration.
func Dialect() *mdconfig.Dialect {
	return mdconfig.NewDialect(DialectName, mdconfig.LineParserFunc(ParseLine)).
		WithSeparators(" = ", " ").
		WithKeyNormalizer(NormalizeKey).
		WithFloatParams(floatParams...).
		WithFloatSingletonParams(floatSingletonParams...).
		WithIntParams(intParams...).
		WithIntSingletonParams(intSingletonParams...).
		WithConstraint("nsteps == nil || nsteps >= -1").
		WithConstraint("dt == nil || dt > 0").
		WithValidator(mdconfig.DisjointFamilies).
		MustBuild()
}

// Open parses the MDP file at path.
func Open(path string, opts ...mdconfig.Option) (*mdconfig.Store, error) {
	store, err := mdconfig.New(Dialect(), path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open mdp '%s': %w", path, err)
	}
	return store, nil
}
