// File: lixenwraith/mdconfig/doc.go

// Package mdconfig provides a mutable key/value store over line-oriented
// configuration files, such as the input files of molecular dynamics engines.
//
// Features:
//   - Pluggable line grammar: a format only supplies a LineParser
//   - Per-key typing: text by default, declared int and float families,
//     singleton (scalar) keys and fully custom coercion rules
//   - Change tracking at the store and the value level
//   - Round-trip fidelity: an unchanged store writes the original bytes
//   - Duplicate keys resolved by last occurrence, reported as warnings
//   - Struct decoding, constraint expressions and state snapshots
//
// Quick Start:
//
//	dialect := mdconfig.NewDialect("simple", parser).
//	    WithIntSingletonParams("nsteps").
//	    WithFloatParams("ref-t").
//	    MustBuild()
//
//	store, err := mdconfig.New(dialect, "run.cfg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	nsteps, _ := store.Int("nsteps")
//	_ = store.Set("nsteps", mdconfig.Scalar(nsteps*2))
//	refT, _ := store.Floats("ref-t")
//	_ = refT.Set(0, 310.0)
//
//	err = store.Write("run-long.cfg", false)
//
// Value shapes:
// Keys declared as singletons hold a Singleton, every other key holds a
// container (TypedList, or whatever a custom rule returns). Code iterating
// over all entries should go through the Value interface.
//
// Concurrency:
// A Store is synchronous and not safe for concurrent mutation. Parse and
// Write block on file I/O; callers running many stores concurrently offload
// these calls themselves.
package mdconfig
