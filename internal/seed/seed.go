// Package seed populates an Evaluator's BuiltIn activation record with the
// host-provided names spec §6 requires: type constants, capability
// objects, the free-function roster, and the Errors namespace. It is
// wired in through evaluator.WithSeed so internal/evaluator never
// imports internal/seed back (which would cycle).
package seed

import "github.com/kyouko8/kandyscript/internal/evaluator"

// Install is passed to evaluator.New via evaluator.WithSeed and is the
// single entry point the cmd/kandyscript and pkg/kandyscript front ends
// use to bring a fresh Evaluator up to the spec's required BuiltIn
// surface (original_source/main.py's __init__ seeding sequence).
func Install(e *evaluator.Evaluator) {
	installTypes(e)
	installCapabilities(e)
	installFunctions(e)
	installErrors(e)
}
