// Package risk derives a probability of disease expression for every
// (person, disease) pair in a pedigree from inheritance-pattern rules and
// ancestral affection status.
//
// # Model
//
// For each pair the engine evaluates, in order: an already-diagnosed
// short-circuit (risk exactly 1.0), the population base rate, a parental
// contribution determined by the disease's inheritance pattern and the
// affection status of the person's resolved parents, a noisy-OR
// combination of the two signals, the disease penetrance, and a final cap
// at [MaxScore]. Only the two direct parents contribute; deeper ancestry
// influences the result indirectly through the parents' own ground-truth
// diagnoses.
//
// Every result carries a human-readable pattern label and an explanation
// that documents the base rate and parental contribution numerically, so
// a UI can show where a percentage came from.
//
// # Totality
//
// [ComputeRisks] is a total function over any graph and catalog: parent
// references that do not resolve are treated as unknown ancestry, and
// zero prevalence or penetrance yields zero risk for non-affected members.
// It never returns an error and never produces NaN.
package risk
