// Package variant declares the configuration axes of the scaffold
// generator and resolves raw configurations into complete, validated
// variants.
//
// An Axis is a named configuration dimension with an ordered legal-value
// set. The legal set of a dependent axis (modelFormat) is selected by the
// chosen value of its parent axis (framework). The Registry normalizes a
// raw configuration by filling documented defaults, and the RuleSet prunes
// the cross-product of axis values down to the supported variant space by
// evaluating pure, order-independent predicates.
package variant
