// Package bundle is the compiler core. It turns the declarations of a
// payload.Payload into a Bundle: one merged component per plugin or group id
// plus the load plan the runtime loader uses to decide when to load them.
//
// The stages are plain functions and can be used on their own:
//
//	Expand    nested declarations -> flat, pre-order sequence
//	Unpack    declaration -> Component
//	Aggregate declarations -> raw LoadPlan (trigger and dependency indexes)
//	Merge     components -> one conflict-checked component per id
//	Dedup     raw LoadPlan -> canonical LoadPlan
//
// Build wires them together. None of the stages keep state between calls.
package bundle
