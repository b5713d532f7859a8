// Package projector implements the attendance projection calculator.
//
// Given the number of lectures attended (present), the number conducted
// (total) and a target ratio in (0, 1], it answers three questions:
//
//   - How many more classes can be missed while staying at or above the
//     target (CanMiss)?
//   - How many consecutive classes must be attended to climb back to the
//     target (NeedToAttend)?
//   - What would the percentage be after skipping or attending k more
//     classes (SimulateMiss, SimulateAttend, Scenarios)?
//
// Every function is pure and safe for concurrent use. Invalid input is
// reported as an *errors.ProjectionError and never clamped.
//
// The target boundary is inclusive: sitting exactly on the target is safe.
// Float comparisons use a small tolerance so that ratios such as 0.7, which
// have no exact binary representation, still classify 7/10 as on target.
package projector
