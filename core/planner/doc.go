// Package planner implements the nightly induction assignment engine.
//
// Every planning night a fixed fleet of train units must be split between
// three operational roles: Service (revenue operation), Standby (hot spare)
// and IBL (maintenance withdrawal). The engine validates hard constraints,
// prices every eligible pairing and solves the resulting rectangular
// minimum-cost assignment problem to optimality.
//
// Pipeline, in order:
//  1. EvaluateRoles checks each unit against the role eligibility rules
//     (fitness certificate, open job cards, cleaning). IBL is always
//     eligible so no unit ever ends up without a role purely from
//     constraint exhaustion.
//  2. Cost prices each eligible pairing from readiness risk, mileage
//     deviation and shunting distance, with configuration-supplied weights.
//  3. buildMatrix expands role capacities into slot columns, applies the
//     sentinel cost to ineligible cells and pads the matrix to square.
//  4. solveAssignment finds the minimum-cost perfect matching with the
//     Hungarian shortest-augmenting-path method.
//  5. explainEntries decorates the matching with sub-costs, refused-role
//     reasons and the delta to the next-best alternative.
//
// All stages are pure functions of the fleet snapshot and Config, so solves
// are deterministic and safe to run concurrently.
package planner
