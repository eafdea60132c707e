package planner

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// solveAssignment finds a perfect matching of minimum total cost on a square
// cost matrix, returning the assigned column for each row.
//
// The implementation is the primal-dual shortest-augmenting-path form of the
// Hungarian algorithm: rows are inserted one at a time and the dual
// potentials are updated along the cheapest augmenting path, O(n³) overall.
// Ties are broken deterministically by the lowest column index, so repeated
// solves on identical input return identical matchings.
func solveAssignment(d *mat.Dense) ([]int, error) {
	n, m := d.Dims()
	if n != m {
		return nil, fmt.Errorf("assignment matrix must be square, got %dx%d", n, m)
	}
	if n == 0 {
		return nil, nil
	}

	// u, v are the dual potentials; p[j] is the row matched to column j.
	// Index 0 is a virtual column used to seed each augmentation.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := d.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Walk the augmenting path backwards, flipping the matching.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assign := make([]int, n)
	for j := 1; j <= n; j++ {
		assign[p[j]-1] = j - 1
	}
	return assign, nil
}

// matchingCost sums the selected cells of a matching.
func matchingCost(d *mat.Dense, assign []int) float64 {
	var total float64
	for i, j := range assign {
		total += d.At(i, j)
	}
	return total
}
