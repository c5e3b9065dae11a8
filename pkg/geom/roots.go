package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// PolyRoots returns all complex roots of the polynomial with ascending-order
// coefficients coef, computed as the eigenvalues of the companion matrix.
// Leading (highest-degree) coefficients that are effectively zero are
// trimmed first. Degree < 1 polynomials have no roots.
func PolyRoots(coef []float64) []complex128 {
	n := len(coef)
	for n > 0 && math.Abs(coef[n-1]) < companionEps {
		n--
	}
	if n < 2 {
		return nil
	}
	deg := n - 1

	// Monic companion matrix: sub-diagonal ones, last column -a_i/a_deg.
	c := mat.NewDense(deg, deg, nil)
	for i := 1; i < deg; i++ {
		c.Set(i, i-1, 1)
	}
	for i := 0; i < deg; i++ {
		c.Set(i, deg-1, -coef[i]/coef[deg])
	}

	var eig mat.Eigen
	if ok := eig.Factorize(c, mat.EigenNone); !ok {
		return nil
	}
	return eig.Values(nil)
}

const companionEps = 1e-14
