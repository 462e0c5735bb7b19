package chem

import (
	"fmt"
	"math"
)

const (
	// GasConstant is the universal gas constant in J/(kmol K).
	GasConstant = 8314.46261815324

	// OneAtm is the standard-state reference pressure in Pa.
	OneAtm = 101325.0
)

// NASA7 holds a two-range 7-coefficient NASA polynomial.
type NASA7 struct {
	Tmin, Tmid, Tmax float64
	Low, High        [7]float64
}

func (n *NASA7) coeffs(t float64) *[7]float64 {
	if t < n.Tmid {
		return &n.Low
	}
	return &n.High
}

// Cp returns the dimensionless heat capacity cp/R.
func (n *NASA7) Cp(t float64) float64 {
	a := n.coeffs(t)
	return a[0] + t*(a[1]+t*(a[2]+t*(a[3]+t*a[4])))
}

// H returns the dimensionless enthalpy h/(RT).
func (n *NASA7) H(t float64) float64 {
	a := n.coeffs(t)
	return a[0] + t*(a[1]/2+t*(a[2]/3+t*(a[3]/4+t*a[4]/5))) + a[5]/t
}

// S returns the dimensionless standard-state entropy s/R.
func (n *NASA7) S(t float64) float64 {
	a := n.coeffs(t)
	return a[0]*math.Log(t) + t*(a[1]+t*(a[2]/2+t*(a[3]/3+t*a[4]/4))) + a[6]
}

func newNASA7(ranges []float64, data [][]float64) (*NASA7, error) {
	if len(ranges) != 3 {
		return nil, fmt.Errorf("%w: NASA7 needs 3 temperature bounds, got %d", ErrMechanism, len(ranges))
	}
	if len(data) != 2 || len(data[0]) != 7 || len(data[1]) != 7 {
		return nil, fmt.Errorf("%w: NASA7 needs two sets of 7 coefficients", ErrMechanism)
	}
	n := &NASA7{Tmin: ranges[0], Tmid: ranges[1], Tmax: ranges[2]}
	copy(n.Low[:], data[0])
	copy(n.High[:], data[1])
	return n, nil
}
