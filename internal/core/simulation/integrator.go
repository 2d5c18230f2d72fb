package simulation

import (
	"context"

	"digital-liver/internal/core/domain"
)

// DerivativeFunc is the right-hand side dy/dt = f(t, y).
type DerivativeFunc func(t float64, y domain.State) domain.State

// Linspace returns n evenly spaced samples over [start, stop]; the last sample is exactly stop.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Integrate solves the system with classical fourth-order Runge-Kutta, taking
// substeps equal steps between consecutive grid points. The context is checked
// once per grid interval.
func Integrate(ctx context.Context, f DerivativeFunc, y0 domain.State, grid []float64, substeps int) ([]domain.State, error) {
	if substeps < 1 {
		substeps = 1
	}
	out := make([]domain.State, len(grid))
	if len(grid) == 0 {
		return out, nil
	}

	y := y0
	out[0] = y
	for i := 1; i < len(grid); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := (grid[i] - grid[i-1]) / float64(substeps)
		t := grid[i-1]
		for s := 0; s < substeps; s++ {
			y = rk4Step(f, t, y, h)
			t += h
		}
		out[i] = y
	}
	return out, nil
}

func rk4Step(f DerivativeFunc, t float64, y domain.State, h float64) domain.State {
	k1 := f(t, y)
	k2 := f(t+h/2, axpy(y, k1, h/2))
	k3 := f(t+h/2, axpy(y, k2, h/2))
	k4 := f(t+h, axpy(y, k3, h))

	var next domain.State
	for i := range next {
		next[i] = y[i] + h/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}

// axpy returns y + a*x.
func axpy(y, x domain.State, a float64) domain.State {
	var out domain.State
	for i := range out {
		out[i] = y[i] + a*x[i]
	}
	return out
}
