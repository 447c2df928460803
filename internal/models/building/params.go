// Package building simulates a radiant-floor heating loop: a hot-water tank
// feeds a tube embedded in a concrete slab, and the slab temperature after
// a fixed number of steps is compared against a measured value.
//
// Every physical constant is a differentiable leaf, so the gradient of the
// loss reports the sensitivity of the final slab temperature to the tube
// geometry, the material properties and the starting temperature alike.
package building

import (
	"github.com/born-ml/gradtape/internal/autodiff"
)

// Tube is the PEX tubing in the slab.
type Tube struct {
	TubeSpacing autodiff.Var // m
	Diameter    autodiff.Var // m (3/4")
	Thickness   autodiff.Var // m (1/16")
	Resistivity autodiff.Var // (K/W)m
}

// Slab is the concrete floor.
type Slab struct {
	Temp      autodiff.Var // °C
	Area      autodiff.Var // m^2
	Cp        autodiff.Var
	Density   autodiff.Var // kg/m^3
	Thickness autodiff.Var // m
}

// Quanta is a parcel of water moving through the loop.
type Quanta struct {
	Power   autodiff.Var // W
	Temp    autodiff.Var // °C
	Flow    autodiff.Var // m^3/s
	Density autodiff.Var // kg/m^3
	Cp      autodiff.Var // Ws/(kg K)
}

// Tank is the hot-water store.
type Tank struct {
	Temp    autodiff.Var
	Volume  autodiff.Var
	Cp      autodiff.Var
	Density autodiff.Var
	Mass    autodiff.Var
}

// SimParams holds every input of a simulation run.
type SimParams struct {
	Tube         Tube
	Slab         Slab
	Quanta       Quanta
	Tank         Tank
	StartingTemp autodiff.Var
}

// QuantaAndPower is the result of a load computation.
type QuantaAndPower struct {
	Quanta Quanta
	Power  autodiff.Var
}

// TankAndQuanta is the result of drawing from the tank.
type TankAndQuanta struct {
	Tank   Tank
	Quanta Quanta
}

func c(x float64) autodiff.Var { return autodiff.Const(x) }

// DefaultTube returns 3/4" PEX at 0.5 m spacing.
func DefaultTube() Tube {
	return Tube{TubeSpacing: c(0.50292), Diameter: c(0.019), Thickness: c(0.001588), Resistivity: c(2.43)}
}

// DefaultSlab returns a 100 m^2, 10 cm concrete slab at 21.1 °C.
func DefaultSlab() Slab {
	return Slab{Temp: c(21.1111111), Area: c(100), Cp: c(0.2), Density: c(2242.58), Thickness: c(0.101)}
}

// DefaultQuanta returns water at 60 °C flowing at 10 gpm.
func DefaultQuanta() Quanta {
	return Quanta{Power: c(0), Temp: c(60), Flow: c(0.0006309), Density: c(1000), Cp: c(4180)}
}

// DefaultTank returns a 20 gallon tank at 70 °C.
func DefaultTank() Tank {
	return Tank{Temp: c(70), Volume: c(0.0757082), Cp: c(4180), Density: c(1000), Mass: c(75.708)}
}

// DefaultParams returns the reference configuration with the slab starting
// at startingTemp.
func DefaultParams(startingTemp float64) SimParams {
	return SimParams{
		Tube:         DefaultTube(),
		Slab:         DefaultSlab(),
		Quanta:       DefaultQuanta(),
		Tank:         DefaultTank(),
		StartingTemp: c(startingTemp),
	}
}
