package building

import (
	"math"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/control"
	"github.com/born-ml/gradtape/internal/differentiable"
	"github.com/born-ml/gradtape/internal/dmath"
	"github.com/born-ml/gradtape/internal/tangent"
)

const (
	// DTime is the simulation step in seconds.
	DTime = 0.1
	// Steps is the number of simulation steps per run.
	Steps = 20
	// GroundTruth is the measured slab temperature after Steps.
	GroundTruth = 27.344767

	geometryCoeff = 10.0
)

// ComputeResistance returns the thermal resistance between tube and slab.
func ComputeResistance(floor Slab, tube Tube) autodiff.Var {
	surfaceArea := floor.Area.Div(tube.TubeSpacing).MulConst(math.Pi).Mul(tube.Diameter)
	resistance := tube.Resistivity.Mul(tube.Thickness).Div(surfaceArea)
	return resistance.MulConst(geometryCoeff)
}

// ComputeLoadPower returns the power the quanta exchanges with the slab.
// The returned quanta carries the power it absorbed; the returned power is
// what the slab receives.
func ComputeLoadPower(floor Slab, tube Tube, quanta Quanta) QuantaAndPower {
	conductance := autodiff.ConstDiv(1, ComputeResistance(floor, tube))
	power := floor.Temp.Sub(quanta.Temp).Mul(conductance)

	updated := quanta
	updated.Power = power
	return QuantaAndPower{Quanta: updated, Power: power.Neg()}
}

// UpdateQuanta converts the quanta's accumulated power into a temperature
// change over one step.
func UpdateQuanta(quanta Quanta) Quanta {
	workingMass := quanta.Flow.MulConst(DTime).Mul(quanta.Density)
	workingEnergy := quanta.Power.MulConst(DTime)
	rise := workingEnergy.Div(quanta.Cp).Div(workingMass)

	updated := quanta
	updated.Temp = quanta.Temp.Add(rise)
	updated.Power = autodiff.Const(0)
	return updated
}

// UpdateBuildingModel applies power to the slab for one step.
func UpdateBuildingModel(power autodiff.Var, floor Slab) Slab {
	floorMass := floor.Area.Mul(floor.Thickness).Mul(floor.Density)

	updated := floor
	updated.Temp = floor.Temp.Add(power.MulConst(DTime).Div(floor.Cp).Div(floorMass))
	return updated
}

// UpdateSourceTank draws one step of heat from the tank into the quanta.
func UpdateSourceTank(store Tank, quanta Quanta) TankAndQuanta {
	massPerTime := quanta.Flow.Mul(quanta.Density)
	power := store.Temp.Sub(quanta.Temp).Mul(massPerTime).Mul(quanta.Cp)

	updatedQuanta := quanta
	updatedQuanta.Power = power

	tankMass := store.Volume.Mul(store.Density)
	rise := power.MulConst(DTime).Div(store.Cp).Div(tankMass)
	updatedStore := store
	updatedStore.Temp = store.Temp.Add(rise)

	return TankAndQuanta{Tank: updatedStore, Quanta: updatedQuanta}
}

type state struct {
	slab   Slab
	tank   Tank
	quanta Quanta
}

// Simulate runs Steps steps and returns the final slab temperature.
func Simulate(p SimParams) autodiff.Var {
	slab := p.Slab
	slab.Temp = p.StartingTemp

	final := control.Repeat(Steps, state{slab: slab, tank: p.Tank, quanta: p.Quanta},
		func(_ int, s state) state {
			tq := UpdateSourceTank(s.tank, s.quanta)
			quanta := UpdateQuanta(tq.Quanta)

			qp := ComputeLoadPower(s.slab, p.Tube, quanta)
			quanta = UpdateQuanta(qp.Quanta)

			return state{
				slab:   UpdateBuildingModel(qp.Power, s.slab),
				tank:   tq.Tank,
				quanta: quanta,
			}
		})
	return final.slab.Temp
}

// Loss returns |pred - gt|.
func Loss(pred autodiff.Var, gt float64) autodiff.Var {
	return dmath.Abs(pred.SubConst(gt))
}

// FullPipe simulates p and returns its loss against GroundTruth.
func FullPipe(p SimParams) autodiff.Var {
	return Loss(Simulate(p), GroundTruth)
}

// Ones returns a tangent shaped like v with every leaf set to 1.
func Ones[T any](v T) (tangent.Vector, error) {
	zero, err := differentiable.ZeroOf(v)
	if err != nil {
		return nil, err
	}
	return tangent.Map(zero, func(float64) float64 { return 1 }), nil
}
