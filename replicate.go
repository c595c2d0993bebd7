/*
 * replicate.go, part of gosimm.
 *
 * Copyright 2024 The gosimm developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package sim

import (
	"math"
	"math/rand"
)

//Replicate inserts counts[i] copies of refs[i] into target, which may
//be nil to start from an empty system. When density is positive the
//target box is resized to the cube holding the inserted mass at that
//density (g/cm3). A non-nil rnd randomizes orientation and position
//of every copy, keeping each molecule radius away from the box walls;
//a nil rnd stacks the copies at the origin, which only makes sense
//for later manual placement. Overlaps are not detected.
func Replicate(refs []*System, counts []int, target *System, density float64, rnd *rand.Rand) (*System, error) {
	if len(refs) == 0 {
		return nil, newError("Replicate: no reference systems")
	}
	if len(refs) != len(counts) {
		return nil, newError("Replicate: %d reference systems but %d counts", len(refs), len(counts))
	}
	if target == nil {
		target = NewSystem("replicated")
	}
	target.FFClass = refs[0].FFClass
	target.PairStyle = refs[0].PairStyle
	target.BondStyle = refs[0].BondStyle
	target.AngleStyle = refs[0].AngleStyle
	target.DihedralStyle = refs[0].DihedralStyle
	target.ImproperStyle = refs[0].ImproperStyle

	radii := make([]float64, len(refs))
	mass := 0.0
	for i, r := range refs {
		if err := r.Center("particles", [3]float64{0, 0, 0}, true); err != nil {
			return nil, errDecorate(err, "Replicate")
		}
		for _, p := range r.Particles.All() {
			d := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
			if d > radii[i] {
				radii[i] = d
			}
		}
		mass += r.Mass() * float64(counts[i])
	}
	if density > 0 {
		//volume in cm3 of the total mass, edge back in Angstroms
		volume := mass / avogadro / density
		edge := math.Cbrt(volume) * 1e8
		target.Dim.Xlo, target.Dim.Xhi = -edge/2, edge/2
		target.Dim.Ylo, target.Dim.Yhi = -edge/2, edge/2
		target.Dim.Zlo, target.Dim.Zhi = -edge/2, edge/2
	}

	for i, r := range refs {
		for n := 0; n < counts[i]; n++ {
			ins := r.Copy()
			if rnd != nil {
				ins.Rotate(nil, rnd.Float64()*2*math.Pi, rnd.Float64()*2*math.Pi,
					rnd.Float64()*2*math.Pi)
				place := func(lo, hi float64) float64 {
					span := hi - lo
					return (-span/2 + radii[i]) + rnd.Float64()*(span-2*radii[i])
				}
				ins.ShiftParticles(place(target.Dim.Xlo, target.Dim.Xhi),
					place(target.Dim.Ylo, target.Dim.Yhi),
					place(target.Dim.Zlo, target.Dim.Zhi))
			}
			target.Add(ins, true)
		}
	}
	return target, nil
}
