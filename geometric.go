/*
 * geometric.go, part of gosimm.
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
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

//maxSaneBond is the bond length, in Angstrom, above which an unwrapped
//system is considered broken.
const maxSaneBond = 5.0

//Dimension is an orthorhombic periodic box.
type Dimension struct {
	Xlo, Xhi float64
	Ylo, Yhi float64
	Zlo, Zhi float64
}

//Dx returns the box extent along x.
func (d *Dimension) Dx() float64 { return d.Xhi - d.Xlo }
func (d *Dimension) Dy() float64 { return d.Yhi - d.Ylo }
func (d *Dimension) Dz() float64 { return d.Zhi - d.Zlo }

//SetDx resizes the box along x keeping its center fixed.
func (d *Dimension) SetDx(dx float64) {
	center := (d.Xhi + d.Xlo) / 2
	d.Xlo = center - dx/2
	d.Xhi = center + dx/2
}

func (d *Dimension) SetDy(dy float64) {
	center := (d.Yhi + d.Ylo) / 2
	d.Ylo = center - dy/2
	d.Yhi = center + dy/2
}

func (d *Dimension) SetDz(dz float64) {
	center := (d.Zhi + d.Zlo) / 2
	d.Zlo = center - dz/2
	d.Zhi = center + dz/2
}

//Translate shifts all box bounds by x, y, z.
func (d *Dimension) Translate(x, y, z float64) {
	d.Xlo += x
	d.Xhi += x
	d.Ylo += y
	d.Yhi += y
	d.Zlo += z
	d.Zhi += z
}

//Valid reports whether the box has positive extent in all dimensions.
func (d *Dimension) Valid() bool {
	return d.Dx() > 0 && d.Dy() > 0 && d.Dz() > 0
}

//Volume returns the box volume.
func (d *Dimension) Volume() float64 {
	return d.Dx() * d.Dy() * d.Dz()
}

func (d *Dimension) Copy() *Dimension {
	c := *d
	return &c
}

//Distance returns the plain euclidean distance between two particles,
//images not considered.
func Distance(p, q *Particle) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

//PBCDistance returns the minimum-image distance between two particles
//in the given box.
func PBCDistance(p, q *Particle, d *Dimension) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	dx -= math.Round(dx/d.Dx()) * d.Dx()
	dy -= math.Round(dy/d.Dy()) * d.Dy()
	dz -= math.Round(dz/d.Dz()) * d.Dz()
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

//RotationMatrix builds the rotation operator Rz*Ry*Rx for the given
//angles in radians.
func RotationMatrix(thetaX, thetaY, thetaZ float64) *mat.Dense {
	sx, cx := math.Sincos(thetaX)
	sy, cy := math.Sincos(thetaY)
	sz, cz := math.Sincos(thetaZ)
	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, cx, -sx,
		0, sx, cx,
	})
	ry := mat.NewDense(3, 3, []float64{
		cy, 0, sy,
		0, 1, 0,
		-sy, 0, cy,
	})
	rz := mat.NewDense(3, 3, []float64{
		cz, -sz, 0,
		sz, cz, 0,
		0, 0, 1,
	})
	var zy, zyx mat.Dense
	zy.Mul(rz, ry)
	zyx.Mul(&zy, rx)
	return &zyx
}

//RotateVector applies the rotation given by the three angles, in
//radians, to the vector x, y, z.
func RotateVector(x, y, z, thetaX, thetaY, thetaZ float64) (float64, float64, float64) {
	r := RotationMatrix(thetaX, thetaY, thetaZ)
	v := mat.NewVecDense(3, []float64{x, y, z})
	var out mat.VecDense
	out.MulVec(r, v)
	return out.AtVec(0), out.AtVec(1), out.AtVec(2)
}

//Distance returns the distance between the bond's particles, images
//not considered.
func (b *Bond) Distance() float64 {
	return Distance(b.A, b.B)
}

//PBCDistance returns the minimum-image distance between two particles
//of the system.
func (s *System) PBCDistance(p, q *Particle) float64 {
	return PBCDistance(p, q, s.Dim)
}

//Wrap folds every particle image back into the box. Requires a valid
//box.
func (s *System) Wrap() error {
	if !s.Dim.Valid() {
		return newError("cannot wrap into a degenerate box")
	}
	for _, p := range s.Particles.All() {
		for p.X > s.Dim.Xhi {
			p.X -= s.Dim.Dx()
		}
		for p.X < s.Dim.Xlo {
			p.X += s.Dim.Dx()
		}
		for p.Y > s.Dim.Yhi {
			p.Y -= s.Dim.Dy()
		}
		for p.Y < s.Dim.Ylo {
			p.Y += s.Dim.Dy()
		}
		for p.Z > s.Dim.Zhi {
			p.Z -= s.Dim.Dz()
		}
		for p.Z < s.Dim.Zlo {
			p.Z += s.Dim.Dz()
		}
	}
	return nil
}

//Unwrap shifts particle images so that no bond crosses a box edge,
//walking each molecule's bond graph outward from its first particle.
//It returns false when a bond longer than maxSaneBond survives the
//unwrapping, which normally means the bond graph spans the box.
func (s *System) Unwrap() (bool, error) {
	if !s.Dim.Valid() {
		return false, newError("cannot unwrap in a degenerate box")
	}
	s.AddParticleBonding()
	unwrapped := make(map[*Particle]bool, s.Particles.Count())
	for _, m := range s.Molecules.All() {
		var queue []*Particle
		for _, p0 := range m.Particles {
			if unwrapped[p0] {
				continue
			}
			unwrapped[p0] = true
			queue = append(queue, p0)
			for i := 0; i < len(queue); i++ {
				p := queue[i]
				for _, pb := range p.BondedTo {
					if unwrapped[pb] {
						continue
					}
					unwrapped[pb] = true
					queue = append(queue, pb)
					for dx := p.X - pb.X; math.Abs(dx) > s.Dim.Dx()/2; dx = p.X - pb.X {
						if dx > 0 {
							pb.X += s.Dim.Dx()
						} else {
							pb.X -= s.Dim.Dx()
						}
					}
					for dy := p.Y - pb.Y; math.Abs(dy) > s.Dim.Dy()/2; dy = p.Y - pb.Y {
						if dy > 0 {
							pb.Y += s.Dim.Dy()
						} else {
							pb.Y -= s.Dim.Dy()
						}
					}
					for dz := p.Z - pb.Z; math.Abs(dz) > s.Dim.Dz()/2; dz = p.Z - pb.Z {
						if dz > 0 {
							pb.Z += s.Dim.Dz()
						} else {
							pb.Z -= s.Dim.Dz()
						}
					}
				}
			}
		}
	}
	for _, b := range s.Bonds.All() {
		if b.Distance() > maxSaneBond {
			log.Printf("unwrap probably failed: bond %d is %.2f A long", b.Tag(), b.Distance())
			//leave the system in a valid wrapped state rather than
			//half-unwrapped
			s.Wrap()
			return false, nil
		}
	}
	return true, nil
}

//Quality unwraps the system, counts bonds whose length deviates from
//their type's equilibrium distance by more than the fractional
//tolerance, wraps again and returns the count.
func (s *System) Quality(tolerance float64) (int, error) {
	if _, err := s.Unwrap(); err != nil {
		return 0, errDecorate(err, "Quality")
	}
	bad := 0
	for _, b := range s.Bonds.All() {
		if b.Type == nil {
			continue
		}
		d := b.Distance()
		if d > b.Type.R0*(1+tolerance) || d < b.Type.R0*(1-tolerance) {
			bad++
		}
	}
	log.Printf("%d of %d bonds outside of tolerance", bad, s.Bonds.Count())
	if err := s.Wrap(); err != nil {
		return bad, errDecorate(err, "Quality")
	}
	return bad, nil
}

//Rotate rotates all particles by the given angles (radians) around a
//point, the center of gravity when around is nil.
func (s *System) Rotate(around *Particle, thetaX, thetaY, thetaZ float64) {
	var cx, cy, cz float64
	if around != nil {
		cx, cy, cz = around.X, around.Y, around.Z
	} else {
		cog := s.CenterOfGravity()
		cx, cy, cz = cog[0], cog[1], cog[2]
	}
	r := RotationMatrix(thetaX, thetaY, thetaZ)
	var out mat.VecDense
	for _, p := range s.Particles.All() {
		v := mat.NewVecDense(3, []float64{p.X - cx, p.Y - cy, p.Z - cz})
		out.MulVec(r, v)
		p.X = out.AtVec(0) + cx
		p.Y = out.AtVec(1) + cy
		p.Z = out.AtVec(2) + cz
	}
}
