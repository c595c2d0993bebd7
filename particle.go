/*
 * particle.go, part of gosimm.
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

import "math"

//Particle is one site in a System: a position, a partial charge,
//optionally velocities, a reference to its parameter type and the
//molecule it belongs to. BondedTo and BondsOf are transient adjacency
//caches rebuilt by System.AddParticleBonding; they are nil until then.
type Particle struct {
	tag      int
	Type     *ParticleType
	X, Y, Z  float64
	Charge   float64
	Vx       float64
	Vy       float64
	Vz       float64
	Molecule *Molecule
	Linker   string //"head", "tail" or "" when the particle is no linker
	BondedTo []*Particle
	BondsOf  []*Bond
}

func (p *Particle) Tag() int { return p.tag }
func (p *Particle) setTag(t int) { p.tag = t }

//Placeless returns a particle of the given type with NaN coordinates,
//marking it as not yet placed in space. A particle sitting at the
//exact origin is thus never mistaken for an unplaced one.
func Placeless(t *ParticleType) *Particle {
	return &Particle{Type: t, X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
}

//Placed reports whether the particle has coordinates assigned.
func (p *Particle) Placed() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z)
}

//Coords returns the particle position as a 3-array.
func (p *Particle) Coords() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

//IsBondedTo reports whether q is in p's neighbor cache.
func (p *Particle) IsBondedTo(q *Particle) bool {
	for _, n := range p.BondedTo {
		if n == q {
			return true
		}
	}
	return false
}

func (p *Particle) addNeighbor(q *Particle, b *Bond) {
	if !p.IsBondedTo(q) {
		p.BondedTo = append(p.BondedTo, q)
	}
	for _, have := range p.BondsOf {
		if have == b {
			return
		}
	}
	p.BondsOf = append(p.BondsOf, b)
}

//Bond connects two particles. Order is the chemical bond order when
//known (0 when not).
type Bond struct {
	tag   int
	Type  *BondType
	A, B  *Particle
	Order int
}

func (b *Bond) Tag() int { return b.tag }
func (b *Bond) setTag(t int) { b.tag = t }

//Contains reports whether p is one of the bond's ends.
func (b *Bond) Contains(p *Particle) bool {
	return b.A == p || b.B == p
}

//Other returns the end of the bond that is not p, or nil when p is not
//part of the bond.
func (b *Bond) Other(p *Particle) *Particle {
	switch p {
	case b.A:
		return b.B
	case b.B:
		return b.A
	}
	return nil
}

//Angle is a three-particle bonded term, B being the vertex.
type Angle struct {
	tag     int
	Type    *AngleType
	A, B, C *Particle
}

func (a *Angle) Tag() int { return a.tag }
func (a *Angle) setTag(t int) { a.tag = t }

//Contains reports whether p is one of the angle's particles.
func (a *Angle) Contains(p *Particle) bool {
	return a.A == p || a.B == p || a.C == p
}

//Dihedral is a four-particle torsion term around the B-C axis.
type Dihedral struct {
	tag        int
	Type       *DihedralType
	A, B, C, D *Particle
}

func (d *Dihedral) Tag() int { return d.tag }
func (d *Dihedral) setTag(t int) { d.tag = t }

func (d *Dihedral) Contains(p *Particle) bool {
	return d.A == p || d.B == p || d.C == p || d.D == p
}

//Improper is a four-particle out-of-plane term. A is the central
//particle; B, C and D are interchangeable ends.
type Improper struct {
	tag        int
	Type       *ImproperType
	A, B, C, D *Particle
}

func (im *Improper) Tag() int { return im.tag }
func (im *Improper) setTag(t int) { im.tag = t }

func (im *Improper) Contains(p *Particle) bool {
	return im.A == p || im.B == p || im.C == p || im.D == p
}

//Molecule is a weak grouping of particles. It exists as long as at
//least one particle refers to its tag.
type Molecule struct {
	tag       int
	Particles []*Particle
}

func (m *Molecule) Tag() int { return m.tag }
func (m *Molecule) setTag(t int) { m.tag = t }

func (m *Molecule) addParticle(p *Particle) {
	for _, have := range m.Particles {
		if have == p {
			return
		}
	}
	m.Particles = append(m.Particles, p)
}

func (m *Molecule) removeParticle(p *Particle) {
	for i, have := range m.Particles {
		if have == p {
			m.Particles = append(m.Particles[:i], m.Particles[i+1:]...)
			return
		}
	}
}
