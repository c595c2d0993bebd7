/*
 * bonding.go, part of gosimm.
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
	"math/rand"
)

//AddBond bonds a to b, resolving the bond type against the system and
//then the optional force-field library. The particles' neighbor caches
//are updated. A self-bond or an unresolvable type is an error and
//leaves the system unchanged.
func (s *System) AddBond(a, b *Particle, f *Forcefield) error {
	if a == b {
		return newError("cannot bond particle %d to itself", a.Tag())
	}
	bt := s.bondTypeFor(a, b, f)
	if bt == nil {
		return newError("system does not contain bond type named %s "+
			"and no forcefield could supply it", bondName(a, b))
	}
	nb := &Bond{Type: bt, A: a, B: b}
	if _, err := s.Bonds.Add(nb); err != nil {
		return errDecorate(err, "AddBond")
	}
	a.addNeighbor(b, nb)
	b.addNeighbor(a, nb)
	return nil
}

//AddAngle adds the a-b-c angle, b the vertex. A degenerate triplet
//(a == c) is silently skipped; an unresolvable type is an error.
func (s *System) AddAngle(a, b, c *Particle, f *Forcefield) error {
	if a == c {
		return nil
	}
	at := s.angleTypeFor(a, b, c, f)
	if at == nil {
		return newError("system does not contain angle type named %s "+
			"and no forcefield could supply it", angleName(a, b, c))
	}
	s.Angles.Add(&Angle{Type: at, A: a, B: b, C: c})
	return nil
}

//AddDihedral adds the a-b-c-d torsion. Degenerate tuples (a == c or
//b == d) are silently skipped; an unresolvable type is an error.
func (s *System) AddDihedral(a, b, c, d *Particle, f *Forcefield) error {
	if a == c || b == d {
		return nil
	}
	dt := s.dihedralTypeFor(a, b, c, d, f)
	if dt == nil {
		return newError("system does not contain dihedral type named %s "+
			"and no forcefield could supply it (tags %d %d %d %d)",
			dihedralName(a, b, c, d), a.Tag(), b.Tag(), c.Tag(), d.Tag())
	}
	s.Dihedrals.Add(&Dihedral{Type: dt, A: a, B: b, C: c, D: d})
	return nil
}

//AddImproper adds an improper centered on a. Tuples repeating the
//center are skipped. A type miss is not an error: impropers are
//optional terms and most force fields define only a few.
func (s *System) AddImproper(a, b, c, d *Particle, f *Forcefield) error {
	if a == b || a == c || a == d {
		return nil
	}
	it := s.improperTypeFor(a, b, c, d, f)
	if it == nil {
		return nil
	}
	s.Impropers.Add(&Improper{Type: it, A: a, B: b, C: c, D: d})
	return nil
}

//AddParticleBondedTo adds p to the system bonded to p0 and fills in
//the angles and dihedrals the new bond creates. A particle without
//coordinates (see Placeless) is put on a random point of the sphere
//of radius sep around p0. p inherits p0's molecule when it carries
//none.
func (s *System) AddParticleBondedTo(p, p0 *Particle, f *Forcefield, sep float64) (*Particle, error) {
	if !p.Placed() {
		phi := rand.Float64() * 2 * math.Pi
		theta := math.Acos(rand.Float64()*2 - 1)
		p.X = p0.X + sep*math.Cos(theta)*math.Sin(phi)
		p.Y = p0.Y + sep*math.Sin(theta)*math.Sin(phi)
		p.Z = p0.Z + sep*math.Cos(phi)
	}
	if p.Molecule == nil {
		p.Molecule = p0.Molecule
	}
	if err := s.AddParticle(p); err != nil {
		return nil, errDecorate(err, "AddParticleBondedTo")
	}
	if len(p0.BondedTo) == 0 {
		s.AddParticleBonding()
	}
	if err := s.AddBond(p0, p, f); err != nil {
		return nil, errDecorate(err, "AddParticleBondedTo")
	}
	for _, q := range p0.BondedTo {
		if q == p {
			continue
		}
		if err := s.AddAngle(q, p0, p, f); err != nil {
			log.Println(err)
		}
		for _, qb := range q.BondedTo {
			if qb == p0 {
				continue
			}
			if err := s.AddDihedral(qb, q, p0, p, f); err != nil {
				log.Println(err)
			}
		}
	}
	return p, nil
}

//MakeNewBonds bonds p1 to p2 and completes the bonded-term
//neighborhood of the new bond: angles one bond out on both sides,
//dihedrals two bonds out in both directions plus the cross dihedral
//spanning the bond, and, for class 2 force fields, impropers centered
//on each end. Term-type misses are logged and skipped. When the
//particles belong to different molecules the smaller molecule is
//merged into the larger one.
func (s *System) MakeNewBonds(p1, p2 *Particle, f *Forcefield, angles, dihedrals, impropers bool) error {
	s.AddParticleBonding()

	if p1.Molecule != nil && p2.Molecule != nil && p1.Molecule != p2.Molecule {
		small, large := p1.Molecule, p2.Molecule
		if len(large.Particles) < len(small.Particles) {
			small, large = large, small
		}
		for _, q := range small.Particles {
			q.Molecule = large
			large.addParticle(q)
		}
		s.Molecules.Remove(small.Tag(), true)
	}

	if err := s.AddBond(p1, p2, f); err != nil {
		return errDecorate(err, "MakeNewBonds")
	}
	if angles || dihedrals {
		for _, q := range p1.BondedTo {
			if angles && q != p2 {
				if err := s.AddAngle(q, p1, p2, f); err != nil {
					log.Println(err)
				}
			}
			if dihedrals {
				for _, qb := range q.BondedTo {
					if qb != p1 && q != p2 {
						if err := s.AddDihedral(qb, q, p1, p2, f); err != nil {
							log.Println(err)
						}
					}
				}
			}
		}
		for _, q := range p2.BondedTo {
			if angles && q != p1 {
				if err := s.AddAngle(p1, p2, q, f); err != nil {
					log.Println(err)
				}
			}
			if dihedrals {
				for _, qb := range q.BondedTo {
					if qb != p2 && q != p1 {
						if err := s.AddDihedral(p1, p2, q, qb, f); err != nil {
							log.Println(err)
						}
					}
				}
			}
		}
		if dihedrals {
			for _, pb1 := range p1.BondedTo {
				for _, pb2 := range p2.BondedTo {
					if pb1 != p2 && pb2 != p1 {
						if err := s.AddDihedral(pb1, p1, p2, pb2, f); err != nil {
							log.Println(err)
						}
					}
				}
			}
		}
	}
	if impropers && s.FFClass == "2" {
		s.addNeighborImpropers(p1, f)
		s.addNeighborImpropers(p2, f)
	}
	return nil
}

//addNeighborImpropers adds an improper for every unordered triple of
//p's neighbors not already covered by an improper centered on p.
func (s *System) addNeighborImpropers(p *Particle, f *Forcefield) {
	nb := p.BondedTo
	for i := 0; i < len(nb); i++ {
		for j := i + 1; j < len(nb); j++ {
			for k := j + 1; k < len(nb); k++ {
				if s.hasImproperOn(p, nb[i], nb[j], nb[k]) {
					continue
				}
				s.AddImproper(p, nb[i], nb[j], nb[k], f)
			}
		}
	}
}

//hasImproperOn reports whether an improper centered on p already
//covers the unordered end set {a, b, c}.
func (s *System) hasImproperOn(p, a, b, c *Particle) bool {
	in := func(q *Particle, set [3]*Particle) bool {
		return q == set[0] || q == set[1] || q == set[2]
	}
	for _, im := range s.Impropers.All() {
		if im.A != p {
			continue
		}
		ends := [3]*Particle{a, b, c}
		if in(im.B, ends) && in(im.C, ends) && in(im.D, ends) {
			return true
		}
	}
	return false
}
