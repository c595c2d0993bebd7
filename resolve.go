/*
 * resolve.go, part of gosimm.
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

import "strings"

//Parameter-type resolution. A term's canonical name is built from the
//per-category equivalence names of its particles' types, joined by
//commas. The system's own tables are consulted first; on a miss the
//force-field library is searched too, wildcard entries included, and
//the most specific candidate (fewest wildcard tokens, ties broken by
//table order) is copy-imported into the system under a fresh tag.

//bondName builds the canonical bond name for two particles.
func bondName(a, b *Particle) string {
	return a.Type.BondName() + "," + b.Type.BondName()
}

func angleName(a, b, c *Particle) string {
	return strings.Join([]string{
		a.Type.AngleName(), b.Type.AngleName(), c.Type.AngleName(),
	}, ",")
}

func dihedralName(a, b, c, d *Particle) string {
	return strings.Join([]string{
		a.Type.DihedralName(), b.Type.DihedralName(),
		c.Type.DihedralName(), d.Type.DihedralName(),
	}, ",")
}

func improperName(a, b, c, d *Particle) string {
	return strings.Join([]string{
		a.Type.ImproperName(), b.Type.ImproperName(),
		c.Type.ImproperName(), d.Type.ImproperName(),
	}, ",")
}

//bondTypeFor resolves the bond type for a pair of particles. The
//system is searched for an exact name first; only on a miss are
//wildcard candidates from system and library gathered and ranked by
//specificity.
func (s *System) bondTypeFor(a, b *Particle, f *Forcefield) *BondType {
	name := bondName(a, b)
	if got := s.BondTypes.GetExact(name, false); len(got) > 0 {
		return got[0]
	}
	if f == nil {
		return nil
	}
	cand := s.BondTypes.GetName(name, Wildcard, false)
	cand = append(cand, f.BondTypes.GetName(name, Wildcard, false)...)
	if len(cand) == 0 {
		return nil
	}
	sortBySpecificity(cand)
	if got := s.BondTypes.GetExact(cand[0].Name, false); len(got) > 0 {
		return got[0]
	}
	bt := cand[0].Copy()
	s.BondTypes.Add(bt)
	return bt
}

//angleTypeFor resolves the angle type for a triplet. The system is
//searched for an exact name first; only on a miss are wildcard
//candidates from system and library gathered and ranked by
//specificity.
func (s *System) angleTypeFor(a, b, c *Particle, f *Forcefield) *AngleType {
	name := angleName(a, b, c)
	if got := s.AngleTypes.GetExact(name, false); len(got) > 0 {
		return got[0]
	}
	if f == nil {
		return nil
	}
	cand := s.AngleTypes.GetName(name, Wildcard, false)
	cand = append(cand, f.AngleTypes.GetName(name, Wildcard, false)...)
	if len(cand) == 0 {
		return nil
	}
	sortBySpecificity(cand)
	if got := s.AngleTypes.GetExact(cand[0].Name, false); len(got) > 0 {
		return got[0]
	}
	at := cand[0].Copy()
	s.AngleTypes.Add(at)
	return at
}

func (s *System) dihedralTypeFor(a, b, c, d *Particle, f *Forcefield) *DihedralType {
	name := dihedralName(a, b, c, d)
	if got := s.DihedralTypes.GetExact(name, false); len(got) > 0 {
		return got[0]
	}
	if f == nil {
		return nil
	}
	cand := s.DihedralTypes.GetName(name, Wildcard, false)
	cand = append(cand, f.DihedralTypes.GetName(name, Wildcard, false)...)
	if len(cand) == 0 {
		return nil
	}
	sortBySpecificity(cand)
	if got := s.DihedralTypes.GetExact(cand[0].Name, false); len(got) > 0 {
		return got[0]
	}
	dt := cand[0].Copy()
	s.DihedralTypes.Add(dt)
	return dt
}

func (s *System) improperTypeFor(a, b, c, d *Particle, f *Forcefield) *ImproperType {
	name := improperName(a, b, c, d)
	if got := s.ImproperTypes.GetExact(name, true); len(got) > 0 {
		return got[0]
	}
	if f == nil {
		return nil
	}
	cand := s.ImproperTypes.GetName(name, Wildcard, true)
	cand = append(cand, f.ImproperTypes.GetName(name, Wildcard, true)...)
	if len(cand) == 0 {
		return nil
	}
	sortBySpecificity(cand)
	if got := s.ImproperTypes.GetExact(cand[0].Name, true); len(got) > 0 {
		return got[0]
	}
	it := cand[0].Copy()
	s.ImproperTypes.Add(it)
	return it
}
