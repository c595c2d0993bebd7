/*
 * system.go, part of gosimm.
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
	"strings"

	"gonum.org/v1/gonum/floats"
)

//Avogadro's number, for density in g/cm3 from amu and A3.
const avogadro = 6.02e23

//System is a molecular system: particles grouped into molecules,
//bonded terms connecting them, the parameter types the terms refer to,
//and the periodic box containing it all.
type System struct {
	Name    string
	FFClass string //"1" or "2"
	Dim     *Dimension

	PairStyle     string
	BondStyle     string
	AngleStyle    string
	DihedralStyle string
	ImproperStyle string

	Particles *Store[*Particle]
	Bonds     *Store[*Bond]
	Angles    *Store[*Angle]
	Dihedrals *Store[*Dihedral]
	Impropers *Store[*Improper]
	Molecules *Store[*Molecule]

	ParticleTypes *TypeStore[*ParticleType]
	BondTypes     *TypeStore[*BondType]
	AngleTypes    *TypeStore[*AngleType]
	DihedralTypes *TypeStore[*DihedralType]
	ImproperTypes *TypeStore[*ImproperType]

	//WriteCoeffs controls whether coefficient sections are written by
	//the LAMMPS codec.
	WriteCoeffs bool
}

//NewSystem returns an empty System with all stores ready.
func NewSystem(name string) *System {
	return &System{
		Name:          name,
		Dim:           new(Dimension),
		Particles:     NewStore[*Particle](),
		Bonds:         NewStore[*Bond](),
		Angles:        NewStore[*Angle](),
		Dihedrals:     NewStore[*Dihedral](),
		Impropers:     NewStore[*Improper](),
		Molecules:     NewStore[*Molecule](),
		ParticleTypes: NewTypeStore[*ParticleType](),
		BondTypes:     NewTypeStore[*BondType](),
		AngleTypes:    NewTypeStore[*AngleType](),
		DihedralTypes: NewTypeStore[*DihedralType](),
		ImproperTypes: NewTypeStore[*ImproperType](),
		WriteCoeffs:   true,
	}
}

//AddParticle inserts p, registering its molecule too when the system
//does not know it yet.
func (s *System) AddParticle(p *Particle) error {
	if _, err := s.Particles.Add(p); err != nil {
		return errDecorate(err, "AddParticle")
	}
	if p.Molecule != nil {
		if _, ok := s.Molecules.Get(p.Molecule.Tag()); !ok {
			if _, err := s.Molecules.Add(p.Molecule); err != nil {
				return errDecorate(err, "AddParticle")
			}
		}
		p.Molecule.addParticle(p)
	}
	return nil
}

//RemoveParticle deletes the particle with the given tag together with
//every bonded term referring to it. Its molecule dies with its last
//particle. When renumber is true all stores are re-tagged densely
//afterwards.
func (s *System) RemoveParticle(tag int, renumber bool) {
	p, ok := s.Particles.Get(tag)
	if !ok {
		return
	}
	for _, b := range s.Bonds.All() {
		if b.Contains(p) {
			s.Bonds.Remove(b.Tag(), false)
		}
	}
	for _, a := range s.Angles.All() {
		if a.Contains(p) {
			s.Angles.Remove(a.Tag(), false)
		}
	}
	for _, d := range s.Dihedrals.All() {
		if d.Contains(p) {
			s.Dihedrals.Remove(d.Tag(), false)
		}
	}
	for _, im := range s.Impropers.All() {
		if im.Contains(p) {
			s.Impropers.Remove(im.Tag(), false)
		}
	}
	if p.Molecule != nil {
		p.Molecule.removeParticle(p)
		if len(p.Molecule.Particles) == 0 {
			s.Molecules.Remove(p.Molecule.Tag(), false)
		}
	}
	s.Particles.Remove(tag, false)
	if renumber {
		s.UpdateTags()
	}
}

//AddParticleBonding rebuilds the transient neighbor and bond caches of
//every particle from the bond store.
func (s *System) AddParticleBonding() {
	for _, p := range s.Particles.All() {
		p.BondedTo = nil
		p.BondsOf = nil
	}
	for _, b := range s.Bonds.All() {
		b.A.addNeighbor(b.B, b)
		b.B.addNeighbor(b.A, b)
	}
}

//RemoveSpareBonding drops bonded terms that refer to particles no
//longer in the system. When renumber is true all stores are re-tagged
//densely afterwards.
func (s *System) RemoveSpareBonding(renumber bool) {
	has := func(p *Particle) bool {
		q, ok := s.Particles.Get(p.Tag())
		return ok && q == p
	}
	for _, b := range s.Bonds.All() {
		if !has(b.A) || !has(b.B) {
			s.Bonds.Remove(b.Tag(), false)
		}
	}
	for _, a := range s.Angles.All() {
		if !has(a.A) || !has(a.B) || !has(a.C) {
			s.Angles.Remove(a.Tag(), false)
		}
	}
	for _, d := range s.Dihedrals.All() {
		if !has(d.A) || !has(d.B) || !has(d.C) || !has(d.D) {
			s.Dihedrals.Remove(d.Tag(), false)
		}
	}
	for _, im := range s.Impropers.All() {
		if !has(im.A) || !has(im.B) || !has(im.C) || !has(im.D) {
			s.Impropers.Remove(im.Tag(), false)
		}
	}
	if renumber {
		s.UpdateTags()
	}
}

//UpdateTags re-tags every store densely (1..count, iteration order
//preserved), removing the gaps left by deferred removals.
func (s *System) UpdateTags() {
	s.Particles.Renumber()
	s.ParticleTypes.Renumber()
	s.Bonds.Renumber()
	s.BondTypes.Renumber()
	s.Angles.Renumber()
	s.AngleTypes.Renumber()
	s.Dihedrals.Renumber()
	s.DihedralTypes.Renumber()
	s.Impropers.Renumber()
	s.ImproperTypes.Renumber()
}

//CheckItems verifies that every store's tag index is consistent with
//its iteration order. A failure means the topology is corrupted.
func (s *System) CheckItems() error {
	check := func(name string, got, want int) error {
		if got != want {
			return newError("%s missing: order holds %d items, index %d", name, want, got)
		}
		return nil
	}
	if err := check("particles", s.Particles.Count(), len(s.Particles.All())); err != nil {
		return err
	}
	if err := check("bonds", s.Bonds.Count(), len(s.Bonds.All())); err != nil {
		return err
	}
	if err := check("angles", s.Angles.Count(), len(s.Angles.All())); err != nil {
		return err
	}
	if err := check("dihedrals", s.Dihedrals.Count(), len(s.Dihedrals.All())); err != nil {
		return err
	}
	if err := check("impropers", s.Impropers.Count(), len(s.Impropers.All())); err != nil {
		return err
	}
	return check("molecules", s.Molecules.Count(), len(s.Molecules.All()))
}

//Add merges other into s. Types with names already present are
//consolidated onto the existing ones when uniqueTypes is true; particle
//and term tags are always reassigned. The box grows to contain the
//incoming particles. other must not be used afterwards.
func (s *System) Add(other *System, uniqueTypes bool) {
	for _, pt := range other.ParticleTypes.All() {
		if uniqueTypes && len(s.ParticleTypes.GetExact(pt.Name, false)) > 0 {
			continue
		}
		pt.setTag(0)
		s.ParticleTypes.Add(pt)
	}
	for _, bt := range other.BondTypes.All() {
		if uniqueTypes && len(s.BondTypes.GetExact(bt.Name, false)) > 0 {
			continue
		}
		bt.setTag(0)
		s.BondTypes.Add(bt)
	}
	for _, at := range other.AngleTypes.All() {
		if uniqueTypes && len(s.AngleTypes.GetExact(at.Name, false)) > 0 {
			continue
		}
		at.setTag(0)
		s.AngleTypes.Add(at)
	}
	for _, dt := range other.DihedralTypes.All() {
		if uniqueTypes && len(s.DihedralTypes.GetExact(dt.Name, false)) > 0 {
			continue
		}
		dt.setTag(0)
		s.DihedralTypes.Add(dt)
	}
	for _, it := range other.ImproperTypes.All() {
		if uniqueTypes && len(s.ImproperTypes.GetExact(it.Name, false)) > 0 {
			continue
		}
		it.setTag(0)
		s.ImproperTypes.Add(it)
	}
	for _, p := range other.Particles.All() {
		p.setTag(0)
		s.Dim.Xhi = math.Max(p.X, s.Dim.Xhi)
		s.Dim.Xlo = math.Min(p.X, s.Dim.Xlo)
		s.Dim.Yhi = math.Max(p.Y, s.Dim.Yhi)
		s.Dim.Ylo = math.Min(p.Y, s.Dim.Ylo)
		s.Dim.Zhi = math.Max(p.Z, s.Dim.Zhi)
		s.Dim.Zlo = math.Min(p.Z, s.Dim.Zlo)
		if uniqueTypes && p.Type != nil {
			if got := s.ParticleTypes.GetExact(p.Type.Name, false); len(got) == 1 {
				p.Type = got[0]
			} else {
				log.Printf("cannot consolidate particle type %s: %d candidates", p.Type.Name, len(got))
			}
		}
		s.Particles.Add(p)
	}
	for _, b := range other.Bonds.All() {
		b.setTag(0)
		if uniqueTypes && b.Type != nil {
			if got := s.BondTypes.GetExact(b.Type.Name, false); len(got) == 1 {
				b.Type = got[0]
			} else {
				log.Printf("cannot consolidate bond type %s: %d candidates", b.Type.Name, len(got))
			}
		}
		s.Bonds.Add(b)
	}
	for _, a := range other.Angles.All() {
		a.setTag(0)
		if uniqueTypes && a.Type != nil {
			if got := s.AngleTypes.GetExact(a.Type.Name, false); len(got) == 1 {
				a.Type = got[0]
			} else {
				log.Printf("cannot consolidate angle type %s: %d candidates", a.Type.Name, len(got))
			}
		}
		s.Angles.Add(a)
	}
	for _, d := range other.Dihedrals.All() {
		d.setTag(0)
		if uniqueTypes && d.Type != nil {
			got := s.DihedralTypes.GetExact(d.Type.Name, false)
			switch {
			case len(got) == 0:
				log.Printf("cannot consolidate dihedral type %s", d.Type.Name)
			case len(got) == 1:
				d.Type = got[0]
			default:
				//several candidates: take the most specific one
				sortBySpecificity(got)
				d.Type = got[0]
			}
		}
		s.Dihedrals.Add(d)
	}
	for _, im := range other.Impropers.All() {
		im.setTag(0)
		if uniqueTypes && im.Type != nil {
			if got := s.ImproperTypes.GetExact(im.Type.Name, false); len(got) > 0 {
				im.Type = got[0]
			} else {
				log.Printf("cannot consolidate improper type %s", im.Type.Name)
			}
		}
		s.Impropers.Add(im)
	}
	for _, m := range other.Molecules.All() {
		m.setTag(0)
		s.Molecules.Add(m)
	}
}

//ConsolidateTypes removes duplicate (same-named) parameter types and
//reassigns term references to the surviving one.
func (s *System) ConsolidateTypes() {
	//the first type seen under each name survives, later duplicates
	//hand their references to it and are removed
	ptKeep := make(map[string]*ParticleType)
	for _, pt := range s.ParticleTypes.All() {
		first, seen := ptKeep[pt.Name]
		if !seen {
			ptKeep[pt.Name] = pt
			continue
		}
		for _, p := range s.Particles.All() {
			if p.Type == pt {
				p.Type = first
			}
		}
		s.ParticleTypes.Remove(pt.Tag(), true)
	}
	btKeep := make(map[string]*BondType)
	for _, bt := range s.BondTypes.All() {
		first, seen := btKeep[bt.Name]
		if !seen {
			btKeep[bt.Name] = bt
			continue
		}
		for _, b := range s.Bonds.All() {
			if b.Type == bt {
				b.Type = first
			}
		}
		s.BondTypes.Remove(bt.Tag(), true)
	}
	atKeep := make(map[string]*AngleType)
	for _, at := range s.AngleTypes.All() {
		first, seen := atKeep[at.Name]
		if !seen {
			atKeep[at.Name] = at
			continue
		}
		for _, a := range s.Angles.All() {
			if a.Type == at {
				a.Type = first
			}
		}
		s.AngleTypes.Remove(at.Tag(), true)
	}
	dtKeep := make(map[string]*DihedralType)
	for _, dt := range s.DihedralTypes.All() {
		first, seen := dtKeep[dt.Name]
		if !seen {
			dtKeep[dt.Name] = dt
			continue
		}
		for _, d := range s.Dihedrals.All() {
			if d.Type == dt {
				d.Type = first
			}
		}
		s.DihedralTypes.Remove(dt.Tag(), true)
	}
	itKeep := make(map[string]*ImproperType)
	for _, it := range s.ImproperTypes.All() {
		first, seen := itKeep[it.Name]
		if !seen {
			itKeep[it.Name] = it
			continue
		}
		for _, im := range s.Impropers.All() {
			if im.Type == it {
				im.Type = first
			}
		}
		s.ImproperTypes.Remove(it.Tag(), true)
	}
}

//Copy returns a deep copy: fresh particles, terms, types and molecules
//with the same tags and the reference structure rebuilt among the
//copies.
func (s *System) Copy() *System {
	n := NewSystem(s.Name)
	n.FFClass = s.FFClass
	n.PairStyle = s.PairStyle
	n.BondStyle = s.BondStyle
	n.AngleStyle = s.AngleStyle
	n.DihedralStyle = s.DihedralStyle
	n.ImproperStyle = s.ImproperStyle
	n.WriteCoeffs = s.WriteCoeffs
	n.Dim = s.Dim.Copy()

	for _, m := range s.Molecules.All() {
		nm := &Molecule{tag: m.Tag()}
		n.Molecules.Add(nm)
	}
	for _, pt := range s.ParticleTypes.All() {
		c := pt.Copy()
		c.setTag(pt.Tag())
		n.ParticleTypes.Add(c)
	}
	for _, bt := range s.BondTypes.All() {
		c := bt.Copy()
		c.setTag(bt.Tag())
		n.BondTypes.Add(c)
	}
	for _, at := range s.AngleTypes.All() {
		c := at.Copy()
		c.setTag(at.Tag())
		n.AngleTypes.Add(c)
	}
	for _, dt := range s.DihedralTypes.All() {
		c := dt.Copy()
		c.setTag(dt.Tag())
		n.DihedralTypes.Add(c)
	}
	for _, it := range s.ImproperTypes.All() {
		c := it.Copy()
		c.setTag(it.Tag())
		n.ImproperTypes.Add(c)
	}
	for _, p := range s.Particles.All() {
		np := &Particle{
			tag: p.Tag(), X: p.X, Y: p.Y, Z: p.Z,
			Charge: p.Charge, Vx: p.Vx, Vy: p.Vy, Vz: p.Vz,
			Linker: p.Linker,
		}
		if p.Type != nil {
			np.Type, _ = n.ParticleTypes.Get(p.Type.Tag())
		}
		if p.Molecule != nil {
			np.Molecule, _ = n.Molecules.Get(p.Molecule.Tag())
			np.Molecule.addParticle(np)
		}
		n.Particles.Add(np)
	}
	particleOf := func(p *Particle) *Particle {
		np, _ := n.Particles.Get(p.Tag())
		return np
	}
	for _, b := range s.Bonds.All() {
		nb := &Bond{tag: b.Tag(), A: particleOf(b.A), B: particleOf(b.B), Order: b.Order}
		if b.Type != nil {
			nb.Type, _ = n.BondTypes.Get(b.Type.Tag())
		}
		n.Bonds.Add(nb)
	}
	for _, a := range s.Angles.All() {
		na := &Angle{tag: a.Tag(), A: particleOf(a.A), B: particleOf(a.B), C: particleOf(a.C)}
		if a.Type != nil {
			na.Type, _ = n.AngleTypes.Get(a.Type.Tag())
		}
		n.Angles.Add(na)
	}
	for _, d := range s.Dihedrals.All() {
		nd := &Dihedral{tag: d.Tag(), A: particleOf(d.A), B: particleOf(d.B), C: particleOf(d.C), D: particleOf(d.D)}
		if d.Type != nil {
			nd.Type, _ = n.DihedralTypes.Get(d.Type.Tag())
		}
		n.Dihedrals.Add(nd)
	}
	for _, im := range s.Impropers.All() {
		ni := &Improper{tag: im.Tag(), A: particleOf(im.A), B: particleOf(im.B), C: particleOf(im.C), D: particleOf(im.D)}
		if im.Type != nil {
			ni.Type, _ = n.ImproperTypes.Get(im.Type.Tag())
		}
		n.Impropers.Add(ni)
	}
	return n
}

//Mass returns the total particle mass in amu.
func (s *System) Mass() float64 {
	var mass float64
	for _, p := range s.Particles.All() {
		if p.Type == nil {
			log.Printf("some particles do not have a mass")
			return 0
		}
		mass += p.Type.Mass
	}
	return mass
}

//Volume returns the box volume in A^3, 0 for a degenerate box.
func (s *System) Volume() float64 {
	if !s.Dim.Valid() {
		return 0
	}
	return s.Dim.Volume()
}

//Density returns the system density in g/cm^3, 0 when mass or volume
//are unavailable.
func (s *System) Density() float64 {
	m, v := s.Mass(), s.Volume()
	if m == 0 || v == 0 {
		return 0
	}
	return m / avogadro / v * 1e24
}

//CenterOfGravity returns the unweighted geometric center of all
//particles.
func (s *System) CenterOfGravity() [3]float64 {
	var cog [3]float64
	n := s.Particles.Count()
	if n == 0 {
		return cog
	}
	for _, p := range s.Particles.All() {
		cog[0] += p.X
		cog[1] += p.Y
		cog[2] += p.Z
	}
	cog[0] /= float64(n)
	cog[1] /= float64(n)
	cog[2] /= float64(n)
	return cog
}

//TotalCharge returns the sum of particle charges.
func (s *System) TotalCharge() float64 {
	var q float64
	for _, p := range s.Particles.All() {
		q += p.Charge
	}
	return q
}

//ZeroCharge removes any net charge by subtracting the excess from the
//last particle.
func (s *System) ZeroCharge() {
	q := s.TotalCharge()
	if q == 0 {
		return
	}
	all := s.Particles.All()
	if len(all) == 0 {
		return
	}
	all[len(all)-1].Charge -= q
}

//TotalVelocity returns the summed particle velocities.
func (s *System) TotalVelocity() [3]float64 {
	var v [3]float64
	for _, p := range s.Particles.All() {
		v[0] += p.Vx
		v[1] += p.Vy
		v[2] += p.Vz
	}
	return v
}

//ZeroVelocity removes any net drift velocity.
func (s *System) ZeroVelocity() {
	n := s.Particles.Count()
	if n == 0 {
		return
	}
	v := s.TotalVelocity()
	sx, sy, sz := v[0]/float64(n), v[1]/float64(n), v[2]/float64(n)
	if sx == 0 && sy == 0 && sz == 0 {
		return
	}
	for _, p := range s.Particles.All() {
		p.Vx -= sx
		p.Vy -= sy
		p.Vz -= sz
	}
}

//MolecularWeights returns the number-average molecular weight Mn, the
//weight-average Mw and the dispersity Mw/Mn over the system's
//molecules.
func (s *System) MolecularWeights() (mn, mw, dispersity float64) {
	masses := make([]float64, 0, s.Molecules.Count())
	for _, m := range s.Molecules.All() {
		var mass float64
		for _, p := range m.Particles {
			if p.Type != nil {
				mass += p.Type.Mass
			}
		}
		masses = append(masses, mass)
	}
	if len(masses) == 0 {
		return 0, 0, 0
	}
	total := floats.Sum(masses)
	if total == 0 {
		return 0, 0, 0
	}
	mw = floats.Dot(masses, masses) / total
	mn = total / float64(len(masses))
	return mn, mw, mw / mn
}

//ShiftParticles translates all particles by the given vector.
func (s *System) ShiftParticles(dx, dy, dz float64) {
	for _, p := range s.Particles.All() {
		p.X += dx
		p.Y += dy
		p.Z += dz
	}
}

//Center moves the center of what ("particles" or "box") to at. With
//moveBoth the other entity is shifted by the same vector, keeping the
//relative arrangement.
func (s *System) Center(what string, at [3]float64, moveBoth bool) error {
	switch what {
	case "particles":
		cog := s.CenterOfGravity()
		dx, dy, dz := at[0]-cog[0], at[1]-cog[1], at[2]-cog[2]
		s.ShiftParticles(dx, dy, dz)
		if moveBoth {
			s.Dim.Translate(dx, dy, dz)
		}
	case "box":
		dx := at[0] - (s.Dim.Xlo + s.Dim.Dx()/2)
		dy := at[1] - (s.Dim.Ylo + s.Dim.Dy()/2)
		dz := at[2] - (s.Dim.Zlo + s.Dim.Dz()/2)
		s.Dim.Translate(dx, dy, dz)
		if moveBoth {
			s.ShiftParticles(dx, dy, dz)
		}
	default:
		return newError("can only center \"particles\" or \"box\", not %q", what)
	}
	return nil
}

//ShiftToOrigin moves box and particles together so that the box starts
//at the origin.
func (s *System) ShiftToOrigin() {
	xlo, ylo, zlo := s.Dim.Xlo, s.Dim.Ylo, s.Dim.Zlo
	s.ShiftParticles(-xlo, -ylo, -zlo)
	s.Dim.Translate(-xlo, -ylo, -zlo)
}

//SetBox rebuilds the box from particle extrema plus padding on every
//side, then centers the system at the origin when center is true.
func (s *System) SetBox(padding float64, center bool) {
	xmin, ymin, zmin := math.Inf(1), math.Inf(1), math.Inf(1)
	xmax, ymax, zmax := math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for _, p := range s.Particles.All() {
		xmin = math.Min(xmin, p.X)
		xmax = math.Max(xmax, p.X)
		ymin = math.Min(ymin, p.Y)
		ymax = math.Max(ymax, p.Y)
		zmin = math.Min(zmin, p.Z)
		zmax = math.Max(zmax, p.Z)
	}
	s.Dim.Xlo, s.Dim.Xhi = xmin-padding, xmax+padding
	s.Dim.Ylo, s.Dim.Yhi = ymin-padding, ymax+padding
	s.Dim.Zlo, s.Dim.Zhi = zmin-padding, zmax+padding
	if center {
		s.Center("particles", [3]float64{}, true)
	}
}

//MakeLinkerTypes gives every linker particle a duplicated type whose
//name carries an HL@ (head), TL@ (tail) or L@ prefix, so growth
//drivers can tell linkers apart by type.
func (s *System) MakeLinkerTypes() {
	for _, p := range s.Particles.All() {
		if p.Linker == "" || p.Type == nil {
			continue
		}
		var prefix string
		switch p.Linker {
		case "head":
			prefix = "HL@"
		case "tail":
			prefix = "TL@"
		default:
			prefix = "L@"
		}
		name := prefix + p.Type.Name
		if have := s.ParticleTypes.GetExact(name, false); len(have) > 0 {
			p.Type = have[0]
			continue
		}
		nt := p.Type.Copy()
		nt.Name = name
		s.ParticleTypes.Add(nt)
		p.Type = nt
	}
}

//RemoveLinkerTypes reassigns linker-typed particles back to their
//plain types, leaving the prefixed duplicates unreferenced.
func (s *System) RemoveLinkerTypes() {
	for _, p := range s.Particles.All() {
		if p.Type == nil || !strings.Contains(p.Type.Name, "@") {
			continue
		}
		base := p.Type.Name[strings.LastIndex(p.Type.Name, "@")+1:]
		if have := s.ParticleTypes.GetExact(base, false); len(have) > 0 {
			p.Type = have[0]
		} else {
			log.Printf("cannot find regular type for linker %s", p.Type.Name)
		}
	}
}
