/*
 * json.go, part of gosimm.
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
	"encoding/json"
	"io"
)

//ChemDoodle JSON wire format. Bond endpoints are zero-based particle
//indexes.
type jsonAtom struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Label  string  `json:"l,omitempty"`
	ID     string  `json:"i,omitempty"`
	Charge float64 `json:"c"`
}

type jsonBond struct {
	Begin int `json:"b"`
	End   int `json:"e"`
	Order int `json:"o,omitempty"`
}

type jsonMol struct {
	Atoms []jsonAtom `json:"a"`
	Bonds []jsonBond `json:"b"`
}

//WriteChemDoodleJSON writes particles and bonds in ChemDoodle JSON
//format.
func (s *System) WriteChemDoodleJSON(w io.Writer) error {
	mol := jsonMol{
		Atoms: make([]jsonAtom, 0, s.Particles.Count()),
		Bonds: make([]jsonBond, 0, s.Bonds.Count()),
	}
	for _, p := range s.Particles.All() {
		a := jsonAtom{X: p.X, Y: p.Y, Z: p.Z, Charge: p.Charge}
		if p.Type != nil {
			a.Label = p.Type.Elem
			a.ID = p.Type.Name
		}
		mol.Atoms = append(mol.Atoms, a)
	}
	for _, b := range s.Bonds.All() {
		mol.Bonds = append(mol.Bonds, jsonBond{
			Begin: b.A.Tag() - 1,
			End:   b.B.Tag() - 1,
			Order: b.Order,
		})
	}
	if err := json.NewEncoder(w).Encode(mol); err != nil {
		return errDecorate(err, "WriteChemDoodleJSON")
	}
	return nil
}

//ReadChemDoodleJSON builds a system from a ChemDoodle JSON stream.
//Atoms sharing a type name (or, lacking one, an element label) share
//a particle type.
func ReadChemDoodleJSON(r io.Reader) (*System, error) {
	var mol jsonMol
	if err := json.NewDecoder(r).Decode(&mol); err != nil {
		return nil, errDecorate(err, "ReadChemDoodleJSON")
	}
	s := NewSystem("")
	types := make(map[string]*ParticleType)
	for _, a := range mol.Atoms {
		key := a.ID
		if key == "" {
			key = a.Label
		}
		var pt *ParticleType
		if key != "" {
			var ok bool
			if pt, ok = types[key]; !ok {
				name := a.ID
				if name == "" {
					name = a.Label
				}
				pt = &ParticleType{Name: name, Elem: a.Label}
				if _, err := s.ParticleTypes.Add(pt); err != nil {
					return nil, errDecorate(err, "ReadChemDoodleJSON")
				}
				types[key] = pt
			}
		}
		p := &Particle{Type: pt, X: a.X, Y: a.Y, Z: a.Z, Charge: a.Charge}
		if err := s.AddParticle(p); err != nil {
			return nil, errDecorate(err, "ReadChemDoodleJSON")
		}
	}
	for i, b := range mol.Bonds {
		pa, oka := s.Particles.Get(b.Begin + 1)
		pb, okb := s.Particles.Get(b.End + 1)
		if !oka || !okb {
			return nil, newError("bond %d refers to a missing atom", i)
		}
		bond := &Bond{A: pa, B: pb, Order: b.Order}
		if _, err := s.Bonds.Add(bond); err != nil {
			return nil, errDecorate(err, "ReadChemDoodleJSON")
		}
		pa.addNeighbor(pb, bond)
		pb.addNeighbor(pa, bond)
	}
	return s, nil
}
