/*
 * forcefield.go, part of gosimm.
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
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//Forcefield is a library of parameter types, consulted by the bonded
//term synthesizer when a type is missing from the system itself. Types
//found here are copied into the system, the library is never mutated
//by resolution.
type Forcefield struct {
	Name  string
	Class string //"1" or "2"

	PairStyle     string
	BondStyle     string
	AngleStyle    string
	DihedralStyle string
	ImproperStyle string

	ParticleTypes *TypeStore[*ParticleType]
	BondTypes     *TypeStore[*BondType]
	AngleTypes    *TypeStore[*AngleType]
	DihedralTypes *TypeStore[*DihedralType]
	ImproperTypes *TypeStore[*ImproperType]
}

//NewForcefield returns an empty library with all tables ready.
func NewForcefield(name, class string) *Forcefield {
	return &Forcefield{
		Name:          name,
		Class:         class,
		ParticleTypes: NewTypeStore[*ParticleType](),
		BondTypes:     NewTypeStore[*BondType](),
		AngleTypes:    NewTypeStore[*AngleType](),
		DihedralTypes: NewTypeStore[*DihedralType](),
		ImproperTypes: NewTypeStore[*ImproperType](),
	}
}

//The YAML document layout for force-field files.
type ffDoc struct {
	Name          string           `yaml:"name"`
	Class         string           `yaml:"class"`
	PairStyle     string           `yaml:"pair_style"`
	BondStyle     string           `yaml:"bond_style"`
	AngleStyle    string           `yaml:"angle_style"`
	DihedralStyle string           `yaml:"dihedral_style"`
	ImproperStyle string           `yaml:"improper_style"`
	ParticleTypes []ffParticleType `yaml:"particle_types"`
	BondTypes     []ffBondType     `yaml:"bond_types"`
	AngleTypes    []ffAngleType    `yaml:"angle_types"`
	DihedralTypes []ffDihedralType `yaml:"dihedral_types"`
	ImproperTypes []ffImproperType `yaml:"improper_types"`
}

type ffParticleType struct {
	Name       string  `yaml:"name"`
	Elem       string  `yaml:"elem"`
	Mass       float64 `yaml:"mass"`
	Charge     float64 `yaml:"charge"`
	Epsilon    float64 `yaml:"epsilon"`
	Sigma      float64 `yaml:"sigma"`
	Epsilon14  float64 `yaml:"epsilon_14"`
	Sigma14    float64 `yaml:"sigma_14"`
	A          float64 `yaml:"a"`
	Rho        float64 `yaml:"rho"`
	C          float64 `yaml:"c"`
	EqBond     string  `yaml:"eq_bond"`
	EqAngle    string  `yaml:"eq_angle"`
	EqDihedral string  `yaml:"eq_dihedral"`
	EqImproper string  `yaml:"eq_improper"`
}

type ffBondType struct {
	Name string  `yaml:"name"`
	K    float64 `yaml:"k"`
	R0   float64 `yaml:"r0"`
	K2   float64 `yaml:"k2"`
	K3   float64 `yaml:"k3"`
	K4   float64 `yaml:"k4"`
}

type ffAngleType struct {
	Name   string  `yaml:"name"`
	K      float64 `yaml:"k"`
	Theta0 float64 `yaml:"theta0"`
	K2     float64 `yaml:"k2"`
	K3     float64 `yaml:"k3"`
	K4     float64 `yaml:"k4"`
	KUB    float64 `yaml:"k_ub"`
	RUB    float64 `yaml:"r_ub"`
	M      float64 `yaml:"m"`
	R1     float64 `yaml:"r1"`
	R2     float64 `yaml:"r2"`
	N1     float64 `yaml:"n1"`
	N2     float64 `yaml:"n2"`
}

type ffDihedralType struct {
	Name string    `yaml:"name"`
	K    float64   `yaml:"k"`
	D    int       `yaml:"d"`
	N    int       `yaml:"n"`
	M    int       `yaml:"m"`
	KS   []float64 `yaml:"ks"`
	NS   []int     `yaml:"ns"`
	DS   []float64 `yaml:"ds"`
	K1   float64   `yaml:"k1"`
	Phi1 float64   `yaml:"phi1"`
	K2   float64   `yaml:"k2"`
	Phi2 float64   `yaml:"phi2"`
	K3   float64   `yaml:"k3"`
	Phi3 float64   `yaml:"phi3"`
	//cross terms
	A1     float64 `yaml:"a1"`
	A2     float64 `yaml:"a2"`
	A3     float64 `yaml:"a3"`
	R2mid  float64 `yaml:"r2_mid"`
	B1     float64 `yaml:"b1"`
	B2     float64 `yaml:"b2"`
	B3     float64 `yaml:"b3"`
	C1     float64 `yaml:"c1"`
	C2     float64 `yaml:"c2"`
	C3     float64 `yaml:"c3"`
	R1     float64 `yaml:"r1"`
	R3     float64 `yaml:"r3"`
	D1     float64 `yaml:"d1"`
	D2     float64 `yaml:"d2"`
	D3     float64 `yaml:"d3"`
	E1     float64 `yaml:"e1"`
	E2     float64 `yaml:"e2"`
	E3     float64 `yaml:"e3"`
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	MAA    float64 `yaml:"m_aa"`
	NBB    float64 `yaml:"n_bb"`
}

type ffImproperType struct {
	Name   string  `yaml:"name"`
	K      float64 `yaml:"k"`
	X0     float64 `yaml:"x0"`
	D      int     `yaml:"d"`
	N      int     `yaml:"n"`
	M1     float64 `yaml:"m1"`
	M2     float64 `yaml:"m2"`
	M3     float64 `yaml:"m3"`
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	Theta3 float64 `yaml:"theta3"`
}

//ReadForcefield loads a force-field library from a YAML document.
func ReadForcefield(r io.Reader) (*Forcefield, error) {
	var doc ffDoc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errDecorate(err, "ReadForcefield")
	}
	f := NewForcefield(doc.Name, doc.Class)
	f.PairStyle = doc.PairStyle
	f.BondStyle = doc.BondStyle
	f.AngleStyle = doc.AngleStyle
	f.DihedralStyle = doc.DihedralStyle
	f.ImproperStyle = doc.ImproperStyle
	for _, t := range doc.ParticleTypes {
		f.ParticleTypes.Add(&ParticleType{
			Name: t.Name, Elem: t.Elem, Mass: t.Mass, Charge: t.Charge,
			Epsilon: t.Epsilon, Sigma: t.Sigma,
			Epsilon14: t.Epsilon14, Sigma14: t.Sigma14,
			A: t.A, Rho: t.Rho, C: t.C,
			EqBond: t.EqBond, EqAngle: t.EqAngle,
			EqDihedral: t.EqDihedral, EqImproper: t.EqImproper,
		})
	}
	for _, t := range doc.BondTypes {
		f.BondTypes.Add(&BondType{
			Name: t.Name, K: t.K, R0: t.R0, K2: t.K2, K3: t.K3, K4: t.K4,
		})
	}
	for _, t := range doc.AngleTypes {
		f.AngleTypes.Add(&AngleType{
			Name: t.Name, K: t.K, Theta0: t.Theta0,
			K2: t.K2, K3: t.K3, K4: t.K4, KUB: t.KUB, RUB: t.RUB,
			M: t.M, R1: t.R1, R2: t.R2, N1: t.N1, N2: t.N2,
		})
	}
	for _, t := range doc.DihedralTypes {
		f.DihedralTypes.Add(&DihedralType{
			Name: t.Name, K: t.K, D: t.D, N: t.N,
			M: t.M, KS: t.KS, NS: t.NS, DS: t.DS,
			K1: t.K1, Phi1: t.Phi1, K2: t.K2, Phi2: t.Phi2, K3: t.K3, Phi3: t.Phi3,
			A1: t.A1, A2: t.A2, A3: t.A3, R2mid: t.R2mid,
			B1: t.B1, B2: t.B2, B3: t.B3, C1: t.C1, C2: t.C2, C3: t.C3,
			R1: t.R1, R3: t.R3,
			D1: t.D1, D2: t.D2, D3: t.D3, E1: t.E1, E2: t.E2, E3: t.E3,
			Theta1: t.Theta1, Theta2: t.Theta2, MAA: t.MAA, NBB: t.NBB,
		})
	}
	for _, t := range doc.ImproperTypes {
		f.ImproperTypes.Add(&ImproperType{
			Name: t.Name, K: t.K, X0: t.X0, D: t.D, N: t.N,
			M1: t.M1, M2: t.M2, M3: t.M3,
			Theta1: t.Theta1, Theta2: t.Theta2, Theta3: t.Theta3,
		})
	}
	return f, nil
}

//ReadForcefieldFile loads a force-field library from a YAML file.
func ReadForcefieldFile(name string) (*Forcefield, error) {
	fh, err := os.Open(name)
	if err != nil {
		return nil, errDecorate(err, "ReadForcefieldFile")
	}
	defer fh.Close()
	f, err := ReadForcefield(fh)
	if err != nil {
		return nil, errDecorate(err, "ReadForcefieldFile "+name)
	}
	return f, nil
}
