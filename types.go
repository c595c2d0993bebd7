/*
 * types.go, part of gosimm.
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
	"fmt"
	"math"
	"strconv"
	"strings"
)

//reverseName turns "a,b,c,d" into "d,c,b,a".
func reverseName(name string) string {
	toks := strings.Split(name, ",")
	for i, j := 0, len(toks)-1; i < j; i, j = i+1, j-1 {
		toks[i], toks[j] = toks[j], toks[i]
	}
	return strings.Join(toks, ",")
}

//splitCoeffLine separates a coefficient line into whitespace fields and
//the canonical name hidden in its trailing "# ..." comment, if any.
//Comment tokens may be separated by commas or whitespace.
func splitCoeffLine(line string) ([]string, string) {
	var name string
	if i := strings.Index(line, "#"); i >= 0 {
		name = strings.Join(strings.FieldsFunc(strings.TrimSpace(line[i+1:]), func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		}), ",")
		line = line[:i]
	}
	return strings.Fields(line), name
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, newError("bad number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

//ParticleType holds per-species mass, charge and non-bonded
//coefficients, plus the per-family equivalence aliases consulted when
//bonded terms are typed.
type ParticleType struct {
	tag       int
	Name      string
	Elem      string
	Mass      float64
	Charge    float64
	Epsilon   float64
	Sigma     float64
	Epsilon14 float64
	Sigma14   float64
	A         float64 //buckingham
	Rho       float64
	C         float64
	//equivalence aliases; empty means "use Name"
	EqBond     string
	EqAngle    string
	EqDihedral string
	EqImproper string
}

func (pt *ParticleType) Tag() int { return pt.tag }
func (pt *ParticleType) setTag(t int) { pt.tag = t }
func (pt *ParticleType) TypeName() string { return pt.Name }
func (pt *ParticleType) ReverseName() string { return pt.Name }

//BondName returns the name used when this type takes part in a bond.
func (pt *ParticleType) BondName() string {
	if pt.EqBond != "" {
		return pt.EqBond
	}
	return pt.Name
}

func (pt *ParticleType) AngleName() string {
	if pt.EqAngle != "" {
		return pt.EqAngle
	}
	return pt.Name
}

func (pt *ParticleType) DihedralName() string {
	if pt.EqDihedral != "" {
		return pt.EqDihedral
	}
	return pt.Name
}

func (pt *ParticleType) ImproperName() string {
	if pt.EqImproper != "" {
		return pt.EqImproper
	}
	return pt.Name
}

//Copy returns an untagged clone.
func (pt *ParticleType) Copy() *ParticleType {
	c := *pt
	c.tag = 0
	return &c
}

//guessPairStyle maps the number of coefficients of the first Pair
//Coeffs record to a pair style.
func guessPairStyle(nparam int) (string, error) {
	switch nparam {
	case 2:
		return "lj", nil
	case 3:
		return "buck", nil
	case 4:
		return "charmm", nil
	}
	return "", newError("cannot guess pair style from %d coefficients", nparam)
}

//parseParticleType reads one Masses or Pair Coeffs record. style "mass"
//covers the Masses section.
func parseParticleType(line, style string) (*ParticleType, error) {
	fields, name := splitCoeffLine(line)
	if len(fields) < 1 {
		return nil, newError("empty coefficient line")
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, newError("bad type tag %q", fields[0])
	}
	data, err := parseFloats(fields[1:])
	if err != nil {
		return nil, err
	}
	pt := &ParticleType{tag: tag, Name: name}
	switch {
	case style == "mass":
		if len(data) != 1 {
			return nil, newError("mass line needs 1 coefficient, got %d", len(data))
		}
		pt.Mass = data[0]
	case strings.HasPrefix(style, "lj") || strings.HasPrefix(style, "class2"):
		if len(data) != 2 {
			return nil, newError("%s pair line needs 2 coefficients, got %d", style, len(data))
		}
		pt.Epsilon, pt.Sigma = data[0], data[1]
	case strings.HasPrefix(style, "charmm"):
		switch len(data) {
		case 2:
			pt.Epsilon, pt.Sigma = data[0], data[1]
			pt.Epsilon14, pt.Sigma14 = data[0], data[1]
		case 4:
			pt.Epsilon, pt.Sigma = data[0], data[1]
			pt.Epsilon14, pt.Sigma14 = data[2], data[3]
		default:
			return nil, newError("charmm pair line needs 2 or 4 coefficients, got %d", len(data))
		}
	case strings.HasPrefix(style, "buck"):
		if len(data) != 3 {
			return nil, newError("buckingham pair line needs 3 coefficients, got %d", len(data))
		}
		pt.A, pt.Rho, pt.C = data[0], data[1], data[2]
	default:
		return nil, newError("pair style %s not supported", style)
	}
	return pt, nil
}

func (pt *ParticleType) writeLAMMPS(style string) (string, error) {
	switch {
	case style == "mass":
		return fmt.Sprintf("%4d\t%v\t# %s\n", pt.tag, pt.Mass, pt.Name), nil
	case strings.HasPrefix(style, "lj") || strings.HasPrefix(style, "class2"):
		return fmt.Sprintf("%4d\t%v\t%v\t# %s\n", pt.tag, pt.Epsilon, pt.Sigma, pt.Name), nil
	case strings.HasPrefix(style, "charmm"):
		e14, s14 := pt.Epsilon14, pt.Sigma14
		if e14 == 0 && s14 == 0 {
			e14, s14 = pt.Epsilon, pt.Sigma
		}
		return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t# %s\n",
			pt.tag, pt.Epsilon, pt.Sigma, e14, s14, pt.Name), nil
	case strings.HasPrefix(style, "buck"):
		return fmt.Sprintf("%4d\t%v\t%v\t%v\t# %s\n", pt.tag, pt.A, pt.Rho, pt.C, pt.Name), nil
	}
	return "", newError("cannot understand pair style %s", style)
}

//PairEnergy evaluates the non-bonded potential at distance d for the
//given style (lj_12-6, lj_9-6, buck).
func (pt *ParticleType) PairEnergy(style string, d float64) float64 {
	switch {
	case style == "lj_9-6":
		sr := pt.Sigma / d
		return pt.Epsilon * (2*math.Pow(sr, 9) - 3*math.Pow(sr, 6))
	case strings.HasPrefix(style, "buck"):
		return pt.A*math.Exp(-d/pt.Rho) - pt.C/math.Pow(d, 6)
	default: //lj_12-6
		sr6 := math.Pow(pt.Sigma/d, 6)
		return 4 * pt.Epsilon * (sr6*sr6 - sr6)
	}
}

//BondType holds two-body coefficients. For harmonic bonds K and R0 are
//set; class2 bonds use R0 with K2..K4.
type BondType struct {
	tag  int
	Name string
	K    float64
	R0   float64
	K2   float64
	K3   float64
	K4   float64
}

func (bt *BondType) Tag() int { return bt.tag }
func (bt *BondType) setTag(t int) { bt.tag = t }
func (bt *BondType) TypeName() string { return bt.Name }
func (bt *BondType) ReverseName() string { return reverseName(bt.Name) }

func (bt *BondType) Copy() *BondType {
	c := *bt
	c.tag = 0
	return &c
}

func guessBondStyle(nparam int) (string, error) {
	switch nparam {
	case 2:
		return "harmonic", nil
	case 4:
		return "class2", nil
	}
	return "", newError("cannot guess bond style from %d coefficients", nparam)
}

func parseBondType(line, style string) (*BondType, error) {
	fields, name := splitCoeffLine(line)
	if len(fields) < 1 {
		return nil, newError("empty coefficient line")
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, newError("bad type tag %q", fields[0])
	}
	data, err := parseFloats(fields[1:])
	if err != nil {
		return nil, err
	}
	bt := &BondType{tag: tag, Name: name}
	switch {
	case strings.HasPrefix(style, "harm"):
		if len(data) != 2 {
			return nil, newError("harmonic bond line needs 2 coefficients, got %d", len(data))
		}
		bt.K, bt.R0 = data[0], data[1]
	case strings.HasPrefix(style, "class2"):
		if len(data) != 4 {
			return nil, newError("class2 bond line needs 4 coefficients, got %d", len(data))
		}
		bt.R0, bt.K2, bt.K3, bt.K4 = data[0], data[1], data[2], data[3]
	default:
		return nil, newError("bond style %s not supported", style)
	}
	return bt, nil
}

func (bt *BondType) writeLAMMPS(style string) (string, error) {
	switch {
	case strings.HasPrefix(style, "harm"):
		return fmt.Sprintf("%4d\t%v\t%v\t# %s\n", bt.tag, bt.K, bt.R0, bt.Name), nil
	case strings.HasPrefix(style, "class2"):
		return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t# %s\n",
			bt.tag, bt.R0, bt.K2, bt.K3, bt.K4, bt.Name), nil
	}
	return "", newError("cannot understand bond style %s", style)
}

//Energy evaluates the bond potential at distance d.
func (bt *BondType) Energy(style string, d float64) float64 {
	dr := d - bt.R0
	if strings.HasPrefix(style, "class2") {
		return bt.K2*dr*dr + bt.K3*dr*dr*dr + bt.K4*dr*dr*dr*dr
	}
	return bt.K * dr * dr
}

//AngleType holds three-body coefficients plus the class2 BondBond and
//BondAngle cross terms written in their own sections.
type AngleType struct {
	tag    int
	Name   string
	K      float64
	Theta0 float64
	K2     float64
	K3     float64
	K4     float64
	KUB    float64 //charmm Urey-Bradley
	RUB    float64
	//class2 BondBond
	M  float64
	R1 float64
	R2 float64
	//class2 BondAngle
	N1 float64
	N2 float64
}

func (at *AngleType) Tag() int { return at.tag }
func (at *AngleType) setTag(t int) { at.tag = t }
func (at *AngleType) TypeName() string { return at.Name }
func (at *AngleType) ReverseName() string { return reverseName(at.Name) }

func (at *AngleType) Copy() *AngleType {
	c := *at
	c.tag = 0
	return &c
}

func guessAngleStyle(nparam int) (string, error) {
	switch nparam {
	case 2:
		return "harmonic", nil
	case 4:
		return "class2", nil
	}
	return "", newError("cannot guess angle style from %d coefficients", nparam)
}

func parseAngleType(line, style string) (*AngleType, error) {
	fields, name := splitCoeffLine(line)
	if len(fields) < 1 {
		return nil, newError("empty coefficient line")
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, newError("bad type tag %q", fields[0])
	}
	data, err := parseFloats(fields[1:])
	if err != nil {
		return nil, err
	}
	at := &AngleType{tag: tag, Name: name}
	switch {
	case strings.HasPrefix(style, "harm"):
		if len(data) != 2 {
			return nil, newError("harmonic angle line needs 2 coefficients, got %d", len(data))
		}
		at.K, at.Theta0 = data[0], data[1]
	case strings.HasPrefix(style, "class2"):
		if len(data) != 4 {
			return nil, newError("class2 angle line needs 4 coefficients, got %d", len(data))
		}
		at.Theta0, at.K2, at.K3, at.K4 = data[0], data[1], data[2], data[3]
	case strings.HasPrefix(style, "charmm"):
		if len(data) != 4 {
			return nil, newError("charmm angle line needs 4 coefficients, got %d", len(data))
		}
		at.K, at.Theta0, at.KUB, at.RUB = data[0], data[1], data[2], data[3]
	default:
		return nil, newError("angle style %s not supported", style)
	}
	return at, nil
}

//parseAngleCross reads a BondBond or BondAngle record into an already
//known class2 angle type.
func (at *AngleType) parseCross(line, term string) error {
	fields, _ := splitCoeffLine(line)
	if len(fields) < 1 {
		return newError("empty coefficient line")
	}
	data, err := parseFloats(fields[1:])
	if err != nil {
		return err
	}
	switch term {
	case "BondBond":
		if len(data) != 3 {
			return newError("BondBond line needs 3 coefficients, got %d", len(data))
		}
		at.M, at.R1, at.R2 = data[0], data[1], data[2]
	case "BondAngle":
		if len(data) != 4 {
			return newError("BondAngle line needs 4 coefficients, got %d", len(data))
		}
		at.N1, at.N2, at.R1, at.R2 = data[0], data[1], data[2], data[3]
	default:
		return newError("unknown angle cross term %s", term)
	}
	return nil
}

func (at *AngleType) writeLAMMPS(style, crossTerm string) (string, error) {
	switch {
	case strings.HasPrefix(style, "harm"):
		return fmt.Sprintf("%4d\t%v\t%v\t# %s\n", at.tag, at.K, at.Theta0, at.Name), nil
	case strings.HasPrefix(style, "class2"):
		switch crossTerm {
		case "":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t# %s\n",
				at.tag, at.Theta0, at.K2, at.K3, at.K4, at.Name), nil
		case "BondBond":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t# %s\n",
				at.tag, at.M, at.R1, at.R2, at.Name), nil
		case "BondAngle":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t# %s\n",
				at.tag, at.N1, at.N2, at.R1, at.R2, at.Name), nil
		}
		return "", newError("unknown angle cross term %s", crossTerm)
	case strings.HasPrefix(style, "charmm"):
		return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t# %s\n",
			at.tag, at.K, at.Theta0, at.KUB, at.RUB, at.Name), nil
	}
	return "", newError("cannot understand angle style %s", style)
}

//Energy evaluates the angle-bend potential at theta degrees.
func (at *AngleType) Energy(style string, theta float64) float64 {
	dt := theta - at.Theta0
	if strings.HasPrefix(style, "class2") {
		return at.K2*dt*dt + at.K3*dt*dt*dt + at.K4*dt*dt*dt*dt
	}
	return at.K * dt * dt
}

//DihedralType holds torsion coefficients. Harmonic uses K/D/N, fourier
//uses the M-long KS/NS/DS series, class2 uses K1..K3/Phi1..Phi3 plus
//the five cross-term coefficient groups written in their own sections.
type DihedralType struct {
	tag  int
	Name string
	K    float64
	D    int
	N    int
	//fourier
	M  int
	KS []float64
	NS []int
	DS []float64
	//class2
	K1, Phi1 float64
	K2, Phi2 float64
	K3, Phi3 float64
	//class2 MiddleBondTorsion
	A1, A2, A3 float64
	R2mid      float64
	//class2 EndBondTorsion
	B1, B2, B3 float64
	C1, C2, C3 float64
	R1, R3     float64
	//class2 AngleTorsion
	D1, D2, D3     float64
	E1, E2, E3     float64
	Theta1, Theta2 float64
	//class2 AngleAngleTorsion
	MAA float64
	//class2 BondBond13
	NBB float64
}

func (dt *DihedralType) Tag() int { return dt.tag }
func (dt *DihedralType) setTag(t int) { dt.tag = t }
func (dt *DihedralType) TypeName() string { return dt.Name }
func (dt *DihedralType) ReverseName() string { return reverseName(dt.Name) }

func (dt *DihedralType) Copy() *DihedralType {
	c := *dt
	c.tag = 0
	c.KS = append([]float64(nil), dt.KS...)
	c.NS = append([]int(nil), dt.NS...)
	c.DS = append([]float64(nil), dt.DS...)
	return &c
}

func guessDihedralStyle(nparam int) (string, error) {
	switch {
	case nparam == 3:
		return "harmonic", nil
	case nparam%3 == 1:
		return "fourier", nil
	case nparam == 6:
		return "class2", nil
	}
	return "", newError("cannot guess dihedral style from %d coefficients", nparam)
}

func parseDihedralType(line, style string) (*DihedralType, error) {
	fields, name := splitCoeffLine(line)
	if len(fields) < 1 {
		return nil, newError("empty coefficient line")
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, newError("bad type tag %q", fields[0])
	}
	data, err := parseFloats(fields[1:])
	if err != nil {
		return nil, err
	}
	dt := &DihedralType{tag: tag, Name: name}
	switch {
	case strings.HasPrefix(style, "harm"):
		if len(data) != 3 {
			return nil, newError("harmonic dihedral line needs 3 coefficients, got %d", len(data))
		}
		dt.K, dt.D, dt.N = data[0], int(data[1]), int(data[2])
	case strings.HasPrefix(style, "fourier"):
		if len(data)%3 != 1 {
			return nil, newError("fourier dihedral line needs 3m+1 coefficients, got %d", len(data))
		}
		dt.M = int(data[0])
		for i := 0; i < dt.M; i++ {
			dt.KS = append(dt.KS, data[1+3*i])
			dt.NS = append(dt.NS, int(data[2+3*i]))
			dt.DS = append(dt.DS, data[3+3*i])
		}
	case strings.HasPrefix(style, "class2"):
		if len(data) != 6 {
			return nil, newError("class2 dihedral line needs 6 coefficients, got %d", len(data))
		}
		dt.K1, dt.Phi1 = data[0], data[1]
		dt.K2, dt.Phi2 = data[2], data[3]
		dt.K3, dt.Phi3 = data[4], data[5]
	default:
		return nil, newError("dihedral style %s not supported", style)
	}
	return dt, nil
}

func (dt *DihedralType) parseCross(line, term string) error {
	fields, _ := splitCoeffLine(line)
	if len(fields) < 1 {
		return newError("empty coefficient line")
	}
	data, err := parseFloats(fields[1:])
	if err != nil {
		return err
	}
	bad := func(n int) error {
		return newError("%s line needs %d coefficients, got %d", term, n, len(data))
	}
	switch term {
	case "MiddleBondTorsion":
		if len(data) != 4 {
			return bad(4)
		}
		dt.A1, dt.A2, dt.A3, dt.R2mid = data[0], data[1], data[2], data[3]
	case "EndBondTorsion":
		if len(data) != 8 {
			return bad(8)
		}
		dt.B1, dt.B2, dt.B3 = data[0], data[1], data[2]
		dt.C1, dt.C2, dt.C3 = data[3], data[4], data[5]
		dt.R1, dt.R3 = data[6], data[7]
	case "AngleTorsion":
		if len(data) != 8 {
			return bad(8)
		}
		dt.D1, dt.D2, dt.D3 = data[0], data[1], data[2]
		dt.E1, dt.E2, dt.E3 = data[3], data[4], data[5]
		dt.Theta1, dt.Theta2 = data[6], data[7]
	case "AngleAngleTorsion":
		if len(data) != 3 {
			return bad(3)
		}
		dt.MAA, dt.Theta1, dt.Theta2 = data[0], data[1], data[2]
	case "BondBond13":
		if len(data) != 3 {
			return bad(3)
		}
		dt.NBB, dt.R1, dt.R3 = data[0], data[1], data[2]
	default:
		return newError("unknown dihedral cross term %s", term)
	}
	return nil
}

func (dt *DihedralType) writeLAMMPS(style, crossTerm string) (string, error) {
	switch {
	case strings.HasPrefix(style, "harm"):
		return fmt.Sprintf("%4d\t%f\t%d\t%d\t# %s\n", dt.tag, dt.K, dt.D, dt.N, dt.Name), nil
	case strings.HasPrefix(style, "fourier"):
		var b strings.Builder
		fmt.Fprintf(&b, "%4d\t%d", dt.tag, dt.M)
		for i := 0; i < dt.M; i++ {
			fmt.Fprintf(&b, "\t%v\t%d\t%v", dt.KS[i], dt.NS[i], dt.DS[i])
		}
		fmt.Fprintf(&b, "\t# %s\n", dt.Name)
		return b.String(), nil
	case strings.HasPrefix(style, "class2"):
		switch crossTerm {
		case "":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t%v\t%v\t# %s\n",
				dt.tag, dt.K1, dt.Phi1, dt.K2, dt.Phi2, dt.K3, dt.Phi3, dt.Name), nil
		case "MiddleBondTorsion":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t# %s\n",
				dt.tag, dt.A1, dt.A2, dt.A3, dt.R2mid, dt.Name), nil
		case "EndBondTorsion":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t# %s\n",
				dt.tag, dt.B1, dt.B2, dt.B3, dt.C1, dt.C2, dt.C3, dt.R1, dt.R3, dt.Name), nil
		case "AngleTorsion":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t%v\t# %s\n",
				dt.tag, dt.D1, dt.D2, dt.D3, dt.E1, dt.E2, dt.E3, dt.Theta1, dt.Theta2, dt.Name), nil
		case "AngleAngleTorsion":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t# %s\n",
				dt.tag, dt.MAA, dt.Theta1, dt.Theta2, dt.Name), nil
		case "BondBond13":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t# %s\n",
				dt.tag, dt.NBB, dt.R1, dt.R3, dt.Name), nil
		}
		return "", newError("unknown dihedral cross term %s", crossTerm)
	}
	return "", newError("cannot understand dihedral style %s", style)
}

//Energy evaluates the torsion potential at phi degrees.
func (dt *DihedralType) Energy(style string, phi float64) float64 {
	rad := phi * math.Pi / 180
	switch {
	case strings.HasPrefix(style, "fourier"):
		var e float64
		for i := 0; i < dt.M; i++ {
			e += dt.KS[i] * (1 + math.Cos(float64(dt.NS[i])*rad-dt.DS[i]*math.Pi/180))
		}
		return e
	case strings.HasPrefix(style, "class2"):
		return dt.K1*(1-math.Cos(rad-dt.Phi1*math.Pi/180)) +
			dt.K2*(1-math.Cos(2*rad-dt.Phi2*math.Pi/180)) +
			dt.K3*(1-math.Cos(3*rad-dt.Phi3*math.Pi/180))
	default:
		return dt.K * (1 + float64(dt.D)*math.Cos(float64(dt.N)*rad))
	}
}

//ImproperType holds out-of-plane coefficients plus the class2
//AngleAngle cross term.
type ImproperType struct {
	tag  int
	Name string
	K    float64
	X0   float64
	D    int
	N    int
	//class2 AngleAngle
	M1, M2, M3             float64
	Theta1, Theta2, Theta3 float64
}

func (it *ImproperType) Tag() int { return it.tag }
func (it *ImproperType) setTag(t int) { it.tag = t }
func (it *ImproperType) TypeName() string { return it.Name }
func (it *ImproperType) ReverseName() string { return reverseName(it.Name) }

func (it *ImproperType) Copy() *ImproperType {
	c := *it
	c.tag = 0
	return &c
}

func guessImproperStyle(nparam int) (string, error) {
	switch nparam {
	case 2:
		return "harmonic", nil
	case 3:
		return "cvff", nil
	}
	return "", newError("cannot guess improper style from %d coefficients", nparam)
}

func parseImproperType(line, style string) (*ImproperType, error) {
	fields, name := splitCoeffLine(line)
	if len(fields) < 1 {
		return nil, newError("empty coefficient line")
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, newError("bad type tag %q", fields[0])
	}
	data, err := parseFloats(fields[1:])
	if err != nil {
		return nil, err
	}
	it := &ImproperType{tag: tag, Name: name}
	switch {
	case strings.HasPrefix(style, "harm") || strings.HasPrefix(style, "class2") ||
		strings.HasPrefix(style, "umbrella"):
		if len(data) != 2 {
			return nil, newError("%s improper line needs 2 coefficients, got %d", style, len(data))
		}
		it.K, it.X0 = data[0], data[1]
	case strings.HasPrefix(style, "cvff"):
		if len(data) != 3 {
			return nil, newError("cvff improper line needs 3 coefficients, got %d", len(data))
		}
		it.K, it.D, it.N = data[0], int(data[1]), int(data[2])
	default:
		return nil, newError("improper style %s not supported", style)
	}
	return it, nil
}

func (it *ImproperType) parseCross(line, term string) error {
	fields, _ := splitCoeffLine(line)
	if len(fields) < 1 {
		return newError("empty coefficient line")
	}
	data, err := parseFloats(fields[1:])
	if err != nil {
		return err
	}
	if term != "AngleAngle" {
		return newError("unknown improper cross term %s", term)
	}
	if len(data) != 6 {
		return newError("AngleAngle line needs 6 coefficients, got %d", len(data))
	}
	it.M1, it.M2, it.M3 = data[0], data[1], data[2]
	it.Theta1, it.Theta2, it.Theta3 = data[3], data[4], data[5]
	return nil
}

func (it *ImproperType) writeLAMMPS(style, crossTerm string) (string, error) {
	switch {
	case strings.HasPrefix(style, "harm") || strings.HasPrefix(style, "umbrella"):
		return fmt.Sprintf("%4d\t%v\t%v\t# %s\n", it.tag, it.K, it.X0, it.Name), nil
	case strings.HasPrefix(style, "cvff"):
		return fmt.Sprintf("%4d\t%v\t%d\t%d\t# %s\n", it.tag, it.K, it.D, it.N, it.Name), nil
	case strings.HasPrefix(style, "class2"):
		switch crossTerm {
		case "":
			return fmt.Sprintf("%4d\t%v\t%v\t# %s\n", it.tag, it.K, it.X0, it.Name), nil
		case "AngleAngle":
			return fmt.Sprintf("%4d\t%v\t%v\t%v\t%v\t%v\t%v\t# %s\n",
				it.tag, it.M1, it.M2, it.M3, it.Theta1, it.Theta2, it.Theta3, it.Name), nil
		}
		return "", newError("unknown improper cross term %s", crossTerm)
	}
	return "", newError("cannot understand improper style %s", style)
}

//Energy evaluates the out-of-plane potential at x degrees.
func (it *ImproperType) Energy(style string, x float64) float64 {
	if strings.HasPrefix(style, "cvff") {
		return it.K * (1 + float64(it.D)*math.Cos(float64(it.N)*x*math.Pi/180))
	}
	dx := x - it.X0
	return it.K * dx * dx
}
