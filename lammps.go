/*
 * lammps.go, part of gosimm.
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
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//ParseError is returned on structurally broken data files. It carries
//the file name (empty when reading from a stream) and the offending
//line number.
type ParseError struct {
	msg  string
	File string
	Line int
	deco []string
}

func (err *ParseError) Error() string {
	where := err.File
	if where == "" {
		where = "data"
	}
	return fmt.Sprintf("%s:%d: %s", where, err.Line, err.msg)
}

func (err *ParseError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//ReadOptions override what the LAMMPS reader would otherwise detect.
//Empty fields are auto-detected from the file.
type ReadOptions struct {
	Name          string
	AtomStyle     string
	PairStyle     string
	BondStyle     string
	AngleStyle    string
	DihedralStyle string
	ImproperStyle string
}

//dataScanner walks a data file line by line keeping position for error
//reports.
type dataScanner struct {
	sc   *bufio.Scanner
	file string
	line int
}

func newDataScanner(r io.Reader, file string) *dataScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	return &dataScanner{sc: sc, file: file}
}

func (d *dataScanner) next() (string, bool) {
	if !d.sc.Scan() {
		return "", false
	}
	d.line++
	return d.sc.Text(), true
}

func (d *dataScanner) errAt(format string, a ...interface{}) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, a...), File: d.file, Line: d.line}
}

//wrap an error from a coefficient parser with position info.
func (d *dataScanner) wrapAt(err error) *ParseError {
	return &ParseError{msg: err.Error(), File: d.file, Line: d.line}
}

//compressed IO. The format is picked from the file name extension, so
//"data.lmps.zst" and "data.lmps.gz" round-trip transparently.

type zstdReadCloser struct {
	io.Reader
	dec *zstd.Decoder
	f   *os.File
}

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.f.Close()
}

type wrappedWriteCloser struct {
	io.Writer
	inner io.Closer
	f     *os.File
}

func (w *wrappedWriteCloser) Close() error {
	if err := w.inner.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

func openData(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(name, ".zst") || strings.HasSuffix(name, ".zstd"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &zstdReadCloser{Reader: dec, dec: dec, f: f}, nil
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &wrappedReadCloser{Reader: gz, inner: gz, f: f}, nil
	}
	return f, nil
}

type wrappedReadCloser struct {
	io.Reader
	inner io.Closer
	f     *os.File
}

func (w *wrappedReadCloser) Close() error {
	w.inner.Close()
	return w.f.Close()
}

func createData(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(name, ".zst") || strings.HasSuffix(name, ".zstd"):
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &wrappedWriteCloser{Writer: enc, inner: enc, f: f}, nil
	case strings.HasSuffix(name, ".gz"):
		gz := gzip.NewWriter(f)
		return &wrappedWriteCloser{Writer: gz, inner: gz, f: f}, nil
	}
	return f, nil
}

//raw term records: references are tags until the whole file is read.
type bondRec struct{ tag, typ, a, b int }
type angleRec struct{ tag, typ, a, b, c int }
type quadRec struct{ tag, typ, a, b, c, d int }

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, newError("bad integer %q", f)
		}
		out[i] = v
	}
	return out, nil
}

//ReadLAMMPSFile reads a LAMMPS data file, decompressing .gz and .zst
//files transparently.
func ReadLAMMPSFile(name string, opts *ReadOptions) (*System, error) {
	r, err := openData(name)
	if err != nil {
		return nil, errDecorate(err, "ReadLAMMPSFile")
	}
	defer r.Close()
	s, err := readLAMMPS(r, name, opts)
	if err != nil {
		return nil, errDecorate(err, "ReadLAMMPSFile")
	}
	return s, nil
}

//ReadLAMMPS reads a LAMMPS data file from a stream.
func ReadLAMMPS(r io.Reader, opts *ReadOptions) (*System, error) {
	return readLAMMPS(r, "", opts)
}

func readLAMMPS(r io.Reader, file string, opts *ReadOptions) (*System, error) {
	if opts == nil {
		opts = new(ReadOptions)
	}
	atomStyle := opts.AtomStyle
	pairStyle := opts.PairStyle
	bondStyle := opts.BondStyle
	angleStyle := opts.AngleStyle
	dihedralStyle := opts.DihedralStyle
	improperStyle := opts.ImproperStyle

	d := newDataScanner(r, file)
	first, ok := d.next()
	if !ok {
		return nil, d.errAt("empty data file")
	}
	name := opts.Name
	if name == "" {
		name = strings.TrimSpace(first)
	}
	s := NewSystem(name)

	var nparticles, nptypes, nbonds, nbtypes int
	var nangles, natypes, ndihedrals, ndtypes int
	var nimpropers, nitypes int

	pMolecule := make(map[*Particle]int)
	pType := make(map[*Particle]int)
	var bonds []bondRec
	var angles []angleRec
	var dihedrals, impropers []quadRec

	//skipHeader drops the blank line that follows a section header.
	skipHeader := func() error {
		if _, ok := d.next(); !ok {
			return d.errAt("unexpected end of file after section header")
		}
		return nil
	}
	//coeffParams counts the coefficients of a line, tag excluded.
	coeffParams := func(line string) int {
		fields, _ := splitCoeffLine(line)
		return len(fields) - 1
	}

	for {
		raw, ok := d.next()
		if !ok {
			break
		}
		fields := strings.Fields(raw)
		switch {
		case len(fields) > 1 && fields[1] == "atoms":
			nparticles, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "atom":
			nptypes, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "bonds":
			nbonds, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "bond":
			nbtypes, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "angles":
			nangles, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "angle":
			natypes, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "dihedrals":
			ndihedrals, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "dihedral":
			ndtypes, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "impropers":
			nimpropers, _ = strconv.Atoi(fields[0])
		case len(fields) > 1 && fields[1] == "improper":
			nitypes, _ = strconv.Atoi(fields[0])
		case len(fields) > 3 && fields[2] == "xlo":
			s.Dim.Xlo, _ = strconv.ParseFloat(fields[0], 64)
			s.Dim.Xhi, _ = strconv.ParseFloat(fields[1], 64)
		case len(fields) > 3 && fields[2] == "ylo":
			s.Dim.Ylo, _ = strconv.ParseFloat(fields[0], 64)
			s.Dim.Yhi, _ = strconv.ParseFloat(fields[1], 64)
		case len(fields) > 3 && fields[2] == "zlo":
			s.Dim.Zlo, _ = strconv.ParseFloat(fields[0], 64)
			s.Dim.Zhi, _ = strconv.ParseFloat(fields[1], 64)
		case len(fields) > 0 && fields[0] == "Masses":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nptypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Masses")
				}
				pt, err := parseParticleType(line, "mass")
				if err != nil {
					return nil, d.wrapAt(err)
				}
				if have, ok := s.ParticleTypes.Get(pt.Tag()); ok {
					have.Mass = pt.Mass
				} else {
					s.ParticleTypes.Add(pt)
				}
			}
		case len(fields) > 0 && fields[0] == "Pair":
			if pairStyle == "" {
				if i := strings.Index(raw, "#"); i >= 0 {
					pairStyle = strings.TrimSpace(raw[i+1:])
				}
			}
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nptypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Pair Coeffs")
				}
				if pairStyle == "" {
					style, err := guessPairStyle(coeffParams(line))
					if err != nil {
						return nil, d.wrapAt(err)
					}
					pairStyle = style
				}
				pt, err := parseParticleType(line, pairStyle)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				if have, ok := s.ParticleTypes.Get(pt.Tag()); ok {
					mass := have.Mass
					*have = *pt
					have.Mass = mass
				} else {
					s.ParticleTypes.Add(pt)
				}
			}
		case len(fields) > 0 && fields[0] == "Bond":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nbtypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Bond Coeffs")
				}
				if bondStyle == "" {
					style, err := guessBondStyle(coeffParams(line))
					if err != nil {
						return nil, d.wrapAt(err)
					}
					bondStyle = style
				}
				bt, err := parseBondType(line, bondStyle)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				s.BondTypes.Add(bt)
			}
		case len(fields) > 0 && fields[0] == "Angle":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < natypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Angle Coeffs")
				}
				if angleStyle == "" {
					style, err := guessAngleStyle(coeffParams(line))
					if err != nil {
						return nil, d.wrapAt(err)
					}
					angleStyle = style
				}
				at, err := parseAngleType(line, angleStyle)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				s.AngleTypes.Add(at)
			}
		case len(fields) > 0 && (fields[0] == "BondBond" || fields[0] == "BondAngle"):
			term := fields[0]
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < natypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in %s Coeffs", term)
				}
				at, err := s.angleTypeAt(line)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				if err := at.parseCross(line, term); err != nil {
					return nil, d.wrapAt(err)
				}
			}
		case len(fields) > 0 && fields[0] == "Dihedral":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < ndtypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Dihedral Coeffs")
				}
				if dihedralStyle == "" {
					style, err := guessDihedralStyle(coeffParams(line))
					if err != nil {
						return nil, d.wrapAt(err)
					}
					dihedralStyle = style
				}
				dt, err := parseDihedralType(line, dihedralStyle)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				s.DihedralTypes.Add(dt)
			}
		case len(fields) > 0 && (fields[0] == "MiddleBondTorsion" || fields[0] == "EndBondTorsion" ||
			fields[0] == "AngleTorsion" || fields[0] == "AngleAngleTorsion" || fields[0] == "BondBond13"):
			term := fields[0]
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < ndtypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in %s Coeffs", term)
				}
				dt, err := s.dihedralTypeAt(line)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				if err := dt.parseCross(line, term); err != nil {
					return nil, d.wrapAt(err)
				}
			}
		case len(fields) > 0 && fields[0] == "Improper":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nitypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Improper Coeffs")
				}
				if improperStyle == "" {
					style, err := guessImproperStyle(coeffParams(line))
					if err != nil {
						return nil, d.wrapAt(err)
					}
					improperStyle = style
					if strings.HasPrefix(improperStyle, "harmonic") &&
						(bondStyle == "class2" || angleStyle == "class2" || dihedralStyle == "class2") {
						improperStyle = "class2"
					}
				}
				it, err := parseImproperType(line, improperStyle)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				s.ImproperTypes.Add(it)
			}
		case len(fields) > 0 && fields[0] == "AngleAngle":
			improperStyle = "class2"
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nitypes; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in AngleAngle Coeffs")
				}
				it, err := s.improperTypeAt(line)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				if err := it.parseCross(line, "AngleAngle"); err != nil {
					return nil, d.wrapAt(err)
				}
			}
		case len(fields) > 0 && fields[0] == "Atoms":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nparticles; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Atoms")
				}
				cols := strings.Fields(line)
				if atomStyle == "" {
					switch {
					case len(cols) == 7:
						atomStyle = "full"
					case len(cols) == 6:
						if _, err := strconv.Atoi(cols[2]); err == nil {
							atomStyle = "molecular"
						} else {
							atomStyle = "charge"
						}
					default:
						log.Printf("cannot determine atom style; assuming \"full\"")
						atomStyle = "full"
					}
				}
				p, mol, typ, err := parseAtomLine(cols, atomStyle)
				if err != nil {
					return nil, d.wrapAt(err)
				}
				if have, ok := s.Particles.Get(p.Tag()); ok {
					have.X, have.Y, have.Z = p.X, p.Y, p.Z
					have.Charge = p.Charge
					pMolecule[have] = mol
					pType[have] = typ
				} else {
					s.Particles.Add(p)
					pMolecule[p] = mol
					pType[p] = typ
				}
			}
		case len(fields) > 0 && fields[0] == "Velocities":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nparticles; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Velocities")
				}
				cols := strings.Fields(line)
				if len(cols) != 4 {
					return nil, d.errAt("velocity line needs 4 fields, got %d", len(cols))
				}
				tag, err := strconv.Atoi(cols[0])
				if err != nil {
					return nil, d.errAt("bad particle tag %q", cols[0])
				}
				vs, err := parseFloats(cols[1:])
				if err != nil {
					return nil, d.wrapAt(err)
				}
				p, ok := s.Particles.Get(tag)
				if !ok {
					p = &Particle{tag: tag}
					s.Particles.Add(p)
				}
				p.Vx, p.Vy, p.Vz = vs[0], vs[1], vs[2]
			}
		case len(fields) > 0 && fields[0] == "Bonds":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nbonds; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Bonds")
				}
				ints, err := parseInts(strings.Fields(line))
				if err != nil || len(ints) != 4 {
					return nil, d.errAt("bond line needs 4 integers")
				}
				bonds = append(bonds, bondRec{ints[0], ints[1], ints[2], ints[3]})
			}
		case len(fields) > 0 && fields[0] == "Angles":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nangles; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Angles")
				}
				ints, err := parseInts(strings.Fields(line))
				if err != nil || len(ints) != 5 {
					return nil, d.errAt("angle line needs 5 integers")
				}
				angles = append(angles, angleRec{ints[0], ints[1], ints[2], ints[3], ints[4]})
			}
		case len(fields) > 0 && fields[0] == "Dihedrals":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < ndihedrals; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Dihedrals")
				}
				ints, err := parseInts(strings.Fields(line))
				if err != nil || len(ints) != 6 {
					return nil, d.errAt("dihedral line needs 6 integers")
				}
				dihedrals = append(dihedrals, quadRec{ints[0], ints[1], ints[2], ints[3], ints[4], ints[5]})
			}
		case len(fields) > 0 && fields[0] == "Impropers":
			if err := skipHeader(); err != nil {
				return nil, err
			}
			for i := 0; i < nimpropers; i++ {
				line, ok := d.next()
				if !ok {
					return nil, d.errAt("unexpected end of file in Impropers")
				}
				ints, err := parseInts(strings.Fields(line))
				if err != nil || len(ints) != 6 {
					return nil, d.errAt("improper line needs 6 integers")
				}
				impropers = append(impropers, quadRec{ints[0], ints[1], ints[2], ints[3], ints[4], ints[5]})
			}
		}
	}

	s.PairStyle = pairStyle
	s.BondStyle = bondStyle
	s.AngleStyle = angleStyle
	s.DihedralStyle = dihedralStyle
	s.ImproperStyle = improperStyle
	if s.ImproperStyle == "" && len(impropers) > 0 {
		switch {
		case strings.HasPrefix(bondStyle, "harm") || strings.HasPrefix(angleStyle, "harm") ||
			strings.HasPrefix(dihedralStyle, "harm"):
			s.ImproperStyle = "harmonic"
		case strings.HasPrefix(bondStyle, "class2") || strings.HasPrefix(angleStyle, "class2") ||
			strings.HasPrefix(dihedralStyle, "class2"):
			s.ImproperStyle = "class2"
		}
		if s.ImproperStyle != "" {
			log.Printf("improper style not set explicitly, guessing %q from other styles", s.ImproperStyle)
		}
	}
	if strings.HasPrefix(s.PairStyle, "lj") &&
		(strings.HasPrefix(s.BondStyle, "class2") || strings.HasPrefix(s.AngleStyle, "class2") ||
			strings.HasPrefix(s.DihedralStyle, "class2")) {
		s.PairStyle = "class2"
	}
	if strings.Contains(s.PairStyle+" "+s.BondStyle+" "+s.AngleStyle+" "+
		s.DihedralStyle+" "+s.ImproperStyle, "class2") {
		s.FFClass = "2"
	} else {
		s.FFClass = "1"
	}

	if err := s.objectify(pMolecule, pType, bonds, angles, dihedrals, impropers, file); err != nil {
		return nil, err
	}
	inferElements(s)
	inferLinkers(s)
	return s, nil
}

//angleTypeAt resolves the type tag leading a cross-term line.
func (s *System) angleTypeAt(line string) (*AngleType, error) {
	fields, _ := splitCoeffLine(line)
	if len(fields) < 1 {
		return nil, newError("empty coefficient line")
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, newError("bad type tag %q", fields[0])
	}
	at, ok := s.AngleTypes.Get(tag)
	if !ok {
		return nil, newError("cross term for unknown angle type %d", tag)
	}
	return at, nil
}

func (s *System) dihedralTypeAt(line string) (*DihedralType, error) {
	fields, _ := splitCoeffLine(line)
	if len(fields) < 1 {
		return nil, newError("empty coefficient line")
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, newError("bad type tag %q", fields[0])
	}
	dt, ok := s.DihedralTypes.Get(tag)
	if !ok {
		return nil, newError("cross term for unknown dihedral type %d", tag)
	}
	return dt, nil
}

func (s *System) improperTypeAt(line string) (*ImproperType, error) {
	fields, _ := splitCoeffLine(line)
	if len(fields) < 1 {
		return nil, newError("empty coefficient line")
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, newError("bad type tag %q", fields[0])
	}
	it, ok := s.ImproperTypes.Get(tag)
	if !ok {
		return nil, newError("cross term for unknown improper type %d", tag)
	}
	return it, nil
}

func parseAtomLine(cols []string, style string) (p *Particle, molecule, typ int, err error) {
	bad := func() (*Particle, int, int, error) {
		return nil, 0, 0, newError("malformed %s atom line", style)
	}
	if len(cols) < 6 {
		return bad()
	}
	tag, err := strconv.Atoi(cols[0])
	if err != nil {
		return bad()
	}
	p = &Particle{tag: tag}
	switch style {
	case "full":
		if len(cols) < 7 {
			return bad()
		}
		ints, err := parseInts(cols[1:3])
		if err != nil {
			return bad()
		}
		molecule, typ = ints[0], ints[1]
		vals, err := parseFloats(cols[3:7])
		if err != nil {
			return bad()
		}
		p.Charge, p.X, p.Y, p.Z = vals[0], vals[1], vals[2], vals[3]
	case "charge":
		typ, err = strconv.Atoi(cols[1])
		if err != nil {
			return bad()
		}
		vals, err := parseFloats(cols[2:6])
		if err != nil {
			return bad()
		}
		p.Charge, p.X, p.Y, p.Z = vals[0], vals[1], vals[2], vals[3]
	case "molecular":
		ints, err := parseInts(cols[1:3])
		if err != nil {
			return bad()
		}
		molecule, typ = ints[0], ints[1]
		vals, err := parseFloats(cols[3:6])
		if err != nil {
			return bad()
		}
		p.X, p.Y, p.Z = vals[0], vals[1], vals[2]
	default:
		return nil, 0, 0, newError("atom style %s not supported", style)
	}
	return p, molecule, typ, nil
}

//objectify converts tag references collected while reading into object
//references, creating molecules on first sight. For class 2 systems
//the two first improper particle columns arrive swapped and are
//swapped back.
func (s *System) objectify(pMolecule, pType map[*Particle]int,
	bonds []bondRec, angles []angleRec, dihedrals, impropers []quadRec, file string) error {

	broken := func(what string, tag int) error {
		return &ParseError{msg: fmt.Sprintf("%s refers to unknown tag %d", what, tag), File: file}
	}
	for _, p := range s.Particles.All() {
		if t := pType[p]; t > 0 {
			pt, ok := s.ParticleTypes.Get(t)
			if !ok {
				return broken("atom", t)
			}
			p.Type = pt
		}
		if mt := pMolecule[p]; mt > 0 {
			m, ok := s.Molecules.Get(mt)
			if !ok {
				m = &Molecule{tag: mt}
				if _, err := s.Molecules.Add(m); err != nil {
					return errDecorate(err, "objectify")
				}
			}
			p.Molecule = m
			m.addParticle(p)
		}
	}
	particle := func(tag int) (*Particle, bool) { return s.Particles.Get(tag) }
	for _, r := range bonds {
		a, oka := particle(r.a)
		b, okb := particle(r.b)
		bt, okt := s.BondTypes.Get(r.typ)
		if !oka || !okb || !okt {
			return broken("bond", r.tag)
		}
		s.Bonds.Add(&Bond{tag: r.tag, Type: bt, A: a, B: b})
	}
	for _, r := range angles {
		a, oka := particle(r.a)
		b, okb := particle(r.b)
		c, okc := particle(r.c)
		at, okt := s.AngleTypes.Get(r.typ)
		if !oka || !okb || !okc || !okt {
			return broken("angle", r.tag)
		}
		s.Angles.Add(&Angle{tag: r.tag, Type: at, A: a, B: b, C: c})
	}
	for _, r := range dihedrals {
		a, oka := particle(r.a)
		b, okb := particle(r.b)
		c, okc := particle(r.c)
		dd, okd := particle(r.d)
		dt, okt := s.DihedralTypes.Get(r.typ)
		if !oka || !okb || !okc || !okd || !okt {
			return broken("dihedral", r.tag)
		}
		s.Dihedrals.Add(&Dihedral{tag: r.tag, Type: dt, A: a, B: b, C: c, D: dd})
	}
	class2 := s.FFClass == "2" || s.ImproperStyle == "class2"
	for _, r := range impropers {
		a, oka := particle(r.a)
		b, okb := particle(r.b)
		c, okc := particle(r.c)
		dd, okd := particle(r.d)
		it, okt := s.ImproperTypes.Get(r.typ)
		if !oka || !okb || !okc || !okd || !okt {
			return broken("improper", r.tag)
		}
		if class2 {
			a, b = b, a
		}
		s.Impropers.Add(&Improper{tag: r.tag, Type: it, A: a, B: b, C: c, D: dd})
	}
	return nil
}

//inferElements guesses the element of each particle type from its
//name, linker prefixes stripped.
func inferElements(s *System) {
	organic := "HCNOFS"
	for _, pt := range s.ParticleTypes.All() {
		name := pt.Name
		if name == "" {
			continue
		}
		if i := strings.LastIndex(name, "@"); i >= 0 {
			base := name[i+1:]
			if base != "" && strings.ContainsRune(organic, rune(base[0]&^0x20)) {
				pt.Elem = strings.ToUpper(base[:1])
			}
			continue
		}
		switch {
		case name[0] == 'L' && len(name) > 1 && name[1] != 'i':
			pt.Elem = strings.ToUpper(name[1:2])
		case len(name) > 2 && name[1:3] == "Na":
			pt.Elem = "Na"
		case strings.ContainsRune(organic, rune(name[0]&^0x20)):
			pt.Elem = strings.ToUpper(name[:1])
		default:
			if len(name) >= 2 {
				pt.Elem = name[:2]
			} else {
				pt.Elem = name
			}
		}
	}
}

//inferLinkers restores the linker marks of particles whose type names
//carry linker prefixes.
func inferLinkers(s *System) {
	for _, p := range s.Particles.All() {
		if p.Type == nil || !strings.Contains(p.Type.Name, "@") {
			continue
		}
		switch p.Type.Name[0] {
		case 'H', 'h':
			p.Linker = "head"
		case 'T', 't':
			p.Linker = "tail"
		case 'L', 'l':
			p.Linker = "linker"
		}
	}
}

//WriteLAMMPSFile writes the system as a LAMMPS data file, compressing
//by extension like ReadLAMMPSFile.
func (s *System) WriteLAMMPSFile(name string) error {
	w, err := createData(name)
	if err != nil {
		return errDecorate(err, "WriteLAMMPSFile")
	}
	if err := s.WriteLAMMPS(w); err != nil {
		w.Close()
		return errDecorate(err, "WriteLAMMPSFile")
	}
	return w.Close()
}

//WriteLAMMPS writes the system as a LAMMPS data file to the stream.
//Coefficient sections require the corresponding style to be set and
//are omitted entirely when WriteCoeffs is false.
func (s *System) WriteLAMMPS(out io.Writer) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%s\n\n", s.Name)
	fmt.Fprintf(w, "%d atoms\n", s.Particles.Count())
	fmt.Fprintf(w, "%d bonds\n", s.Bonds.Count())
	fmt.Fprintf(w, "%d angles\n", s.Angles.Count())
	fmt.Fprintf(w, "%d dihedrals\n", s.Dihedrals.Count())
	fmt.Fprintf(w, "%d impropers\n", s.Impropers.Count())

	w.WriteString("\n")
	fmt.Fprintf(w, "%d atom types\n", s.ParticleTypes.Count())
	if s.BondTypes.Count() > 0 {
		fmt.Fprintf(w, "%d bond types\n", s.BondTypes.Count())
	}
	if s.AngleTypes.Count() > 0 {
		fmt.Fprintf(w, "%d angle types\n", s.AngleTypes.Count())
	}
	if s.DihedralTypes.Count() > 0 {
		fmt.Fprintf(w, "%d dihedral types\n", s.DihedralTypes.Count())
	}
	if s.ImproperTypes.Count() > 0 {
		fmt.Fprintf(w, "%d improper types\n", s.ImproperTypes.Count())
	}

	w.WriteString("\n")
	fmt.Fprintf(w, "%f %f xlo xhi\n", s.Dim.Xlo, s.Dim.Xhi)
	fmt.Fprintf(w, "%f %f ylo yhi\n", s.Dim.Ylo, s.Dim.Yhi)
	fmt.Fprintf(w, "%f %f zlo zhi\n", s.Dim.Zlo, s.Dim.Zhi)
	w.WriteString("\n")

	if s.ParticleTypes.Count() > 0 {
		w.WriteString("Masses\n\n")
		for _, pt := range s.ParticleTypes.All() {
			line, err := pt.writeLAMMPS("mass")
			if err != nil {
				return errDecorate(err, "WriteLAMMPS")
			}
			w.WriteString(line)
		}
		w.WriteString("\n")
	}
	if s.WriteCoeffs {
		if err := s.writeCoeffSections(w); err != nil {
			return errDecorate(err, "WriteLAMMPS")
		}
	}

	if s.Particles.Count() > 0 {
		w.WriteString("Atoms\n\n")
		for _, p := range s.Particles.All() {
			mol := 1
			if p.Molecule != nil {
				mol = p.Molecule.Tag()
			}
			if p.Type == nil {
				return newError("particle %d has no type", p.Tag())
			}
			fmt.Fprintf(w, "%4d\t%d\t%d\t%v\t%v\t%v\t%v\n",
				p.Tag(), mol, p.Type.Tag(), p.Charge, p.X, p.Y, p.Z)
		}
		w.WriteString("\n")
		w.WriteString("Velocities\n\n")
		for _, p := range s.Particles.All() {
			fmt.Fprintf(w, "%4d\t%v\t%v\t%v\n", p.Tag(), p.Vx, p.Vy, p.Vz)
		}
		w.WriteString("\n")
	}
	if s.Bonds.Count() > 0 {
		w.WriteString("Bonds\n\n")
		for _, b := range s.Bonds.All() {
			fmt.Fprintf(w, "%4d\t%d\t%d\t%d\n", b.Tag(), b.Type.Tag(), b.A.Tag(), b.B.Tag())
		}
		w.WriteString("\n")
	}
	if s.Angles.Count() > 0 {
		w.WriteString("Angles\n\n")
		for _, a := range s.Angles.All() {
			fmt.Fprintf(w, "%4d\t%d\t%d\t%d\t%d\n",
				a.Tag(), a.Type.Tag(), a.A.Tag(), a.B.Tag(), a.C.Tag())
		}
		w.WriteString("\n")
	}
	if s.Dihedrals.Count() > 0 {
		w.WriteString("Dihedrals\n\n")
		for _, dd := range s.Dihedrals.All() {
			fmt.Fprintf(w, "%4d\t%d\t%d\t%d\t%d\t%d\n",
				dd.Tag(), dd.Type.Tag(), dd.A.Tag(), dd.B.Tag(), dd.C.Tag(), dd.D.Tag())
		}
		w.WriteString("\n")
	}
	if s.Impropers.Count() > 0 {
		class2 := s.FFClass == "2" || s.ImproperStyle == "class2"
		w.WriteString("Impropers\n\n")
		for _, im := range s.Impropers.All() {
			if class2 {
				fmt.Fprintf(w, "%4d\t%d\t%d\t%d\t%d\t%d\n",
					im.Tag(), im.Type.Tag(), im.B.Tag(), im.A.Tag(), im.C.Tag(), im.D.Tag())
			} else {
				fmt.Fprintf(w, "%4d\t%d\t%d\t%d\t%d\t%d\n",
					im.Tag(), im.Type.Tag(), im.A.Tag(), im.B.Tag(), im.C.Tag(), im.D.Tag())
			}
		}
		w.WriteString("\n")
	}
	return w.Flush()
}

func (s *System) writeCoeffSections(w *bufio.Writer) error {
	if s.ParticleTypes.Count() > 0 {
		w.WriteString("Pair Coeffs\n\n")
		for _, pt := range s.ParticleTypes.All() {
			line, err := pt.writeLAMMPS(s.PairStyle)
			if err != nil {
				return err
			}
			w.WriteString(line)
		}
		w.WriteString("\n")
	}
	if s.BondTypes.Count() > 0 {
		w.WriteString("Bond Coeffs\n\n")
		for _, bt := range s.BondTypes.All() {
			line, err := bt.writeLAMMPS(s.BondStyle)
			if err != nil {
				return err
			}
			w.WriteString(line)
		}
		w.WriteString("\n")
	}
	angleClass2 := s.FFClass == "2" || s.AngleStyle == "class2"
	if s.AngleTypes.Count() > 0 {
		w.WriteString("Angle Coeffs\n\n")
		for _, at := range s.AngleTypes.All() {
			line, err := at.writeLAMMPS(s.AngleStyle, "")
			if err != nil {
				return err
			}
			w.WriteString(line)
		}
		w.WriteString("\n")
		if angleClass2 {
			for _, term := range []string{"BondBond", "BondAngle"} {
				fmt.Fprintf(w, "%s Coeffs\n\n", term)
				for _, at := range s.AngleTypes.All() {
					line, err := at.writeLAMMPS(s.AngleStyle, term)
					if err != nil {
						return err
					}
					w.WriteString(line)
				}
				w.WriteString("\n")
			}
		}
	}
	dihedralClass2 := s.FFClass == "2" || s.DihedralStyle == "class2"
	if s.DihedralTypes.Count() > 0 {
		w.WriteString("Dihedral Coeffs\n\n")
		for _, dt := range s.DihedralTypes.All() {
			line, err := dt.writeLAMMPS(s.DihedralStyle, "")
			if err != nil {
				return err
			}
			w.WriteString(line)
		}
		w.WriteString("\n")
		if dihedralClass2 {
			terms := []string{"MiddleBondTorsion", "EndBondTorsion", "AngleTorsion",
				"AngleAngleTorsion", "BondBond13"}
			for _, term := range terms {
				fmt.Fprintf(w, "%s Coeffs\n\n", term)
				for _, dt := range s.DihedralTypes.All() {
					line, err := dt.writeLAMMPS(s.DihedralStyle, term)
					if err != nil {
						return err
					}
					w.WriteString(line)
				}
				w.WriteString("\n")
			}
		}
	}
	improperClass2 := s.FFClass == "2" || s.ImproperStyle == "class2"
	if s.ImproperTypes.Count() > 0 {
		w.WriteString("Improper Coeffs\n\n")
		for _, it := range s.ImproperTypes.All() {
			line, err := it.writeLAMMPS(s.ImproperStyle, "")
			if err != nil {
				return err
			}
			w.WriteString(line)
		}
		w.WriteString("\n")
		if improperClass2 {
			w.WriteString("AngleAngle Coeffs\n\n")
			for _, it := range s.ImproperTypes.All() {
				line, err := it.writeLAMMPS(s.ImproperStyle, "AngleAngle")
				if err != nil {
					return err
				}
				w.WriteString(line)
			}
			w.WriteString("\n")
		}
	}
	return nil
}

//ReadLAMMPSDump refreshes charges, positions, velocities and box
//bounds from a LAMMPS dump whose atom lines hold
//tag q x y z vx vy vz. Unknown tags are ignored.
func (s *System) ReadLAMMPSDump(r io.Reader) error {
	d := newDataScanner(r, "")
	n := 0
	for {
		raw, ok := d.next()
		if !ok {
			return nil
		}
		fields := strings.Fields(raw)
		switch {
		case len(fields) > 1 && fields[1] == "NUMBER":
			line, ok := d.next()
			if !ok {
				return d.errAt("unexpected end of dump")
			}
			var err error
			if n, err = strconv.Atoi(strings.TrimSpace(line)); err != nil {
				return d.errAt("bad atom count %q", line)
			}
		case len(fields) > 1 && fields[1] == "BOX":
			lo := [3]*float64{&s.Dim.Xlo, &s.Dim.Ylo, &s.Dim.Zlo}
			hi := [3]*float64{&s.Dim.Xhi, &s.Dim.Yhi, &s.Dim.Zhi}
			for i := 0; i < 3; i++ {
				line, ok := d.next()
				if !ok {
					return d.errAt("unexpected end of dump in box bounds")
				}
				vals, err := parseFloats(strings.Fields(line))
				if err != nil || len(vals) < 2 {
					return d.errAt("bad box bounds line %q", line)
				}
				*lo[i], *hi[i] = vals[0], vals[1]
			}
		case len(fields) > 1 && fields[1] == "ATOMS":
			for i := 0; i < n; i++ {
				line, ok := d.next()
				if !ok {
					return d.errAt("unexpected end of dump in atoms")
				}
				vals, err := parseFloats(strings.Fields(line))
				if err != nil || len(vals) != 8 {
					return d.errAt("dump atom line needs 8 fields")
				}
				p, ok := s.Particles.Get(int(vals[0]))
				if !ok {
					continue
				}
				p.Charge = vals[1]
				p.X, p.Y, p.Z = vals[2], vals[3], vals[4]
				p.Vx, p.Vy, p.Vz = vals[5], vals[6], vals[7]
			}
		}
	}
}
