/*
 * files.go, part of gosimm.
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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//ReadXYZ builds a system from an XYZ stream. Each distinct element
//label becomes a particle type, and the box is set to the particle
//extrema plus a small padding.
func ReadXYZ(r io.Reader) (*System, error) {
	d := newDataScanner(r, "")
	line, ok := d.next()
	if !ok {
		return nil, d.errAt("empty xyz stream")
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, d.errAt("bad particle count %q", line)
	}
	name, ok := d.next()
	if !ok {
		return nil, d.errAt("xyz stream ends before comment line")
	}
	s := NewSystem(strings.TrimSpace(name))
	types := make(map[string]*ParticleType)
	for i := 0; i < n; i++ {
		line, ok := d.next()
		if !ok {
			return nil, d.errAt("xyz stream ends after %d of %d particles", i, n)
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, d.errAt("xyz line needs 4 fields, got %d", len(fields))
		}
		vals, err := parseFloats(fields[1:])
		if err != nil {
			return nil, d.wrapAt(err)
		}
		pt, ok := types[fields[0]]
		if !ok {
			pt = &ParticleType{Name: fields[0], Elem: fields[0]}
			if _, err := s.ParticleTypes.Add(pt); err != nil {
				return nil, errDecorate(err, "ReadXYZ")
			}
			types[fields[0]] = pt
		}
		p := &Particle{Type: pt, X: vals[0], Y: vals[1], Z: vals[2]}
		if err := s.AddParticle(p); err != nil {
			return nil, errDecorate(err, "ReadXYZ")
		}
	}
	s.SetBox(0.5, false)
	return s, nil
}

//ReadXYZFile reads an XYZ file into a new system.
func ReadXYZFile(name string) (*System, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errDecorate(err, "ReadXYZFile")
	}
	defer f.Close()
	s, err := ReadXYZ(f)
	if err != nil {
		return nil, errDecorate(err, "ReadXYZFile "+name)
	}
	return s, nil
}

//UpdateFromXYZ reads the given sequential frame of an XYZ trajectory
//and updates particle positions in place. Particles are assumed to
//appear in tag order.
func (s *System) UpdateFromXYZ(r io.Reader, frame int) error {
	d := newDataScanner(r, "")
	count := s.Particles.Count()
	for t := 1; ; t++ {
		line, ok := d.next()
		if !ok {
			return d.errAt("trajectory ends before frame %d", frame)
		}
		n, err := strconv.Atoi(strings.Fields(line)[0])
		if err != nil || n != count {
			return d.errAt("frame %d holds %s particles, system has %d", t, line, count)
		}
		if _, ok := d.next(); !ok {
			return d.errAt("trajectory ends inside frame %d", t)
		}
		for _, p := range s.Particles.All() {
			line, ok := d.next()
			if !ok {
				return d.errAt("trajectory ends inside frame %d", t)
			}
			if t != frame {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) != 4 {
				return d.errAt("xyz line needs 4 fields, got %d", len(fields))
			}
			vals, err := parseFloats(fields[1:])
			if err != nil {
				return d.wrapAt(err)
			}
			p.X, p.Y, p.Z = vals[0], vals[1], vals[2]
		}
		if t == frame {
			return nil
		}
	}
}

//WriteXYZ writes the system in XYZ format. The element label is taken
//from the particle type, falling back to the type tag.
func (s *System) WriteXYZ(out io.Writer) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%d\n", s.Particles.Count())
	fmt.Fprintf(w, "%s\n", s.Name)
	for _, p := range s.Particles.All() {
		if p.Type == nil {
			return newError("particle %d has no type", p.Tag())
		}
		label := p.Type.Elem
		if label == "" {
			label = strconv.Itoa(p.Type.Tag())
		}
		fmt.Fprintf(w, "%s %v %v %v\n", label, p.X, p.Y, p.Z)
	}
	return w.Flush()
}

//WriteXYZFile writes the system to an XYZ file.
func (s *System) WriteXYZFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return errDecorate(err, "WriteXYZFile")
	}
	if err := s.WriteXYZ(f); err != nil {
		f.Close()
		return errDecorate(err, "WriteXYZFile "+name)
	}
	return f.Close()
}
