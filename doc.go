/*
 * doc.go, part of gosimm.
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

//Package sim builds, mutates and serializes molecular topologies for
//molecular-dynamics engines. A System owns particles, bonds, angles,
//dihedrals and impropers together with their force-field parameter types,
//all kept in tag-indexed stores. New bonded terms are derived automatically
//when bonds are created, with parameter types resolved against the System
//itself or an external Forcefield library (wildcard names supported).
//Systems round-trip through the LAMMPS data-file format, including the
//class-2 cross-term coefficient sections.
package sim
