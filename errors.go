/*
 * errors.go, part of gosimm.
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

import "fmt"

//Error is the interface implemented by all errors in gosimm. Decorate
//appends information (normally the name of the caller) to the error's
//trace and returns the current trace.
type Error interface {
	Error() string
	Decorate(string) []string
}

//CError is the concrete error type of the sim package.
type CError struct {
	msg  string
	deco []string
}

func (err *CError) Error() string { return err.msg }

//Decorate adds the deco string to the trace of the error and returns the
//trace. If deco is empty, the trace is returned unchanged.
func (err *CError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//newError builds a CError with a formatted message.
func newError(format string, a ...interface{}) *CError {
	err := new(CError)
	err.msg = fmt.Sprintf(format, a...)
	return err
}

//errDecorate decorates err with deco if err implements Error, and
//returns it. Plain errors are wrapped first.
func errDecorate(err error, deco string) error {
	if err == nil {
		return nil
	}
	err2, ok := err.(Error)
	if !ok {
		err2 = newError("%s", err.Error())
	}
	err2.Decorate(deco)
	return err2
}
