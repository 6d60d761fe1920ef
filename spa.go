/*
Copyright © 2026 the SPA authors.
This file is part of SPA.

SPA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SPA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SPA.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package spa prescribes monthly aerosol optical properties to an
// atmospheric simulation. A monthly dataset on its own horizontal grid and
// hybrid vertical coordinate is remapped to the columns owned by the
// current worker, linearly interpolated in time between the bracketing
// months and then interpolated onto the simulation's pressure profile.
package spa

import "fmt"

// Version gives the version number.
const Version = "1.0.0"

const (
	// P0 is the reference pressure of the hybrid vertical coordinate [Pa].
	P0 = 100000.

	// LevelPadding is the number of extra levels stored above the top and
	// below the bottom of the source vertical grid. File level k is held
	// at index k+LevelPadding.
	LevelPadding = 1
)

// Field identifies one of the prescribed aerosol quantities.
type Field int

// The prescribed aerosol quantities.
const (
	// CCN3 is the cloud condensation nuclei concentration at 0.1% supersaturation.
	CCN3 Field = iota
	// AerGSW is the shortwave aerosol asymmetry factor.
	AerGSW
	// AerSSASW is the shortwave aerosol single-scattering albedo.
	AerSSASW
	// AerTauSW is the shortwave aerosol optical depth.
	AerTauSW
	// AerTauLW is the longwave aerosol optical depth.
	AerTauLW

	numFields
)

// Fields lists all of the prescribed aerosol quantities in storage order.
var Fields = []Field{CCN3, AerGSW, AerSSASW, AerTauSW, AerTauLW}

// Dimension names used in the monthly dataset files.
const (
	dimCol    = "ncol"
	dimLev    = "lev"
	dimSW     = "swband"
	dimLW     = "lwband"
	dimTime   = "time"
	varPS     = "PS"
	varHyAM   = "hyam"
	varHyBM   = "hybm"
	numMonths = 12
)

var fieldInfo = [numFields]struct {
	name, band, description, units string
	nonNegative                    bool
}{
	CCN3:     {"CCN3", "", "CCN concentration at S=0.1%", "#/cm3", true},
	AerGSW:   {"AER_G_SW", dimSW, "Aerosol shortwave asymmetry parameter", "1", false},
	AerSSASW: {"AER_SSA_SW", dimSW, "Aerosol shortwave single scattering albedo", "1", true},
	AerTauSW: {"AER_TAU_SW", dimSW, "Aerosol shortwave optical depth", "1", true},
	AerTauLW: {"AER_TAU_LW", dimLW, "Aerosol longwave optical depth", "1", true},
}

// String returns the variable name of f in dataset files.
func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldInfo[f].name
}

// Description returns a description of f.
func (f Field) Description() string { return fieldInfo[f].description }

// Units returns the units of f.
func (f Field) Units() string { return fieldInfo[f].units }

// BandDim returns the name of the spectral band dimension of f, or an
// empty string if f is not resolved by band.
func (f Field) BandDim() string { return fieldInfo[f].band }

// NonNegative reports whether f is physically non-negative, in which case
// vertical interpolation floors it at the minimum threshold.
func (f Field) NonNegative() bool { return fieldInfo[f].nonNegative }

// dims returns the expected non-time dimensions of f in storage order.
func (f Field) dims() []string {
	if b := f.BandDim(); b != "" {
		return []string{dimCol, b, dimLev}
	}
	return []string{dimCol, dimLev}
}

// Shape holds the extents of a dataset.
type Shape struct {
	Cols, Levels, SWBands, LWBands int
}

// Bands returns the number of spectral bands of field f, which is 1
// for fields that are not resolved by band.
func (s Shape) Bands(f Field) int {
	switch f.BandDim() {
	case dimSW:
		return s.SWBands
	case dimLW:
		return s.LWBands
	}
	return 1
}

// dims returns the array extents of field f.
func (s Shape) dims(f Field) []int {
	if f.BandDim() == "" {
		return []int{s.Cols, s.Levels}
	}
	return []int{s.Cols, s.Bands(f), s.Levels}
}
