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

package spa

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Source is a gridded dataset that variables can be read from.
type Source interface {
	// DimLen returns the length of the named dimension. For the record
	// (time) dimension this is the number of records stored.
	DimLen(name string) (int, error)

	// Dims returns the dimension names of the named variable,
	// including the record dimension if the variable has one.
	Dims(variable string) ([]string, error)

	// Read returns the named variable at record t, with the record
	// dimension removed. For variables without a record dimension,
	// t must be negative.
	Read(variable string, t int) (*sparse.DenseArray, error)
}

// NCF is a Source backed by a netCDF file.
type NCF struct {
	path string
	f    *os.File
	cf   *cdf.File
}

// OpenNCF opens the netCDF file at path for reading.
func OpenNCF(path string) (*NCF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spa: opening netcdf file: %w", err)
	}
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("spa: reading netcdf header of %s: %w", path, err)
	}
	return &NCF{path: path, f: f, cf: cf}, nil
}

// Path returns the location of the file.
func (n *NCF) Path() string { return n.path }

// Close closes the file.
func (n *NCF) Close() error { return n.f.Close() }

// numRecs returns the number of records in the file.
func (n *NCF) numRecs() (int, error) {
	fi, err := n.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("spa: %s: %w", n.path, err)
	}
	return int(n.cf.Header.NumRecs(fi.Size())), nil
}

// DimLen implements Source.
func (n *NCF) DimLen(name string) (int, error) {
	names := n.cf.Header.Dimensions("")
	lengths := n.cf.Header.Lengths("")
	for i, d := range names {
		if d != name {
			continue
		}
		if lengths[i] == 0 {
			return n.numRecs()
		}
		return lengths[i], nil
	}
	return 0, fmt.Errorf("spa: dimension %s not in file %s", name, n.path)
}

// Dims implements Source.
func (n *NCF) Dims(variable string) ([]string, error) {
	dims := n.cf.Header.Dimensions(variable)
	if dims == nil {
		return nil, fmt.Errorf("spa: variable %s not in file %s", variable, n.path)
	}
	return dims, nil
}

// Read implements Source.
func (n *NCF) Read(variable string, t int) (*sparse.DenseArray, error) {
	dims := n.cf.Header.Lengths(variable)
	if len(dims) == 0 {
		return nil, fmt.Errorf("spa: variable %s not in file %s", variable, n.path)
	}
	var r cdf.Reader
	if n.cf.Header.IsRecordVariable(variable) {
		if t < 0 {
			return nil, fmt.Errorf("spa: variable %s in file %s requires a record index", variable, n.path)
		}
		nrec, err := n.numRecs()
		if err != nil {
			return nil, err
		}
		if t >= nrec {
			return nil, fmt.Errorf("spa: record %d of variable %s requested but file %s has %d records",
				t, variable, n.path, nrec)
		}
		dims = dims[1:]
		start, end := make([]int, len(dims)+1), make([]int, len(dims)+1)
		start[0], end[0] = t, t+1
		r = n.cf.Reader(variable, start, end)
	} else {
		if t >= 0 {
			return nil, fmt.Errorf("spa: variable %s in file %s has no record dimension", variable, n.path)
		}
		r = n.cf.Reader(variable, nil, nil)
	}
	nread := 1
	for _, d := range dims {
		nread *= d
	}
	buf := r.Zero(nread)
	if nread > 0 {
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("spa: reading netcdf variable %s: %w", variable, err)
		}
	}
	data := sparse.ZerosDense(dims...)
	if err := toFloat64(data.Elements, buf); err != nil {
		return nil, fmt.Errorf("spa: variable %s: %w", variable, err)
	}
	return data, nil
}

// toFloat64 converts the numeric netCDF buffer buf into dst.
func toFloat64(dst []float64, buf interface{}) error {
	switch b := buf.(type) {
	case []float32:
		for i, v := range b {
			dst[i] = float64(v)
		}
	case []float64:
		copy(dst, b)
	case []int32:
		for i, v := range b {
			dst[i] = float64(v)
		}
	case []int16:
		for i, v := range b {
			dst[i] = float64(v)
		}
	case []uint8:
		for i, v := range b {
			dst[i] = float64(v)
		}
	default:
		return fmt.Errorf("unsupported netcdf data type %T", buf)
	}
	return nil
}

// readOrdered reads variable v at record t from src and returns it with
// its non-record dimensions arranged in the order given by want. The
// variable may be stored with its dimensions in any order.
func readOrdered(src Source, v string, t int, want []string) (*sparse.DenseArray, error) {
	have, err := src.Dims(v)
	if err != nil {
		return nil, err
	}
	if t >= 0 {
		if len(have) == 0 || have[0] != dimTime {
			return nil, fmt.Errorf("spa: variable %s has dimensions %v; want %s first", v, have, dimTime)
		}
		have = have[1:]
	}
	perm, err := permutation(have, want)
	if err != nil {
		return nil, fmt.Errorf("spa: variable %s: %w", v, err)
	}
	raw, err := src.Read(v, t)
	if err != nil {
		return nil, err
	}
	if len(raw.Shape) != len(have) {
		return nil, fmt.Errorf("spa: variable %s has %d dimensions but %d dimension names", v, len(raw.Shape), len(have))
	}
	identity := true
	for i, p := range perm {
		if p != i {
			identity = false
		}
	}
	if identity {
		return raw, nil
	}
	shape := make([]int, len(want))
	for i, p := range perm {
		shape[p] = raw.Shape[i]
	}
	out := sparse.ZerosDense(shape...)

	// Strides of the output array, arranged in file dimension order.
	stride := make([]int, len(want))
	s := 1
	for i := len(want) - 1; i >= 0; i-- {
		stride[i] = s
		s *= shape[i]
	}
	fileStride := make([]int, len(have))
	for i, p := range perm {
		fileStride[i] = stride[p]
	}
	idx := make([]int, len(have))
	for _, val := range raw.Elements {
		o := 0
		for i, x := range idx {
			o += x * fileStride[i]
		}
		out.Elements[o] = val
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < raw.Shape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out, nil
}

// permutation returns, for each name in have, its position in want. It
// returns an error if have is not a permutation of want.
func permutation(have, want []string) ([]int, error) {
	if len(have) != len(want) {
		return nil, fmt.Errorf("dimensions %v do not match %v", have, want)
	}
	perm := make([]int, len(have))
	used := make([]bool, len(want))
	for i, h := range have {
		found := false
		for j, w := range want {
			if h == w && !used[j] {
				perm[i] = j
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("dimensions %v do not match %v", have, want)
		}
	}
	return perm, nil
}
