// Package tensor implements dense tensors with named dimensions and their
// self-describing binary format.
//
// A dense tensor is a Type (an ordered list of named, fixed-size dimensions)
// plus a flat slice of float64 cells in row-major order. A Type with no
// dimensions is the scalar double type and holds exactly one cell.
//
// Example:
//
//	typ := tensor.MustType(tensor.Dimension{Name: "x", Size: 2}, tensor.Dimension{Name: "y", Size: 3})
//	t, _ := tensor.NewDense(typ, []float64{1, 2, 3, 4, 5, 6})
//	b, _ := tensor.Serialize(t)
//	back, _ := tensor.Deserialize(b)
package tensor
