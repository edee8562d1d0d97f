// Package gemmacpp binds the demo to a local gemma3.cpp runtime the same way the rest of the
// repository would bind to llama.cpp: host-side input preparation plus a subprocess for the actual
// generation. Launching the runtime as a subprocess per request gives full isolation and
// fault-tolerance (a crash in the native code does not take the demo down with it).
package gemmacpp

import "fmt"

// Tensor the binding's native numeric array type. All internal operations of the binding require
// their numeric inputs in this form; raw Go slices must be converted first.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor creates a tensor and checks the shape against the data length, because a mismatch
// would otherwise only explode deep inside input preparation.
func NewTensor(shape []int, data []float32) (*Tensor, error) {
	size := 1
	for _, dim := range shape {
		if dim < 0 {
			return nil, fmt.Errorf("tensor: negative dimension %d", dim)
		}
		size *= dim
	}
	if size != len(data) {
		return nil, fmt.Errorf("tensor: shape %v requires %d values, got %d", shape, size, len(data))
	}
	return &Tensor{Shape: shape, Data: data}, nil
}

// TensorFromInts converts a raw integer vector (such as an attention mask produced by the
// processor) into a native (1, n) tensor.
func TensorFromInts(values []int32) *Tensor {
	data := make([]float32, len(values))
	for i, value := range values {
		data[i] = float32(value)
	}
	return &Tensor{Shape: []int{1, len(values)}, Data: data}
}

// Equal reports whether two tensors have identical shape and contents.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Shape) != len(other.Shape) || len(t.Data) != len(other.Data) {
		return false
	}
	for i, dim := range t.Shape {
		if other.Shape[i] != dim {
			return false
		}
	}
	for i, value := range t.Data {
		if other.Data[i] != value {
			return false
		}
	}
	return true
}
