package entity

import "fmt"

// Tensor is a row-major block of values with a fixed shape.
type Tensor struct {
	Shape []int
	Data  []float64
}

func NewTensor(data []float64, shape ...int) (*Tensor, error) {
	if size := shapeSize(shape); size != len(data) {
		return nil, fmt.Errorf("%w: shape %v holds %d values, data has %d", ErrShape, shape, size, len(data))
	}

	return &Tensor{
		Shape: append([]int(nil), shape...),
		Data:  data,
	}, nil
}

// Reshape returns a view over the same data with a new shape.
func (that *Tensor) Reshape(shape ...int) (*Tensor, error) {
	return NewTensor(that.Data, shape...)
}

// Batch prepends a batch dimension of size 1.
func (that *Tensor) Batch() *Tensor {
	return &Tensor{
		Shape: append([]int{1}, that.Shape...),
		Data:  that.Data,
	}
}

func (that *Tensor) Len() int {
	return len(that.Data)
}

func shapeSize(shape []int) int {
	if len(shape) == 0 {
		return 0
	}

	size := 1
	for _, dim := range shape {
		if dim <= 0 {
			return -1
		}
		size *= dim
	}

	return size
}
