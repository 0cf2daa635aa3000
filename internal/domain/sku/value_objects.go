package sku

import "errors"

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

type Quantity struct {
	value int32
}

func NewQuantity(v int32) (Quantity, error) {
	if v <= 0 {
		return Quantity{}, ErrInvalidQuantity
	}
	return Quantity{value: v}, nil
}

func (q Quantity) Value() int32 {
	return q.value
}
