// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTree is returned when a tree ensemble is structurally unusable.
var ErrInvalidTree = errors.New("invalid tree ensemble")

// Node is one node of a regression tree, stored in a flat array.
// Split nodes route x to Left when x[Feature] < Threshold and to the
// DefaultLeft side when x[Feature] is NaN.
type Node struct {
	Feature     int
	Threshold   float64
	Left        int
	Right       int
	DefaultLeft bool

	Leaf  bool
	Value float64
}

// Tree is a regression tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node
}

// Booster is an additive ensemble of regression trees.
type Booster struct {
	BaseScore float64
	Trees     []Tree
}

// Validate checks every tree against an input of the given width.
// Children must have a larger index than their parent, so evaluation
// always terminates.
func (b *Booster) Validate(width int) error {
	if math.IsNaN(b.BaseScore) || math.IsInf(b.BaseScore, 0) {
		return fmt.Errorf("%w: base score %v", ErrInvalidTree, b.BaseScore)
	}
	for ti, t := range b.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d is empty", ErrInvalidTree, ti)
		}
		for ni, n := range t.Nodes {
			if n.Leaf {
				if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
					return fmt.Errorf("%w: tree %d node %d has leaf value %v", ErrInvalidTree, ti, ni, n.Value)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= width {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d of %d", ErrInvalidTree, ti, ni, n.Feature, width)
			}
			if math.IsNaN(n.Threshold) {
				return fmt.Errorf("%w: tree %d node %d has NaN threshold", ErrInvalidTree, ti, ni)
			}
			for _, child := range [2]int{n.Left, n.Right} {
				if child <= ni || child >= len(t.Nodes) {
					return fmt.Errorf("%w: tree %d node %d has child %d", ErrInvalidTree, ti, ni, child)
				}
			}
		}
	}
	return nil
}

// Predict sums the base score and one leaf per tree. x must be at least as
// wide as the width passed to Validate.
func (b *Booster) Predict(x []float64) float64 {
	sum := b.BaseScore
	for i := range b.Trees {
		sum += b.Trees[i].leaf(x)
	}
	return sum
}

// leaf walks the tree for x. Thresholds are compared in single precision,
// the precision the trees were trained in.
func (t *Tree) leaf(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		v := x[n.Feature]
		switch {
		case math.IsNaN(v):
			if n.DefaultLeft {
				i = n.Left
			} else {
				i = n.Right
			}
		case float32(v) < float32(n.Threshold):
			i = n.Left
		default:
			i = n.Right
		}
	}
}
