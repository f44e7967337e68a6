// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// maxDumpDepth bounds recursion on untrusted dumps.
const maxDumpDepth = 256

// dumpNode is one node of XGBoost's JSON model dump
// (Booster.dump_model(..., dump_format="json")).
type dumpNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split"`
	SplitCondition float64    `json:"split_condition"`
	Yes            int        `json:"yes"`
	No             int        `json:"no"`
	Missing        int        `json:"missing"`
	Leaf           *float64   `json:"leaf"`
	Children       []dumpNode `json:"children"`
}

// ParseXGBoostDump converts an XGBoost JSON dump (an array of trees) into
// flat trees. Split features may be given as "f<N>" or by name; names are
// resolved against featureNames, usually Pipeline.EncodedFeatureNames.
func ParseXGBoostDump(data []byte, featureNames []string) ([]Tree, error) {
	var roots []dumpNode
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("decode xgboost dump: %w", err)
	}

	byName := make(map[string]int, len(featureNames))
	for i, name := range featureNames {
		byName[name] = i
	}
	resolve := func(split string) (int, error) {
		if i, ok := byName[split]; ok {
			return i, nil
		}
		if rest, ok := strings.CutPrefix(split, "f"); ok {
			if i, err := strconv.Atoi(rest); err == nil && i >= 0 {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: unknown split feature %q", ErrInvalidTree, split)
	}

	trees := make([]Tree, 0, len(roots))
	for i := range roots {
		var nodes []Node
		if _, err := flattenDump(&roots[i], &nodes, resolve, 0); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		trees = append(trees, Tree{Nodes: nodes})
	}
	return trees, nil
}

// flattenDump appends n and its subtree in pre-order and returns n's index.
func flattenDump(n *dumpNode, nodes *[]Node, resolve func(string) (int, error), depth int) (int, error) {
	if depth > maxDumpDepth {
		return 0, fmt.Errorf("%w: deeper than %d levels", ErrInvalidTree, maxDumpDepth)
	}

	idx := len(*nodes)
	*nodes = append(*nodes, Node{})

	if n.Leaf != nil {
		(*nodes)[idx] = Node{Leaf: true, Value: *n.Leaf}
		return idx, nil
	}

	feature, err := resolve(n.Split)
	if err != nil {
		return 0, err
	}
	yes, no := childByID(n.Children, n.Yes), childByID(n.Children, n.No)
	if yes == nil || no == nil || n.Yes == n.No {
		return 0, fmt.Errorf("%w: node %d has no children %d/%d", ErrInvalidTree, n.NodeID, n.Yes, n.No)
	}

	left, err := flattenDump(yes, nodes, resolve, depth+1)
	if err != nil {
		return 0, err
	}
	right, err := flattenDump(no, nodes, resolve, depth+1)
	if err != nil {
		return 0, err
	}

	(*nodes)[idx] = Node{
		Feature:     feature,
		Threshold:   n.SplitCondition,
		Left:        left,
		Right:       right,
		DefaultLeft: n.Missing == n.Yes,
	}
	return idx, nil
}

func childByID(children []dumpNode, id int) *dumpNode {
	for i := range children {
		if children[i].NodeID == id {
			return &children[i]
		}
	}
	return nil
}
