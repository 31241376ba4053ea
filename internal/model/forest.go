// Package model loads the pretrained irrigation classifier.
//
// The artifact is a JSON-serialized ensemble of binary decision trees. Split
// nodes send a sample left when feature <= threshold, otherwise right; leaves
// carry the class (0 or 1). The ensemble answers by majority vote, ties going
// to 0.
package model

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/i474232898/irrigation-predictor/internal/irrigation"
)

//go:embed artifacts/irrigation_model.json
var artifactFS embed.FS

const bundledArtifact = "artifacts/irrigation_model.json"

var (
	// ErrFeatureMismatch means the artifact was trained on a different feature schema.
	ErrFeatureMismatch = errors.New("model feature schema does not match feature builder")

	// ErrInvalidTree means a tree is empty or references nodes that do not exist.
	ErrInvalidTree = errors.New("invalid decision tree")
)

const leaf = -1

// Node is one decision tree node.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     int     `json:"value,omitempty"`
}

// Tree is a flat array of nodes rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is the serialized model.
type Artifact struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
	Trees    []Tree   `json:"trees"`
}

// Forest is a loaded, validated classifier. It is immutable and safe for concurrent use.
type Forest struct {
	name     string
	version  string
	features []string
	trees    []Tree
}

// Load reads the artifact at path, or the bundled artifact when path is empty.
func Load(path string) (*Forest, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = artifactFS.ReadFile(bundledArtifact)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates an artifact.
func Parse(data []byte) (*Forest, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	return New(a)
}

// New validates an artifact against the feature schema and freezes it.
func New(a Artifact) (*Forest, error) {
	want := irrigation.FeatureNames()
	if !slices.Equal(a.Features, want) {
		return nil, fmt.Errorf("%w: artifact has %v, expected %v", ErrFeatureMismatch, a.Features, want)
	}
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("%w: model has no trees", ErrInvalidTree)
	}
	for i, t := range a.Trees {
		if err := validateTree(t, len(want)); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	trees := make([]Tree, len(a.Trees))
	for i, t := range a.Trees {
		trees[i] = Tree{Nodes: slices.Clone(t.Nodes)}
	}

	return &Forest{
		name:     a.Name,
		version:  a.Version,
		features: slices.Clone(a.Features),
		trees:    trees,
	}, nil
}

// Children must come after their parent, which rules out cycles.
func validateTree(t Tree, numFeatures int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidTree)
	}
	for i, n := range t.Nodes {
		if n.Feature == leaf {
			if n.Value != 0 && n.Value != 1 {
				return fmt.Errorf("%w: node %d has class %d", ErrInvalidTree, i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= numFeatures {
			return fmt.Errorf("%w: node %d splits on unknown feature %d", ErrInvalidTree, i, n.Feature)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("%w: node %d has child %d out of range", ErrInvalidTree, i, child)
			}
		}
	}
	return nil
}

// Predict returns true when the majority of trees vote to irrigate.
func (f *Forest) Predict(v irrigation.FeatureVector) bool {
	x := v.Values()

	var votes int
	for _, t := range f.trees {
		votes += t.predict(x)
	}
	return votes*2 > len(f.trees)
}

func (t Tree) predict(x []float64) int {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature == leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (f *Forest) Name() string {
	return f.name
}

func (f *Forest) Version() string {
	return f.version
}

// Features returns the feature schema the model was trained on.
func (f *Forest) Features() []string {
	return slices.Clone(f.features)
}

// NumTrees returns the ensemble size.
func (f *Forest) NumTrees() int {
	return len(f.trees)
}
