package blocks

import "errors"

var (
	// ErrChainCount indicates a triangle size that is not a positive multiple of four.
	ErrChainCount = errors.New("blocks: chain count must be a positive multiple of 4")

	// ErrAnchor indicates a triangle anchor that is not a cell's upper-left
	// qubit or whose footprint leaves the grid.
	ErrAnchor = errors.New("blocks: invalid triangle anchor")

	// ErrBarSpace indicates a max bar that does not fit below its anchor.
	ErrBarSpace = errors.New("blocks: max bar leaves the grid")

	// ErrDefectiveQubit indicates a bar position that falls on a broken qubit.
	ErrDefectiveQubit = errors.New("blocks: block requires a defective qubit")

	// ErrNoUnusedChain indicates that every intact chain of a triangle is taken.
	ErrNoUnusedChain = errors.New("blocks: no unused chain without defective qubits")
)
