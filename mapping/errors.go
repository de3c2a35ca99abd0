// SPDX-License-Identifier: MIT

package mapping

import "errors"

var (
	// ErrMalformedLine indicates a weight-file line that is not "i j w".
	ErrMalformedLine = errors.New("mapping: malformed weight line")

	// ErrNotConnected indicates a parsed coupling between qubits the topology
	// does not couple.
	ErrNotConnected = errors.New("mapping: qubits are not connected")

	// ErrWeightRange indicates a parsed weight outside the topology's interval.
	ErrWeightRange = errors.New("mapping: weight outside topology range")
)
