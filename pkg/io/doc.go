// Package io reads and writes problem instances and solutions.
//
// # Formats
//
// Three instance encodings are supported and chosen by file extension in
// [Import] and [Export]:
//
//   - .json: the native document format
//   - .yaml, .yml: the same document in YAML
//   - anything else: the plain text format described below
//
// # Text Format
//
// The text format is whitespace separated. The first three tokens give the
// vertex count n, the edge count m and the capacity C. They are followed by
// n vertex records (name, weight, value) and m edge records (two vertex
// names):
//
//	4 2 5
//	A 2 3
//	B 3 5
//	C 4 6
//	D 1 2
//	A B
//	C D
//
// Tokens may be split across lines freely; errors report the line of the
// offending token.
//
// # JSON and YAML Format
//
//	{
//	  "name": "toy",
//	  "capacity": 5,
//	  "vertices": [{"id": "A", "weight": 2, "value": 3}],
//	  "edges": [{"u": "A", "v": "B"}]
//	}
//
// # Validation
//
// Every reader builds the instance through [instance.Instance.AddVertex] and
// [instance.Instance.AddEdge] and then runs [instance.Instance.Validate], so
// a successfully imported instance is always ready to solve. Failures carry
// codes from pkg/errors: INVALID_FORMAT for syntax, INVALID_INSTANCE for
// structure (unknown endpoint, duplicate ID), INVALID_WEIGHT, INVALID_VALUE
// and INVALID_CAPACITY for numbers, FILE_NOT_FOUND for missing files.
//
// # Solutions
//
// [WriteSolution] and [ReadSolution] encode a solved set as JSON so that it
// can be verified or rendered later without solving again.
package io
