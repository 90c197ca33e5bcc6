// Package io reads and writes enumeration results.
//
// # Formats
//
// Three formats are supported:
//
//   - text: one word per line, colors separated by spaces, followed by a
//     "Total = N" line
//   - json: a single document with the content specification and results
//   - ndjson: one JSON array per line, suitable for streaming
//
// The JSON document looks like:
//
//	{
//	  "n": 4,
//	  "k": 2,
//	  "counts": [2, 2],
//	  "mode": "bracelet",
//	  "count": 2,
//	  "results": [[0, 1, 0, 1], [0, 0, 1, 1]]
//	}
//
// # Streaming
//
// [NewEncoder] writes results as they are produced, so output of any size
// can be piped without holding it in memory. Every format streams; the JSON
// encoder writes "count" after the results.
//
// # Reading
//
// [ReadJSON], [ReadNDJSON] and [ReadText] parse the formats back. ReadJSON
// checks that every word matches the declared counts.
package io
