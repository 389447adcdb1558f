// Package core provides the floor-area calculation for a property.
//
// This package contains all domain logic independent of any UI or transport
// layer. It can be used by the HTTP API, the CLI, or tests without
// modification.
//
// # Pipeline
//
// A run is a single synchronous pass:
//
//  1. A [LineSource] returns every line of the record file
//  2. [FileRecordRepository.FetchAll] drops the header and parses each line
//     with a [RecordParser], aborting on the first bad line
//  3. [Service.ComputeTotalFloorArea] sums the floor areas in input order
//
// Nothing is retained between runs, so independent runs may execute
// concurrently as long as each has its own LineSource.
//
// # Record Format
//
// Each data line has the shape
//
//	unit number;floor area;room count[;...]
//
// Fields may be wrapped in double quotes and padded with spaces. Fields past
// the third are ignored. The floor area uses exactly one decimal separator,
// chosen when the parser is created:
//
//	parser, _ := core.NewRecordParser(core.DecimalComma)
//	rec, err := parser.Parse(`"101"; "75,5"; "3"`)
//	// rec == UnitRecord{UnitNumber: 101, FloorArea: 75.5, RoomCount: 3}
//
// # Error Handling
//
// Two error kinds reach callers:
//
//   - [ErrSourceNotFound]: the data file does not exist
//   - [ErrMalformedRecord]: a line failed validation; the concrete
//     [*MalformedRecordError] carries the 1-based line number and raw text
//
// A total is only ever reported when every line was valid. Technical errors
// are mapped to user-friendly messages using [MapError].
//
// # Run History
//
// When a database is configured, [Service.Summarize] records each run in a
// [HistoryStore].
package core
