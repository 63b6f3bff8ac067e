package output

import (
	"github.com/google/uuid"
	"github.com/halvardal/lrforge"
)

// CurrentVersion is the version triple this package emits. lrforge.Version
// already carries the CompatibleWith check spec §6 "Table versioning"
// requires of a consumer, so the output format reuses it rather than
// defining a second version type.
var CurrentVersion = lrforge.Version{Major: 1, Minor: 0, Patch: 0}

// TableSet is the complete compact-table artifact spec §6 describes: a
// version triple, a run identifier (so two runs over the same grammar can
// be told apart even if every table byte matches), and the scanner/parser
// subtrees.
type TableSet struct {
	Version lrforge.Version `json:"version"`
	RunID   string          `json:"run_id"`
	Scanner Scanner         `json:"scanner"`
	Parser  Parser          `json:"parser"`
}

// NewTableSet stamps scanner/parser subtrees with a fresh run id and the
// package's current version triple.
func NewTableSet(scanner Scanner, parser Parser) TableSet {
	ts := TableSet{Version: CurrentVersion, RunID: uuid.NewString(), Scanner: scanner, Parser: parser}
	tracer().Infof("table set %s stamped, version %s", ts.RunID, ts.Version)
	return ts
}
