package domain

import "errors"

var ErrUnknownSourceSystem = errors.New("unknown source system")

// SourceSystem identifies an external inventory feed.
type SourceSystem string

const (
	// SourceEndpoint is the endpoint-management export (full snapshots).
	SourceEndpoint SourceSystem = "endpoint"
	// SourceCarrier is the telecom carrier export (full snapshots).
	SourceCarrier SourceSystem = "carrier"
	// SourceTemplate is the spreadsheet bulk-entry template.
	SourceTemplate SourceSystem = "template"
	// SourceInvoice is the purchase-invoice extraction.
	SourceInvoice SourceSystem = "invoice"
)

func SourceSystemFromString(s string) (SourceSystem, error) {
	switch SourceSystem(s) {
	case SourceEndpoint, SourceCarrier, SourceTemplate, SourceInvoice:
		return SourceSystem(s), nil
	}
	return "", ErrUnknownSourceSystem
}

// ConflictPolicy decides what happens when an incoming row matches an
// existing asset by serial number or asset tag.
type ConflictPolicy string

const (
	PolicySkip      ConflictPolicy = "skip"
	PolicyOverwrite ConflictPolicy = "overwrite"
)

func (p ConflictPolicy) Valid() bool {
	return p == PolicySkip || p == PolicyOverwrite
}
