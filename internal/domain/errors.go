package domain

import "errors"

var (
	// ErrDataSourceUnavailable means the store could not be reached. Fatal at startup.
	ErrDataSourceUnavailable = errors.New("data source unavailable")

	// ErrSchemaMismatch means a source relation is missing an expected column.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrMissingGeography means a county has no boundary polygon. The county
	// renders without map fill; chart construction continues.
	ErrMissingGeography = errors.New("missing geography")

	// ErrEmptyDataset means the assembled table has no rows.
	ErrEmptyDataset = errors.New("empty dataset")
)
