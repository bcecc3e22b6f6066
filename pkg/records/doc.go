// Package records exposes the public contracts for the data-source stage:
// the Record/RecordSet model, the Source abstraction loaders operate on, and
// the Loader interface. Concrete loaders live under internal/records to keep
// parsing details out of the public API.
package records
