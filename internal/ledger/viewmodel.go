package ledger

import (
	"github.com/Veraticus/stackbank/internal/model"
)

// ViewModel holds one screen visit's records and filter state. The visible
// set is derived from the full record set on every read.
type ViewModel struct {
	records []model.TransactionRecord
	filter  Filter
}

// NewViewModel creates a view-model over records with no filter applied.
func NewViewModel(records []model.TransactionRecord) *ViewModel {
	vm := &ViewModel{}
	vm.SetRecords(records)
	return vm
}

// SetRecords replaces the underlying records.
func (vm *ViewModel) SetRecords(records []model.TransactionRecord) {
	vm.records = make([]model.TransactionRecord, len(records))
	copy(vm.records, records)
}

// Records returns the full, unfiltered record set.
func (vm *ViewModel) Records() []model.TransactionRecord {
	out := make([]model.TransactionRecord, len(vm.records))
	copy(out, vm.records)
	return out
}

// Filter returns the current filter state.
func (vm *ViewModel) Filter() Filter {
	return vm.filter
}

// SetSearch sets the free-text search.
func (vm *ViewModel) SetSearch(search string) {
	vm.filter.Search = search
}

// SetType sets the type filter; "" means all types.
func (vm *ViewModel) SetType(t model.TransactionType) {
	vm.filter.Type = t
}

// CycleType advances the type filter: all, then each known type in order.
func (vm *ViewModel) CycleType() model.TransactionType {
	options := append([]model.TransactionType{""}, model.TransactionTypes...)
	next := 0
	for i, t := range options {
		if t == vm.filter.Type {
			next = (i + 1) % len(options)
			break
		}
	}
	vm.filter.Type = options[next]
	return vm.filter.Type
}

// Reset clears the filter.
func (vm *ViewModel) Reset() {
	vm.filter = Filter{}
}

// Visible returns the records passing the current filter.
func (vm *ViewModel) Visible() []model.TransactionRecord {
	return Visible(vm.records, vm.filter)
}

// CanExport reports whether the export action should be offered.
func (vm *ViewModel) CanExport() bool {
	for _, r := range vm.records {
		if vm.filter.Matches(r) {
			return true
		}
	}
	return false
}
