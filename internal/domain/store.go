package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLastRecord is returned when a removal would leave the SKU collection empty.
	ErrLastRecord = errors.New("record store must keep at least one SKU record")
	// ErrUnknownSKU is returned when an edit targets a SKU that is not in the store.
	ErrUnknownSKU = errors.New("unknown sku")
	// ErrDuplicateSKU is returned when an added SKU already exists.
	ErrDuplicateSKU = errors.New("duplicate sku")
	// ErrUnknownFactory is returned when an edit targets a missing factory location.
	ErrUnknownFactory = errors.New("unknown factory location")
	// ErrUnknownSupplier is returned when an edit targets a missing supplier id.
	ErrUnknownSupplier = errors.New("unknown supplier")
)

// RecordStore holds the three input collections of a planning run.
// The planning engine only reads it; edits happen between runs.
type RecordStore struct {
	SKUs      []SKURecord       `json:"sku_data"`
	Factories []FactoryCapacity `json:"production_constraints"`
	Suppliers []Supplier        `json:"suppliers"`
}

// Clone returns a deep copy so callers can snapshot the store before a run.
func (s RecordStore) Clone() RecordStore {
	return RecordStore{
		SKUs:      append([]SKURecord(nil), s.SKUs...),
		Factories: append([]FactoryCapacity(nil), s.Factories...),
		Suppliers: append([]Supplier(nil), s.Suppliers...),
	}
}

// IsEmpty reports whether every collection is empty.
func (s RecordStore) IsEmpty() bool {
	return len(s.SKUs) == 0 && len(s.Factories) == 0 && len(s.Suppliers) == 0
}

func (s *RecordStore) skuIndex(sku string) int {
	key := strings.TrimSpace(sku)
	for i := range s.SKUs {
		if s.SKUs[i].SKU == key {
			return i
		}
	}
	return -1
}

// AddSKU appends a SKU record. SKU identifiers are unique within a store;
// a blank id takes the first free SKU-NNN id.
func (s *RecordStore) AddSKU(rec SKURecord) error {
	rec.SKU = strings.TrimSpace(rec.SKU)
	if rec.SKU == "" {
		rec.SKU = nextSKUID(s.skuIDs(), len(s.SKUs)+1)
	}
	if s.skuIndex(rec.SKU) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSKU, rec.SKU)
	}
	s.SKUs = append(s.SKUs, rec)
	return nil
}

// UpdateSKU applies a field-level edit to the SKU. A blank id after the edit
// keeps the old one; renaming onto another record's id is rejected.
func (s *RecordStore) UpdateSKU(sku string, edit func(*SKURecord)) error {
	i := s.skuIndex(sku)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSKU, sku)
	}

	rec := s.SKUs[i]
	edit(&rec)
	rec.SKU = strings.TrimSpace(rec.SKU)
	if rec.SKU == "" {
		rec.SKU = s.SKUs[i].SKU
	}
	if j := s.skuIndex(rec.SKU); j >= 0 && j != i {
		return fmt.Errorf("%w: %s", ErrDuplicateSKU, rec.SKU)
	}
	s.SKUs[i] = rec
	return nil
}

// Normalize trims SKU ids and fills blank ones with the first free SKU-NNN id
// at or after the record's position. Explicit ids must already be unique.
func (s *RecordStore) Normalize() error {
	taken := make(map[string]bool, len(s.SKUs))
	for i := range s.SKUs {
		id := strings.TrimSpace(s.SKUs[i].SKU)
		s.SKUs[i].SKU = id
		if id == "" {
			continue
		}
		if taken[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, id)
		}
		taken[id] = true
	}

	for i := range s.SKUs {
		if s.SKUs[i].SKU != "" {
			continue
		}
		id := nextSKUID(taken, i+1)
		s.SKUs[i].SKU = id
		taken[id] = true
	}
	return nil
}

func (s *RecordStore) skuIDs() map[string]bool {
	ids := make(map[string]bool, len(s.SKUs))
	for _, rec := range s.SKUs {
		ids[rec.SKU] = true
	}
	return ids
}

func nextSKUID(taken map[string]bool, n int) string {
	for ; ; n++ {
		if id := fmt.Sprintf("SKU-%03d", n); !taken[id] {
			return id
		}
	}
}

// RemoveSKU deletes a SKU record; the last remaining record cannot be removed.
func (s *RecordStore) RemoveSKU(sku string) error {
	i := s.skuIndex(sku)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSKU, sku)
	}
	if len(s.SKUs) <= 1 {
		return ErrLastRecord
	}
	s.SKUs = append(s.SKUs[:i], s.SKUs[i+1:]...)
	return nil
}

// UpsertFactory replaces the factory with the same location or appends it.
func (s *RecordStore) UpsertFactory(f FactoryCapacity) {
	for i := range s.Factories {
		if s.Factories[i].FactoryLocation == f.FactoryLocation {
			s.Factories[i] = f
			return
		}
	}
	s.Factories = append(s.Factories, f)
}

// RemoveFactory deletes the factory at the given location.
func (s *RecordStore) RemoveFactory(location string) error {
	for i := range s.Factories {
		if s.Factories[i].FactoryLocation == location {
			s.Factories = append(s.Factories[:i], s.Factories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownFactory, location)
}

// UpsertSupplier replaces the supplier with the same id or appends it.
func (s *RecordStore) UpsertSupplier(sup Supplier) {
	for i := range s.Suppliers {
		if s.Suppliers[i].SupplierID == sup.SupplierID {
			s.Suppliers[i] = sup
			return
		}
	}
	s.Suppliers = append(s.Suppliers, sup)
}

// RemoveSupplier deletes the supplier with the given id.
func (s *RecordStore) RemoveSupplier(id string) error {
	for i := range s.Suppliers {
		if s.Suppliers[i].SupplierID == id {
			s.Suppliers = append(s.Suppliers[:i], s.Suppliers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownSupplier, id)
}
