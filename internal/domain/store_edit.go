package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidEdit is returned for an edit with an unknown op or a missing payload.
var ErrInvalidEdit = errors.New("invalid record edit")

// EditOp names a record store edit.
type EditOp string

const (
	OpAddSKU         EditOp = "add_sku"
	OpUpdateSKU      EditOp = "update_sku"
	OpRemoveSKU      EditOp = "remove_sku"
	OpUpsertFactory  EditOp = "upsert_factory"
	OpRemoveFactory  EditOp = "remove_factory"
	OpUpsertSupplier EditOp = "upsert_supplier"
	OpRemoveSupplier EditOp = "remove_supplier"
)

// StoreEdit is one edit posted against a record store. ID addresses the
// record for update and remove operations.
type StoreEdit struct {
	Op       EditOp           `json:"op"`
	ID       string           `json:"id,omitempty"`
	SKU      *SKURecord       `json:"sku,omitempty"`
	Factory  *FactoryCapacity `json:"factory,omitempty"`
	Supplier *Supplier        `json:"supplier,omitempty"`
}

// Apply performs a single edit in place.
func (s *RecordStore) Apply(e StoreEdit) error {
	switch e.Op {
	case OpAddSKU:
		if e.SKU == nil {
			return fmt.Errorf("%w: %s needs a sku", ErrInvalidEdit, e.Op)
		}
		return s.AddSKU(*e.SKU)
	case OpUpdateSKU:
		if e.SKU == nil {
			return fmt.Errorf("%w: %s needs a sku", ErrInvalidEdit, e.Op)
		}
		return s.UpdateSKU(e.ID, func(r *SKURecord) { *r = *e.SKU })
	case OpRemoveSKU:
		return s.RemoveSKU(e.ID)
	case OpUpsertFactory:
		if e.Factory == nil || e.Factory.FactoryLocation == "" {
			return fmt.Errorf("%w: %s needs a factory location", ErrInvalidEdit, e.Op)
		}
		s.UpsertFactory(*e.Factory)
		return nil
	case OpRemoveFactory:
		return s.RemoveFactory(e.ID)
	case OpUpsertSupplier:
		if e.Supplier == nil || e.Supplier.SupplierID == "" {
			return fmt.Errorf("%w: %s needs a supplier id", ErrInvalidEdit, e.Op)
		}
		s.UpsertSupplier(*e.Supplier)
		return nil
	case OpRemoveSupplier:
		return s.RemoveSupplier(e.ID)
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidEdit, e.Op)
	}
}

// ApplyEdits runs edits in order against a copy of the store.
// The receiver is left untouched when any edit fails.
func (s RecordStore) ApplyEdits(edits []StoreEdit) (RecordStore, error) {
	out := s.Clone()
	if err := out.Normalize(); err != nil {
		return s, err
	}
	for i, e := range edits {
		if err := out.Apply(e); err != nil {
			return s, fmt.Errorf("edit %d (%s): %w", i, e.Op, err)
		}
	}
	return out, nil
}
