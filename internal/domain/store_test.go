package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStoreSKUEdits(t *testing.T) {
	var s RecordStore

	require.NoError(t, s.AddSKU(SKURecord{SKU: "SKU-001", CurrentStock: 5}))
	require.NoError(t, s.AddSKU(SKURecord{}))
	assert.Equal(t, "SKU-002", s.SKUs[1].SKU)

	err := s.AddSKU(SKURecord{SKU: " SKU-001 "})
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	require.NoError(t, s.UpdateSKU("SKU-001", func(r *SKURecord) { r.CurrentStock = 42 }))
	assert.Equal(t, 42, s.SKUs[0].CurrentStock)

	assert.ErrorIs(t, s.UpdateSKU("SKU-404", func(*SKURecord) {}), ErrUnknownSKU)

	require.NoError(t, s.RemoveSKU("SKU-002"))
	assert.ErrorIs(t, s.RemoveSKU("SKU-001"), ErrLastRecord)
	assert.Len(t, s.SKUs, 1)
}

func TestRecordStoreUpdateKeepsIdentity(t *testing.T) {
	s := RecordStore{SKUs: []SKURecord{{SKU: "SKU-001"}}}

	require.NoError(t, s.UpdateSKU("SKU-001", func(r *SKURecord) { r.SKU = "" }))
	assert.Equal(t, "SKU-001", s.SKUs[0].SKU)
}

func TestRecordStoreFactoriesAndSuppliers(t *testing.T) {
	var s RecordStore

	s.UpsertFactory(FactoryCapacity{FactoryLocation: "Pune", WeeklyCapacity: 100})
	s.UpsertFactory(FactoryCapacity{FactoryLocation: "Pune", WeeklyCapacity: 120})
	require.Len(t, s.Factories, 1)
	assert.Equal(t, 120, s.Factories[0].WeeklyCapacity)
	require.NoError(t, s.RemoveFactory("Pune"))
	assert.ErrorIs(t, s.RemoveFactory("Pune"), ErrUnknownFactory)

	s.UpsertSupplier(Supplier{SupplierID: "SUP-001", MOQ: 10})
	s.UpsertSupplier(Supplier{SupplierID: "SUP-002"})
	require.Len(t, s.Suppliers, 2)
	require.NoError(t, s.RemoveSupplier("SUP-001"))
	assert.ErrorIs(t, s.RemoveSupplier("SUP-001"), ErrUnknownSupplier)
	assert.False(t, s.IsEmpty())
}

func TestRecordStoreClone(t *testing.T) {
	s := RecordStore{SKUs: []SKURecord{{SKU: "SKU-001", CurrentStock: 1}}}
	c := s.Clone()
	c.SKUs[0].CurrentStock = 99

	assert.Equal(t, 1, s.SKUs[0].CurrentStock)
	assert.True(t, RecordStore{}.IsEmpty())
}

func TestRecordStoreAddSKUSkipsTakenIDs(t *testing.T) {
	s := RecordStore{SKUs: []SKURecord{{SKU: "SKU-002"}}}

	require.NoError(t, s.AddSKU(SKURecord{}))
	assert.Equal(t, "SKU-003", s.SKUs[1].SKU)
}

func TestRecordStoreUpdateRejectsTakenID(t *testing.T) {
	s := RecordStore{SKUs: []SKURecord{{SKU: "SKU-001", CurrentStock: 1}, {SKU: "SKU-002"}}}

	err := s.UpdateSKU("SKU-001", func(r *SKURecord) {
		r.SKU = "SKU-002"
		r.CurrentStock = 9
	})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
	assert.Equal(t, SKURecord{SKU: "SKU-001", CurrentStock: 1}, s.SKUs[0])

	require.NoError(t, s.UpdateSKU("SKU-001", func(r *SKURecord) { r.SKU = "SKU-010" }))
	assert.Equal(t, "SKU-010", s.SKUs[0].SKU)
}

func TestRecordStoreNormalize(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		want    []string
		wantErr error
	}{
		{name: "blank ids", ids: []string{"", ""}, want: []string{"SKU-001", "SKU-002"}},
		{name: "explicit id before blank", ids: []string{"SKU-002", ""}, want: []string{"SKU-002", "SKU-003"}},
		{name: "explicit id after blank", ids: []string{"", "SKU-001"}, want: []string{"SKU-002", "SKU-001"}},
		{name: "trimmed", ids: []string{" A ", "B"}, want: []string{"A", "B"}},
		{name: "duplicate explicit ids", ids: []string{"A", " A"}, wantErr: ErrDuplicateSKU},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s RecordStore
			for _, id := range tt.ids {
				s.SKUs = append(s.SKUs, SKURecord{SKU: id})
			}

			err := s.Normalize()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got := make([]string, 0, len(s.SKUs))
			for _, rec := range s.SKUs {
				got = append(got, rec.SKU)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordStoreApplyEdits(t *testing.T) {
	base := RecordStore{
		SKUs:      []SKURecord{{SKU: "SKU-001", CurrentStock: 5}},
		Factories: []FactoryCapacity{{FactoryLocation: "Pune", WeeklyCapacity: 100}},
		Suppliers: []Supplier{{SupplierID: "SUP-001"}},
	}

	got, err := base.ApplyEdits([]StoreEdit{
		{Op: OpAddSKU, SKU: &SKURecord{ForecastDemand: 30}},
		{Op: OpUpdateSKU, ID: "SKU-001", SKU: &SKURecord{CurrentStock: 7}},
		{Op: OpUpsertFactory, Factory: &FactoryCapacity{FactoryLocation: "Chennai", WeeklyCapacity: 50}},
		{Op: OpRemoveFactory, ID: "Pune"},
		{Op: OpUpsertSupplier, Supplier: &Supplier{SupplierID: "SUP-002"}},
		{Op: OpRemoveSupplier, ID: "SUP-001"},
		{Op: OpRemoveSKU, ID: "SKU-002"},
	})
	require.NoError(t, err)

	assert.Equal(t, []SKURecord{{SKU: "SKU-001", CurrentStock: 7}}, got.SKUs)
	assert.Equal(t, []FactoryCapacity{{FactoryLocation: "Chennai", WeeklyCapacity: 50}}, got.Factories)
	assert.Equal(t, []Supplier{{SupplierID: "SUP-002"}}, got.Suppliers)

	assert.Equal(t, 5, base.SKUs[0].CurrentStock)
	assert.Equal(t, "Pune", base.Factories[0].FactoryLocation)
}

func TestRecordStoreApplyEditsErrors(t *testing.T) {
	base := RecordStore{SKUs: []SKURecord{{SKU: "SKU-001"}}}

	tests := []struct {
		name string
		edit StoreEdit
		want error
	}{
		{name: "last record", edit: StoreEdit{Op: OpRemoveSKU, ID: "SKU-001"}, want: ErrLastRecord},
		{name: "unknown sku", edit: StoreEdit{Op: OpUpdateSKU, ID: "SKU-404", SKU: &SKURecord{}}, want: ErrUnknownSKU},
		{name: "duplicate add", edit: StoreEdit{Op: OpAddSKU, SKU: &SKURecord{SKU: "SKU-001"}}, want: ErrDuplicateSKU},
		{name: "missing payload", edit: StoreEdit{Op: OpAddSKU}, want: ErrInvalidEdit},
		{name: "unknown op", edit: StoreEdit{Op: "rename"}, want: ErrInvalidEdit},
		{name: "unknown factory", edit: StoreEdit{Op: OpRemoveFactory, ID: "Nowhere"}, want: ErrUnknownFactory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.ApplyEdits([]StoreEdit{tt.edit})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, base, got)
		})
	}
}
