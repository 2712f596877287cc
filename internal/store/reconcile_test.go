package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionDetails(t *testing.T) {
	current := []OrderDetail{
		{ID: "d1", ProductID: "p1", Quantity: 2},
		{ID: "d2", ProductID: "p2", Quantity: 1},
	}

	tests := []struct {
		name         string
		details      []DetailInput
		wantToAdd    []string
		wantToUpdate []string
	}{
		{
			"all new",
			[]DetailInput{{ProductID: "p3", Quantity: 1}, {ProductID: "p4", Quantity: 1}},
			[]string{"p3", "p4"},
			nil,
		},
		{
			"all existing",
			[]DetailInput{{ProductID: "p1", Quantity: 5}, {ProductID: "p2", Quantity: 5}},
			nil,
			[]string{"p1", "p2"},
		},
		{
			"mixed keeps input order",
			[]DetailInput{{ProductID: "p3", Quantity: 1}, {ProductID: "p1", Quantity: 5}, {ProductID: "p4", Quantity: 1}},
			[]string{"p3", "p4"},
			[]string{"p1"},
		},
		{
			"empty submission",
			nil,
			nil,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toAdd, toUpdate := partitionDetails(tt.details, current)
			assert.Equal(t, tt.wantToAdd, productIDs(toAdd))
			assert.Equal(t, tt.wantToUpdate, productIDs(toUpdate))
		})
	}
}

func TestPartitionDetails_NoCurrentDetails(t *testing.T) {
	toAdd, toUpdate := partitionDetails([]DetailInput{{ProductID: "p1", Quantity: 1}}, nil)

	assert.Equal(t, []string{"p1"}, productIDs(toAdd))
	assert.Empty(t, toUpdate)
}

func productIDs(details []DetailInput) []string {
	var out []string
	for _, d := range details {
		out = append(out, d.ProductID)
	}
	return out
}

func TestValidateDetails(t *testing.T) {
	tests := []struct {
		name    string
		details []DetailInput
		wantErr string // "", "validation", "duplicate"
	}{
		{"ok", []DetailInput{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 3}}, ""},
		{"empty", nil, "validation"},
		{"zero quantity", []DetailInput{{ProductID: "p1", Quantity: 0}}, "validation"},
		{"negative quantity", []DetailInput{{ProductID: "p1", Quantity: -2}}, "validation"},
		{"duplicate", []DetailInput{{ProductID: "p1", Quantity: 1}, {ProductID: "p1", Quantity: 2}}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDetails(tt.details)
			switch tt.wantErr {
			case "":
				assert.NoError(t, err)
			case "validation":
				var valErr *ValidationError
				assert.ErrorAs(t, err, &valErr)
			case "duplicate":
				var dupErr *DuplicateProductError
				assert.ErrorAs(t, err, &dupErr)
			}
		})
	}
}

func TestValidateDetails_ListsEachDuplicateOnce(t *testing.T) {
	err := validateDetails([]DetailInput{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 2},
		{ProductID: "p1", Quantity: 3},
	})

	var dupErr *DuplicateProductError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, []string{"p1", "p2"}, dupErr.ProductIDs)
}
