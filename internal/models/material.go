package models

import (
	"time"

	"github.com/lib/pq"
)

// MaterialCategory classifies catalog entries.
type MaterialCategory string

const (
	CategoryFertilizer MaterialCategory = "Fertilizer"
	CategoryPesticide  MaterialCategory = "Pesticide"
	CategoryFungicide  MaterialCategory = "Fungicide"
	CategorySeed       MaterialCategory = "Seed"
	CategoryEquipment  MaterialCategory = "Equipment"
)

// Valid reports whether the category belongs to the closed set.
func (c MaterialCategory) Valid() bool {
	switch c {
	case CategoryFertilizer, CategoryPesticide, CategoryFungicide, CategorySeed, CategoryEquipment:
		return true
	default:
		return false
	}
}

// MaterialUnit is the sales unit for a catalog entry.
type MaterialUnit string

const (
	UnitKilogram MaterialUnit = "kg"
	UnitLitre    MaterialUnit = "litre"
	UnitPacket   MaterialUnit = "packet"
	UnitPiece    MaterialUnit = "piece"
)

// Valid reports whether the unit belongs to the closed set.
func (u MaterialUnit) Valid() bool {
	switch u {
	case UnitKilogram, UnitLitre, UnitPacket, UnitPiece:
		return true
	default:
		return false
	}
}

// Material is a purchasable agricultural catalog entity. Pure reference data,
// no ownership or workflow state.
type Material struct {
	ID              string           `db:"id" json:"id"`
	Name            string           `db:"name" json:"name"`
	Category        MaterialCategory `db:"category" json:"category"`
	UsageTags       pq.StringArray   `db:"usage_tags" json:"usage_tags"`
	Instructions    string           `db:"instructions" json:"instructions"`
	Unit            MaterialUnit     `db:"unit" json:"unit"`
	Price           float64          `db:"price" json:"price"`
	SupplierName    string           `db:"supplier_name" json:"supplier_name"`
	SupplierContact string           `db:"supplier_contact" json:"supplier_contact"`
	ImagePath       string           `db:"image_path" json:"image"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}
