// Package models contains domain models for styleai.
package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// GarmentSlot identifies which garment slot of an outfit a tag is scoped to.
type GarmentSlot string

const (
	SlotTop         GarmentSlot = "top"
	SlotBottom      GarmentSlot = "bottom"
	SlotShoes       GarmentSlot = "shoes"
	SlotOuterwear   GarmentSlot = "outerwear"
	SlotAccessories GarmentSlot = "accessories"
)

// AllGarmentSlots lists every valid garment slot.
var AllGarmentSlots = []GarmentSlot{
	SlotTop,
	SlotBottom,
	SlotShoes,
	SlotOuterwear,
	SlotAccessories,
}

// TagKey builds the composite key used throughout the weight model.
func TagKey(attribute, value string) string {
	return attribute + ":" + value
}

// SplitTagKey splits a composite tag key back into attribute and value.
// The value may itself contain colons; only the first separator counts.
func SplitTagKey(key string) (attribute, value string, ok bool) {
	attribute, value, ok = strings.Cut(key, ":")
	return attribute, value, ok
}

// VisionTag is a single (attribute, value) annotation produced by the
// vision-analysis collaborator for an outfit image.
type VisionTag struct {
	Attribute  string      `json:"attribute"`
	Value      string      `json:"value"`
	Confidence float64     `json:"confidence"`
	ItemID     GarmentSlot `json:"item_id,omitempty"`
}

// Key returns the composite attribute:value key of this tag.
func (t VisionTag) Key() string {
	return TagKey(t.Attribute, t.Value)
}

// ClothingItem is a single garment identified in an analyzed outfit.
type ClothingItem struct {
	Slot        GarmentSlot `json:"slot"`
	Description string      `json:"description"`
	Color       string      `json:"color,omitempty"`
}

// OutfitAnalysis is the full vision-analysis result for one candidate outfit.
// Produced externally; read-only to the preference engine.
type OutfitAnalysis struct {
	Items        []ClothingItem `json:"items"`
	OverallVibe  string         `json:"overall_vibe"`
	ColorPalette []string       `json:"color_palette"`
	Tags         []VisionTag    `json:"tags"`
	Confidence   float64        `json:"confidence"`
}

// JSONStringArray is a custom type for handling JSON string arrays in SQL columns.
type JSONStringArray []string

// Scan implements sql.Scanner for JSONStringArray.
func (j *JSONStringArray) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("JSONStringArray: unsupported type %T", src)
	}

	if len(data) == 0 {
		*j = nil
		return nil
	}

	return json.Unmarshal(data, j)
}

// Value implements driver.Valuer for JSONStringArray.
func (j JSONStringArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
