package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ChecklistDocVersion is the current on-disk checklist document version.
// Bump it only together with an explicit migration in Scan.
const ChecklistDocVersion = 1

// ChecklistSubItem is a nested objective of a checklist item. One nesting
// level only; sub-items have no further children.
type ChecklistSubItem struct {
	UID       string `json:"uid,omitempty"`
	Texto     string `json:"texto"`
	Descricao string `json:"descricao,omitempty"`
	Concluido bool   `json:"concluido"`
}

// ChecklistItem is a discrete objective within a task. Items are addressed
// externally by their position in the checklist array; the UID is an internal
// stable identifier that survives reordering.
type ChecklistItem struct {
	UID       string             `json:"uid,omitempty"`
	Texto     string             `json:"texto"`
	Descricao string             `json:"descricao,omitempty"`
	Concluido bool               `json:"concluido"`
	Subitens  []ChecklistSubItem `json:"subitens,omitempty"`
}

// Checklist is an ordered, index-addressed list of checklist items, stored as
// a versioned JSON document.
type Checklist []ChecklistItem

type checklistDocument struct {
	Version int             `json:"version"`
	Items   []ChecklistItem `json:"items"`
}

// Value serializes the checklist as a versioned JSON document.
func (c Checklist) Value() (driver.Value, error) {
	items := []ChecklistItem(c)
	if items == nil {
		items = []ChecklistItem{}
	}
	data, err := json.Marshal(checklistDocument{
		Version: ChecklistDocVersion,
		Items:   items,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checklist: %w", err)
	}
	return data, nil
}

// Scan deserializes a checklist column. Legacy rows hold a bare JSON array;
// current rows hold a {"version":1,"items":[...]} envelope.
func (c *Checklist) Scan(value interface{}) error {
	if value == nil {
		*c = Checklist{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported checklist column type %T", value)
	}

	if len(data) == 0 {
		*c = Checklist{}
		return nil
	}

	// Legacy shape: bare array of items.
	if data[0] == '[' {
		var items []ChecklistItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("failed to unmarshal legacy checklist: %w", err)
		}
		*c = items
		return nil
	}

	var doc checklistDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal checklist document: %w", err)
	}
	if doc.Version != ChecklistDocVersion {
		return fmt.Errorf("unknown checklist document version %d", doc.Version)
	}
	*c = doc.Items
	return nil
}

// GormDataType tells GORM to store the checklist as JSON.
func (Checklist) GormDataType() string {
	return "json"
}

// EnsureUIDs assigns a fresh UID to every item and sub-item that does not
// have one yet. Existing UIDs are preserved so identity survives reordering.
func (c Checklist) EnsureUIDs() {
	for i := range c {
		if c[i].UID == "" {
			c[i].UID = uuid.NewString()
		}
		for j := range c[i].Subitens {
			if c[i].Subitens[j].UID == "" {
				c[i].Subitens[j].UID = uuid.NewString()
			}
		}
	}
}

// Item returns the item at the given index.
func (c Checklist) Item(index int) (*ChecklistItem, bool) {
	if index < 0 || index >= len(c) {
		return nil, false
	}
	return &c[index], true
}

// SubItem returns the sub-item at the given indexes.
func (c Checklist) SubItem(index, subIndex int) (*ChecklistSubItem, bool) {
	item, ok := c.Item(index)
	if !ok {
		return nil, false
	}
	if subIndex < 0 || subIndex >= len(item.Subitens) {
		return nil, false
	}
	return &item.Subitens[subIndex], true
}

// AnyConcluido reports whether at least one item is concluido.
func (c Checklist) AnyConcluido() bool {
	for _, item := range c {
		if item.Concluido {
			return true
		}
	}
	return false
}

// AllConcluido reports whether the checklist is non-empty and every item is
// concluido. Sub-items do not participate; the item flag is authoritative.
func (c Checklist) AllConcluido() bool {
	if len(c) == 0 {
		return false
	}
	for _, item := range c {
		if !item.Concluido {
			return false
		}
	}
	return true
}
