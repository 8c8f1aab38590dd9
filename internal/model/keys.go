// Package model defines the persisted entities of the replay service.
//
// Every entity is addressed by a composite (partition key, sort key) pair so
// that the generic store can share pagination and cascade logic while each
// entity keeps its own key shape explicit.
package model

import "strings"

// Keyed carries the composite key columns shared by all entities.
type Keyed struct {
	PK string `gorm:"column:partition_key;primaryKey;size:512" json:"-"`
	SK string `gorm:"column:sort_key;primaryKey;size:512" json:"-"`
}

// SetKeys stamps the derived key columns before a write.
func (k *Keyed) SetKeys(pk, sk string) {
	k.PK = pk
	k.SK = sk
}

// Timestamps carries the audit columns shared by all entities, unix millis.
type Timestamps struct {
	CreatedAt int64 `gorm:"column:created_at" json:"created_at,omitempty"`
	UpdatedAt int64 `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// Stamp records creation and update times.
func (t *Timestamps) Stamp(now int64) {
	if t.CreatedAt == 0 {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// Entity is implemented by every persisted type. Keys derives the composite
// key from the entity's own identifier fields.
type Entity interface {
	Keys() (pk string, sk string)
	SetKeys(pk, sk string)
	Stamp(now int64)
	TableName() string
}

// CompositeKey joins key parts the way the store expects them.
func CompositeKey(parts ...string) string {
	return strings.Join(parts, "#")
}
