// Package store persists entities behind a composite (partition key, sort
// key) layout on gorm, with keyset pagination and an event-driven cascade
// for parent deletes.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/model"
)

const defaultPageSize = 25

// Page is one page of a listing. NextKey is an opaque cursor, the sort key
// of the last item seen; an empty key means the listing is exhausted.
type Page[T any] struct {
	Items   []T    `json:"items"`
	NextKey string `json:"next_page_key,omitempty"`
}

// scope narrows a listing to an indexed column condition.
type scope func(*gorm.DB) *gorm.DB

type entity[T any] interface {
	*T
	model.Entity
}

func getItem[T any, PT entity[T]](ctx context.Context, db *gorm.DB, pk, sk string) (PT, error) {
	var item T
	err := db.WithContext(ctx).
		Where("partition_key = ? AND sort_key = ?", pk, sk).
		Take(PT(&item)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("%s %s|%s not found", PT(&item).TableName(), pk, sk)
	}
	if err != nil {
		return nil, apperr.Internal("get %s: %v", PT(&item).TableName(), err)
	}
	return PT(&item), nil
}

func putItem[T any, PT entity[T]](ctx context.Context, db *gorm.DB, item PT) (PT, error) {
	item.SetKeys(item.Keys())
	item.Stamp(nowMillis())
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(item).Error
	if err != nil {
		return nil, apperr.Internal("put %s: %v", item.TableName(), err)
	}
	return item, nil
}

func batchPut[T any, PT entity[T]](ctx context.Context, db *gorm.DB, items []PT) error {
	if len(items) == 0 {
		return nil
	}
	now := nowMillis()
	for _, item := range items {
		item.SetKeys(item.Keys())
		item.Stamp(now)
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(items, defaultPageSize).Error
	if err != nil {
		return apperr.Internal("batch put %s: %v", items[0].TableName(), err)
	}
	return nil
}

func batchGet[T any, PT entity[T]](ctx context.Context, db *gorm.DB, keys [][2]string) ([]PT, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var zero T
	query := db.WithContext(ctx).Model(PT(&zero))
	pairs := make([][]any, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, []any{key[0], key[1]})
	}
	var items []T
	if err := query.Where("(partition_key, sort_key) IN ?", pairs).Find(&items).Error; err != nil {
		return nil, apperr.Internal("batch get %s: %v", PT(&zero).TableName(), err)
	}
	out := make([]PT, 0, len(items))
	for i := range items {
		out = append(out, PT(&items[i]))
	}
	return out, nil
}

// deleteItem removes one row and returns its previous value, nil when the
// row did not exist.
func deleteItem[T any, PT entity[T]](ctx context.Context, db *gorm.DB, pk, sk string) (PT, error) {
	previous, err := getItem[T, PT](ctx, db, pk, sk)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, nil
		}
		return nil, err
	}
	err = db.WithContext(ctx).
		Where("partition_key = ? AND sort_key = ?", pk, sk).
		Delete(previous).Error
	if err != nil {
		return nil, apperr.Internal("delete %s: %v", previous.TableName(), err)
	}
	return previous, nil
}

// listItems pages through a partition in ascending sort key order.
func listItems[T any, PT entity[T]](ctx context.Context, db *gorm.DB, pk, nextKey string, scopes ...scope) (Page[PT], error) {
	var zero T
	query := db.WithContext(ctx).Model(PT(&zero)).Where("partition_key = ?", pk)
	if nextKey != "" {
		query = query.Where("sort_key > ?", nextKey)
	}
	for _, s := range scopes {
		query = s(query)
	}
	var items []T
	err := query.Order("sort_key").Limit(defaultPageSize + 1).Find(&items).Error
	if err != nil {
		return Page[PT]{}, apperr.Internal("list %s: %v", PT(&zero).TableName(), err)
	}
	page := Page[PT]{}
	if len(items) > defaultPageSize {
		items = items[:defaultPageSize]
		_, page.NextKey = PT(&items[len(items)-1]).Keys()
	}
	for i := range items {
		page.Items = append(page.Items, PT(&items[i]))
	}
	return page, nil
}

// listAll drains every page of a partition.
func listAll[T any, PT entity[T]](ctx context.Context, db *gorm.DB, pk string, scopes ...scope) ([]PT, error) {
	var all []PT
	nextKey := ""
	for {
		page, err := listItems[T, PT](ctx, db, pk, nextKey, scopes...)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.NextKey == "" {
			return all, nil
		}
		nextKey = page.NextKey
	}
}

// deleteAll removes every row of a partition matching the scopes, reporting
// each removed entity to onDeleted when set.
func deleteAll[T any, PT entity[T]](ctx context.Context, db *gorm.DB, pk string, onDeleted func(PT), scopes ...scope) error {
	items, err := listAll[T, PT](ctx, db, pk, scopes...)
	if err != nil {
		return err
	}
	for _, item := range items {
		itemPK, itemSK := item.Keys()
		if _, err := deleteItem[T, PT](ctx, db, itemPK, itemSK); err != nil {
			return err
		}
		if onDeleted != nil {
			onDeleted(item)
		}
	}
	return nil
}

func sortKeyPrefix(prefix string) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("sort_key LIKE ?", prefix+"%")
	}
}
