// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/store"
)

// Book is the media item subtype of BOOK categories.
type Book struct {
	Core
	Authors    []string `json:"authors"`
	PagesCount int      `json:"pages_count"`
}

// ItemCore implements [Entry].
func (b *Book) ItemCore() *Core { return &b.Core }

// CloneBook deep-copies a book for the memory engine.
func CloneBook(b Book) Book {
	out := b
	out.Core = cloneCore(b.Core)
	if b.Authors != nil {
		out.Authors = append([]string(nil), b.Authors...)
	}
	return out
}

// BookSchema declares the logical field mapping of the books collection.
func BookSchema() store.Schema[Book] {
	return store.Schema[Book]{
		Collection: "media_books",
		ID:         func(b *Book) string { return b.ID },
		SetID:      func(b *Book, id string) { b.ID = id },
		Value: func(b *Book, field store.Field) (any, bool) {
			if value, handled := coreValue(&b.Core, field); handled {
				return value, true
			}
			switch field {
			case FieldAuthors:
				return b.Authors, true
			case FieldPagesCount:
				return b.PagesCount, true
			default:
				return nil, false
			}
		},
		Apply: func(b *Book, field store.Field, value any) error {
			if handled, err := coreApply(&b.Core, field, value); handled {
				return err
			}
			return store.ErrUnknownField(field)
		},
	}
}

// bookType is the [Descriptor] of the book subtype.
type bookType struct{}

// BookType returns the book descriptor.
func BookType() Descriptor { return bookType{} }

func (bookType) MediaType() category.MediaType { return category.MediaTypeBook }
func (bookType) EntityName() string            { return "Book" }

func (bookType) DefaultSort() []store.SortSpec { return defaultItemSort() }

func (bookType) SortColumn(field SortField) (store.Field, bool) {
	if column, known := commonSortColumn(field); known {
		return column, true
	}
	if field == SortByPagesCount {
		return FieldPagesCount, true
	}
	return "", false
}

func (bookType) SearchFields() []store.Field {
	return []store.Field{FieldAuthors}
}
