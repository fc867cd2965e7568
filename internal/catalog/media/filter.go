// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"github.com/mediashelf/mediashelf/internal/store"
	"github.com/mediashelf/mediashelf/pkg/slice"
)

// RefSelection narrows items by an optional reference field. An explicit id
// list wins over the flags; AnyRef and NoRef together (or neither) mean no
// constraint at all.
type RefSelection struct {
	IDs    []string `json:"ids"`
	AnyRef bool     `json:"any"`
	NoRef  bool     `json:"none"`
}

// ItemFilter is the optional-field filter callers compose per request. Nil
// fields contribute no condition.
type ItemFilter struct {
	ImportanceLevels []Importance  `json:"importance_levels"`
	Name             *string       `json:"name"`
	Completed        *bool         `json:"completed"`
	Groups           *RefSelection `json:"groups"`
	OwnPlatforms     *RefSelection `json:"own_platforms"`
}

// SortField names a sortable media item property on the wire. The common
// fields are handled once; subtypes extend the set through their descriptor.
type SortField string

const (
	SortByName            SortField = "NAME"
	SortByImportance      SortField = "IMPORTANCE"
	SortByReleaseDate     SortField = "RELEASE_DATE"
	SortByCompletedLastOn SortField = "COMPLETED_LAST_ON"
	SortByOrderInGroup    SortField = "ORDER_IN_GROUP"
	SortByActive          SortField = "ACTIVE"

	SortByPagesCount         SortField = "PAGES_COUNT"          // books
	SortByDurationMin        SortField = "DURATION_MIN"         // movies
	SortByEpisodesNumber     SortField = "EPISODES_NUMBER"      // TV shows
	SortBySeasonsNumber      SortField = "SEASONS_NUMBER"       // TV shows
	SortByAverageLengthHours SortField = "AVERAGE_LENGTH_HOURS" // videogames
)

// SortRequest is one entry of a caller-supplied ordering. Entries apply in
// order; later entries break ties of earlier ones.
type SortRequest struct {
	Field     SortField       `json:"field"`
	Direction store.Direction `json:"direction"`
}

// commonSortColumn maps the subtype-independent sort fields. Subtype
// descriptors consult it first and add their own mappings on a miss.
func commonSortColumn(field SortField) (store.Field, bool) {
	switch field {
	case SortByName:
		return FieldName, true
	case SortByImportance:
		return FieldImportance, true
	case SortByReleaseDate:
		return FieldReleaseDate, true
	case SortByCompletedLastOn:
		return FieldCompletedLastOn, true
	case SortByOrderInGroup:
		return FieldOrderInGroup, true
	case SortByActive:
		return FieldActive, true
	default:
		return "", false
	}
}

// buildConditions compiles an [ItemFilter] into the predicate tree, always
// anchored on the (owner, category) scope.
func buildConditions(userID, categoryID string, filter *ItemFilter) store.Filter {
	conditions := []store.Filter{itemScope(userID, categoryID)}
	if filter == nil {
		return store.And(conditions...)
	}

	if len(filter.ImportanceLevels) > 0 {
		levels := slice.Map(filter.ImportanceLevels, func(level Importance) any { return int(level) })
		conditions = append(conditions, store.In(FieldImportance, levels...))
	}

	if filter.Name != nil {
		conditions = append(conditions, store.EqFold(FieldName, *filter.Name))
	}

	if filter.Completed != nil {
		// Completed means "was finished at least once and is not queued for
		// a redo"; incomplete is the exact negation.
		if *filter.Completed {
			conditions = append(conditions,
				store.Exists(FieldCompletedLastOn, true),
				store.Ne(FieldMarkedAsRedo, true),
			)
		} else {
			conditions = append(conditions, store.Or(
				store.Exists(FieldCompletedLastOn, false),
				store.Eq(FieldMarkedAsRedo, true),
			))
		}
	}

	conditions = append(conditions, refConditions(FieldGroup, filter.Groups)...)
	conditions = append(conditions, refConditions(FieldOwnPlatform, filter.OwnPlatforms)...)

	return store.And(conditions...)
}

func refConditions(field store.Field, selection *RefSelection) []store.Filter {
	if selection == nil {
		return nil
	}
	if len(selection.IDs) > 0 {
		return []store.Filter{store.InStrings(field, selection.IDs)}
	}
	switch {
	case selection.AnyRef && !selection.NoRef:
		return []store.Filter{store.Exists(field, true)}
	case selection.NoRef && !selection.AnyRef:
		return []store.Filter{store.Exists(field, false)}
	default:
		return nil
	}
}

func itemScope(userID, categoryID string) store.Filter {
	return store.And(store.Eq(FieldOwner, userID), store.Eq(FieldCategory, categoryID))
}

// defaultItemSort is the ordering shared by every subtype: most important
// first, names breaking ties.
func defaultItemSort() []store.SortSpec {
	return []store.SortSpec{store.Desc(FieldImportance), store.Asc(FieldName)}
}
