// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package media

import (
	"time"

	"github.com/mediashelf/mediashelf/internal/catalog/category"
	"github.com/mediashelf/mediashelf/internal/store"
)

// TvShow is the media item subtype of TV_SHOW categories.
type TvShow struct {
	Core
	Creators                 []string   `json:"creators"`
	AverageEpisodeRuntimeMin int        `json:"average_episode_runtime_min"`
	EpisodesNumber           int        `json:"episodes_number"`
	SeasonsNumber            int        `json:"seasons_number"`
	InProduction             bool       `json:"in_production"`
	NextEpisodeAirDate       *time.Time `json:"next_episode_air_date"`
}

// ItemCore implements [Entry].
func (s *TvShow) ItemCore() *Core { return &s.Core }

// CloneTvShow deep-copies a TV show for the memory engine.
func CloneTvShow(s TvShow) TvShow {
	out := s
	out.Core = cloneCore(s.Core)
	if s.Creators != nil {
		out.Creators = append([]string(nil), s.Creators...)
	}
	if s.NextEpisodeAirDate != nil {
		next := *s.NextEpisodeAirDate
		out.NextEpisodeAirDate = &next
	}
	return out
}

// TvShowSchema declares the logical field mapping of the TV show collection.
func TvShowSchema() store.Schema[TvShow] {
	return store.Schema[TvShow]{
		Collection: "media_tv_shows",
		ID:         func(s *TvShow) string { return s.ID },
		SetID:      func(s *TvShow, id string) { s.ID = id },
		Value: func(s *TvShow, field store.Field) (any, bool) {
			if value, handled := coreValue(&s.Core, field); handled {
				return value, true
			}
			switch field {
			case FieldCreators:
				return s.Creators, true
			case FieldEpisodeRuntimeMin:
				return s.AverageEpisodeRuntimeMin, true
			case FieldEpisodesNumber:
				return s.EpisodesNumber, true
			case FieldSeasonsNumber:
				return s.SeasonsNumber, true
			case FieldInProduction:
				return s.InProduction, true
			case FieldNextEpisodeAirDate:
				return s.NextEpisodeAirDate, true
			default:
				return nil, false
			}
		},
		Apply: func(s *TvShow, field store.Field, value any) error {
			if handled, err := coreApply(&s.Core, field, value); handled {
				return err
			}
			return store.ErrUnknownField(field)
		},
	}
}

// tvShowType is the [Descriptor] of the TV show subtype.
type tvShowType struct{}

// TvShowType returns the TV show descriptor.
func TvShowType() Descriptor { return tvShowType{} }

func (tvShowType) MediaType() category.MediaType { return category.MediaTypeTvShow }
func (tvShowType) EntityName() string            { return "TV show" }

func (tvShowType) DefaultSort() []store.SortSpec { return defaultItemSort() }

func (tvShowType) SortColumn(field SortField) (store.Field, bool) {
	if column, known := commonSortColumn(field); known {
		return column, true
	}
	switch field {
	case SortByEpisodesNumber:
		return FieldEpisodesNumber, true
	case SortBySeasonsNumber:
		return FieldSeasonsNumber, true
	default:
		return "", false
	}
}

func (tvShowType) SearchFields() []store.Field {
	return []store.Field{FieldCreators}
}
