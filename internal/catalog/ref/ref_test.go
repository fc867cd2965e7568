// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

package ref_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/catalog/ref"
)

type target struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

/*
TestRef_States walks the three reference states through the accessors.
*/
func TestRef_States(t *testing.T) {
	var unset ref.Ref[target]
	assert.True(t, unset.IsZero())
	assert.False(t, unset.IsResolved())
	assert.Empty(t, unset.ID())
	assert.Nil(t, unset.IDPtr())

	byID := ref.FromID[target]("t-1")
	assert.False(t, byID.IsZero())
	assert.False(t, byID.IsResolved())
	assert.Equal(t, "t-1", byID.ID())
	require.NotNil(t, byID.IDPtr())
	assert.Equal(t, "t-1", *byID.IDPtr())
	_, ok := byID.Entity()
	assert.False(t, ok)

	resolved := ref.Resolved("t-1", target{ID: "t-1", Name: "Resolved"})
	assert.True(t, resolved.IsResolved())
	assert.Equal(t, "t-1", resolved.ID(), "resolving never loses the id")
	entity, ok := resolved.Entity()
	require.True(t, ok)
	assert.Equal(t, "Resolved", entity.Name)
}

/*
TestRef_FromIDPtr checks the round trip through the nullable storage form.
*/
func TestRef_FromIDPtr(t *testing.T) {
	assert.True(t, ref.FromIDPtr[target](nil).IsZero())

	empty := ""
	assert.True(t, ref.FromIDPtr[target](&empty).IsZero())

	id := "t-9"
	restored := ref.FromIDPtr[target](&id)
	assert.Equal(t, "t-9", restored.ID())
}

/*
TestRef_JSON: responses carry null, a bare id string, or the resolved entity;
inbound payloads only ever carry an id string or null.
*/
func TestRef_JSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		unset, err := json.Marshal(ref.Ref[target]{})
		require.NoError(t, err)
		assert.JSONEq(t, `null`, string(unset))

		byID, err := json.Marshal(ref.FromID[target]("t-1"))
		require.NoError(t, err)
		assert.JSONEq(t, `"t-1"`, string(byID))

		resolved, err := json.Marshal(ref.Resolved("t-1", target{ID: "t-1", Name: "Full"}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"t-1","name":"Full"}`, string(resolved))
	})

	t.Run("unmarshal", func(t *testing.T) {
		var fromID ref.Ref[target]
		require.NoError(t, json.Unmarshal([]byte(`"t-2"`), &fromID))
		assert.Equal(t, "t-2", fromID.ID())
		assert.False(t, fromID.IsResolved())

		var fromNull ref.Ref[target]
		require.NoError(t, json.Unmarshal([]byte(`null`), &fromNull))
		assert.True(t, fromNull.IsZero())

		var fromObject ref.Ref[target]
		err := json.Unmarshal([]byte(`{"id":"t-3"}`), &fromObject)
		assert.Error(t, err, "entities are never accepted inbound")
	})
}
