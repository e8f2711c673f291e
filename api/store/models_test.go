/* models_test.go
 * Contains unit tests for models.go
 * Authors: Zachary Bower
 */

package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// region Position tests

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"1", 1},
		{" 3 ", 3},
		{"1.0", 1},
		{"DNF", 0},
		{"", 0},
		{"-2", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePosition(tt.in))
		})
	}
}

func TestPosition_DecodeBSONString(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "position", Value: "1"}})
	require.NoError(t, err)

	var res EventResult
	require.NoError(t, bson.Unmarshal(raw, &res))
	assert.Equal(t, Position(1), res.Position)
}

func TestPosition_DecodeBSONNumbers(t *testing.T) {
	for _, v := range []interface{}{int32(1), int64(1), float64(1)} {
		raw, err := bson.Marshal(bson.D{{Key: "position", Value: v}})
		require.NoError(t, err)

		var res EventResult
		require.NoError(t, bson.Unmarshal(raw, &res))
		assert.Equal(t, Position(1), res.Position, "value %v", v)
	}
}

func TestPosition_DecodeBSONNull(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "position", Value: nil}})
	require.NoError(t, err)

	var res EventResult
	require.NoError(t, bson.Unmarshal(raw, &res))
	assert.Equal(t, Position(0), res.Position)
}

func TestPosition_DecodeBSONUnsupported(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "position", Value: bson.A{"1"}}})
	require.NoError(t, err)

	var res EventResult
	assert.Error(t, bson.Unmarshal(raw, &res))
}

func TestPosition_EncodeBSONAsInt(t *testing.T) {
	raw, err := bson.Marshal(EventResult{Position: 4})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, int32(4), doc["position"])
}

func TestPosition_DecodeJSON(t *testing.T) {
	var a, b, c EventResult
	require.NoError(t, json.Unmarshal([]byte(`{"position":"2"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"position":2}`), &b))
	require.NoError(t, json.Unmarshal([]byte(`{"position":"DNF"}`), &c))

	assert.Equal(t, Position(2), a.Position)
	assert.Equal(t, Position(2), b.Position)
	assert.Equal(t, Position(0), c.Position)
}

// endregion

// region Validate tests

func TestTicketStatus_Valid(t *testing.T) {
	assert.True(t, StatusOpen.Valid())
	assert.True(t, StatusInvestigating.Valid())
	assert.True(t, StatusClosed.Valid())
	assert.False(t, TicketStatus("Reopened").Valid())
}

func TestTicket_Validate(t *testing.T) {
	ticket := CreateSampleTicket("t1", "r1", "a1")
	assert.NoError(t, ticket.Validate())

	ticket.Status = "Pending"
	assert.Error(t, ticket.Validate())

	ticket = CreateSampleTicket("", "r1", "a1")
	assert.Error(t, ticket.Validate())

	ticket = CreateSampleTicket("t1", "", "a1")
	assert.Error(t, ticket.Validate())
}

func TestProfile_Validate(t *testing.T) {
	assert.NoError(t, Profile{Email: "a@b.com", Name: "Max"}.Validate())
	assert.Error(t, Profile{Email: "", Name: "Max"}.Validate())
	assert.Error(t, Profile{Email: "a@b.com", Name: "  "}.Validate())
}

func TestDriver_DecodeLegacyDocument(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: "uid1"},
		{Key: "name", Value: "Max"},
		{Key: "team", Value: "Red Bull Racing"},
		{Key: "totalPoints", Value: int32(25)},
		{Key: "results", Value: bson.D{
			{Key: "race1", Value: bson.D{{Key: "position", Value: "1"}}},
			{Key: "race2", Value: bson.D{{Key: "position", Value: int32(1)}}},
		}},
	})
	require.NoError(t, err)

	var d Driver
	require.NoError(t, bson.Unmarshal(raw, &d))
	assert.Equal(t, 25, d.TotalPoints)
	assert.Equal(t, Position(1), d.Results["race1"].Position)
	assert.Equal(t, Position(1), d.Results["race2"].Position)
}

// endregion
