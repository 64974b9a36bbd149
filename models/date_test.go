package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDateTruncates(t *testing.T) {
	d := NewDate(time.Date(2026, 8, 31, 15, 42, 7, 0, time.UTC))
	assert.Equal(t, "31/8/2026", d.String())
	assert.Equal(t, 0, d.Hour())
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	// Day and month are unpadded, matching the sheet format.
	assert.Equal(t, `"3/2/2026"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2026, back.Year())
	assert.Equal(t, time.February, back.Month())
	assert.Equal(t, 3, back.Day())
}

func TestDateUnmarshalEmpty(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

func TestDateUnmarshalInvalid(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`"2026-08-31"`), &d)
	assert.Error(t, err)
}

func TestZeroDateMarshalsEmpty(t *testing.T) {
	data, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusAwaitingDeposit.Valid())
	assert.True(t, StatusFinished.Valid())
	assert.False(t, Status("shipped").Valid())

	assert.Equal(t, "เสร็จสมบูรณ์", StatusFinished.Label())
	assert.Equal(t, "shipped", Status("shipped").Label())

	all := AllStatuses()
	assert.Len(t, all, 7)
	assert.Equal(t, StatusAwaitingDeposit, all[0])
	assert.Equal(t, StatusFinished, all[len(all)-1])
}

func TestContactChannelValid(t *testing.T) {
	assert.True(t, ContactDiscord.Valid())
	assert.True(t, ContactVGen.Valid())
	assert.False(t, ContactChannel("LINE").Valid())
}

func TestAddOnsEmpty(t *testing.T) {
	assert.True(t, AddOns{}.Empty())
	assert.False(t, AddOns{PropSmall: 1}.Empty())
	assert.False(t, AddOns{CustomDesignPrice: 50}.Empty())
}
