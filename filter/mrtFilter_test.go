package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CSUNetSec/bgpgill/model"
)

func TestASFilterSource(t *testing.T) {
	fil, err := NewASFilter("65001,65002", AsSource)
	require.NoError(t, err)

	match := &model.MrtRecord{ASPath: "65000 65001"}
	assert.True(t, fil(match))

	noMatch := &model.MrtRecord{ASPath: "65001 65000"}
	assert.False(t, fil(noMatch))
}

func TestASFilterDestination(t *testing.T) {
	fil, err := NewASFilter("65000", AsDestination)
	require.NoError(t, err)

	assert.True(t, fil(&model.MrtRecord{ASPath: "65000 65001 65002"}))
	assert.False(t, fil(&model.MrtRecord{ASPath: "65001 65002 65000"}))
}

func TestASFilterMidpath(t *testing.T) {
	fil, err := NewASFilter("65001", AsMidpath)
	require.NoError(t, err)

	assert.True(t, fil(&model.MrtRecord{ASPath: "65000 65001 65002"}))
	// too short a path to have a midpath hop
	assert.False(t, fil(&model.MrtRecord{ASPath: "65000 65001"}))
}

func TestASFilterAnywhereMatchesSetMembers(t *testing.T) {
	fil, err := NewASFilter("65099", AsAnywhere)
	require.NoError(t, err)

	assert.True(t, fil(&model.MrtRecord{ASPath: "65000 {65098,65099} 65002"}))
	assert.False(t, fil(&model.MrtRecord{ASPath: "65000 {65097,65098} 65002"}))
}

func TestASFilterRejectsMalformedList(t *testing.T) {
	_, err := NewASFilter("not-a-number", AsSource)
	require.Error(t, err)
}

func TestPrefixFilterContainment(t *testing.T) {
	fil, err := NewPrefixFilterFromString("10.0.0.0/8", ",", AdvPrefix)
	require.NoError(t, err)

	assert.True(t, fil(&model.MrtRecord{Announced: []string{"10.1.2.0/24"}}))
	assert.False(t, fil(&model.MrtRecord{Announced: []string{"192.0.2.0/24"}}))
}

func TestPrefixFilterWithdrawnOnlyIgnoresAnnounced(t *testing.T) {
	fil, err := NewPrefixFilterFromSlice([]string{"10.0.0.0/8"}, WdrPrefix)
	require.NoError(t, err)

	assert.False(t, fil(&model.MrtRecord{Announced: []string{"10.1.2.0/24"}}))
	assert.True(t, fil(&model.MrtRecord{Withdrawn: []string{"10.1.2.0/24"}}))
}

func TestFilterAllRequiresEveryFilter(t *testing.T) {
	always := func(r *model.MrtRecord) bool { return true }
	never := func(r *model.MrtRecord) bool { return false }

	r := &model.MrtRecord{}
	assert.True(t, FilterAll([]Filter{always, always}, r))
	assert.False(t, FilterAll([]Filter{always, never}, r))
	assert.True(t, FilterAll([]Filter{nil, always}, r))
	assert.True(t, FilterAll(nil, r))
}
