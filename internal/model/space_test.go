package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpaceFromRecordDefaultsMalformedFields(t *testing.T) {
	s := SpaceFromRecord(SpaceRecord{
		ID:        "s1",
		Name:      "  Focus Pod ",
		SpaceType: "hammock",
		Capacity:  0,
		Features:  []byte(`not json`),
		Equipment: []byte(`["monitor","", "monitor", "dock"]`),
		Status:    "on-fire",
	})

	assert.Equal(t, "Focus Pod", s.Name)
	assert.Equal(t, SpaceDesk, s.SpaceType)
	assert.Equal(t, UnknownLocation, s.Location)
	assert.Equal(t, 1, s.Capacity)
	assert.Equal(t, []string{}, s.Features)
	assert.Equal(t, []string{"monitor", "dock"}, s.Equipment)
	assert.Equal(t, SpaceAvailable, s.Status)
}

func TestOfferable(t *testing.T) {
	cases := []struct {
		name     string
		bookable bool
		status   SpaceStatus
		want     bool
	}{
		{"bookable and available", true, SpaceAvailable, true},
		{"not bookable", false, SpaceAvailable, false},
		{"maintenance", true, SpaceMaintenance, false},
		{"reserved", true, SpaceReserved, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Space{IsBookable: tc.bookable, Status: tc.status}
			assert.Equal(t, tc.want, s.Offerable())
		})
	}
}

func TestSpaceFilterMatches(t *testing.T) {
	yes := true
	room := Space{
		Name:       "Harbour Room",
		SpaceType:  SpaceRoom,
		Location:   "Level 3 East",
		Capacity:   8,
		Features:   []string{"window", "whiteboard"},
		Equipment:  []string{"projector"},
		IsPrivate:  true,
		IsBookable: true,
		Status:     SpaceAvailable,
	}

	cases := []struct {
		name   string
		filter SpaceFilter
		want   bool
	}{
		{"empty filter", SpaceFilter{}, true},
		{"type mismatch", SpaceFilter{Type: SpaceDesk}, false},
		{"location substring any case", SpaceFilter{Location: "level 3"}, true},
		{"capacity at minimum", SpaceFilter{MinCapacity: 8}, true},
		{"capacity above", SpaceFilter{MinCapacity: 9}, false},
		{"all features present", SpaceFilter{Features: []string{"window", "whiteboard"}}, true},
		{"one feature missing", SpaceFilter{Features: []string{"window", "sofa"}}, false},
		{"equipment present", SpaceFilter{Equipment: []string{"projector"}}, true},
		{"privacy flag", SpaceFilter{IsPrivate: &yes}, true},
		{"status mismatch", SpaceFilter{Status: SpaceMaintenance}, false},
		{"search by name", SpaceFilter{Search: "harbour"}, true},
		{"search by feature", SpaceFilter{Search: "white"}, true},
		{"search by equipment", SpaceFilter{Search: "PROJ"}, true},
		{"search miss", SpaceFilter{Search: "sauna"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(room))
		})
	}
}

func TestBookableOnlyFilter(t *testing.T) {
	f := SpaceFilter{BookableOnly: true}
	assert.False(t, f.Matches(Space{IsBookable: false}))
	assert.True(t, f.Matches(Space{IsBookable: true}))
}
