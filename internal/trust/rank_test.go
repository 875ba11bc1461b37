package trust

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRankFor(t *testing.T) {
	tt := []struct {
		points int
		rank   string
	}{
		{points: 0, rank: "Constable"},
		{points: 19, rank: "Constable"},
		{points: 20, rank: "Head Constable"},
		{points: 49, rank: "Head Constable"},
		{points: 50, rank: "Sub Inspector"},
		{points: 100, rank: "Inspector"},
		{points: 200, rank: "DCP"},
		{points: 399, rank: "DCP"},
		{points: 400, rank: "Commissioner"},
		{points: 10000, rank: "Commissioner"},
	}

	for _, tc := range tt {
		require.Equal(t, tc.rank, RankFor(tc.points), "points=%d", tc.points)
	}
}

func TestRankFor_Monotonic(t *testing.T) {
	tierIndex := func(name string) int {
		for i, r := range Ranks {
			if r.Name == name {
				return i
			}
		}
		t.Fatalf("unknown rank %q", name)
		return -1
	}

	prev := 0
	for p := 0; p <= 500; p++ {
		cur := tierIndex(RankFor(p))
		require.GreaterOrEqual(t, cur, prev, "rank dropped at %d points", p)
		prev = cur
	}
}

func TestRankFor_BelowTableFloor(t *testing.T) {
	// Points should never go negative, but the lookup still falls back to
	// the lowest tier if they do.
	require.Equal(t, "Constable", RankFor(-5))
}
