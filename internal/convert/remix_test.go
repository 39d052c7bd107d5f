package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeinterleaveInterleaveRoundTrip(t *testing.T) {
	samples := []float64{1, 10, 2, 20, 3, 30, 4, 40}

	planes := Deinterleave(samples, 2)
	require.Len(t, planes, 2)
	assert.Equal(t, []float64{1, 2, 3, 4}, planes[0])
	assert.Equal(t, []float64{10, 20, 30, 40}, planes[1])

	assert.Equal(t, samples, Interleave(planes))
}

func TestDeinterleaveDropsPartialFrame(t *testing.T) {
	planes := Deinterleave([]float64{1, 10, 2}, 2)
	assert.Equal(t, []float64{1}, planes[0])
	assert.Equal(t, []float64{10}, planes[1])
}

func TestInterleaveTruncatesToShortestChannel(t *testing.T) {
	out := Interleave([][]float64{{1, 2, 3}, {10, 20}})
	assert.Equal(t, []float64{1, 10, 2, 20}, out)
}

func TestRemixPolicies(t *testing.T) {
	tests := []struct {
		name string
		src  [][]float64
		dst  int
		want [][]float64
	}{
		{
			name: "mono fan-out",
			src:  [][]float64{{0.5, -0.5}},
			dst:  2,
			want: [][]float64{{0.5, -0.5}, {0.5, -0.5}},
		},
		{
			name: "stereo to mono averages",
			src:  [][]float64{{1, 0}, {0, 1}},
			dst:  1,
			want: [][]float64{{0.5, 0.5}},
		},
		{
			name: "stereo to quad repeats fronts",
			src:  [][]float64{{1}, {2}},
			dst:  4,
			want: [][]float64{{1}, {2}, {1}, {2}},
		},
		{
			name: "quad to stereo folds rears",
			src:  [][]float64{{1}, {2}, {3}, {4}},
			dst:  2,
			want: [][]float64{{2}, {3}},
		},
		{
			name: "5.1 to stereo",
			src:  [][]float64{{0.6}, {0.3}, {0.6}, {0.3}, {0.6}, {0.3}},
			dst:  2,
			want: [][]float64{{0.6}, {0.3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remix(tt.src, tt.dst)
			require.Len(t, got, tt.dst)
			for ch := range tt.want {
				assert.InDeltaSlice(t, tt.want[ch], got[ch], 1e-12, "channel %d", ch)
			}
		})
	}
}

func TestRemixEqualCountReturnsInput(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	got := Remix(src, 2)
	require.Len(t, got, 2)
	// Same planes, no copy.
	assert.Same(t, &src[0][0], &got[0][0])
}

func TestRemixUpDownRecoversLayout(t *testing.T) {
	src := [][]float64{{0.25, -0.25}, {0.75, -0.75}}
	up := Remix(src, 6)
	down := Remix(up, 2)
	for ch := range src {
		assert.InDeltaSlice(t, src[ch], down[ch], 1e-12, "channel %d", ch)
	}
}
