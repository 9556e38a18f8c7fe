package ltga

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantDistance(c1, c2 Cluster) float64 { return 0 }

// groupDistance 下标整除 2 相同的基因彼此距离为 0，否则为 1
func groupDistance(c1, c2 Cluster) float64 {
	sum := 0.0
	for _, a := range c1 {
		for _, b := range c2 {
			if a/2 != b/2 {
				sum++
			}
		}
	}
	return sum / float64(len(c1)*len(c2))
}

func sortedCopy(c Cluster) Cluster {
	out := slices.Clone(c)
	slices.Sort(out)
	return out
}

func TestBuildTreeShape(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 13} {
		subtrees, err := BuildTree(n, constantDistance, MinDistance, rand.New(rand.NewSource(int64(n))))
		require.NoError(t, err)

		require.Len(t, subtrees, 2*n-2)

		// 前 n 个是覆盖所有基因的单基因簇
		seen := make(map[int]bool)
		for _, c := range subtrees[:n] {
			require.Len(t, c, 1)
			seen[c[0]] = true
		}
		assert.Len(t, seen, n)

		nonTrivial := 0
		for _, c := range subtrees {
			if len(c) > 1 {
				nonTrivial++
			}
			assert.Less(t, len(c), n, "根不应该作为掩码")

			members := make(map[int]bool)
			for _, g := range c {
				assert.False(t, members[g], "簇中不应该有重复的基因")
				members[g] = true
			}
		}
		assert.Equal(t, n-2, nonTrivial, "n = %d", n)
	}
}

func TestBuildTreeMemoizesDistances(t *testing.T) {
	n := 6
	calls := 0
	counting := func(c1, c2 Cluster) float64 {
		calls++
		return groupDistance(c1, c2)
	}

	_, err := BuildTree(n, counting, MinDistance, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// 第一轮 n(n-1)/2 对，之后每轮只有新簇和其余 k-1 个簇之间需要计算
	assert.Equal(t, (n-1)*(n-1), calls)
}

func TestBuildTreeMergesMostRelatedPair(t *testing.T) {
	affinity := func(c1, c2 Cluster) float64 { return 1 - groupDistance(c1, c2) }

	tests := []struct {
		name     string
		distance DistanceFunc
		linkage  Linkage
	}{
		{"min distance", groupDistance, MinDistance},
		{"max affinity", affinity, MaxAffinity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 10; seed++ {
				subtrees, err := BuildTree(4, tt.distance, tt.linkage, rand.New(rand.NewSource(seed)))
				require.NoError(t, err)
				require.Len(t, subtrees, 6)

				merged := []Cluster{sortedCopy(subtrees[4]), sortedCopy(subtrees[5])}
				assert.ElementsMatch(t, []Cluster{{0, 1}, {2, 3}}, merged)
			}
		})
	}
}

func TestBuildTreeDeterministicWithSeed(t *testing.T) {
	a, err := BuildTree(9, constantDistance, MinDistance, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := BuildTree(9, constantDistance, MinDistance, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildTreeRejectsDegenerateGenomes(t *testing.T) {
	for _, n := range []int{0, 1} {
		_, err := BuildTree(n, constantDistance, MinDistance, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, ErrInvalidPopulation)
	}
}
