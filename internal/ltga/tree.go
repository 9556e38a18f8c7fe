package ltga

import (
	"fmt"
	"math/rand"
	"slices"
)

// DistanceFunc 计算两个簇之间的距离（或亲和度），方向由 Linkage 决定
type DistanceFunc func(c1, c2 Cluster) float64

type treeNode struct {
	id      int
	cluster Cluster
}

// BuildTree 对基因下标做层次聚类，返回按创建顺序排列的子树：
// 先是打乱顺序的单基因簇，然后是每次合并得到的新簇，不包括覆盖全部基因的根
//
// 同一次建树中，簇对的距离只计算一次。
func BuildTree(geneCount int, distance DistanceFunc, linkage Linkage, rng *rand.Rand) ([]Cluster, error) {
	if geneCount < 2 {
		return nil, fmt.Errorf("%w: 至少需要 2 个基因位，实际为 %d", ErrInvalidPopulation, geneCount)
	}

	clusters := make([]treeNode, geneCount)
	for i := range clusters {
		clusters[i] = treeNode{id: i, cluster: Cluster{i}}
	}
	rng.Shuffle(len(clusters), func(i, j int) {
		clusters[i], clusters[j] = clusters[j], clusters[i]
	})

	subtrees := make([]Cluster, 0, 2*geneCount-2)
	for _, node := range clusters {
		subtrees = append(subtrees, node.cluster)
	}

	lookup := make(map[[2]int]float64)
	lookupDistance := func(a, b treeNode) float64 {
		key := [2]int{min(a.id, b.id), max(a.id, b.id)}
		if v, exists := lookup[key]; exists {
			return v
		}
		v := distance(a.cluster, b.cluster)
		lookup[key] = v
		return v
	}

	nextID := geneCount
	var candidates [][2]int
	for len(clusters) > 1 {
		// 找出所有距离最优的簇对
		candidates = candidates[:0]
		var bestVal float64
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				v := lookupDistance(clusters[i], clusters[j])
				switch {
				case len(candidates) == 0 || linkage.better(v, bestVal):
					bestVal = v
					candidates = append(candidates[:0], [2]int{i, j})
				case v == bestVal:
					candidates = append(candidates, [2]int{i, j})
				}
			}
		}

		// 平局时随机选择
		pick := candidates[rng.Intn(len(candidates))]
		a, b := clusters[pick[0]], clusters[pick[1]]
		merged := make(Cluster, 0, len(a.cluster)+len(b.cluster))
		merged = append(merged, a.cluster...)
		merged = append(merged, b.cluster...)

		// pick[1] > pick[0]，先删后面的
		clusters = slices.Delete(clusters, pick[1], pick[1]+1)
		clusters = slices.Delete(clusters, pick[0], pick[0]+1)
		clusters = append(clusters, treeNode{id: nextID, cluster: merged})
		nextID++

		// 根节点对交叉没有意义
		if len(clusters) != 1 {
			subtrees = append(subtrees, merged)
		}
	}

	return subtrees, nil
}
