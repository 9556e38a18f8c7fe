package ltga

import (
	"cmp"
	"slices"
)

// LeastLinkedFirst 把建树顺序倒过来，最后合并（联系最弱）的簇最先作为掩码
func LeastLinkedFirst(subtrees []Cluster) []Cluster {
	out := slices.Clone(subtrees)
	slices.Reverse(out)
	return out
}

// SmallestFirst 按簇的大小升序稳定排序，大小相同的保持建树顺序
func SmallestFirst(subtrees []Cluster) []Cluster {
	out := slices.Clone(subtrees)
	slices.SortStableFunc(out, func(a, b Cluster) int {
		return cmp.Compare(len(a), len(b))
	})
	return out
}
