package similarity

import (
	"math"

	"github.com/seriesarchitect/seriesrec/core"
)

// 各特征的成对相似度，全部返回 [0,1]。
// 缺失数据一律记 0 分（不相似），不猜测、不报错。

// jaccard 计算两个集合的 Jaccard 相似度。任一集合为空时为 0。
func jaccard(a, b map[int64]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for id := range small {
		if _, ok := large[id]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// yearProximity 按首播年份线性衰减，相差 diffMax 年及以上得 0。
// 任一方缺首播日期得 0。
func yearProximity(a, b *core.Series, diffMax int) float64 {
	ya, ok := a.FirstAirYear()
	if !ok {
		return 0
	}
	yb, ok := b.FirstAirYear()
	if !ok {
		return 0
	}
	diff := math.Abs(float64(ya - yb))
	return math.Max(0, 1-diff/float64(diffMax))
}

// countryMatch 在双方国家已知且相同时得 1，否则得 0。
// 国家未知（空串或 Unknown 占位）视为不匹配而非中立。
func countryMatch(a, b *core.Series) float64 {
	if !a.CountryKnown() || !b.CountryKnown() {
		return 0
	}
	if a.OriginCountry == b.OriginCountry {
		return 1
	}
	return 0
}

// popularitySimilarity 在对数尺度上比较热度量级。
// 任一方热度非正得 0；两个对数值接近则得分接近 1。
func popularitySimilarity(a, b *core.Series) float64 {
	if a.Popularity <= 0 || b.Popularity <= 0 {
		return 0
	}
	la := math.Log10(1 + a.Popularity)
	lb := math.Log10(1 + b.Popularity)
	max := math.Max(la, lb)
	if max == 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(la-lb)/max)
}

// ratingOrder 将分级映射到严格程度序数（0 最宽松，5 最严格）。
// 未分级或未知分级按中间档 3 处理。
func ratingOrder(rating string) int {
	switch rating {
	case core.RatingTVY:
		return 0
	case core.RatingTVY7:
		return 1
	case core.RatingTVG:
		return 2
	case core.RatingTVPG:
		return 3
	case core.RatingTV14:
		return 4
	case core.RatingTVMA:
		return 5
	default:
		return 3
	}
}

// contentRatingSimilarity 按分级序数距离线性衰减（最大距离 5）。
func contentRatingSimilarity(a, b *core.Series) float64 {
	dist := math.Abs(float64(ratingOrder(a.ContentRating) - ratingOrder(b.ContentRating)))
	return 1 - dist/5
}

// seasonsSimilarity 按季数差线性衰减，相差 diffMax 季及以上得 0。
// 任一方季数非正（未知）得 0。
func seasonsSimilarity(a, b *core.Series, diffMax int) float64 {
	if a.Seasons <= 0 || b.Seasons <= 0 {
		return 0
	}
	diff := math.Abs(float64(a.Seasons - b.Seasons))
	return math.Max(0, 1-diff/float64(diffMax))
}
