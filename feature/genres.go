package feature

// TMDB 电视类型参考数据（来自实际目录）。
// 过滤时用户按主类别选择（如 "Drama"），系统展开为该类别下的全部 genre_id。

// GenreNames 是 genre_id 到展示名的映射。
var GenreNames = map[int64]string{
	10759: "Action & Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	10762: "Kids",
	9648:  "Mystery",
	10763: "News",
	10764: "Reality",
	10749: "Romance",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap Opera",
	10767: "Talk Show",
	10768: "War & Politics",
	37:    "Western",
}

// GenreCategories 是主类别到 genre_id 的映射（Drama 合并 Soap Opera）。
var GenreCategories = map[string][]int64{
	"Action & Adventure": {10759, 37},
	"Animation":          {16},
	"Comedy":             {35},
	"Crime":              {80},
	"Documentary":        {99},
	"Drama":              {18, 10766},
	"Family":             {10751},
	"Kids":               {10762},
	"News":               {10763},
	"Reality":            {10764},
	"Romance":            {10749},
	"Sci-Fi & Fantasy":   {10765},
	"Talk Show":          {10767},
	"Thriller":           {9648},
	"War & Politics":     {10768},
}

// GenreName 返回 genre_id 的展示名，未知 id 返回 "Unknown"。
func GenreName(id int64) string {
	if name, ok := GenreNames[id]; ok {
		return name
	}
	return "Unknown"
}

// CategoryGenreIDs 展开主类别对应的 genre_id 列表，未知类别返回 nil。
func CategoryGenreIDs(category string) []int64 {
	ids, ok := GenreCategories[category]
	if !ok {
		return nil
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}
