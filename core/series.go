package core

import "time"

// Status 表示剧集的播出状态。
type Status string

const (
	StatusRunning Status = "Running"
	StatusEnded   Status = "Ended"
)

// 内容分级（TMDB 美区电视分级），从宽松到严格共 6 档。
// 未分级（NR）在序数比较时按中间档处理，见 similarity 包。
const (
	RatingTVY  = "TV-Y"
	RatingTVY7 = "TV-Y7"
	RatingTVG  = "TV-G"
	RatingTVPG = "TV-PG"
	RatingTV14 = "TV-14"
	RatingTVMA = "TV-MA"
	RatingNR   = "NR"
)

// UnknownCountry 表示制作国家未知。国家未知的剧集在国家匹配时恒为不匹配。
const UnknownCountry = "Unknown"

// Series 是剧集的属性记录。引擎视角下不可变：仅由摄取链路写入，
// 打分过程中只读。
type Series struct {
	ID               int64
	Title            string
	Overview         string
	Popularity       float64
	PosterPath       string
	OriginalLanguage string
	OriginCountry    string // ISO 3166-1 代码，未知时为 UnknownCountry
	Status           Status
	Adult            bool
	FirstAirDate     *time.Time
	LastAirDate      *time.Time
	Seasons          int
	Episodes         int
	ContentRating    string
}

// FirstAirYear 返回首播年份；首播日期缺失时返回 (0, false)。
func (s *Series) FirstAirYear() (int, bool) {
	if s == nil || s.FirstAirDate == nil {
		return 0, false
	}
	return s.FirstAirDate.Year(), true
}

// CountryKnown 判断制作国家是否已知。
func (s *Series) CountryKnown() bool {
	return s != nil && s.OriginCountry != "" && s.OriginCountry != UnknownCountry
}
