package feature

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/seriesarchitect/seriesrec/core"
)

// StoreCatalog 是基于 core.KeyValueStore 的目录实现，
// 从 Redis/内存等存储中读取剧集记录与类型/关键词关联。
//
// key 布局（KeyPrefix 默认 "series"）：
//   - 剧集记录：  Hash {KeyPrefix}:records，field 为十进制 id，value 为 JSON
//   - 类型关联：  {KeyPrefix}:{id}:genres → JSON []int64
//   - 关键词关联：{KeyPrefix}:{id}:keywords → JSON []int64（供给顺序）
//   - 热度榜：    SortedSet {KeyPrefix}:popular，score 为 popularity
type StoreCatalog struct {
	store core.KeyValueStore

	KeyPrefix string
}

// NewStoreCatalog 创建一个基于 KV 存储的目录。
func NewStoreCatalog(s core.KeyValueStore, keyPrefix string) *StoreCatalog {
	if keyPrefix == "" {
		keyPrefix = "series"
	}
	return &StoreCatalog{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

// seriesRecord 是剧集记录的存储格式。日期使用 "2006-01-02"。
type seriesRecord struct {
	ID               int64   `json:"tmdb_id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	PosterPath       string  `json:"poster_path"`
	OriginalLanguage string  `json:"original_language"`
	OriginCountry    string  `json:"origin_country"`
	Status           string  `json:"status"`
	Adult            bool    `json:"adult"`
	FirstAirDate     string  `json:"first_air_date"`
	LastAirDate      string  `json:"last_air_date"`
	Seasons          int     `json:"number_of_seasons"`
	Episodes         int     `json:"number_of_episodes"`
	ContentRating    string  `json:"content_rating"`
}

const dateLayout = "2006-01-02"

func (c *StoreCatalog) recordsKey() string {
	return c.KeyPrefix + ":records"
}

func (c *StoreCatalog) popularKey() string {
	return c.KeyPrefix + ":popular"
}

// GetSeries 读取剧集记录；不存在时返回 (nil, nil)。
func (c *StoreCatalog) GetSeries(ctx context.Context, id int64) (*core.Series, error) {
	data, err := c.store.HGet(ctx, c.recordsKey(), strconv.FormatInt(id, 10))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var rec seriesRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError,
			"catalog: malformed series record for id "+strconv.FormatInt(id, 10))
	}

	return rec.toSeries(), nil
}

// GetGenreIDs 读取类型关联；不存在时返回空列表。
func (c *StoreCatalog) GetGenreIDs(ctx context.Context, id int64) ([]int64, error) {
	return c.readIDList(ctx, c.KeyPrefix+":"+strconv.FormatInt(id, 10)+":genres", 0)
}

// GetKeywordIDs 读取关键词关联，最多 limit 个；不存在时返回空列表。
func (c *StoreCatalog) GetKeywordIDs(ctx context.Context, id int64, limit int) ([]int64, error) {
	return c.readIDList(ctx, c.KeyPrefix+":"+strconv.FormatInt(id, 10)+":keywords", limit)
}

func (c *StoreCatalog) readIDList(ctx context.Context, key string, limit int) ([]int64, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError,
			"catalog: malformed id list at "+key)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// AllIDs 遍历全量目录，返回排序后的剧集 id 列表（供候选预筛选扫描）。
func (c *StoreCatalog) AllIDs(ctx context.Context) ([]int64, error) {
	fields, err := c.store.HGetAll(ctx, c.recordsKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	ids := make([]int64, 0, len(fields))
	for field := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// SaveSeries 写入一条剧集记录及其类型/关键词关联，并同步热度榜。
// 由摄取链路（或测试/示例的种子数据）调用；引擎本身不写目录。
func (c *StoreCatalog) SaveSeries(ctx context.Context, s *core.Series, genreIDs, keywordIDs []int64) error {
	rec := toRecord(s)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	field := strconv.FormatInt(s.ID, 10)
	if err := c.store.HSet(ctx, c.recordsKey(), field, data); err != nil {
		return err
	}

	if err := c.writeIDList(ctx, c.KeyPrefix+":"+field+":genres", genreIDs); err != nil {
		return err
	}
	if err := c.writeIDList(ctx, c.KeyPrefix+":"+field+":keywords", keywordIDs); err != nil {
		return err
	}

	return c.store.ZAdd(ctx, c.popularKey(), s.Popularity, field)
}

func (c *StoreCatalog) writeIDList(ctx context.Context, key string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data)
}

func (rec *seriesRecord) toSeries() *core.Series {
	s := &core.Series{
		ID:               rec.ID,
		Title:            rec.Title,
		Overview:         rec.Overview,
		Popularity:       rec.Popularity,
		PosterPath:       rec.PosterPath,
		OriginalLanguage: rec.OriginalLanguage,
		OriginCountry:    rec.OriginCountry,
		Status:           core.Status(rec.Status),
		Adult:            rec.Adult,
		Seasons:          rec.Seasons,
		Episodes:         rec.Episodes,
		ContentRating:    rec.ContentRating,
	}
	s.FirstAirDate = parseDate(rec.FirstAirDate)
	s.LastAirDate = parseDate(rec.LastAirDate)
	return s
}

func toRecord(s *core.Series) *seriesRecord {
	rec := &seriesRecord{
		ID:               s.ID,
		Title:            s.Title,
		Overview:         s.Overview,
		Popularity:       s.Popularity,
		PosterPath:       s.PosterPath,
		OriginalLanguage: s.OriginalLanguage,
		OriginCountry:    s.OriginCountry,
		Status:           string(s.Status),
		Adult:            s.Adult,
		Seasons:          s.Seasons,
		Episodes:         s.Episodes,
		ContentRating:    s.ContentRating,
	}
	if s.FirstAirDate != nil {
		rec.FirstAirDate = s.FirstAirDate.Format(dateLayout)
	}
	if s.LastAirDate != nil {
		rec.LastAirDate = s.LastAirDate.Format(dateLayout)
	}
	return rec
}

func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil
	}
	return &t
}

// 确保实现 core.Catalog 接口
var _ core.Catalog = (*StoreCatalog)(nil)
