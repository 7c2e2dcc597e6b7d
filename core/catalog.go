package core

import "context"

// Catalog 是剧集目录的数据访问接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feature、store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 约定：所有方法都必须可以安全地用未知 id 调用——未知 id 返回空结果
// （nil 记录 / 空列表）而不是错误。error 只用于基础设施故障（连接、
// 反序列化等）；相似度计算把缺失数据统一降级为 0 贡献，见 similarity 包。
type Catalog interface {
	// GetSeries 返回剧集属性记录；id 不存在时返回 (nil, nil)
	GetSeries(ctx context.Context, id int64) (*Series, error)

	// GetGenreIDs 返回剧集关联的类型 id 列表；id 不存在时返回空列表
	GetGenreIDs(ctx context.Context, id int64) ([]int64, error)

	// GetKeywordIDs 返回剧集的关键词 id 列表，最多 limit 个。
	// 数据源不提供关键词权重，截断顺序即供给顺序——这是已知且接受的限制。
	GetKeywordIDs(ctx context.Context, id int64, limit int) ([]int64, error)
}
