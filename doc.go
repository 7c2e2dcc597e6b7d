// Package seriesrec 是一个基于内容的电视剧集推荐引擎。
//
// 设计要点：
//   - 相似度驱动: 类型/关键词/年份/国家/热度/分级/季数七个特征加权聚合
//   - 画像按请求构建: 喜欢/不喜欢评分即画像，锚点双倍权重，无跨会话状态
//   - 否决式排除: 候选与任一不喜欢剧集足够相似即被排除，与喜欢侧得分无关
//   - Pipeline 可扩展: 召回 → 过滤 → 排序 → 重排均为可插拔 Node
package seriesrec

import "github.com/seriesarchitect/seriesrec/pipeline"

// 轻量 facade：便于用户直接 import 根包使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
