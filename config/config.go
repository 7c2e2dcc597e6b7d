// Package config 集中推荐引擎的全部常量、权重与阈值。
// 所有数值都可以通过 YAML 覆盖，便于调参而无需改代码。
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seriesarchitect/seriesrec/core"
)

// 特征权重的已知 key。权重 map 中出现未知 key 属于配置错误。
const (
	FeatureGenres        = "genres"            // 类型重叠（Jaccard）
	FeatureKeywords      = "keywords"          // 关键词重叠（Top-K Jaccard）
	FeatureYearProximity = "year_proximity"    // 首播年份接近度
	FeatureOriginCountry = "origin_country"    // 制作国家相同
	FeaturePopularity    = "popularity"        // 热度量级接近
	FeatureContentRating = "content_rating"    // 分级接近
	FeatureSeasons       = "number_of_seasons" // 季数接近
)

// FeatureKeys 按固定顺序列出全部已知特征。打分按该顺序累加，
// 保证浮点求和顺序确定，同一输入的分数可复现且严格对称。
var FeatureKeys = []string{
	FeatureGenres,
	FeatureKeywords,
	FeatureYearProximity,
	FeatureOriginCountry,
	FeaturePopularity,
	FeatureContentRating,
	FeatureSeasons,
}

var knownFeatures = func() map[string]bool {
	m := make(map[string]bool, len(FeatureKeys))
	for _, k := range FeatureKeys {
		m[k] = true
	}
	return m
}()

// Weights 是各特征在加权总分中的贡献系数，必须严格加和为 1.0。
// 不在 map 中的特征贡献 0，不报错；未知 key 则是致命配置错误。
type Weights map[string]float64

// weightSumTolerance 是权重和与 1.0 允许的浮点误差。
const weightSumTolerance = 0.001

// Validate 校验权重：key 必须已知、总和必须为 1.0。
// 配置错误会使后续所有分数失真，因此必须在任何打分前失败。
func (w Weights) Validate() error {
	if len(w) == 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"config: feature weights are empty")
	}

	var sum float64
	for key, weight := range w {
		if !knownFeatures[key] {
			return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
				fmt.Sprintf("config: unknown feature weight %q", key))
		}
		sum += weight
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: feature weights must sum to 1.0, got %.3f", sum))
	}
	return nil
}

// Clone 返回权重的浅拷贝，避免调用方共享可变 map。
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// DefaultWeights 返回默认特征权重。
func DefaultWeights() Weights {
	return Weights{
		FeatureGenres:        0.30,
		FeatureKeywords:      0.35,
		FeatureYearProximity: 0.10,
		FeatureOriginCountry: 0.10,
		FeaturePopularity:    0.08,
		FeatureContentRating: 0.04,
		FeatureSeasons:       0.03,
	}
}

// Config 是推荐引擎的完整配置。
type Config struct {
	// Weights 特征权重，总和必须为 1.0
	Weights Weights `yaml:"weights"`

	// MinLikes 打分前要求的最少喜欢数
	MinLikes int `yaml:"min_likes"`

	// MinTotalRatings 打分前要求的最少评分总数（喜欢 + 不喜欢）
	MinTotalRatings int `yaml:"min_total_ratings"`

	// DislikeThreshold 不喜欢排除阈值：候选与任一不喜欢剧集的相似度
	// 达到该值即被否决
	DislikeThreshold float64 `yaml:"dislike_threshold"`

	// TopN 默认返回的推荐数量
	TopN int `yaml:"top_n"`

	// TopKeywords 每部剧集参与比较的关键词数量上限
	TopKeywords int `yaml:"top_keywords"`

	// YearDiffMax 年份接近度的最大年差，相差达到该值得 0 分
	YearDiffMax int `yaml:"year_diff_max"`

	// SeasonsDiffMax 季数接近度的最大季差，相差达到该值得 0 分
	SeasonsDiffMax int `yaml:"seasons_diff_max"`

	// MaxCandidates 候选集的安全上限
	MaxCandidates int `yaml:"max_candidates"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Weights:          DefaultWeights(),
		MinLikes:         5,
		MinTotalRatings:  10,
		DislikeThreshold: 0.7,
		TopN:             10,
		TopKeywords:      10,
		YearDiffMax:      10,
		SeasonsDiffMax:   5,
		MaxCandidates:    10000,
	}
}

// Validate 校验配置的结构合法性。违反时返回 INVALID_CONFIG 的
// DomainError，调用方必须在任何打分开始前失败。
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.MinLikes < 0 || c.MinTotalRatings < 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"config: rating minimums must not be negative")
	}
	if c.DislikeThreshold < 0 || c.DislikeThreshold > 1 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			fmt.Sprintf("config: dislike threshold must be in [0,1], got %v", c.DislikeThreshold))
	}
	if c.TopKeywords <= 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"config: top_keywords must be positive")
	}
	if c.YearDiffMax <= 0 || c.SeasonsDiffMax <= 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"config: year_diff_max and seasons_diff_max must be positive")
	}
	return nil
}

// LoadFromYAML 从 YAML 文件加载配置：未出现的字段保留默认值，
// 加载完成后立即校验。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg := Default()
	// 权重整体替换而非按 key 合并：YAML 提供 weights 时以其为准，
	// 否则沿用默认。部分覆盖会造成总和漂移，只会制造难排查的校验失败。
	cfg.Weights = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Weights == nil {
		cfg.Weights = DefaultWeights()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
