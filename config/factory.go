// Package config 把 YAML 配置翻译成可执行的 Pipeline：
// 内置 Node 的构建器注册在这里，运行期资产（训练好的模型）通过
// Assets 注入，配置文件只描述编排。
package config

import (
	"fmt"
	"time"

	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/rerank"
)

// Assets 是构建 Node 所需的运行期资产。
// 配置文件描述"用哪个召回源、怎么过滤、截多少"，
// 资产提供"模型本体"，两者在 DefaultFactory 里会合。
type Assets struct {
	Model *model.TrainedModel
}

// DefaultFactory 返回一个包含所有内置 Node 的工厂。
// 通过 Register 注册的自定义 Node 也会被并入。
func DefaultFactory(assets *Assets) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	// Recall Nodes
	factory.Register("recall.fanout", buildFanoutNode(assets))
	factory.Register("recall.cf", buildSourceNode(assets, "cf"))
	factory.Register("recall.content", buildSourceNode(assets, "content"))
	factory.Register("recall.hybrid", buildSourceNode(assets, "hybrid"))
	factory.Register("recall.popularity", buildSourceNode(assets, "popularity"))

	// Filter Nodes
	factory.Register("filter", buildFilterNode(assets))

	// ReRank Nodes
	factory.Register("rerank.topn", buildTopNNode)
	factory.Register("rerank.diversity", buildDiversityNode)

	for typeName, builder := range registered() {
		factory.Register(typeName, builder)
	}
	return factory
}

// resolveSource 把配置里的召回源类型名解析成资产里的召回源。
func resolveSource(assets *Assets, sourceType string) (recall.Source, error) {
	if assets == nil || assets.Model == nil {
		return nil, fmt.Errorf("source %q requires a trained model asset", sourceType)
	}
	m := assets.Model
	switch sourceType {
	case "cf":
		if src, ok := m.CF.(recall.Source); ok {
			return src, nil
		}
		return nil, fmt.Errorf("model carries no cf source")
	case "content":
		if m.Content == nil {
			return nil, fmt.Errorf("model carries no content source (trained without movie metadata)")
		}
		return m.Content, nil
	case "hybrid":
		if m.Hybrid == nil {
			return nil, fmt.Errorf("model carries no hybrid source (trained without movie metadata)")
		}
		return m.Hybrid, nil
	case "popularity":
		return m.Popularity, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func buildSourceNode(assets *Assets, sourceType string) pipeline.NodeBuilder {
	return func(_ map[string]any) (pipeline.Node, error) {
		src, err := resolveSource(assets, sourceType)
		if err != nil {
			return nil, err
		}
		return &recall.SourceNode{Source: src}, nil
	}
}

func buildFanoutNode(assets *Assets) pipeline.NodeBuilder {
	return func(config map[string]any) (pipeline.Node, error) {
		sourcesConfig, ok := config["sources"].([]any)
		if !ok {
			return nil, fmt.Errorf("sources not found or invalid")
		}

		sources := make([]recall.Source, 0, len(sourcesConfig))
		for _, sc := range sourcesConfig {
			sourceMap, ok := sc.(map[string]any)
			if !ok {
				continue
			}
			src, err := resolveSource(assets, conv.ConfigGet[string](sourceMap, "type", ""))
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		}

		fanout := &recall.Fanout{Sources: sources}
		if sec := conv.ConfigGetInt64(config, "timeout", 0); sec > 0 {
			fanout.Timeout = time.Duration(sec) * time.Second
		}
		if n := conv.ConfigGetInt64(config, "max_concurrent", 0); n > 0 {
			fanout.MaxConcurrent = int(n)
		}
		switch strategy := conv.ConfigGet[string](config, "merge_strategy", ""); strategy {
		case "", recall.MergeMax, recall.MergeFirst, recall.MergeUnion:
			fanout.MergeStrategy = strategy
		default:
			return nil, fmt.Errorf("unknown merge strategy: %s", strategy)
		}
		return fanout, nil
	}
}

func buildFilterNode(assets *Assets) pipeline.NodeBuilder {
	return func(config map[string]any) (pipeline.Node, error) {
		filtersConfig, ok := config["filters"].([]any)
		if !ok {
			return nil, fmt.Errorf("filters not found or invalid")
		}

		filters := make([]filter.Filter, 0, len(filtersConfig))
		for _, fc := range filtersConfig {
			filterMap, ok := fc.(map[string]any)
			if !ok {
				continue
			}
			switch filterType := conv.ConfigGet[string](filterMap, "type", ""); filterType {
			case "seen":
				if assets == nil || assets.Model == nil {
					return nil, fmt.Errorf("seen filter requires a trained model asset")
				}
				filters = append(filters, filter.NewSeenFilter(assets.Model.Matrix))
			case "rule":
				expr := conv.ConfigGet[string](filterMap, "expr", "")
				if expr == "" {
					return nil, fmt.Errorf("rule filter requires an expr")
				}
				filters = append(filters, filter.NewRuleFilter(expr))
			default:
				return nil, fmt.Errorf("unknown filter type: %s", filterType)
			}
		}
		return &filter.FilterNode{Filters: filters}, nil
	}
}

func buildTopNNode(config map[string]any) (pipeline.Node, error) {
	return &rerank.TopN{N: int(conv.ConfigGetInt64(config, "n", 0))}, nil
}

func buildDiversityNode(config map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{
		MaxPerGenre: int(conv.ConfigGetInt64(config, "max_per_genre", 0)),
	}, nil
}
