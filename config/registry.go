package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/movierec/pipeline"
)

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
type NodeBuilder = pipeline.NodeBuilder

var (
	customBuilders   = make(map[string]NodeBuilder)
	customBuildersMu sync.RWMutex
)

// Register 注册一种自定义 Node 的构建逻辑，供 DefaultFactory 并入。
// 建议在组件的 init 中调用。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	customBuildersMu.Lock()
	defer customBuildersMu.Unlock()
	customBuilders[typeName] = builder
}

func registered() map[string]NodeBuilder {
	customBuildersMu.RLock()
	defer customBuildersMu.RUnlock()
	out := make(map[string]NodeBuilder, len(customBuilders))
	for k, v := range customBuilders {
		out[k] = v
	}
	return out
}

// SupportedTypes 返回内置与已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	builtins := []string{
		"recall.fanout", "recall.cf", "recall.content", "recall.hybrid", "recall.popularity",
		"filter",
		"rerank.topn", "rerank.diversity",
	}
	customBuildersMu.RLock()
	for t := range customBuilders {
		builtins = append(builtins, t)
	}
	customBuildersMu.RUnlock()
	sort.Strings(builtins)
	return builtins
}

// ValidatePipelineConfig 校验配置中所有 node 类型均可构建；
// 有未支持类型时返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	known := make(map[string]struct{}, len(supported))
	for _, t := range supported {
		known[t] = struct{}{}
	}
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		if _, ok := known[nc.Type]; !ok {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}
