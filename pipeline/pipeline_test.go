package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rushteam/movierec/core"
)

type appendNode struct {
	name    string
	movieID int64
	err     error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return KindRecall }

func (n *appendNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.movieID)), nil
}

func TestPipeline_Run(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "a", movieID: 10},
		&appendNode{name: "b", movieID: 20},
	}}
	items, err := p.Run(context.Background(), &core.RecommendContext{UserID: 1}, nil)
	if err != nil {
		t.Fatalf("执行失败: %v", err)
	}
	if len(items) != 2 || items[0].MovieID != 10 || items[1].MovieID != 20 {
		t.Errorf("Node 应按顺序串联执行，实际 %+v", items)
	}
}

func TestPipeline_NodeErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "first", movieID: 10},
		&appendNode{name: "broken", err: boom},
	}}
	_, err := p.Run(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("Node 出错应中断 Pipeline")
	}
	if !errors.Is(err, boom) {
		t.Errorf("应可解包出原始错误: %v", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("错误信息应携带出错 Node 名: %v", err)
	}
}

func TestParseYAML(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipeline:
  name: feed
  nodes:
    - type: recall.cf
    - type: rerank.topn
      config:
        n: 5
`))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if cfg.Pipeline.Name != "feed" || len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("解析结果不符: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.Nodes[1].Type != "rerank.topn" {
		t.Errorf("Node 类型解析错误: %+v", cfg.Pipeline.Nodes[1])
	}
	if cfg.Pipeline.Nodes[1].Config["n"] != 5 {
		t.Errorf("Node 配置解析错误: %+v", cfg.Pipeline.Nodes[1].Config)
	}
}

func TestParseYAML_Invalid(t *testing.T) {
	if _, err := ParseYAML([]byte("pipeline: [")); err == nil {
		t.Fatal("非法 YAML 应返回错误")
	}
}

func TestBuildPipeline(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("stub", func(config map[string]any) (Node, error) {
		return &appendNode{name: "stub", movieID: 10}, nil
	})

	cfg, err := ParseYAML([]byte(`
pipeline:
  name: feed
  nodes:
    - type: stub
`))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if len(p.Nodes) != 1 {
		t.Errorf("期望 1 个 Node，实际 %d", len(p.Nodes))
	}

	cfg.Pipeline.Nodes[0].Type = "missing"
	if _, err := cfg.BuildPipeline(factory); err == nil {
		t.Fatal("未注册的 Node 类型应返回错误")
	}
}
