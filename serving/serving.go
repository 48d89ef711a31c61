// Package serving 提供在线服务侧的模型管理：按名字注册/热替换模型，
// 查询路径无锁读取。
package serving

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
)

// ServingContext 持有在线服务的全部已加载模型。
//
// 并发模型：copy-on-write。读路径单次原子加载当前模型表，
// 之后整个请求都在这份不可变快照上执行；替换模型时整表复制后
// 原子换指针。并发请求要么看到旧模型要么看到新模型，
// 不会看到任何中间状态，换模型也不会阻塞在途请求。
type ServingContext struct {
	models atomic.Pointer[map[string]*model.TrainedModel]

	mu     sync.Mutex // 只串行化写方
	logger zerolog.Logger
}

// NewServingContext 创建空的服务上下文。
func NewServingContext(logger zerolog.Logger) *ServingContext {
	s := &ServingContext{
		logger: logger.With().Str("component", "serving").Logger(),
	}
	empty := map[string]*model.TrainedModel{}
	s.models.Store(&empty)
	return s
}

// Reload 按名字加载或热替换模型。首次注册与替换是同一个操作。
func (s *ServingContext) Reload(name string, m *model.TrainedModel) error {
	if name == "" || m == nil {
		return core.NewDomainError(core.ModuleServing, core.ErrorCodeInvalidInput,
			"serving: reload requires a name and a model")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old := *s.models.Load()
	next := make(map[string]*model.TrainedModel, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	_, replaced := next[name]
	next[name] = m
	s.models.Store(&next)

	s.logger.Info().
		Str("model", name).
		Str("method", string(m.Snapshot.Method)).
		Int("users", m.Snapshot.UserCount).
		Int("movies", m.Snapshot.MovieCount).
		Bool("replaced", replaced).
		Time("trained_at", m.Snapshot.TrainedAt).
		Msg("model loaded")
	return nil
}

// Unload 按名字卸载模型。不存在的名字是幂等空操作。
func (s *ServingContext) Unload(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := *s.models.Load()
	if _, ok := old[name]; !ok {
		return
	}
	next := make(map[string]*model.TrainedModel, len(old))
	for k, v := range old {
		if k != name {
			next[k] = v
		}
	}
	s.models.Store(&next)
	s.logger.Info().Str("model", name).Msg("model unloaded")
}

// Model 返回指定名字的当前模型。
func (s *ServingContext) Model(name string) (*model.TrainedModel, bool) {
	m, ok := (*s.models.Load())[name]
	return m, ok
}

// Names 返回已加载的模型名（无序）。
func (s *ServingContext) Names() []string {
	current := *s.models.Load()
	out := make([]string, 0, len(current))
	for name := range current {
		out = append(out, name)
	}
	return out
}

// RecommendItems 用指定模型产出推荐。未加载的模型名返回 NOT_FOUND。
func (s *ServingContext) RecommendItems(ctx context.Context, name string, userID int64, n int) ([]*core.Item, error) {
	m, ok := s.Model(name)
	if !ok {
		return nil, core.NewDomainError(core.ModuleServing, core.ErrorCodeNotFound,
			"serving: model "+name+" is not loaded")
	}
	items, err := m.RecommendItems(ctx, userID, n)
	if err != nil {
		s.logger.Warn().Err(err).Str("model", name).Int64("user_id", userID).Msg("recommend failed")
		return nil, err
	}
	s.logger.Debug().
		Str("model", name).
		Int64("user_id", userID).
		Int("n", n).
		Int("returned", len(items)).
		Msg("recommend served")
	return items, nil
}
