package serving

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/model"
)

// DataSource 提供一次重训所需的全量数据。
// movies 可以为 nil，此时重训出的模型不含内容侧。
type DataSource interface {
	Load(ctx context.Context) (ratings []dataset.Rating, movies *dataset.MovieSet, err error)
}

// DataSourceFunc 是 DataSource 的函数适配器。
type DataSourceFunc func(ctx context.Context) ([]dataset.Rating, *dataset.MovieSet, error)

func (f DataSourceFunc) Load(ctx context.Context) ([]dataset.Rating, *dataset.MovieSet, error) {
	return f(ctx)
}

// Refresher 周期性重训模型并热替换进 ServingContext。
//
// 每轮：拉数据 -> 训练新快照 ->（可选）持久化 -> 原子替换。
// 任何一步失败只记日志跳过本轮，在线模型保持上一版不变。
type Refresher struct {
	ModelName string
	Trainer   *model.Trainer
	Source    DataSource
	Serving   *ServingContext

	// Interval 重训周期，<= 0 时取 24h
	Interval time.Duration

	// Store / Key 可选：每轮训练出的快照落盘位置
	Store core.Store
	Key   string

	Logger zerolog.Logger
}

// Run 阻塞运行重训循环：启动时立刻训练一次，之后按周期重复，
// ctx 取消后返回。
func (r *Refresher) Run(ctx context.Context) error {
	logger := r.Logger.With().Str("component", "refresher").Str("model", r.ModelName).Logger()

	interval := r.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	logger.Info().Dur("interval", interval).Msg("refresher starting")

	if err := r.refresh(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial training failed (will retry on schedule)")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("refresher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := r.refresh(ctx); err != nil {
				logger.Warn().Err(err).Msg("scheduled training failed")
			}
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) error {
	if r.Trainer == nil || r.Source == nil || r.Serving == nil || r.ModelName == "" {
		return core.NewDomainError(core.ModuleServing, core.ErrorCodeInvalidInput,
			"serving: refresher requires a name, trainer, data source and serving context")
	}
	logger := r.Logger.With().Str("component", "refresher").Str("model", r.ModelName).Logger()

	start := time.Now()
	ratings, movies, err := r.Source.Load(ctx)
	if err != nil {
		return err
	}

	snap, err := r.Trainer.Train(ctx, ratings, movies)
	if err != nil {
		return err
	}
	if r.Store != nil && r.Key != "" {
		if err := model.SaveSnapshot(ctx, r.Store, r.Key, snap); err != nil {
			logger.Warn().Err(err).Str("key", r.Key).Msg("snapshot persist failed")
		}
	}

	m, err := snap.Build()
	if err != nil {
		return err
	}
	if err := r.Serving.Reload(r.ModelName, m); err != nil {
		return err
	}

	logger.Info().
		Dur("duration", time.Since(start)).
		Int("ratings", len(ratings)).
		Msg("model refreshed")
	return nil
}
