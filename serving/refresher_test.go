package serving

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/store"
)

func TestRefresher_Refresh(t *testing.T) {
	ctx := context.Background()
	memStore := store.NewMemoryStore()
	defer memStore.Close()

	sctx := NewServingContext(zerolog.Nop())
	r := &Refresher{
		ModelName: "main",
		Trainer: model.NewTrainer(model.TrainConfig{
			Method:       model.CosineItemBased,
			MinCoRatings: 1,
		}),
		Source: DataSourceFunc(func(context.Context) ([]dataset.Rating, *dataset.MovieSet, error) {
			return baseRatings(), nil, nil
		}),
		Serving: sctx,
		Store:   memStore,
		Key:     "movierec:snapshot:main",
		Logger:  zerolog.Nop(),
	}

	if err := r.refresh(ctx); err != nil {
		t.Fatalf("重训失败: %v", err)
	}

	// 模型已热挂载进服务上下文
	if _, ok := sctx.Model("main"); !ok {
		t.Fatal("重训后模型应已加载")
	}
	// 快照已落盘，可供其他进程加载
	if _, err := model.LoadSnapshot(ctx, memStore, "movierec:snapshot:main"); err != nil {
		t.Errorf("重训后快照应已持久化: %v", err)
	}
}

func TestRefresher_MissingDeps(t *testing.T) {
	r := &Refresher{Logger: zerolog.Nop()}
	if err := r.refresh(context.Background()); err == nil {
		t.Fatal("缺少依赖应返回错误")
	}
}
