package model

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// SaveSnapshot 把快照 blob 写入存储。
func SaveSnapshot(ctx context.Context, store core.Store, key string, s *Snapshot) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	return store.Set(ctx, key, data)
}

// LoadSnapshot 从存储读取并解码快照。
// key 不存在返回 NOT_FOUND；版本不兼容返回 MODEL_VERSION。
func LoadSnapshot(ctx context.Context, store core.Store, key string) (*Snapshot, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound,
				"model: no snapshot under key "+key)
		}
		return nil, err
	}
	return Decode(data)
}

// LoadModel 读取快照并重建可服务模型，一步到位。
func LoadModel(ctx context.Context, store core.Store, key string) (*TrainedModel, error) {
	snap, err := LoadSnapshot(ctx, store, key)
	if err != nil {
		return nil, err
	}
	return snap.Build()
}
