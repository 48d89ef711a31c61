// Package model 负责训练产物的打包与持久化：带版本号的快照 blob、
// 训练器、从快照重建可服务的推荐模型。
//
// 快照是显式的 tagged 格式，不是语言原生对象 dump：
// 训练进程与服务进程之间只通过这个格式耦合，内部表示可以各自演化。
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/similarity"
)

// SchemaVersion 是当前快照格式版本。解码时版本不一致直接报错，
// 绝不按旧版本语义硬解字段。
const SchemaVersion = 1

// ScoringMethod 是训练时选定的打分方式，随快照记录，
// 推理侧据此重建模型，不再对非类型化配置做分支判断。
type ScoringMethod string

const (
	CosineItemBased  ScoringMethod = "cosine_item_based"
	PearsonItemBased ScoringMethod = "pearson_item_based"
	LatentFactor     ScoringMethod = "latent_factor"
)

// Valid 判断打分方式是否受支持。
func (m ScoringMethod) Valid() bool {
	switch m {
	case CosineItemBased, PearsonItemBased, LatentFactor:
		return true
	}
	return false
}

// Snapshot 是一次训练运行的不可变产物。
//
// 所有权：训练进程独占产出；消费方（服务进程）只反序列化和查询，
// 从不修改。重新训练产出新快照，绝不原地更新旧快照，
// 服务中的快照永远不会被观察到半更新状态。
type Snapshot struct {
	Version   int           `json:"schema_version"`
	Method    ScoringMethod `json:"method"`
	TrainedAt time.Time     `json:"trained_at"`

	// 矩阵元信息
	UserCount  int              `json:"user_count"`
	MovieCount int              `json:"movie_count"`
	Scale      core.RatingScale `json:"scale"`

	// 推理所需的训练态
	Ratings    []dataset.Rating    `json:"ratings"`
	Index      *similarity.Index   `json:"index,omitempty"`
	Factors    *similarity.Factors `json:"factors,omitempty"`
	Popularity map[int64]float64   `json:"popularity"`
	Movies     []*dataset.Movie    `json:"movies,omitempty"`

	// 融合参数
	Alpha          float64 `json:"alpha"`
	MinRatingCount int     `json:"min_rating_count"`
}

// Encode 把快照序列化为带版本号的 blob。
func (s *Snapshot) Encode() ([]byte, error) {
	if s.Version == 0 {
		s.Version = SchemaVersion
	}
	return json.Marshal(s)
}

// Decode 反序列化快照 blob。先探测版本号，
// 不兼容的版本返回 MODEL_VERSION 错误，不做静默硬解。
func Decode(data []byte) (*Snapshot, error) {
	var probe struct {
		Version int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelVersion,
			fmt.Sprintf("model: snapshot blob is not decodable: %v", err))
	}
	if probe.Version != SchemaVersion {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelVersion,
			fmt.Sprintf("model: snapshot schema version %d, expect %d", probe.Version, SchemaVersion))
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelVersion,
			fmt.Sprintf("model: snapshot body decode failed: %v", err))
	}
	if !s.Method.Valid() {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeModelVersion,
			fmt.Sprintf("model: snapshot carries unknown scoring method %q", s.Method))
	}
	return &s, nil
}
