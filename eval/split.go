package eval

import (
	"math/rand"
	"sort"

	"github.com/rushteam/movierec/dataset"
)

// SplitOptions 控制训练/留出集划分。
type SplitOptions struct {
	// TestFraction 每个用户被留出的评分比例，(0, 1)，默认 0.2
	TestFraction float64

	// Seed 随机种子；固定种子保证划分可复现
	Seed int64

	// MinTrain 每个用户至少保留在训练侧的评分数，默认 1。
	// 评分数不足的用户全部留在训练侧，避免制造训练数据里不存在的用户
	MinTrain int
}

// Split 按用户做分层划分：每个用户的评分独立洗牌后按比例切分。
// 这样训练侧覆盖留出集里的所有用户，评估度量的是排序质量而非冷启动。
func Split(ratings []dataset.Rating, opts SplitOptions) (train, test []dataset.Rating) {
	fraction := opts.TestFraction
	if fraction <= 0 || fraction >= 1 {
		fraction = 0.2
	}
	minTrain := opts.MinTrain
	if minTrain <= 0 {
		minTrain = 1
	}

	byUser := make(map[int64][]dataset.Rating)
	for _, r := range ratings {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	users := make([]int64, 0, len(byUser))
	for userID := range byUser {
		users = append(users, userID)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	rng := rand.New(rand.NewSource(opts.Seed))
	for _, userID := range users {
		rows := byUser[userID]
		// 先按 movieId 排序再洗牌，结果只取决于数据与种子，
		// 与调用方传入的切片顺序无关
		sort.Slice(rows, func(i, j int) bool { return rows[i].MovieID < rows[j].MovieID })
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

		nTest := int(float64(len(rows)) * fraction)
		if len(rows)-nTest < minTrain {
			nTest = len(rows) - minTrain
		}
		if nTest < 0 {
			nTest = 0
		}
		test = append(test, rows[:nTest]...)
		train = append(train, rows[nTest:]...)
	}
	return train, test
}
