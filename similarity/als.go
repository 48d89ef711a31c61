package similarity

import (
	"context"
	"math/rand"
	"sort"

	"github.com/rushteam/movierec/dataset"
)

// Factors 是 ALS 低秩分解的产物：用户/电影隐向量。
// 预测分数 = 用户隐向量 · 电影隐向量。训练完成后只读。
type Factors struct {
	Rank      int                 `json:"rank"`
	UserVecs  map[int64][]float64 `json:"user_vecs"`
	MovieVecs map[int64][]float64 `json:"movie_vecs"`
}

// ALSOptions 控制 ALS 训练。零值字段取默认。
type ALSOptions struct {
	Rank       int     // 隐向量维度，默认 16
	Iterations int     // 交替轮数，默认 10
	Reg        float64 // L2 正则系数，默认 0.05
	Seed       int64   // 随机种子；固定种子保证训练可复现
}

const (
	defaultALSRank       = 16
	defaultALSIterations = 10
	defaultALSReg        = 0.05
)

// TrainALS 在评分矩阵上做交替最小二乘分解。
// 每轮先固定电影向量解用户向量，再固定用户向量解电影向量，
// 每个求解是 rank 维的正规方程组。迭代顺序按 ID 升序，结果确定。
func TrainALS(ctx context.Context, m *dataset.Matrix, opts ALSOptions) (*Factors, error) {
	rank := opts.Rank
	if rank <= 0 {
		rank = defaultALSRank
	}
	iters := opts.Iterations
	if iters <= 0 {
		iters = defaultALSIterations
	}
	reg := opts.Reg
	if reg <= 0 {
		reg = defaultALSReg
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	f := &Factors{
		Rank:      rank,
		UserVecs:  make(map[int64][]float64, m.UserCount()),
		MovieVecs: make(map[int64][]float64, m.MovieCount()),
	}
	// 电影向量随机初始化（小幅度），用户向量首轮求解得到
	for _, id := range m.Movies() {
		vec := make([]float64, rank)
		for d := range vec {
			vec[d] = rng.Float64() * 0.1
		}
		f.MovieVecs[id] = vec
	}
	for _, id := range m.Users() {
		f.UserVecs[id] = make([]float64, rank)
	}

	for it := 0; it < iters; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, userID := range m.Users() {
			f.UserVecs[userID] = solveSide(m.UserRatings(userID), f.MovieVecs, rank, reg)
		}
		for _, movieID := range m.Movies() {
			f.MovieVecs[movieID] = solveSide(m.MovieRatings(movieID), f.UserVecs, rank, reg)
		}
	}
	return f, nil
}

// solveSide 求解单侧向量：min Σ(r - x·y)² + reg·|x|²，
// 即正规方程 (YᵀY + reg·I) x = Yᵀr，Y 是对侧已评分向量的堆叠。
// 累加按 ID 升序进行：浮点求和不满足结合律，map 随机遍历序会让
// 同一种子两次训练产生不同的隐向量。
func solveSide(ratings map[int64]float64, opposite map[int64][]float64, rank int, reg float64) []float64 {
	a := make([][]float64, rank)
	for i := range a {
		a[i] = make([]float64, rank)
		a[i][i] = reg
	}
	b := make([]float64, rank)

	ids := make([]int64, 0, len(ratings))
	for id := range ratings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		r := ratings[id]
		y, ok := opposite[id]
		if !ok {
			continue
		}
		for i := 0; i < rank; i++ {
			b[i] += r * y[i]
			for j := 0; j < rank; j++ {
				a[i][j] += y[i] * y[j]
			}
		}
	}
	return solveLinear(a, b)
}

// solveLinear 用列主元高斯消元解 rank 维线性方程组 a·x = b。
// a、b 会被原地修改；奇异主元列跳过（对应维度置 0）。
func solveLinear(a [][]float64, b []float64) []float64 {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if abs(a[row][col]) > abs(a[pivot][col]) {
				pivot = row
			}
		}
		if a[pivot][col] == 0 {
			continue
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		if a[row][row] == 0 {
			continue
		}
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Predict 返回用户对电影的预测分数；任一侧缺向量返回 (0, false)。
func (f *Factors) Predict(userID, movieID int64) (float64, bool) {
	u, ok := f.UserVecs[userID]
	if !ok {
		return 0, false
	}
	v, ok := f.MovieVecs[movieID]
	if !ok {
		return 0, false
	}
	return Dot(u, v), true
}
