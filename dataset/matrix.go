package dataset

import (
	"sort"

	"github.com/rushteam/movierec/core"
)

// Matrix 是稀疏的用户-电影评分矩阵。
//
// 不变式：
//   - 每个 (user, movie) 对至多一条评分，重复写入时后者覆盖前者
//   - 外部稀疏 ID 重映射为稠密下标，行列两侧各一张映射表，
//     下游组件统一走稠密下标，避免空间浪费
//   - 构建完成后只读，可被多个查询并发访问，无需加锁
type Matrix struct {
	scale core.RatingScale

	userIDs  []int64 // 稠密下标 -> 外部 userId
	movieIDs []int64 // 稠密下标 -> 外部 movieId

	userIndex  map[int64]int
	movieIndex map[int64]int

	rows []map[int]float64 // 用户行：稠密用户下标 -> {稠密电影下标: 评分}
	cols []map[int]float64 // 电影列（倒排）：稠密电影下标 -> {稠密用户下标: 评分}

	userMean []float64
}

// NewMatrix 从校验过的评分记录构建矩阵。
// 重复 (user, movie) 后写覆盖；用户与电影按外部 ID 升序分配稠密下标，
// 保证同一批数据构建结果完全一致。
func NewMatrix(ratings []Rating, scale core.RatingScale) *Matrix {
	userSet := make(map[int64]struct{})
	movieSet := make(map[int64]struct{})
	for _, r := range ratings {
		userSet[r.UserID] = struct{}{}
		movieSet[r.MovieID] = struct{}{}
	}

	m := &Matrix{
		scale:      scale,
		userIDs:    sortedIDs(userSet),
		movieIDs:   sortedIDs(movieSet),
		userIndex:  make(map[int64]int, len(userSet)),
		movieIndex: make(map[int64]int, len(movieSet)),
	}
	for i, id := range m.userIDs {
		m.userIndex[id] = i
	}
	for i, id := range m.movieIDs {
		m.movieIndex[id] = i
	}

	m.rows = make([]map[int]float64, len(m.userIDs))
	m.cols = make([]map[int]float64, len(m.movieIDs))
	for i := range m.rows {
		m.rows[i] = make(map[int]float64)
	}
	for i := range m.cols {
		m.cols[i] = make(map[int]float64)
	}

	for _, r := range ratings {
		u := m.userIndex[r.UserID]
		v := m.movieIndex[r.MovieID]
		m.rows[u][v] = r.Rating
		m.cols[v][u] = r.Rating
	}

	m.userMean = make([]float64, len(m.rows))
	for i, row := range m.rows {
		if len(row) == 0 {
			continue
		}
		var sum float64
		for _, r := range row {
			sum += r
		}
		m.userMean[i] = sum / float64(len(row))
	}

	return m
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Scale 返回评分值域。
func (m *Matrix) Scale() core.RatingScale { return m.scale }

// UserCount 返回用户数。
func (m *Matrix) UserCount() int { return len(m.userIDs) }

// MovieCount 返回电影数。
func (m *Matrix) MovieCount() int { return len(m.movieIDs) }

// Users 返回全部外部 userId（升序）。调用方不得修改。
func (m *Matrix) Users() []int64 { return m.userIDs }

// Movies 返回全部外部 movieId（升序）。调用方不得修改。
func (m *Matrix) Movies() []int64 { return m.movieIDs }

// HasUser 判断外部 userId 是否出现在训练数据中。
func (m *Matrix) HasUser(userID int64) bool {
	_, ok := m.userIndex[userID]
	return ok
}

// Rating 返回用户对电影的评分。
func (m *Matrix) Rating(userID, movieID int64) (float64, bool) {
	u, ok := m.userIndex[userID]
	if !ok {
		return 0, false
	}
	v, ok := m.movieIndex[movieID]
	if !ok {
		return 0, false
	}
	r, ok := m.rows[u][v]
	return r, ok
}

// UserRatings 返回用户的全部评分（外部 movieId -> 评分）。
// 未知用户返回空 map。
func (m *Matrix) UserRatings(userID int64) map[int64]float64 {
	u, ok := m.userIndex[userID]
	if !ok {
		return map[int64]float64{}
	}
	out := make(map[int64]float64, len(m.rows[u]))
	for v, r := range m.rows[u] {
		out[m.movieIDs[v]] = r
	}
	return out
}

// MovieRatings 返回电影收到的全部评分（外部 userId -> 评分）。
func (m *Matrix) MovieRatings(movieID int64) map[int64]float64 {
	v, ok := m.movieIndex[movieID]
	if !ok {
		return map[int64]float64{}
	}
	out := make(map[int64]float64, len(m.cols[v]))
	for u, r := range m.cols[v] {
		out[m.userIDs[u]] = r
	}
	return out
}

// RatedMovies 返回用户已评分的电影集合，用于推理与评估时排除已看过的候选。
func (m *Matrix) RatedMovies(userID int64) map[int64]struct{} {
	u, ok := m.userIndex[userID]
	if !ok {
		return map[int64]struct{}{}
	}
	out := make(map[int64]struct{}, len(m.rows[u]))
	for v := range m.rows[u] {
		out[m.movieIDs[v]] = struct{}{}
	}
	return out
}

// UserMean 返回用户评分均值。未知用户返回 (0, false)。
func (m *Matrix) UserMean(userID int64) (float64, bool) {
	u, ok := m.userIndex[userID]
	if !ok {
		return 0, false
	}
	return m.userMean[u], true
}

// MovieStats 返回电影的评分均值与评分数。
func (m *Matrix) MovieStats(movieID int64) (mean float64, count int) {
	v, ok := m.movieIndex[movieID]
	if !ok {
		return 0, 0
	}
	col := m.cols[v]
	if len(col) == 0 {
		return 0, 0
	}
	var sum float64
	for _, r := range col {
		sum += r
	}
	return sum / float64(len(col)), len(col)
}
