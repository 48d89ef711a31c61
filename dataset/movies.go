package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rushteam/movierec/core"
)

// Movie 是一条电影元数据。Genres 按 MovieLens movies.csv 的 '|' 分隔格式解析。
type Movie struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres,omitempty"`
}

// MovieSet 是电影元数据表，附带从类型派生的 TF-IDF 特征向量。
// 构建完成后只读。
type MovieSet struct {
	movies   map[int64]*Movie
	features map[int64]map[string]float64 // movieId -> {genre: tf-idf 权重}
	ids      []int64
}

// 电影表必需列。
const (
	colTitle  = "title"
	colGenres = "genres"
)

// noGenres 是 MovieLens 中"无类型"的占位值，不作为特征。
const noGenres = "(no genres listed)"

// LoadMovies 从 CSV 读取电影表（带表头：movieId,title[,genres]）。
// 缺少 movieId 或 title 列返回 SCHEMA_ERROR。
func LoadMovies(r io.Reader) (*MovieSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeSchema,
			fmt.Sprintf("dataset: cannot read movies header: %v", err))
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{colMovieID, colTitle} {
		if _, ok := idx[required]; !ok {
			return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeSchema,
				fmt.Sprintf("dataset: movies table missing required column %q", required))
		}
	}
	genresIdx, hasGenres := idx[colGenres]

	var movies []*Movie
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if idx[colMovieID] >= len(rec) || idx[colTitle] >= len(rec) {
			continue
		}
		id, err := strconv.ParseInt(rec[idx[colMovieID]], 10, 64)
		if err != nil || id < 1 {
			continue
		}
		mv := &Movie{ID: id, Title: rec[idx[colTitle]]}
		if hasGenres && genresIdx < len(rec) {
			mv.Genres = parseGenres(rec[genresIdx])
		}
		movies = append(movies, mv)
	}

	return NewMovieSet(movies), nil
}

func parseGenres(s string) []string {
	if s == "" || s == noGenres {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewMovieSet 从电影记录构建元数据表并计算类型 TF-IDF 特征。
// 重复 movieId 后写覆盖。
func NewMovieSet(movies []*Movie) *MovieSet {
	ms := &MovieSet{
		movies:   make(map[int64]*Movie, len(movies)),
		features: make(map[int64]map[string]float64, len(movies)),
	}
	for _, mv := range movies {
		ms.movies[mv.ID] = mv
	}

	ms.ids = make([]int64, 0, len(ms.movies))
	for id := range ms.movies {
		ms.ids = append(ms.ids, id)
	}
	sort.Slice(ms.ids, func(i, j int) bool { return ms.ids[i] < ms.ids[j] })

	// IDF：罕见类型权重高，热门类型（如 Drama）权重低，
	// 缓解内容画像被高频类型淹没
	df := make(map[string]int)
	for _, mv := range ms.movies {
		for _, g := range mv.Genres {
			df[g]++
		}
	}
	total := float64(len(ms.movies))

	for id, mv := range ms.movies {
		if len(mv.Genres) == 0 {
			continue
		}
		vec := make(map[string]float64, len(mv.Genres))
		for _, g := range mv.Genres {
			idf := math.Log(1 + total/float64(df[g]))
			vec[g] = idf
		}
		ms.features[id] = vec
	}
	return ms
}

// Get 返回电影元数据。
func (ms *MovieSet) Get(movieID int64) (*Movie, bool) {
	mv, ok := ms.movies[movieID]
	return mv, ok
}

// Title 返回电影标题，未知电影返回空串。
func (ms *MovieSet) Title(movieID int64) string {
	if mv, ok := ms.movies[movieID]; ok {
		return mv.Title
	}
	return ""
}

// Features 返回电影的类型特征向量；无类型的电影返回 nil。
// 调用方不得修改。
func (ms *MovieSet) Features(movieID int64) map[string]float64 {
	return ms.features[movieID]
}

// IDs 返回全部 movieId（升序）。调用方不得修改。
func (ms *MovieSet) IDs() []int64 { return ms.ids }

// Len 返回电影数。
func (ms *MovieSet) Len() int { return len(ms.movies) }
