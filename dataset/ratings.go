// Package dataset 负责评分表与电影元数据表的加载、校验和稠密索引重映射。
// 引擎只消费已解析的表格数据，不关心数据来自网络下载还是本地文件。
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rushteam/movierec/core"
)

// Rating 是一条用户对电影的评分记录。加载后不可变。
type Rating struct {
	UserID    int64   `json:"user_id"`
	MovieID   int64   `json:"movie_id"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp,omitempty"` // 可选，0 表示缺失
}

// LoadReport 汇报一次加载的数据质量情况。
// 越界/不可解析的行被丢弃并计数，不中断加载；
// 只有表结构本身损坏（缺少必需列）才会返回错误。
type LoadReport struct {
	Total   int // 读到的数据行数
	Kept    int // 通过校验的行数
	Dropped int // 因评分越界或字段不可解析被丢弃的行数
}

// 评分表必需列。列名对齐 MovieLens ratings.csv。
const (
	colUserID    = "userId"
	colMovieID   = "movieId"
	colRating    = "rating"
	colTimestamp = "timestamp"
)

// LoadRatings 从 CSV 读取评分表（带表头：userId,movieId,rating[,timestamp]）。
// 缺少必需列返回 SCHEMA_ERROR；脏行丢弃并在 LoadReport 中计数。
func LoadRatings(r io.Reader, scale core.RatingScale) ([]Rating, *LoadReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeSchema,
			fmt.Sprintf("dataset: cannot read ratings header: %v", err))
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{colUserID, colMovieID, colRating} {
		if _, ok := idx[required]; !ok {
			return nil, nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeSchema,
				fmt.Sprintf("dataset: ratings table missing required column %q", required))
		}
	}
	tsIdx, hasTS := idx[colTimestamp]

	report := &LoadReport{}
	var out []Rating
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// 行级解析错误按脏行处理
			report.Total++
			report.Dropped++
			continue
		}
		report.Total++

		rating, ok := parseRow(rec, idx, scale)
		if !ok {
			report.Dropped++
			continue
		}
		if hasTS && tsIdx < len(rec) {
			if ts, err := strconv.ParseInt(rec[tsIdx], 10, 64); err == nil {
				rating.Timestamp = ts
			}
		}
		out = append(out, rating)
		report.Kept++
	}
	return out, report, nil
}

func parseRow(rec []string, idx map[string]int, scale core.RatingScale) (Rating, bool) {
	get := func(col string) (string, bool) {
		i := idx[col]
		if i >= len(rec) {
			return "", false
		}
		return rec[i], true
	}

	us, ok := get(colUserID)
	if !ok {
		return Rating{}, false
	}
	ms, ok := get(colMovieID)
	if !ok {
		return Rating{}, false
	}
	rs, ok := get(colRating)
	if !ok {
		return Rating{}, false
	}

	userID, err := strconv.ParseInt(us, 10, 64)
	if err != nil || userID < 1 {
		return Rating{}, false
	}
	movieID, err := strconv.ParseInt(ms, 10, 64)
	if err != nil || movieID < 1 {
		return Rating{}, false
	}
	value, err := strconv.ParseFloat(rs, 64)
	if err != nil || !scale.Contains(value) {
		return Rating{}, false
	}

	return Rating{UserID: userID, MovieID: movieID, Rating: value}, true
}

// ValidateRecords 校验内存中的评分记录（来源是上游已解析的表格时使用），
// 语义与 LoadRatings 的行级校验一致。
func ValidateRecords(ratings []Rating, scale core.RatingScale) ([]Rating, *LoadReport) {
	report := &LoadReport{Total: len(ratings)}
	out := make([]Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.UserID < 1 || r.MovieID < 1 || !scale.Contains(r.Rating) {
			report.Dropped++
			continue
		}
		out = append(out, r)
	}
	report.Kept = len(out)
	return out, report
}
