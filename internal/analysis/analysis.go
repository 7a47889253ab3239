package analysis

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// 条件ラベル（has_summary → LLM / No_LLM）
const (
	CondLLM   = "LLM"
	CondNoLLM = "No_LLM"
)

// testParticipant 本番データに混ざる動作確認用参加者（除外対象）
const testParticipant = "テスト用"

// Observation 結果1行分の観測値
type Observation struct {
	ParticipantID string
	PaperID       string
	Condition     string
	TimeTakenSec  float64
	// 正確性（1=正解）。チェック列がない行はnil
	Accuracy *float64
}

// LoadCSV エクスポートされたResults CSVを読み込む。
// テスト用参加者と中断行・時間欠損行は除外する。
func LoadCSV(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("結果CSVを開けません: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("結果CSVの読み込みエラー: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("結果CSVにデータ行がありません")
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"participant_name", "has_summary", "paper_id", "answer_time"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("結果CSVに '%s' 列が見つかりません", required)
		}
	}

	return FromRows(rows[1:], col), nil
}

// FromRows ヘッダー位置が解決済みの行列から観測値を組み立てる
func FromRows(rows [][]string, col map[string]int) []Observation {
	var obs []Observation
	for _, row := range rows {
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		name := get("participant_name")
		if name == "" || name == testParticipant {
			continue
		}
		if strings.HasPrefix(get("action"), "INTERRUPTED") {
			continue
		}
		t, err := strconv.ParseFloat(get("answer_time"), 64)
		if err != nil {
			continue
		}

		o := Observation{
			ParticipantID: name,
			PaperID:       get("paper_id"),
			Condition:     conditionLabel(get("has_summary")),
			TimeTakenSec:  t,
		}
		// 正解チェック列：1のみ正解、空欄は欠損扱い
		if acc := get("accuracy"); acc != "" {
			if v, err := strconv.ParseFloat(acc, 64); err == nil && v == 1 {
				one := 1.0
				o.Accuracy = &one
			} else if err == nil {
				zero := 0.0
				o.Accuracy = &zero
			}
		}
		obs = append(obs, o)
	}
	return obs
}

func conditionLabel(hasSummary string) string {
	switch strings.ToLower(hasSummary) {
	case "true", "1", "t":
		return CondLLM
	default:
		return CondNoLLM
	}
}

// CondStats 条件ごとの記述統計（作業時間・秒）
type CondStats struct {
	N      int
	Mean   float64
	SD     float64
	Median float64
	Min    float64
	Max    float64
}

// Describe 条件別の記述統計を計算する
func Describe(obs []Observation) map[string]CondStats {
	byCondition := make(map[string][]float64)
	for _, o := range obs {
		byCondition[o.Condition] = append(byCondition[o.Condition], o.TimeTakenSec)
	}

	stats := make(map[string]CondStats, len(byCondition))
	for cond, xs := range byCondition {
		stats[cond] = describeOne(xs)
	}
	return stats
}

func describeOne(xs []float64) CondStats {
	s := CondStats{N: len(xs)}
	if s.N == 0 {
		return s
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	if len(sorted)%2 == 1 {
		s.Median = sorted[len(sorted)/2]
	} else {
		s.Median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}

	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	s.Mean = sum / float64(s.N)

	if s.N > 1 {
		ss := 0.0
		for _, x := range xs {
			d := x - s.Mean
			ss += d * d
		}
		s.SD = math.Sqrt(ss / float64(s.N-1))
	}
	return s
}

// WelchResult Welchの2標本t検定の結果
type WelchResult struct {
	T      float64
	DF     float64
	PValue float64
	// 平均差（No_LLM - LLM）
	Diff float64
}

// WelchTTest 作業時間の条件間比較（両側）。
// p値は正規近似。事前解析計画の線形混合モデルの近似であり、レポートにもその旨を明記する。
func WelchTTest(llm, noLLM []float64) WelchResult {
	a, b := describeOne(llm), describeOne(noLLM)
	if a.N < 2 || b.N < 2 {
		return WelchResult{PValue: 1}
	}
	va := a.SD * a.SD / float64(a.N)
	vb := b.SD * b.SD / float64(b.N)
	se := math.Sqrt(va + vb)
	if se == 0 {
		return WelchResult{PValue: 1}
	}
	t := (b.Mean - a.Mean) / se
	// Welch–Satterthwaite自由度
	df := (va + vb) * (va + vb) /
		(va*va/float64(a.N-1) + vb*vb/float64(b.N-1))
	p := 2 * (1 - normCDF(math.Abs(t)))
	return WelchResult{T: t, DF: df, PValue: p, Diff: b.Mean - a.Mean}
}

// TwoPropZTest 正確性の2比率z検定（両側）
func TwoPropZTest(x1, n1, x2, n2 int) (pValue float64, z float64) {
	if n1 == 0 || n2 == 0 {
		return 1, 0
	}
	p1 := float64(x1) / float64(n1)
	p2 := float64(x2) / float64(n2)
	p := float64(x1+x2) / float64(n1+n2)
	se := math.Sqrt(p * (1 - p) * (1/float64(n1) + 1/float64(n2)))
	if se == 0 {
		return 1, 0
	}
	z = (p2 - p1) / se
	pValue = 2 * (1 - normCDF(math.Abs(z)))
	return pValue, z
}

// AccuracyCounts 条件別の正解数と有効判定数
func AccuracyCounts(obs []Observation, cond string) (correct, n int) {
	for _, o := range obs {
		if o.Condition != cond || o.Accuracy == nil {
			continue
		}
		n++
		if *o.Accuracy == 1 {
			correct++
		}
	}
	return correct, n
}

// TimesByCondition 条件の作業時間ベクトル
func TimesByCondition(obs []Observation, cond string) []float64 {
	var xs []float64
	for _, o := range obs {
		if o.Condition == cond {
			xs = append(xs, o.TimeTakenSec)
		}
	}
	return xs
}

// 標準正規分布のCDF（erfによる）
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
