package analysis

import (
	"fmt"
	"strings"
	"time"
)

// RenderReportMarkdown 条件間比較の結果をMarkdownレポートに整形する
func RenderReportMarkdown(obs []Observation, stats map[string]CondStats, welch WelchResult) string {
	var b strings.Builder
	b.WriteString("# RCT結果分析レポート\n\n")
	b.WriteString(fmt.Sprintf("- 生成日時: %s\n", time.Now().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("- 有効観測数: %d\n", len(obs)))
	b.WriteString(fmt.Sprintf("- 参加者数: %d\n\n", countParticipants(obs)))

	b.WriteString("## 記述統計（作業時間・秒）\n\n")
	b.WriteString("| 条件 | N | 平均(秒) | 平均(分) | SD | 中央値 | 最小 | 最大 |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: | ---: | ---: |\n")
	for _, cond := range []string{CondLLM, CondNoLLM} {
		s, ok := stats[cond]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			cond, s.N, s.Mean, s.Mean/60, s.SD, s.Median, s.Min, s.Max))
	}
	b.WriteString("\n")

	b.WriteString("## 主要アウトカム（作業時間）\n\n")
	b.WriteString("Welchの2標本t検定（p値は正規近似）。事前解析計画は線形混合モデルであり、\n")
	b.WriteString("本レポートの検定は参加者・論文のランダム効果を無視した近似である点に注意。\n\n")
	b.WriteString(fmt.Sprintf("- 推定差 (No_LLM - LLM): %.1f 秒 (%.1f 分)\n", welch.Diff, welch.Diff/60))
	b.WriteString(fmt.Sprintf("- t = %.3f, df = %.1f\n", welch.T, welch.DF))
	b.WriteString(fmt.Sprintf("- p値（両側）: %.3f\n\n", welch.PValue))

	// 副次アウトカム（正確性）はチェック列がある場合のみ
	llmCorrect, llmN := AccuracyCounts(obs, CondLLM)
	noCorrect, noN := AccuracyCounts(obs, CondNoLLM)
	b.WriteString("## 副次アウトカム（正確性）\n\n")
	if llmN == 0 && noN == 0 {
		b.WriteString("- 正確性データなし（accuracy列が未入力）\n")
	} else {
		p, z := TwoPropZTest(llmCorrect, llmN, noCorrect, noN)
		b.WriteString(fmt.Sprintf("- LLM: %d/%d 正解, No_LLM: %d/%d 正解\n", llmCorrect, llmN, noCorrect, noN))
		b.WriteString(fmt.Sprintf("- 2比率z検定: z = %.3f, p = %.3f\n", z, p))
	}
	b.WriteString("\n")
	return b.String()
}

func countParticipants(obs []Observation) int {
	seen := make(map[string]struct{})
	for _, o := range obs {
		seen[o.ParticipantID] = struct{}{}
	}
	return len(seen)
}
