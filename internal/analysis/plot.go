package analysis

import (
	"fmt"
	"sort"

	"github.com/fogleman/gg"
)

const (
	plotW = 800
	plotH = 600
)

// fontCandidates ラベル描画に使うフォントの探索先。見つからなければラベルなしで描く。
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial.ttf",
}

// SaveTimeBarChart 条件別の平均作業時間（±SD）の棒グラフをPNGに保存する
func SaveTimeBarChart(stats map[string]CondStats, path string) error {
	dc := gg.NewContext(plotW, plotH)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	hasFont := loadFont(dc, 18)

	conds := []string{CondLLM, CondNoLLM}
	maxVal := 1.0
	for _, c := range conds {
		if s, ok := stats[c]; ok && s.Mean+s.SD > maxVal {
			maxVal = s.Mean + s.SD
		}
	}

	const (
		marginX = 100.0
		marginY = 80.0
	)
	plotArea := float64(plotH) - 2*marginY
	scale := plotArea / (maxVal * 1.1)
	barWidth := 160.0

	// 軸
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	dc.DrawLine(marginX, marginY, marginX, float64(plotH)-marginY)
	dc.DrawLine(marginX, float64(plotH)-marginY, float64(plotW)-marginX, float64(plotH)-marginY)
	dc.Stroke()

	colors := [][3]float64{{0.20, 0.55, 0.85}, {0.85, 0.45, 0.20}}
	for i, cond := range conds {
		s, ok := stats[cond]
		if !ok {
			continue
		}
		x := marginX + 120 + float64(i)*280
		h := s.Mean * scale
		y := float64(plotH) - marginY - h

		dc.SetRGB(colors[i][0], colors[i][1], colors[i][2])
		dc.DrawRectangle(x, y, barWidth, h)
		dc.Fill()

		// SDエラーバー
		cx := x + barWidth/2
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(2)
		dc.DrawLine(cx, y-s.SD*scale, cx, y+s.SD*scale)
		dc.DrawLine(cx-15, y-s.SD*scale, cx+15, y-s.SD*scale)
		dc.DrawLine(cx-15, y+s.SD*scale, cx+15, y+s.SD*scale)
		dc.Stroke()

		if hasFont {
			dc.DrawStringAnchored(cond, cx, float64(plotH)-marginY+30, 0.5, 0.5)
			dc.DrawStringAnchored(fmt.Sprintf("%.0f s", s.Mean), cx, y-s.SD*scale-20, 0.5, 0.5)
		}
	}

	if hasFont {
		dc.DrawStringAnchored("Mean task time by condition (±SD)", float64(plotW)/2, marginY/2, 0.5, 0.5)
	}

	return dc.SavePNG(path)
}

// SaveProgressChart 参加者別の完了数を横棒で描く
func SaveProgressChart(completed map[string]int, totalSlots int, path string) error {
	dc := gg.NewContext(plotW, plotH)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	hasFont := loadFont(dc, 16)

	names := make([]string, 0, len(completed))
	for name := range completed {
		names = append(names, name)
	}
	sort.Strings(names)

	const (
		marginX = 160.0
		marginY = 60.0
	)
	rowH := (float64(plotH) - 2*marginY) / float64(max(len(names), 1))
	barMax := float64(plotW) - marginX - 60

	for i, name := range names {
		y := marginY + float64(i)*rowH
		frac := float64(completed[name]) / float64(totalSlots)

		dc.SetRGB(0.85, 0.88, 0.92)
		dc.DrawRectangle(marginX, y+rowH*0.2, barMax, rowH*0.6)
		dc.Fill()

		dc.SetRGB(0.25, 0.65, 0.35)
		dc.DrawRectangle(marginX, y+rowH*0.2, barMax*frac, rowH*0.6)
		dc.Fill()

		if hasFont {
			dc.SetRGB(0, 0, 0)
			dc.DrawStringAnchored(name, marginX-10, y+rowH/2, 1, 0.5)
			dc.DrawStringAnchored(fmt.Sprintf("%d/%d", completed[name], totalSlots),
				marginX+barMax+30, y+rowH/2, 0.5, 0.5)
		}
	}

	if hasFont {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored("Completed slots by participant", float64(plotW)/2, marginY/2, 0.5, 0.5)
	}
	return dc.SavePNG(path)
}

func loadFont(dc *gg.Context, size float64) bool {
	for _, p := range fontCandidates {
		if err := dc.LoadFontFace(p, size); err == nil {
			return true
		}
	}
	return false
}
