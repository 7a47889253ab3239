package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const systemInstruction = "あなたは研究論文から構造化データを抽出する専門家です。" +
	"提供された論文テキストから、指定されたスキーマに従って情報を抽出してください。"

// Extractor 論文テキスト → 構造化レコード（thema/category/place/time/person/summary）
type Extractor struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewExtractor(ctx context.Context, apiKey, modelName string, requestsPerMinute int, log *logger.Logger) (*Extractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini APIキーが未設定です")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの作成に失敗: %w", err)
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	return &Extractor{
		client:  client,
		model:   modelName,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
		log:     log,
	}, nil
}

// Extract PDF本文から構造化データを生成する
func (e *Extractor) Extract(ctx context.Context, pdfText, filename string) (*model.ExtractedPaper, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("以下の論文テキストから構造化情報を抽出してください:\n\n%s",
		TruncateForPrompt(pdfText))

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    paperSchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("構造化抽出に失敗 (%s): %w", filename, err)
	}

	raw := resp.Text()
	var extracted model.ExtractedPaper
	if err := json.Unmarshal([]byte(raw), &extracted); err != nil {
		return nil, fmt.Errorf("抽出結果の解析に失敗 (%s): %w", filename, err)
	}
	extracted.Filename = filename
	e.log.Info("構造化抽出完了", "filename", filename, "thema", extracted.Thema)
	return &extracted, nil
}

// paperSchema 抽出スキーマ。各説明文は抽出指示を兼ねる。
func paperSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"filename": {
				Type:        genai.TypeString,
				Description: "PDFファイル名",
			},
			"thema": {
				Type:        genai.TypeString,
				Description: "タイトルと内容に基づく論文テーマの簡潔な一句。関連する国・地域があれば含める。不明なら 'Unknown'。",
			},
			"category": {
				Type:        genai.TypeString,
				Description: "研究カテゴリ（疫学調査、ワクチン効果研究など）。不明なら 'Unknown'。",
			},
			"place": {
				Type:        genai.TypeString,
				Description: "研究実施場所（国・地域）。不明なら 'Unknown'。",
			},
			"time": {
				Type:        genai.TypeString,
				Description: "研究実施期間。不明なら 'Unknown'。",
			},
			"person": {
				Type:        genai.TypeString,
				Description: "研究対象者（年齢層・属性）。不明なら 'Unknown'。",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "論文要点の箇条書きサマリー（3項目程度、日本語）。",
			},
		},
		Required: []string{"thema", "category", "place", "time", "person", "summary"},
	}
}
