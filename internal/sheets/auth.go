package sheets

import (
	"context"
	"fmt"
	"os"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

// authStrategy 認証戦略。優先順に試行し、最初に成功したものを使う。
type authStrategy struct {
	name  string
	build func(ctx context.Context, cfg config.SheetsConfig) (option.ClientOption, error)
}

// strategies 認証の優先順位：
//  1. OAuth2トークンファイル（ローカル開発）
//  2. OAuth2リフレッシュトークン環境変数（Heroku）
//  3. サービスアカウントJSON環境変数
//  4. サービスアカウント鍵ファイル
//  5. Application Default Credentials
func strategies() []authStrategy {
	return []authStrategy{
		{name: "oauth_token_file", build: buildTokenFile},
		{name: "oauth_env", build: buildOAuthEnv},
		{name: "service_account_env", build: buildServiceAccountEnv},
		{name: "service_account_file", build: buildServiceAccountFile},
		{name: "application_default", build: buildApplicationDefault},
	}
}

// NewService 認証チェーンを順に試してSheetsクライアントを作る。
// 戻り値2つ目は成功した戦略名（ログ・診断用）。
func NewService(ctx context.Context, cfg config.SheetsConfig, log *logger.Logger) (*sheets.Service, string, error) {
	return resolve(ctx, cfg, strategies(), log)
}

func resolve(ctx context.Context, cfg config.SheetsConfig, chain []authStrategy, log *logger.Logger) (*sheets.Service, string, error) {
	for _, st := range chain {
		opt, err := st.build(ctx, cfg)
		if err != nil {
			log.Debug("Sheets認証失敗", "strategy", st.name, "error", err)
			continue
		}
		srv, err := sheets.NewService(ctx, opt)
		if err != nil {
			log.Warn("Sheetsクライアント作成失敗", "strategy", st.name, "error", err)
			continue
		}
		log.Info("Sheets認証成功", "strategy", st.name)
		return srv, st.name, nil
	}
	return nil, "", fmt.Errorf("すべてのSheets認証方法が失敗しました")
}

func buildTokenFile(ctx context.Context, cfg config.SheetsConfig) (option.ClientOption, error) {
	data, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	// authorized_user形式のJSON。期限切れはTokenSourceが自動リフレッシュする
	creds, err := google.CredentialsFromJSON(ctx, data, spreadsheetScope)
	if err != nil {
		return nil, fmt.Errorf("トークンファイルの解析に失敗: %w", err)
	}
	return option.WithCredentials(creds), nil
}

func buildOAuthEnv(ctx context.Context, _ config.SheetsConfig) (option.ClientOption, error) {
	clientID := os.Getenv("GOOGLE_OAUTH_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET")
	refreshToken := os.Getenv("GOOGLE_OAUTH_REFRESH_TOKEN")
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("OAuth2環境変数が未設定")
	}
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{spreadsheetScope},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return option.WithTokenSource(ts), nil
}

func buildServiceAccountEnv(ctx context.Context, _ config.SheetsConfig) (option.ClientOption, error) {
	raw := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
	if raw == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSONが未設定")
	}
	creds, err := google.CredentialsFromJSON(ctx, []byte(raw), spreadsheetScope)
	if err != nil {
		return nil, fmt.Errorf("サービスアカウントJSONの解析に失敗: %w", err)
	}
	return option.WithCredentials(creds), nil
}

func buildServiceAccountFile(ctx context.Context, cfg config.SheetsConfig) (option.ClientOption, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, data, spreadsheetScope)
	if err != nil {
		return nil, fmt.Errorf("鍵ファイルの解析に失敗: %w", err)
	}
	return option.WithCredentials(creds), nil
}

func buildApplicationDefault(ctx context.Context, _ config.SheetsConfig) (option.ClientOption, error) {
	creds, err := google.FindDefaultCredentials(ctx, spreadsheetScope)
	if err != nil {
		return nil, err
	}
	return option.WithCredentials(creds), nil
}
