package sheets

import (
	"context"
	"fmt"
	"testing"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func failing(name string) authStrategy {
	return authStrategy{
		name: name,
		build: func(context.Context, config.SheetsConfig) (option.ClientOption, error) {
			return nil, fmt.Errorf("%s は利用不可", name)
		},
	}
}

func succeeding(name string) authStrategy {
	return authStrategy{
		name: name,
		build: func(context.Context, config.SheetsConfig) (option.ClientOption, error) {
			return option.WithoutAuthentication(), nil
		},
	}
}

func TestResolveFirstSuccessWins(t *testing.T) {
	chain := []authStrategy{
		failing("first"),
		succeeding("second"),
		succeeding("third"), // 到達しない
	}
	srv, name, err := resolve(context.Background(), config.SheetsConfig{}, chain, logger.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, srv)
	assert.Equal(t, "second", name)
}

func TestResolveAllFail(t *testing.T) {
	chain := []authStrategy{failing("a"), failing("b")}
	_, _, err := resolve(context.Background(), config.SheetsConfig{}, chain, logger.NewNop())
	assert.Error(t, err)
}

func TestStrategyOrder(t *testing.T) {
	var names []string
	for _, st := range strategies() {
		names = append(names, st.name)
	}
	assert.Equal(t, []string{
		"oauth_token_file",
		"oauth_env",
		"service_account_env",
		"service_account_file",
		"application_default",
	}, names)
}
