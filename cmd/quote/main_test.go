package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/webquote/internal/auth"
	"github.com/Simplici0/webquote/internal/estimate"
	"github.com/Simplici0/webquote/internal/pricing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"GOOGLE_API_KEY", "GOOGLE_CLOUD_PROJECT", "FX_ENDPOINT", "REDIS_ADDR", "TEAM_RATES_PATH", "DEFAULT_CURRENCY"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	var out bytes.Buffer
	a := newApp()
	a.Writer = &out
	a.ErrWriter = io.Discard
	err := a.Run(append([]string{"quote"}, args...))
	return out.String(), err
}

func writeAnswers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const landingYAML = `
project_type: landing_page
tier: simple
hourly_rate: 100
features: [forms]
assumptions: Copy supplied by client
`

func TestEstimateJSON(t *testing.T) {
	out, err := run(t, "estimate", "--answers", writeAnswers(t, landingYAML), "--title", "Launch")
	require.NoError(t, err)

	var e estimate.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, "Launch", e.Title)
	require.NotNil(t, e.Result)
	assert.Equal(t, "USD", e.Result.Currency)
	assert.Equal(t, "landing_page", e.Result.ProjectType)
	assert.NotEmpty(t, e.ID)
}

func TestEstimateTextInOtherCurrency(t *testing.T) {
	out, err := run(t, "estimate", "-a", writeAnswers(t, landingYAML), "--currency", "eur", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "EUR")
	assert.Contains(t, out, "Copy supplied by client")
	assert.Contains(t, out, "Warning: exchange rates are stale (static)")
}

func TestEstimateAcceptsJSONAnswers(t *testing.T) {
	path := writeAnswers(t, `{"project_type": "landing_page", "tier": "simple", "hourly_rate": 100}`)
	out, err := run(t, "estimate", "--answers", path)
	require.NoError(t, err)

	var e estimate.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, 2400.0, e.Result.TotalCost)
}

func TestEstimateErrors(t *testing.T) {
	_, err := run(t, "estimate", "--answers", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read answers file")

	_, err = run(t, "estimate", "--answers", writeAnswers(t, "project_type: [unclosed"))
	assert.ErrorContains(t, err, "parse answers file")

	_, err = run(t, "estimate", "--answers", writeAnswers(t, landingYAML), "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestCalculate(t *testing.T) {
	out, err := run(t, "calculate", "--type", "landing_page", "--tier", "simple", "--rate", "100", "--target", "GBP")
	require.NoError(t, err)

	var res pricing.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "GBP", res.Currency)
	assert.Equal(t, 1896.0, res.TotalCost)

	out, err = run(t, "calculate", "-t", "landing_page", "--tier", "simple", "-r", "100", "--design", "custom", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Project: landing_page (simple)")
	assert.NotContains(t, out, "Complexity:")
	assert.Contains(t, out, "Payment plan (50/50):")

	_, err = run(t, "calculate", "--type", "landing_page", "--tier", "enterprise", "--rate", "100")
	assert.ErrorIs(t, err, pricing.ErrUnknownTier)
}

func TestRates(t *testing.T) {
	out, err := run(t, "rates")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"currencies"`)
}

func TestToken(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "cli-secret")
	out, err := run(t, "token", "--client", "acme")
	require.NoError(t, err)

	claims, err := auth.Verify("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "acme", claims.Client)

	t.Setenv("TOKEN_SECRET", "")
	_, err = run(t, "token", "--client", "acme")
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}
