package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	t.Setenv("TEST_DURATION_STRING", "90s")
	t.Setenv("TEST_DURATION_SECONDS", "20")
	t.Setenv("TEST_DURATION_GARBAGE", "soon")

	require.Equal(t, 90*time.Second, getEnvAsTimeDuration("TEST_DURATION_STRING", time.Minute))
	require.Equal(t, 20*time.Second, getEnvAsTimeDuration("TEST_DURATION_SECONDS", time.Minute))
	require.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_GARBAGE", time.Minute))
	require.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_MISSING", time.Minute))
}

func TestGetEnvAsSliceTrimsAndDropsEmpty(t *testing.T) {
	t.Setenv("TEST_ORIGINS", " https://eterna.kr , ,http://localhost:3000")

	require.Equal(t,
		[]string{"https://eterna.kr", "http://localhost:3000"},
		getEnvAsSlice("TEST_ORIGINS", nil),
	)
}

func TestBlankValueFallsBackToDefault(t *testing.T) {
	t.Setenv("TEST_BLANK", "   ")
	require.Equal(t, "fallback", getEnvAsString("TEST_BLANK", "fallback"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("NOTICE_TIMEZONE", "")

	cfg := load()
	require.Equal(t, "development", cfg.Server.Environment)
	require.Equal(t, "product-images", cfg.Storage.Bucket)
	require.Equal(t, "Asia/Seoul", cfg.Notice.Timezone)
	require.Equal(t, "pgdriver", cfg.Database.Driver)
}
