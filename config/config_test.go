package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sjsage522/topicworker/pkg/errors"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://elogin.put.poznan.pl/app/login", config.LoginURL)
	assert.Equal(t, "https://usosapd.put.poznan.pl", config.PortalURL)
	assert.Equal(t, "ing", config.Filter.Type)
	assert.Equal(t, "Inf", config.Filter.StudyFieldCode)
	assert.Equal(t, "Informatyka", config.Filter.StudyFieldQuery)
	assert.Equal(t, "AVAILABLE", config.Filter.Status)
	assert.Equal(t, "smtp.gmail.com", config.SMTPHost)
	assert.Equal(t, 587, config.SMTPPort)
	assert.Equal(t, "topics.json", config.TopicsFile)
	assert.False(t, config.SendInitialEmails)
	assert.Equal(t, []string{"09:00", "12:00", "15:00", "18:00", "21:00", "00:00"}, config.ScheduleTimes)
	assert.Equal(t, 15*time.Minute, config.MaxJitter)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.Empty(t, config.RedisAddr)
	assert.Empty(t, config.MemcacheAddr)

	// Test with environment variables
	t.Setenv("ELOGIN_LOGIN", "student")
	t.Setenv("ELOGIN_PASSWORD", "secret")
	t.Setenv("PORTAL_URL", "https://portal.example.com/")
	t.Setenv("FILTER_STUDY_FIELD_CODE", "AiR")
	t.Setenv("SEND_INITIAL_EMAILS", "true")
	t.Setenv("SCHEDULE_TIMES", "08:30, 20:15,")
	t.Setenv("JITTER_MAX_SECONDS", "60")
	t.Setenv("REDIS_ADDR", "redis.example.com:6379")

	config = LoadConfig()
	assert.Equal(t, "student", config.EloginLogin)
	assert.Equal(t, "secret", config.EloginPassword)
	assert.Equal(t, "https://portal.example.com", config.PortalURL)
	assert.Equal(t, "AiR", config.Filter.StudyFieldCode)
	assert.True(t, config.SendInitialEmails)
	assert.Equal(t, []string{"08:30", "20:15"}, config.ScheduleTimes)
	assert.Equal(t, time.Minute, config.MaxJitter)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
}

func validConfig() *Config {
	cfg := LoadConfig()
	cfg.EloginLogin = "student"
	cfg.EloginPassword = "secret"
	return cfg
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.EloginPassword = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
	assert.Contains(t, err.Error(), "EloginPassword")

	cfg = validConfig()
	cfg.ScheduleTimes = []string{"09:00", "25:00"}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clock")

	cfg = validConfig()
	cfg.ScheduleTimes = nil
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.ScheduleTimes = []string{"09:00", "09:00"}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique")

	cfg = validConfig()
	cfg.PortalURL = "not a url"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.SenderEmail = "nobody"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.SMTPPort = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.ScheduleTimezone = "Europe/Warsaw"
	assert.NoError(t, cfg.Validate())

	cfg.ScheduleTimezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}

func TestMailConfigured(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.MailConfigured())

	cfg.SenderEmail = "bot@example.com"
	cfg.ReceiverEmail = "me@example.com"
	cfg.AppPassword = "app-password"
	assert.True(t, cfg.MailConfigured())
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.ScheduleTimezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
