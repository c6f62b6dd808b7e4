package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "sjsage522/topicworker/pkg/errors"
)

// DefaultUserAgent is sent with every portal request
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

// Filter holds the server-side topic filter posted to the portal
type Filter struct {
	Department      string
	Query           string
	Type            string
	StudyFieldCode  string
	StudyFieldQuery string
	Status          string `validate:"required"`
}

// Config represents the application configuration
type Config struct {
	// eLogin credentials
	EloginLogin    string `validate:"required"`
	EloginPassword string `validate:"required"`

	// Portal endpoints
	LoginURL  string `validate:"required,url"`
	PortalURL string `validate:"required,url"`
	UserAgent string `validate:"required"`

	Filter Filter

	// Marker texts found in portal responses
	SessionExpiredMarker  string `validate:"required"`
	InvalidPasswordMarker string `validate:"required"`

	RequestTimeout time.Duration `validate:"gt=0"`

	// Mail configuration
	SMTPHost      string `validate:"required,hostname_rfc1123|ip"`
	SMTPPort      int    `validate:"min=1,max=65535"`
	SenderEmail   string `validate:"omitempty,email"`
	ReceiverEmail string `validate:"omitempty,email"`
	AppPassword   string

	// Topic store
	TopicsFile        string `validate:"required"`
	SendInitialEmails bool

	// Schedule configuration
	ScheduleTimes    []string      `validate:"min=1,unique,dive,clock"`
	ScheduleTimezone string        `validate:"required,eq=Local|timezone"`
	MaxJitter        time.Duration `validate:"gte=0"`

	// Redis configuration, empty address disables publishing
	RedisAddr            string
	RedisDB              int `validate:"gte=0"`
	RedisStream          string
	RedisStreamCount     int `validate:"gte=1"`
	RedisStreamMaxLength int `validate:"gte=1"`

	// Memcache configuration, empty address disables the rate limit guard
	MemcacheAddr   string
	RateLimitBlock time.Duration `validate:"gt=0"`

	// Optional file receiving aborted cycle errors
	ErrorLogFile string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	sendInitialEmails, _ := strconv.ParseBool(getEnv("SEND_INITIAL_EMAILS", "false"))
	jitterSeconds, _ := strconv.Atoi(getEnv("JITTER_MAX_SECONDS", "900"))
	timeoutSeconds, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	blockSeconds, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "600"))

	return &Config{
		EloginLogin:    os.Getenv("ELOGIN_LOGIN"),
		EloginPassword: os.Getenv("ELOGIN_PASSWORD"),
		LoginURL:       getEnv("LOGIN_URL", "https://elogin.put.poznan.pl/app/login"),
		PortalURL:      strings.TrimRight(getEnv("PORTAL_URL", "https://usosapd.put.poznan.pl"), "/"),
		UserAgent:      getEnv("USER_AGENT", DefaultUserAgent),
		Filter: Filter{
			Department:      os.Getenv("FILTER_DEPARTMENT"),
			Query:           os.Getenv("FILTER_QUERY"),
			Type:            getEnv("FILTER_TYPE", "ing"),
			StudyFieldCode:  getEnv("FILTER_STUDY_FIELD_CODE", "Inf"),
			StudyFieldQuery: getEnv("FILTER_STUDY_FIELD_QUERY", "Informatyka"),
			Status:          getEnv("FILTER_STATUS", "AVAILABLE"),
		},
		SessionExpiredMarker:  getEnv("SESSION_EXPIRED_MARKER", "Wymagane zalogowanie"),
		InvalidPasswordMarker: getEnv("INVALID_PASSWORD_MARKER", "Podano nieprawidłowe hasło"),
		RequestTimeout:        time.Duration(timeoutSeconds) * time.Second,
		SMTPHost:              getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:              smtpPort,
		SenderEmail:           os.Getenv("SENDER_EMAIL"),
		ReceiverEmail:         os.Getenv("RECEIVER_EMAIL"),
		AppPassword:           os.Getenv("APP_PASSWORD"),
		TopicsFile:            getEnv("TOPICS_FILE", "topics.json"),
		SendInitialEmails:     sendInitialEmails,
		ScheduleTimes:         splitList(getEnv("SCHEDULE_TIMES", "09:00,12:00,15:00,18:00,21:00,00:00")),
		ScheduleTimezone:      getEnv("SCHEDULE_TIMEZONE", "Local"),
		MaxJitter:             time.Duration(jitterSeconds) * time.Second,
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisDB:               redisDB,
		RedisStream:           getEnv("REDIS_STREAM", "topics"),
		RedisStreamCount:      redisStreamCount,
		RedisStreamMaxLength:  redisStreamMaxLength,
		MemcacheAddr:          os.Getenv("MEMCACHE_ADDR"),
		RateLimitBlock:        time.Duration(blockSeconds) * time.Second,
		ErrorLogFile:          os.Getenv("ERROR_LOG_FILE"),
		Environment:           getEnv("TOPICWORKER_ENVIRONMENT", "development"),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// HH:MM on a 24h clock
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration for missing or malformed values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return apperrors.NewConfiguration(strings.Join(msgs, "; "), nil)
		}
		return apperrors.NewConfiguration("invalid configuration", err)
	}
	return nil
}

// MailConfigured reports whether enough mail settings are present to send email
func (c *Config) MailConfigured() bool {
	return c.SenderEmail != "" && c.ReceiverEmail != "" && c.AppPassword != ""
}

// Location resolves ScheduleTimezone
func (c *Config) Location() (*time.Location, error) {
	if c.ScheduleTimezone == "" || c.ScheduleTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.ScheduleTimezone)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
