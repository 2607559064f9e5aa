package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	BasicAuthUser string
	BasicAuthPass string

	RedisAddr string

	// 发送时间：CRON_SPEC 优先，其次 LUNCH_TIME，最后由星期/小时/分钟拼出
	CronSpec     string
	LunchTime    string
	LunchDays    string
	LunchHour    string
	LunchMinutes string
	Location     *time.Location

	Sources []string

	MailTo       []string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	TelegramToken  string
	TelegramChatID int64

	LogDir string
}

// Load 先读取 .env（不存在时忽略），再从环境变量加载配置
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warn: load .env: %v", err)
	}

	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "9000"),
		BasicAuthUser: os.Getenv("APP_BASIC_USER"),
		BasicAuthPass: os.Getenv("APP_BASIC_PASS"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		CronSpec:      os.Getenv("CRON_SPEC"),
		LunchTime:     os.Getenv("LUNCH_TIME"),
		LunchDays:     getEnv("LUNCH_DAY_OF_WEEK", "mon-fri"),
		LunchHour:     getEnv("LUNCH_HOUR", "11"),
		LunchMinutes:  getEnv("LUNCH_MINUTES", "0"),
		Location:      loadLocation(getEnv("TZ", "Europe/Prague")),
		Sources:       splitList(getEnv("LUNCH_SOURCES", "leharo,natrati,ukohoutu")),
		MailTo:        splitList(os.Getenv("LUNCH_CHANNEL_EMAIL_ADDRESS")),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.mailtrap.io"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:      getEnv("SMTP_FROM", "Lunch Bot <lunchbot@example.com>"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		LogDir:        getEnv("LOG_DIR", "logs"),
	}
	if id := os.Getenv("TELEGRAM_CHAT_ID"); id != "" {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			log.Printf("warn: invalid TELEGRAM_CHAT_ID %q: %v", id, err)
		} else {
			cfg.TelegramChatID = n
		}
	}

	// 餐厅页面上的“今天”以本地时区为准
	time.Local = cfg.Location

	log.Printf("config loaded: port=%s tz=%s sources=%s", cfg.AppPort, cfg.Location, strings.Join(cfg.Sources, ","))
	return cfg
}

var lunchTimeRe = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)

// Schedule 返回 cron 表达式（分 时 日 月 周）
func (c *Config) Schedule() (string, error) {
	if c.CronSpec != "" {
		return c.CronSpec, nil
	}
	days := c.LunchDays
	if days == "" {
		days = "mon-fri"
	}
	if c.LunchTime != "" {
		m := lunchTimeRe.FindStringSubmatch(strings.TrimSpace(c.LunchTime))
		if m == nil {
			return "", fmt.Errorf("invalid LUNCH_TIME %q, want HH:MM", c.LunchTime)
		}
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%d %d * * %s", minute, hour, days), nil
	}
	if c.LunchHour == "" || c.LunchMinutes == "" {
		return "", fmt.Errorf("LUNCH_HOUR and LUNCH_MINUTES are required when neither CRON_SPEC nor LUNCH_TIME is set")
	}
	return fmt.Sprintf("%s %s * * %s", c.LunchMinutes, c.LunchHour, days), nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warn: invalid %s %q, use %d", key, v, def)
		return def
	}
	return n
}

// splitList 逗号分隔，去掉空项
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("warn: unknown TZ %q, use local: %v", name, err)
		return time.Local
	}
	return loc
}
