package notify

import (
	"fmt"
	"log"

	"github.com/LJTian/LunchHub/internal/config"
)

// FromConfig 按配置启用渠道：配置了收件人则发邮件，配置了 bot token 则发 Telegram
func FromConfig(cfg *config.Config) (Multi, error) {
	var senders Multi

	if len(cfg.MailTo) > 0 {
		mail, err := NewMailSender(MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			To:       cfg.MailTo,
		})
		if err != nil {
			return nil, err
		}
		senders = append(senders, mail)
	}

	if cfg.TelegramToken != "" {
		if cfg.TelegramChatID == 0 {
			return nil, fmt.Errorf("telegram: TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
		}
		tg, err := NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		senders = append(senders, tg)
	}

	if len(senders) == 0 {
		log.Println("warn: no delivery channel configured, set LUNCH_CHANNEL_EMAIL_ADDRESS or TELEGRAM_TOKEN")
	}
	return senders, nil
}
