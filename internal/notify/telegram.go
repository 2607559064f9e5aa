package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMaxRunes 单条消息的长度上限
const telegramMaxRunes = 4096

type chattableSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender 正文按 HTML 模式发送，超长时按行拆成多条
type TelegramSender struct {
	api    chattableSender
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	if token == "" {
		return nil, errors.New("telegram: token is empty")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: init bot: %w", err)
	}
	log.Printf("telegram bot authorized as %s", api.Self.UserName)
	return &TelegramSender{api: api, chatID: chatID}, nil
}

func (s *TelegramSender) Name() string {
	return "telegram"
}

func (s *TelegramSender) Send(ctx context.Context, msg Message) error {
	text := "<b>" + html.EscapeString(msg.Subject) + "</b>\n\n" + msg.Text
	for i, part := range splitMessage(text, telegramMaxRunes) {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := tgbotapi.NewMessage(s.chatID, part)
		out.ParseMode = tgbotapi.ModeHTML
		out.DisableWebPagePreview = true
		if _, err := s.api.Send(out); err != nil {
			return fmt.Errorf("telegram: send part %d: %w", i+1, err)
		}
	}
	log.Printf("telegram message sent to chat %d", s.chatID)
	return nil
}

// splitMessage 尽量在换行处切分，单行超长时按 rune 硬切，且不切断 HTML 实体或标签
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if part := strings.TrimRight(cur.String(), "\n"); part != "" {
			parts = append(parts, part)
		}
		cur.Reset()
		curLen = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			r := []rune(line)
			cut := safeCut(r, limit)
			parts = append(parts, string(r[:cut]))
			line = string(r[cut:])
			n -= cut
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return parts
}

// safeCut 返回不超过 limit 的切分位置：若 r[:limit] 末尾有未闭合的 '&' 或 '<'，退到它之前
func safeCut(r []rune, limit int) int {
	for i := limit - 1; i > 0; i-- {
		switch r[i] {
		case ';', '>':
			return limit
		case '&', '<':
			return i
		}
	}
	return limit
}
