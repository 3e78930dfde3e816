// Package middleware holds the cross-cutting update handling: logging,
// panic recovery and rate limiting.
package middleware

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// LogMessage logs an incoming message: user_id, chat_id, username and
// the first 50 characters of text.
func LogMessage(message *tgbotapi.Message) {
	if message == nil || message.From == nil {
		return
	}

	text := message.Text
	if len(text) > 50 {
		text = text[:50] + "..."
	}

	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"chat_id":  message.Chat.ID,
		"username": message.From.UserName,
		"text":     text,
		"time":     time.Now().Format("15:04:05"),
	}).Debug("Incoming message")
}
