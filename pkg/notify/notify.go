// Package notify reports events of the maker to its operator.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

type discord struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscord posts notifications to a discord channel with a bot token.
func NewDiscord(token, channelID string) (Notifier, error) {
	if token == "" || channelID == "" {
		return nil, fmt.Errorf("discord token and channel are required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &discord{session: session, channelID: channelID}, nil
}

func (d *discord) Notify(_ context.Context, msg string) error {
	_, err := d.session.ChannelMessageSend(d.channelID, msg)
	return err
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier writes notifications to the logger.
func NewLogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logNotifier{logger: logger.With(zap.String("service", "notify"))}
}

func (n *logNotifier) Notify(_ context.Context, msg string) error {
	n.logger.Info(msg)
	return nil
}

// Multi sends every notification to all of its notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg string) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
