package notifier

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/campus-events/event-reg/internal/models"
)

type Notifier interface {
	NotifyRegistration(registration models.Registration, event models.Event) error
}

// MessageSender is the part of a discordgo session used for notifications.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   MessageSender
	channelID string
	loc       *time.Location
}

func NewDiscordNotifier(session MessageSender, channelID string, loc *time.Location) *DiscordNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
		loc:       loc,
	}
}

// NewDiscordSession opens a bot session for token. It returns nil when no
// token is configured.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return session, nil
}

func (n *DiscordNotifier) NotifyRegistration(registration models.Registration, event models.Event) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, n.formatMessage(registration, event))
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}

func (n *DiscordNotifier) formatMessage(registration models.Registration, event models.Event) string {
	eventName, eventDate := "-", "-"
	if event.ID != 0 {
		eventName = event.EventName
		eventDate = event.Date().In(n.loc).Format("02 Jan 2006")
	}

	return fmt.Sprintf("🎉 **New Registration**\n**Name:** %s\n**Email:** %s\n**College:** %s (%s)\n**Event:** %s on %s",
		registration.FullName,
		registration.Email,
		registration.CollegeName,
		registration.Department,
		eventName,
		eventDate,
	)
}
