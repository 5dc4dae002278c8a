package discord

import (
	"time"

	"pokepolice/backend/internal/platform"

	"github.com/bwmarrin/discordgo"
)

// render converts a Reply into a message. Mentions never ping anyone
// unless the reply asks for an @everyone ping. Text that would exceed the
// platform's size limits is cut, since an oversized message is rejected whole.
func render(reply *platform.Reply) *discordgo.MessageSend {
	data := &discordgo.MessageSend{
		Content: platform.Truncate(reply.Text, platform.MaxContentLength),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}
	if reply.MentionEveryone {
		data.AllowedMentions.Parse = []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone}
	}
	if reply.Summary != nil {
		data.Embeds = []*discordgo.MessageEmbed{embed(reply.Summary)}
	}
	return data
}

func embed(s *platform.Summary) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       platform.Truncate(s.Title, platform.MaxTitleLength),
		Description: platform.Truncate(s.Description, platform.MaxDescriptionLength),
		Color:       s.Color,
	}
	for _, f := range s.Fields {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:   platform.Truncate(f.Label, platform.MaxFieldLabelLength),
			Value:  platform.Truncate(f.Value, platform.MaxFieldValueLength),
			Inline: f.Inline,
		})
	}
	if s.AuthorName != "" {
		e.Author = &discordgo.MessageEmbedAuthor{
			Name:    platform.Truncate(s.AuthorName, platform.MaxTitleLength),
			IconURL: s.AuthorIcon,
		}
	}
	if s.ThumbnailURL != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: s.ThumbnailURL}
	}
	if s.ImageURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: s.ImageURL}
	}
	if s.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{
			Text:    platform.Truncate(s.Footer, platform.MaxFooterLength),
			IconURL: s.FooterIcon,
		}
	}
	if !s.Timestamp.IsZero() {
		e.Timestamp = s.Timestamp.UTC().Format(time.RFC3339)
	}
	return e
}
