package bot

import (
	"context"

	"pokepolice/backend/internal/platform"
)

func (d *Dispatcher) greet(context.Context, Inbound, []string) (*platform.Reply, error) {
	return platform.Text(d.text("greet")), nil
}

func (d *Dispatcher) help(_ context.Context, in Inbound, _ []string) (*platform.Reply, error) {
	p := d.prefix
	summary := &platform.Summary{
		Title:       d.text("help_title"),
		Description: d.text("help_description"),
		Color:       platform.ColorBlue,
		Footer:      d.text("requested_by", in.AuthorName),
		FooterIcon:  in.AuthorAvatarURL,
	}
	summary.
		AddField("🔹 `"+p+"scamhelp`", d.text("help_scamhelp"), false).
		AddField("🚨 `"+p+"add <discordID> <discordName> [trainerCode trainerName] <reason>`", d.text("help_add"), false).
		AddField("✅ `"+p+"remove <discordID>`", d.text("help_remove"), false).
		AddField("🔍 `"+p+"check <discordID>`", d.text("help_check"), false).
		AddField("🛡️ `"+p+"finduser <discordID>`", d.text("help_finduser"), false).
		AddField("🎮 `"+p+"addtrainer <trainerCode> <trainerName>`", d.text("help_addtrainer"), false).
		AddField("📇 `"+p+"gettrainer`", d.text("help_gettrainer"), false)

	return &platform.Reply{Summary: summary}, nil
}
