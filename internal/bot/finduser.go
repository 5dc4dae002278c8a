package bot

import (
	"context"
	"errors"
	"strings"

	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/platform"

	"go.uber.org/zap"
)

// findUser renders a live profile card. It never touches the record store.
func (d *Dispatcher) findUser(ctx context.Context, in Inbound, args []string) (*platform.Reply, error) {
	if len(args) < 1 {
		return d.fail(ErrMalformedArgs, "usage_finduser", d.prefix)
	}
	id := args[0]
	if !config.IsUserID(id) {
		return d.fail(ErrInvalidID, "invalid_id")
	}

	user, err := d.Directory.FetchUser(ctx, id)
	if errors.Is(err, platform.ErrNotFound) {
		return d.fail(ErrUnknownTarget, "finduser_failed")
	}
	if err != nil {
		return d.external(err)
	}

	member := d.lookupMember(ctx, in.GuildID, id)
	banner := d.lookupBanner(ctx, id)

	return &platform.Reply{Summary: d.userSummary(in, user, member, banner)}, nil
}

// lookupMember returns nil when the user is not in the guild or the lookup fails.
func (d *Dispatcher) lookupMember(ctx context.Context, guildID, userID string) *platform.Member {
	if guildID == "" {
		return nil
	}
	member, err := d.Directory.FetchMember(ctx, guildID, userID)
	if err != nil {
		if !errors.Is(err, platform.ErrNotFound) {
			d.logger.Warn("member lookup failed",
				zap.String("guild", guildID),
				zap.String("user", userID),
				zap.Error(err))
		}
		return nil
	}
	return member
}

func (d *Dispatcher) lookupBanner(ctx context.Context, userID string) string {
	if d.Banners == nil {
		return ""
	}
	url, err := d.Banners.BannerURL(ctx, userID)
	if err != nil {
		d.logger.Warn("banner lookup failed", zap.String("user", userID), zap.Error(err))
		return ""
	}
	return url
}

func (d *Dispatcher) userSummary(in Inbound, user *platform.User, member *platform.Member, bannerURL string) *platform.Summary {
	displayName := user.GlobalName
	if displayName == "" {
		displayName = d.text("none")
	}

	var desc strings.Builder
	desc.WriteString(d.text("finduser_general",
		user.ID,
		user.Username,
		displayName,
		userMention(user.ID),
		timestamp(user.CreatedAt, "D"),
		timestamp(user.CreatedAt, "R"),
	))
	if member != nil {
		desc.WriteString(d.text("finduser_joined",
			timestamp(member.JoinedAt, "D"),
			timestamp(member.JoinedAt, "R"),
		))
	} else {
		desc.WriteString(d.text("finduser_not_member"))
	}
	roles, count := d.roleList(in.GuildID, member)
	desc.WriteString(d.text("finduser_roles", count, roles))

	return &platform.Summary{
		Color:        platform.ColorDark,
		AuthorName:   d.text("finduser_author", user.Username),
		AuthorIcon:   user.AvatarURL,
		ThumbnailURL: user.AvatarURL,
		Description:  desc.String(),
		ImageURL:     bannerURL,
		Footer:       d.text("requested_by", in.AuthorName),
		FooterIcon:   in.AuthorAvatarURL,
	}
}

// roleList mentions the member's roles, leaving out the implicit everyone
// role whose id equals the guild id.
func (d *Dispatcher) roleList(guildID string, member *platform.Member) (string, int) {
	if member == nil {
		return d.text("finduser_not_in_server"), 0
	}
	mentions := make([]string, 0, len(member.RoleIDs))
	for _, roleID := range member.RoleIDs {
		if roleID == guildID {
			continue
		}
		mentions = append(mentions, roleMention(roleID))
	}
	if len(mentions) == 0 {
		return d.text("finduser_no_roles"), 0
	}
	return strings.Join(mentions, ", "), len(mentions)
}
