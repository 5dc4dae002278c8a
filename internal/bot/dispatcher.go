// Package bot turns one line of chat into at most one command: it parses the
// command token, checks authorization and arguments, talks to the record
// store and the platform directory, and returns the Reply to send.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pokepolice/backend/internal/localization"
	"pokepolice/backend/internal/models"
	"pokepolice/backend/internal/platform"
	"pokepolice/backend/internal/storage"

	"go.uber.org/zap"
)

// Inbound is a chat message as the dispatcher needs it.
type Inbound struct {
	Content         string
	AuthorID        string
	AuthorName      string
	AuthorAvatarURL string
	AuthorIsBot     bool
	GuildID         string
	GuildName       string
	// IsAdmin is true when the author holds the administrator permission in the guild.
	IsAdmin bool
}

type handlerFunc func(ctx context.Context, in Inbound, args []string) (*platform.Reply, error)

type command struct {
	name      string
	adminOnly bool
	run       handlerFunc
}

type Options struct {
	Prefix   string
	Language string
}

// Dispatcher routes commands. It keeps no per-request state and is safe for
// concurrent use.
type Dispatcher struct {
	Storage   storage.Storage
	Directory platform.Directory
	Banners   platform.BannerResolver
	Localizer *localization.Localizer
	// Events is optional.
	Events storage.Publisher

	prefix   string
	language string
	commands map[string]command
	logger   *zap.Logger
}

func NewDispatcher(
	s storage.Storage,
	dir platform.Directory,
	banners platform.BannerResolver,
	loc *localization.Localizer,
	opts Options,
	logger *zap.Logger,
) *Dispatcher {
	if opts.Prefix == "" {
		opts.Prefix = "!"
	}
	if opts.Language == "" {
		opts.Language = localization.DefaultLanguage
	}
	d := &Dispatcher{
		Storage:   s,
		Directory: dir,
		Banners:   banners,
		Localizer: loc,
		prefix:    opts.Prefix,
		language:  opts.Language,
		logger:    logger.With(zap.String("component", "dispatcher")),
	}
	d.commands = d.commandTable()
	return d
}

func (d *Dispatcher) commandTable() map[string]command {
	table := map[string]command{}
	register := func(c command, aliases ...string) {
		table[c.name] = c
		for _, alias := range aliases {
			table[alias] = c
		}
	}

	register(command{name: "hi", run: d.greet})
	register(command{name: "scamhelp", adminOnly: true, run: d.help})
	register(command{name: "addtrainer", run: d.registerTrainer})
	register(command{name: "gettrainer", run: d.getTrainer})
	register(command{name: "add", adminOnly: true, run: d.reportScammer})
	register(command{name: "remove", adminOnly: true, run: d.removeScammer})
	register(command{name: "check", run: d.checkScammer})
	register(command{name: "finduser", run: d.findUser}, "find")
	return table
}

// Prefix returns the command prefix, e.g. "!".
func (d *Dispatcher) Prefix() string {
	return d.prefix
}

// Accepts is a cheap pre-filter: false means Dispatch would ignore content.
func (d *Dispatcher) Accepts(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), d.prefix)
}

// Recognizes reports whether content names a known command. Adapters use it
// to skip permission and guild lookups for ordinary prefixed chat.
func (d *Dispatcher) Recognizes(content string) bool {
	_, _, ok := d.resolve(content)
	return ok
}

func (d *Dispatcher) resolve(content string) (command, []string, bool) {
	if !d.Accepts(content) {
		return command{}, nil, false
	}
	tokens := strings.Fields(content)
	name := strings.TrimPrefix(strings.ToLower(tokens[0]), strings.ToLower(d.prefix))
	cmd, ok := d.commands[name]
	if !ok {
		return command{}, nil, false
	}
	return cmd, tokens[1:], true
}

// Dispatch runs the command in in.Content. A nil reply means the message is
// not for the bot and nothing must be sent. On failure the returned reply is
// the message to show and err tells what went wrong.
func (d *Dispatcher) Dispatch(ctx context.Context, in Inbound) (*platform.Reply, error) {
	if in.AuthorIsBot {
		return nil, nil
	}
	cmd, args, ok := d.resolve(in.Content)
	if !ok {
		return nil, nil
	}

	var (
		reply *platform.Reply
		err   error
	)
	if cmd.adminOnly && !in.IsAdmin {
		reply, err = d.fail(ErrUnauthorized, "admin_only")
	} else {
		reply, err = cmd.run(ctx, in, args)
	}

	if err != nil {
		fields := []zap.Field{
			zap.String("command", cmd.name),
			zap.String("guild", in.GuildID),
			zap.String("author", in.AuthorID),
			zap.Error(err),
		}
		if errors.Is(err, ErrExternal) {
			d.logger.Error("command failed", fields...)
		} else {
			d.logger.Debug("command rejected", fields...)
		}
	}
	return reply, err
}

func (d *Dispatcher) text(key string, args ...any) string {
	if len(args) == 0 {
		return d.Localizer.GetString(d.language, key)
	}
	return d.Localizer.Format(d.language, key, args...)
}

func (d *Dispatcher) fail(err error, key string, args ...any) (*platform.Reply, error) {
	return platform.Text(d.text(key, args...)), err
}

// external hides cause from chat; the caller's log line keeps it.
func (d *Dispatcher) external(cause error) (*platform.Reply, error) {
	return platform.Text(d.text("external_failure")), fmt.Errorf("%w: %w", ErrExternal, cause)
}

func (d *Dispatcher) publish(ctx context.Context, event models.ModerationEvent) {
	if d.Events == nil {
		return
	}
	if err := d.Events.Publish(ctx, event); err != nil {
		d.logger.Warn("publish moderation event",
			zap.String("type", event.Type),
			zap.String("user", event.UserID),
			zap.Error(err))
	}
}
