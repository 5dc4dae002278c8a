package bot

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/models"
	"pokepolice/backend/internal/platform"
	"pokepolice/backend/internal/storage"
)

const skipToken = "-"

type reportArgs struct {
	TargetID    string
	DisplayName string
	TrainerCode string
	TrainerName string
	Reason      string
}

// parseReportArgs reads `<id> <name> [<code> <trainerName>] <reason...>`.
// The optional pair is only taken when the third token is a trainer code or
// "-" and at least one reason token follows it.
func parseReportArgs(args []string) (reportArgs, bool) {
	if len(args) < 3 {
		return reportArgs{}, false
	}
	r := reportArgs{
		TargetID:    args[0],
		DisplayName: args[1],
		TrainerCode: config.UnknownValue,
		TrainerName: config.UnknownValue,
	}

	rest := args[2:]
	if len(rest) >= 3 && (rest[0] == skipToken || config.TrainerCodePattern.MatchString(rest[0])) {
		if rest[0] != skipToken {
			r.TrainerCode = rest[0]
		}
		if rest[1] != skipToken {
			r.TrainerName = rest[1]
		}
		rest = rest[2:]
	}

	r.Reason = strings.Join(rest, " ")
	return r, r.Reason != ""
}

// checkReportLength returns the reply key for the first over-long input,
// or "" when everything fits.
func checkReportLength(r reportArgs) (string, int) {
	if utf8.RuneCountInString(r.Reason) > config.MaxReasonLength {
		return "reason_too_long", config.MaxReasonLength
	}
	for _, v := range []string{r.DisplayName, r.TrainerCode, r.TrainerName} {
		if utf8.RuneCountInString(v) > config.MaxNameLength {
			return "name_too_long", config.MaxNameLength
		}
	}
	return "", 0
}

func reportedServer(in Inbound) string {
	if in.GuildName != "" {
		return in.GuildName
	}
	return config.UnknownServer
}

func (d *Dispatcher) reportScammer(ctx context.Context, in Inbound, args []string) (*platform.Reply, error) {
	r, ok := parseReportArgs(args)
	if !ok {
		return d.fail(ErrMalformedArgs, "usage_add", d.prefix)
	}
	if key, limit := checkReportLength(r); key != "" {
		return d.fail(ErrMalformedArgs, key, limit)
	}
	if !config.IsUserID(r.TargetID) {
		return d.fail(ErrInvalidID, "invalid_id")
	}

	if _, err := d.Directory.FetchUser(ctx, r.TargetID); err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			return d.fail(ErrUnknownTarget, "unknown_target")
		}
		return d.external(err)
	}

	_, err := d.Storage.GetScammer(ctx, r.TargetID)
	if err == nil {
		return d.fail(ErrDuplicateReport, "already_reported")
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return d.external(err)
	}

	record := &models.ScammerRecord{
		UserID:         r.TargetID,
		DisplayName:    r.DisplayName,
		TrainerCode:    r.TrainerCode,
		TrainerName:    r.TrainerName,
		ReportedServer: reportedServer(in),
		Reporter:       in.AuthorName,
		Reason:         r.Reason,
	}
	if err := d.Storage.AddScammer(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyReported) {
			return d.fail(ErrDuplicateReport, "already_reported")
		}
		return d.external(err)
	}

	d.publish(ctx, models.ModerationEvent{
		Type:    models.EventScammerReported,
		UserID:  record.UserID,
		GuildID: in.GuildID,
		Actor:   in.AuthorID,
		At:      record.ReportedAt,
	})

	return platform.Text(d.text("scammer_marked",
		record.DisplayName,
		record.TrainerCode,
		record.TrainerName,
		record.ReportedServer,
		record.Reason,
		record.Reporter,
	)), nil
}

func (d *Dispatcher) removeScammer(ctx context.Context, in Inbound, args []string) (*platform.Reply, error) {
	if len(args) < 1 {
		return d.fail(ErrMalformedArgs, "usage_remove", d.prefix)
	}
	id := args[0]
	if !config.IsUserID(id) {
		return d.fail(ErrInvalidID, "invalid_id")
	}

	if err := d.Storage.RemoveScammer(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return d.fail(ErrNotFound, "not_marked")
		}
		return d.external(err)
	}

	d.publish(ctx, models.ModerationEvent{
		Type:    models.EventScammerRemoved,
		UserID:  id,
		GuildID: in.GuildID,
		Actor:   in.AuthorID,
	})
	return platform.Text(d.text("scammer_removed", id)), nil
}

// checkScammer treats a missing record as a clean result, not a failure.
func (d *Dispatcher) checkScammer(ctx context.Context, _ Inbound, args []string) (*platform.Reply, error) {
	if len(args) < 1 {
		return d.fail(ErrMalformedArgs, "usage_check", d.prefix)
	}
	id := args[0]
	if !config.IsUserID(id) {
		return d.fail(ErrInvalidID, "invalid_id")
	}

	record, err := d.Storage.GetScammer(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return platform.Text(d.text("check_clean", id)), nil
	}
	if err != nil {
		return d.external(err)
	}

	return platform.Text(d.text("check_found",
		record.DisplayName,
		record.TrainerCode,
		record.TrainerName,
		record.ReportedServer,
		record.Reason,
		record.Reporter,
		record.ReportedAt.Format(dateLayout),
	)), nil
}
