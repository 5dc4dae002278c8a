package bot

import (
	"context"
	"errors"
	"strings"

	"pokepolice/backend/internal/models"
	"pokepolice/backend/internal/platform"
	"pokepolice/backend/internal/storage"
)

// registerTrainer handles `addtrainer <code> <name...>` for the caller's own account.
func (d *Dispatcher) registerTrainer(ctx context.Context, in Inbound, args []string) (*platform.Reply, error) {
	if len(args) < 2 {
		return d.fail(ErrMalformedArgs, "usage_addtrainer", d.prefix)
	}

	_, err := d.Storage.GetTrainer(ctx, in.AuthorID)
	if err == nil {
		return d.fail(ErrAlreadyRegistered, "trainer_already_registered")
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return d.external(err)
	}

	profile := &models.TrainerProfile{
		UserID:      in.AuthorID,
		DisplayName: in.AuthorName,
		TrainerCode: args[0],
		TrainerName: strings.Join(args[1:], " "),
	}
	if err := d.Storage.RegisterTrainer(ctx, profile); err != nil {
		if errors.Is(err, storage.ErrAlreadyRegistered) {
			return d.fail(ErrAlreadyRegistered, "trainer_already_registered")
		}
		return d.external(err)
	}
	return platform.Text(d.text("trainer_saved")), nil
}

func (d *Dispatcher) getTrainer(ctx context.Context, in Inbound, _ []string) (*platform.Reply, error) {
	profile, err := d.Storage.GetTrainer(ctx, in.AuthorID)
	if errors.Is(err, storage.ErrNotFound) {
		return d.fail(ErrNotFound, "trainer_not_registered")
	}
	if err != nil {
		return d.external(err)
	}
	return platform.Text(d.text("trainer_info", profile.DisplayName, profile.TrainerCode, profile.TrainerName)), nil
}
