package transport

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"adminConsole/internal/modules/console/application/usecase"
	"adminConsole/internal/modules/console/domain"
	"adminConsole/internal/modules/console/infrastructure"
)

// registerViewCommands wires the view operations onto the client. Local UI
// state changes run inline so they apply in arrival order; anything that
// talks to the records API runs async.
func registerViewCommands(client *infrastructure.Client, view usecase.ConsoleView) {
	commands := client.Commands()

	commands.Register("get_state", func(_ context.Context, client *infrastructure.Client, _ infrastructure.Command) {
		client.SendDomainMessage(stateMessage(view))
	})
	commands.Register("toggle_menu", func(_ context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload domain.IdentityCommand
		if !decodeInto(client, view, cmd, &payload) {
			return
		}
		view.ToggleMenu(payload.ID)
	})
	commands.Register("close_menu", func(context.Context, *infrastructure.Client, infrastructure.Command) {
		view.CloseMenu()
	})
	commands.Register("open_create", func(_ context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		reportCommandError(client, view, cmd.Action, view.OpenCreate())
	})
	commands.Register("set_field", func(_ context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload domain.FieldCommand
		if !decodeInto(client, view, cmd, &payload) {
			return
		}
		reportCommandError(client, view, cmd.Action, view.SetFields(map[string]string{payload.Name: payload.Value}))
	})
	commands.Register("set_fields", func(_ context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload domain.FieldsCommand
		if !decodeInto(client, view, cmd, &payload) {
			return
		}
		reportCommandError(client, view, cmd.Action, view.SetFields(payload.Fields))
	})
	commands.Register("cancel_form", func(_ context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		reportCommandError(client, view, cmd.Action, view.CancelForm())
	})
	commands.Register("dismiss_delete", func(_ context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		reportCommandError(client, view, cmd.Action, view.DismissDelete())
	})

	commands.RegisterAsync("set_query", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload domain.SetQueryCommand
		if !decodeInto(client, view, cmd, &payload) {
			return
		}
		reportCommandError(client, view, cmd.Action, view.SetQuery(ctx, payload.Patch()))
	})
	commands.RegisterAsync("refetch", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload domain.RefetchCommand
		if !decodeInto(client, view, cmd, &payload) {
			return
		}
		reportCommandError(client, view, cmd.Action, view.Refetch(ctx, payload.PageIndex))
	})
	commands.RegisterAsync("select_action", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		var payload domain.RowActionCommand
		if !decodeInto(client, view, cmd, &payload) {
			return
		}
		action, ok := domain.ParseRowAction(payload.Action)
		if !ok || strings.TrimSpace(payload.ID) == "" {
			sendCommandError(client, view.Entity(), cmd.Action, "invalid payload")
			return
		}
		reportCommandError(client, view, cmd.Action, view.SelectAction(ctx, payload.ID, action))
	})
	commands.RegisterAsync("submit_form", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		reportCommandError(client, view, cmd.Action, view.SubmitForm(ctx))
	})
	commands.RegisterAsync("confirm_delete", func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		reportCommandError(client, view, cmd.Action, view.ConfirmDelete(ctx))
	})
}

func decodeInto(client *infrastructure.Client, view usecase.ConsoleView, cmd infrastructure.Command, target any) bool {
	if err := cmd.Decode(target); err != nil {
		slog.Warn("console ws payload decode failed", slog.String("entity", view.Entity()), slog.String("viewId", view.ID()), slog.String("action", cmd.Action), slog.Any("error", err))
		sendCommandError(client, view.Entity(), cmd.Action, "invalid payload")
		return false
	}
	return true
}

// reportCommandError tells the client about rejections the view did not
// already surface as an outcome or in its state.
func reportCommandError(client *infrastructure.Client, view usecase.ConsoleView, action string, err error) {
	if err == nil {
		return
	}
	var failure *domain.Failure
	if errors.As(err, &failure) {
		slog.Debug("console command failed", slog.String("entity", view.Entity()), slog.String("viewId", view.ID()), slog.String("action", action), slog.String("kind", string(failure.Kind)))
		return
	}
	slog.Debug("console command rejected", slog.String("entity", view.Entity()), slog.String("viewId", view.ID()), slog.String("action", action), slog.Any("error", err))
	sendCommandError(client, view.Entity(), action, err.Error())
}

func sendCommandError(client *infrastructure.Client, entity, action, reason string) {
	client.SendDomainMessage(domain.BuildErrorMessage(entity, action, reason, time.Now()))
}

// unknownCommand answers actions nobody registered.
func unknownCommand(entity string) infrastructure.CommandHandler {
	return func(_ context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		slog.Debug("console ws unknown action", slog.String("entity", entity), slog.String("action", cmd.Action))
		sendCommandError(client, entity, cmd.Action, "unsupported action")
	}
}
