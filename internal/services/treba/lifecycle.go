package treba

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/monastery-admin/internal/models"
)

// TransitionRepository описывает методы, необходимые для смены статуса внутри транзакции.
type TransitionRepository interface {
	GetTrebaForUpdate(ctx context.Context, id int64) (models.Treba, error)
	UpdateTrebaStatus(ctx context.Context, id int64, status models.TrebaStatus) error
	AppendHistory(ctx context.Context, trebaID int64, status models.TrebaStatus, comment string) (models.StatusHistoryEntry, error)
}

// CheckTransition проверяет переход from → to.
func CheckTransition(from, to models.TrebaStatus) error {
	switch {
	case !to.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	case from == models.TrebaStatusCancelled:
		return ErrTrebaCancelled
	case from == to:
		return fmt.Errorf("%w: treba is already %s", ErrInvalidTransition, to)
	case !from.CanTransitionTo(to):
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Transition меняет статус требы и добавляет запись в журнал. Должна вызываться
// внутри транзакции: строка требы блокируется до ее завершения.
func Transition(ctx context.Context, repo TransitionRepository, id int64, to models.TrebaStatus, comment string) (models.Treba, models.StatusHistoryEntry, error) {
	const op = "treba.Transition"

	t, err := repo.GetTrebaForUpdate(ctx, id)
	if err != nil {
		return models.Treba{}, models.StatusHistoryEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	if err = CheckTransition(t.Status, to); err != nil {
		return t, models.StatusHistoryEntry{}, err
	}
	if err = repo.UpdateTrebaStatus(ctx, id, to); err != nil {
		return models.Treba{}, models.StatusHistoryEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	entry, err := repo.AppendHistory(ctx, id, to, comment)
	if err != nil {
		return models.Treba{}, models.StatusHistoryEntry{}, fmt.Errorf("%s: %w", op, err)
	}
	t.Status = to
	return t, entry, nil
}
