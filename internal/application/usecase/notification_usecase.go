package usecase

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// NotificationUseCase bandeja de notificaciones del usuario autenticado.
type NotificationUseCase struct {
	repo  repository.NotificationRepository
	authz ports.Authorizer
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository, authz ports.Authorizer) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, authz: authz}
}

// ListMine lista las notificaciones dirigidas al actor.
func (uc *NotificationUseCase) ListMine(ctx context.Context, actor entity.Actor, in dto.NotificationListRequest) (*dto.NotificationListResponse, error) {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceNotifications, entity.ActionRead, actor.ID); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.repo.ListByUser(ctx, actor.ID, in.UnreadOnly, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return &dto.NotificationListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// MarkRead marca como leída una notificación del actor. Las ajenas se reportan como inexistentes.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, actor entity.Actor, id string) error {
	if err := uc.authz.Authorize(ctx, actor, entity.ResourceNotifications, entity.ActionUpdate, actor.ID); err != nil {
		return err
	}
	return uc.repo.MarkRead(ctx, id, actor.ID)
}
