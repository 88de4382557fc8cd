package usecases_port

import (
	"context"

	"github.com/google/uuid"
)

type IssueConfirmationLinkUseCase interface {
	Execute(ctx context.Context, tenantID, propertyID, ownerID uuid.UUID, deliveryHint string) (string, error)
}
