package catalogs

import (
	"context"

	"salesreports/internal/core/id"
)

// Resolver resolves reference entities by identity.
// Implementations return apperror.NewNotFound for unresolved ids; the
// aggregator propagates such failures unchanged.
type Resolver interface {
	PartyByID(ctx context.Context, partyID id.ID) (*Party, error)
	ProductByID(ctx context.Context, productID id.ID) (*Product, error)
	ChannelByID(ctx context.Context, channelID id.ID) (*Channel, error)

	// ProductsByIDs resolves products preserving the requested order.
	ProductsByIDs(ctx context.Context, productIDs []id.ID) ([]*Product, error)

	// GatewaysByIDs resolves gateways preserving the requested order.
	GatewaysByIDs(ctx context.Context, gatewayIDs []id.ID) ([]*Gateway, error)
}
