// Package catalog_repo provides PostgreSQL lookup of reference entities.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"salesreports/internal/core/apperror"
	"salesreports/internal/core/id"
	"salesreports/internal/domain/catalogs"
	"salesreports/internal/infrastructure/storage/postgres"
)

// Resolver implements catalogs.Resolver against the host suite's catalog
// tables.
type Resolver struct {
	txm *postgres.TxManager
}

// NewResolver creates a new catalog resolver.
func NewResolver(txm *postgres.TxManager) *Resolver {
	return &Resolver{txm: txm}
}

// PartyByID resolves a customer reference.
func (r *Resolver) PartyByID(ctx context.Context, partyID id.ID) (*catalogs.Party, error) {
	var p catalogs.Party
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p,
		`SELECT id, code, name FROM parties WHERE id = $1`, partyID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("party", partyID)
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	return &p, nil
}

// ProductByID resolves a product reference.
func (r *Resolver) ProductByID(ctx context.Context, productID id.ID) (*catalogs.Product, error) {
	var p catalogs.Product
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p,
		`SELECT id, code, name FROM products WHERE id = $1`, productID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// ChannelByID resolves a sales channel reference.
func (r *Resolver) ChannelByID(ctx context.Context, channelID id.ID) (*catalogs.Channel, error) {
	var c catalogs.Channel
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c,
		`SELECT id, code, name FROM sale_channels WHERE id = $1`, channelID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("channel", channelID)
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &c, nil
}

// ProductsByIDs resolves products preserving the requested order.
func (r *Resolver) ProductsByIDs(ctx context.Context, productIDs []id.ID) ([]*catalogs.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []*catalogs.Product
	err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows,
		`SELECT id, code, name FROM products WHERE id = ANY($1)`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	byID := make(map[id.ID]*catalogs.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	result := make([]*catalogs.Product, len(productIDs))
	for i, pid := range productIDs {
		p, ok := byID[pid]
		if !ok {
			return nil, apperror.NewNotFound("product", pid)
		}
		result[i] = p
	}
	return result, nil
}

// GatewaysByIDs resolves payment gateways preserving the requested order.
func (r *Resolver) GatewaysByIDs(ctx context.Context, gatewayIDs []id.ID) ([]*catalogs.Gateway, error) {
	if len(gatewayIDs) == 0 {
		return nil, nil
	}
	var rows []*catalogs.Gateway
	err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows,
		`SELECT id, code, name FROM payment_gateways WHERE id = ANY($1)`, gatewayIDs)
	if err != nil {
		return nil, fmt.Errorf("get gateways: %w", err)
	}

	byID := make(map[id.ID]*catalogs.Gateway, len(rows))
	for _, g := range rows {
		byID[g.ID] = g
	}
	result := make([]*catalogs.Gateway, len(gatewayIDs))
	for i, gid := range gatewayIDs {
		g, ok := byID[gid]
		if !ok {
			return nil, apperror.NewNotFound("gateway", gid)
		}
		result[i] = g
	}
	return result, nil
}

// Ensure interface compliance
var _ catalogs.Resolver = (*Resolver)(nil)
