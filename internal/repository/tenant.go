package repository

import (
	"context"

	"github.com/Optus-development-team/optsms-backend/internal/repository/postgres"
)

const (
	selectAdminsQuery = `
						SELECT admin_id FROM tenant_admins
						WHERE tenant_id = $1
`
	upsertAttentionQuery = `
						INSERT INTO tenants (tenant_id, needs_attention)
						VALUES ($1, $2)
						ON CONFLICT (tenant_id) DO UPDATE
						SET needs_attention = EXCLUDED.needs_attention,
						    updated_at      = now()
`
)

// TenantRepository backs the admin directory lookups.
type TenantRepository struct {
	db *postgres.DB
}

// NewTenantRepository creates new TenantRepository instance
func NewTenantRepository(db *postgres.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// TenantAdmins returns the messaging ids of the tenant's administrators.
func (tr *TenantRepository) TenantAdmins(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := tr.db.Query(ctx, selectAdminsQuery, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []string{}

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		admins = append(admins, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return admins, nil
}

// SetTenantAttention marks or clears the tenant's "needs attention" flag in
// the admin-facing integration record.
func (tr *TenantRepository) SetTenantAttention(ctx context.Context, tenantID string, needs bool) error {
	_, err := tr.db.Exec(ctx, upsertAttentionQuery, tenantID, needs)
	return err
}
