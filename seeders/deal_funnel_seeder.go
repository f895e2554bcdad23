package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultFunnelStages is the funnel a fresh tenant starts with.
var defaultFunnelStages = []struct {
	name  string
	order int
}{
	{"Prospecção", 1},
	{"Proposta", 2},
	{"Negociação", 3},
	{"Ganho", 4},
	{"Perdido", 5},
}

// SeedDefaultDealFunnel creates the standard deal funnel for a tenant
// if the tenant has no deal pipeline yet.
func SeedDefaultDealFunnel(ctx context.Context, db *pgxpool.Pool, tenantID int64) error {
	var existing int64
	err := db.QueryRow(ctx, "SELECT COUNT(*) FROM pipelines WHERE tenant_id = $1 AND kind = 'deal'", tenantID).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check existing funnels: %w", err)
	}
	if existing > 0 {
		log.Printf("  - tenant %d already has a deal funnel, skipping", tenantID)
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var pipelineID int64
	err = tx.QueryRow(ctx,
		"INSERT INTO pipelines (tenant_id, name, kind) VALUES ($1, 'Funil Padrão', 'deal') RETURNING id",
		tenantID,
	).Scan(&pipelineID)
	if err != nil {
		return fmt.Errorf("insert default funnel: %w", err)
	}

	for _, s := range defaultFunnelStages {
		_, err = tx.Exec(ctx,
			"INSERT INTO stages (pipeline_id, name, display_order) VALUES ($1, $2, $3)",
			pipelineID, s.name, s.order,
		)
		if err != nil {
			return fmt.Errorf("insert stage %q: %w", s.name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	log.Printf("  - default deal funnel created for tenant %d (pipeline %d)", tenantID, pipelineID)
	return nil
}
