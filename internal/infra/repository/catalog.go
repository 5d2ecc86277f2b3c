package repository

import (
	"context"

	"barber-booking/internal/domain/catalog"
	"barber-booking/internal/infra"
	"barber-booking/internal/infra/db"

	"github.com/google/uuid"
)

const (
	serviceColumns  = `id, name, price, duration_min, description`
	listServicesSQL = `SELECT ` + serviceColumns + ` FROM services ORDER BY name`
	getServiceSQL   = `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	providerSelect = `SELECT p.id, p.name, p.description,
    COALESCE(array_agg(ps.service_id) FILTER (WHERE ps.service_id IS NOT NULL), '{}') AS service_ids
FROM providers p
LEFT JOIN provider_services ps ON ps.provider_id = p.id`
	listProvidersSQL = providerSelect + `
GROUP BY p.id
ORDER BY p.name`
	getProviderSQL = providerSelect + `
WHERE p.id = $1
GROUP BY p.id`
)

// CatalogRepository reads services and providers. The catalog is managed
// outside this service.
type CatalogRepository struct {
	db db.DBTX
}

func NewCatalogRepository(q db.DBTX) *CatalogRepository {
	return &CatalogRepository{db: q}
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]catalog.Service, error) {
	rows, err := r.db.Query(ctx, listServicesSQL)
	if err != nil {
		return nil, infra.ClassifyPgErr("list services", err)
	}
	defer rows.Close()

	var out []catalog.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, infra.ClassifyPgErr("list services", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr("list services", err)
	}
	return out, nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id uuid.UUID) (catalog.Service, error) {
	s, err := scanService(r.db.QueryRow(ctx, getServiceSQL, id))
	if err != nil {
		return catalog.Service{}, infra.ClassifyPgErr("get service", err)
	}
	return s, nil
}

func (r *CatalogRepository) ListProviders(ctx context.Context) ([]catalog.Provider, error) {
	rows, err := r.db.Query(ctx, listProvidersSQL)
	if err != nil {
		return nil, infra.ClassifyPgErr("list providers", err)
	}
	defer rows.Close()

	var out []catalog.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, infra.ClassifyPgErr("list providers", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyPgErr("list providers", err)
	}
	return out, nil
}

func (r *CatalogRepository) GetProvider(ctx context.Context, id uuid.UUID) (catalog.Provider, error) {
	p, err := scanProvider(r.db.QueryRow(ctx, getProviderSQL, id))
	if err != nil {
		return catalog.Provider{}, infra.ClassifyPgErr("get provider", err)
	}
	return p, nil
}

func scanService(row scanner) (catalog.Service, error) {
	var s catalog.Service
	var duration int32
	if err := row.Scan(&s.ID, &s.Name, &s.Price, &duration, &s.Description); err != nil {
		return catalog.Service{}, err
	}
	s.DurationMin = int(duration)
	return s, nil
}

func scanProvider(row scanner) (catalog.Provider, error) {
	var p catalog.Provider
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ServiceIDs); err != nil {
		return catalog.Provider{}, err
	}
	return p, nil
}
