package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/srvalle/contract-pro/model"
)

const contractColumns = `id, user_id, project_name, contract_number,
	client_name, client_cpf, client_address, client_email,
	provider_name, provider_cpf, provider_address, provider_email,
	graphic_design, web_design, branding, social_media, photography,
	illustration, web_development, copywriting, marketing, others,
	service_scope, start_date, delivery_date, total_value, payment_method,
	revision_count, court_city, contract_date, status, logo_url,
	created_at, updated_at`

// PostgresContractStore keeps contracts in the contracts table
type PostgresContractStore struct {
	db   DBTX
	ping func(ctx context.Context) error
}

// NewPostgresContractStore creates a store on top of db. ping is used for
// health checks and may be nil.
func NewPostgresContractStore(db DBTX, ping func(ctx context.Context) error) *PostgresContractStore {
	return &PostgresContractStore{db: db, ping: ping}
}

func (s *PostgresContractStore) Insert(ctx context.Context, c *model.Contract) error {
	query := `
		INSERT INTO contracts (` + contractColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, now(), now())
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		c.ID, c.OwnerID, c.ProjectName, c.ContractNumber,
		c.ClientName, c.ClientTaxID, c.ClientAddress, c.ClientEmail,
		c.ProviderName, c.ProviderTaxID, c.ProviderAddress, c.ProviderEmail,
		c.GraphicDesign, c.WebDesign, c.Branding, c.SocialMedia, c.Photography,
		c.Illustration, c.WebDevelopment, c.Copywriting, c.Marketing, c.Others,
		c.ServiceScope, c.StartDate, c.DeliveryDate, c.TotalValue, c.PaymentMethod,
		c.RevisionCount, c.CourtCity, c.ContractDate, string(c.Status), c.LogoURL,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contract id or number already taken", model.ErrConflict)
		}
		return fmt.Errorf("%w: insert contract: %v", model.ErrPersistence, err)
	}
	return nil
}

func (s *PostgresContractStore) GetByID(ctx context.Context, ownerID, id string) (*model.Contract, error) {
	if !validUUID(id) || !validUUID(ownerID) {
		return nil, model.ErrNotFound
	}

	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1 AND user_id = $2`

	c, err := scanContract(s.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get contract: %v", model.ErrPersistence, err)
	}
	return c, nil
}

func (s *PostgresContractStore) ListByOwner(ctx context.Context, ownerID string) ([]*model.Contract, error) {
	result := make([]*model.Contract, 0)
	if !validUUID(ownerID) {
		return result, nil
	}

	query := `SELECT ` + contractColumns + ` FROM contracts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list contracts: %v", model.ErrPersistence, err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan contract: %v", model.ErrPersistence, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list contracts: %v", model.ErrPersistence, err)
	}
	return result, nil
}

// Update never touches id, user_id, contract_number or created_at
func (s *PostgresContractStore) Update(ctx context.Context, c *model.Contract) error {
	if !validUUID(c.ID) || !validUUID(c.OwnerID) {
		return model.ErrNotFound
	}

	query := `
		UPDATE contracts SET
			project_name = $3,
			client_name = $4, client_cpf = $5, client_address = $6, client_email = $7,
			provider_name = $8, provider_cpf = $9, provider_address = $10, provider_email = $11,
			graphic_design = $12, web_design = $13, branding = $14, social_media = $15,
			photography = $16, illustration = $17, web_development = $18, copywriting = $19,
			marketing = $20, others = $21,
			service_scope = $22, start_date = $23, delivery_date = $24, total_value = $25,
			payment_method = $26, revision_count = $27, court_city = $28, contract_date = $29,
			status = $30, logo_url = $31,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING contract_number, created_at, updated_at`

	err := s.db.QueryRow(ctx, query,
		c.ID, c.OwnerID, c.ProjectName,
		c.ClientName, c.ClientTaxID, c.ClientAddress, c.ClientEmail,
		c.ProviderName, c.ProviderTaxID, c.ProviderAddress, c.ProviderEmail,
		c.GraphicDesign, c.WebDesign, c.Branding, c.SocialMedia,
		c.Photography, c.Illustration, c.WebDevelopment, c.Copywriting,
		c.Marketing, c.Others,
		c.ServiceScope, c.StartDate, c.DeliveryDate, c.TotalValue,
		c.PaymentMethod, c.RevisionCount, c.CourtCity, c.ContractDate,
		string(c.Status), c.LogoURL,
	).Scan(&c.ContractNumber, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: update contract: %v", model.ErrPersistence, err)
	}
	return nil
}

func (s *PostgresContractStore) Delete(ctx context.Context, ownerID, id string) error {
	if !validUUID(id) || !validUUID(ownerID) {
		return model.ErrNotFound
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM contracts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: delete contract: %v", model.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *PostgresContractStore) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	return nil
}

func scanContract(row pgx.Row) (*model.Contract, error) {
	c := &model.Contract{}
	var status string
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.ProjectName, &c.ContractNumber,
		&c.ClientName, &c.ClientTaxID, &c.ClientAddress, &c.ClientEmail,
		&c.ProviderName, &c.ProviderTaxID, &c.ProviderAddress, &c.ProviderEmail,
		&c.GraphicDesign, &c.WebDesign, &c.Branding, &c.SocialMedia, &c.Photography,
		&c.Illustration, &c.WebDevelopment, &c.Copywriting, &c.Marketing, &c.Others,
		&c.ServiceScope, &c.StartDate, &c.DeliveryDate, &c.TotalValue, &c.PaymentMethod,
		&c.RevisionCount, &c.CourtCity, &c.ContractDate, &status, &c.LogoURL,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = model.Status(status)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
