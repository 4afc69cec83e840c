package main

import (
	"context"
	"log"
	"time"

	"ion-assistant/internal/models"
	"ion-assistant/internal/repository"
	"ion-assistant/pkg/auth"
	"ion-assistant/pkg/config"
	"ion-assistant/pkg/logger"
	"ion-assistant/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS usuarios (
		id UUID PRIMARY KEY,
		nome TEXT NOT NULL,
		email TEXT NOT NULL,
		telefone TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL DEFAULT 'active',
		avatar_url TEXT NOT NULL DEFAULT '',
		senha TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categoria_trasacoes (
		id UUID PRIMARY KEY,
		usuario_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		nome TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (usuario_id, nome)
	)`,
	`CREATE TABLE IF NOT EXISTS transacoes (
		id UUID PRIMARY KEY,
		usuario_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		descricao TEXT NOT NULL,
		valor NUMERIC(14,2) NOT NULL,
		tipo TEXT NOT NULL,
		data TIMESTAMPTZ NOT NULL,
		categoria_id UUID REFERENCES categoria_trasacoes(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS to_do (
		id UUID PRIMARY KEY,
		usuario_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		titulo TEXT NOT NULL,
		categoria TEXT NOT NULL DEFAULT 'Geral',
		status TEXT NOT NULL DEFAULT 'pendente',
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS lembretes (
		id UUID PRIMARY KEY,
		usuario_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		titulo TEXT NOT NULL,
		data_para_lembrar TIMESTAMPTZ NOT NULL,
		recorrencia TEXT NOT NULL DEFAULT 'Unico',
		telefone TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS lista_de_compras (
		id UUID PRIMARY KEY,
		usuario_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		nome TEXT NOT NULL,
		categoria TEXT NOT NULL DEFAULT 'Geral',
		status TEXT NOT NULL DEFAULT 'pendente',
		selecao TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS caixinha (
		id UUID PRIMARY KEY,
		usuario_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		nome TEXT NOT NULL,
		meta NUMERIC(14,2) NOT NULL,
		acumulado NUMERIC(14,2) NOT NULL DEFAULT 0,
		ultimo_deposito NUMERIC(14,2),
		prazo DATE,
		categoria TEXT NOT NULL DEFAULT 'Geral',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transacoes_usuario_data ON transacoes (usuario_id, data DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_lembretes_usuario_data ON lembretes (usuario_id, data_para_lembrar)`,
	`CREATE INDEX IF NOT EXISTS idx_to_do_status ON to_do (status, completed_at)`,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("Creating schema...")
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			appLogger.Fatal("Schema statement failed", zap.Error(err))
		}
	}

	if err := seedDemoUser(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to seed demo data", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!")
}

func seedDemoUser(ctx context.Context, db *pgxpool.Pool, appLogger *zap.Logger) error {
	userRepo := repository.NewUserRepository(db, appLogger)

	const demoPhone = "+5511999990000"
	if existing, err := userRepo.GetByPhone(ctx, demoPhone); err == nil && existing != nil {
		appLogger.Info("Demo user already present, skipping")
		return nil
	}

	hash, err := auth.HashPassword("demo123")
	if err != nil {
		return err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Name:      "Usuária Demo",
		Email:     "demo@ion.local",
		Phone:     demoPhone,
		Status:    "active",
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return err
	}

	catRepo := repository.NewCategoryRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)

	demo := []struct {
		desc     string
		amount   float64
		txType   models.TransactionType
		category string
	}{
		{"Salário", 4200, models.TypeEntrada, "Salário"},
		{"Almoço", 30, models.TypeSaida, "Alimentação"},
		{"Uber para o trabalho", 18.5, models.TypeSaida, "Transporte"},
		{"Mercado da semana", 230.4, models.TypeSaida, "Alimentação"},
	}

	for _, d := range demo {
		cat, err := catRepo.GetOrCreate(ctx, user.ID, d.category)
		if err != nil {
			return err
		}
		tx := &models.Transaction{
			ID:          uuid.New(),
			UserID:      user.ID,
			Description: d.desc,
			Amount:      d.amount,
			Type:        d.txType,
			Date:        now,
			CategoryID:  cat.ID,
			CreatedAt:   now,
		}
		if err := txRepo.Create(ctx, tx); err != nil {
			return err
		}
	}

	appLogger.Info("Demo user seeded", zap.String("phone", demoPhone))
	return nil
}
