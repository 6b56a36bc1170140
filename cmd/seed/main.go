package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourrightpocket/charityround/config"
	"github.com/yourrightpocket/charityround/internal/application"
	"github.com/yourrightpocket/charityround/internal/container"
	"github.com/yourrightpocket/charityround/internal/domain/entity"
	pginfra "github.com/yourrightpocket/charityround/internal/infrastructure/postgres"
	"github.com/yourrightpocket/charityround/internal/router"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/helpers"
)

var demoOrganizations = []entity.Organization{
	{Name: "American Red Cross", EIN: "530196605", Category: entity.CategoryHealthcare, Description: "Emergency assistance and disaster relief", Website: "https://www.redcross.org", Verified: true},
	{Name: "Khan Academy", EIN: "262544963", Category: entity.CategoryEducation, Description: "Free world-class education for anyone", Website: "https://www.khanacademy.org", Verified: true},
	{Name: "The Nature Conservancy", EIN: "530242652", Category: entity.CategoryEnvironment, Description: "Protecting lands and waters", Website: "https://www.nature.org", Verified: true},
	{Name: "Feeding America", EIN: "363673599", Category: entity.CategoryCommunity, Description: "Nationwide network of food banks", Website: "https://www.feedingamerica.org", Verified: true},
}

var demoMerchants = []struct {
	name     string
	category string
	min, max int64 // cents
}{
	{"Corner Coffee", "food", 275, 850},
	{"City Grocers", "groceries", 1200, 9500},
	{"Metro Transit", "transport", 250, 550},
	{"Page Turner Books", "shopping", 900, 4200},
	{"Lunch Spot", "food", 850, 1800},
}

// Seeds a demo user with liked organizations, allocations and a month
// of fake transactions, so the dashboard has something to show.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)

	users := pginfra.NewUserRepository(pool)
	orgs := pginfra.NewOrganizationRepository(pool)
	liked := pginfra.NewUserOrganizationRepository(pool)
	prefs := pginfra.NewPreferenceRepository(pool)

	hash, err := helpers.HashPassword("password123")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	demo := &entity.User{
		Email:     "demo@yourrightpocket.com",
		Password:  hash,
		FirstName: "Demo",
		LastName:  "User",
	}
	if err := users.Create(ctx, demo); err != nil {
		if !apperrors.Is(err, apperrors.KindConflict) {
			log.Fatalf("create demo user: %v", err)
		}
		existing, err := users.GetActiveByEmail(ctx, demo.Email)
		if err != nil {
			log.Fatalf("load demo user: %v", err)
		}
		demo = existing
	}
	logger.WithField("user_id", demo.ID).Info("demo user ready")

	var seeded []*entity.Organization
	for _, o := range demoOrganizations {
		org, err := orgs.Upsert(ctx, o)
		if err != nil {
			log.Fatalf("seed organization %s: %v", o.Name, err)
		}
		seeded = append(seeded, org)
	}
	logger.WithField("organizations", len(seeded)).Info("organizations seeded")

	for _, org := range seeded[:2] {
		err := liked.Like(ctx, &entity.UserOrganization{
			UserID: demo.ID,
			EIN:    org.EIN,
			Name:   org.Name,
		})
		if err != nil && !apperrors.Is(err, apperrors.KindConflict) {
			log.Fatalf("like organization: %v", err)
		}
	}
	if _, err := prefs.SetAllocation(ctx, demo.ID, seeded[0].ID, 6000); err != nil {
		log.Fatalf("set allocation: %v", err)
	}
	if _, err := prefs.SetAllocation(ctx, demo.ID, seeded[1].ID, 4000); err != nil {
		log.Fatalf("set allocation: %v", err)
	}

	svc := router.BuildLedgerService()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	for day := 0; day < 30; day++ {
		date := time.Now().AddDate(0, 0, -day).Format("2006-01-02")
		for n := 0; n < 1+rng.Intn(3); n++ {
			m := demoMerchants[rng.Intn(len(demoMerchants))]
			amount := m.min + rng.Int63n(m.max-m.min+1)
			_, ok, err := svc.IngestTransaction(ctx, application.TransactionJob{
				UserID:       demo.ID,
				ExternalID:   fmt.Sprintf("seed-%d-%d-%d", demo.ID, day, n),
				AmountCents:  amount,
				MerchantName: m.name,
				Category:     m.category,
				Date:         date,
			})
			if err != nil {
				log.Fatalf("seed transaction: %v", err)
			}
			if ok {
				created++
			}
		}
	}
	logger.WithField("transactions", created).Info("transactions seeded")
	logger.Info("seed complete: login as demo@yourrightpocket.com / password123")
}
