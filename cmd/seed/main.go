// Command seed fills an empty database with a demo catalog and an admin account.
package main

import (
	"context"
	"errors"
	"flag"
	"math"
	"os"
	"time"

	"fitness/internal/config"
	"fitness/internal/db"
	"fitness/internal/db/migrations"
	"fitness/internal/interfaces"
	"fitness/internal/logger"
	"fitness/internal/models"
	"fitness/internal/repository"
	"fitness/internal/services"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var categories = []string{"yoga", "strength", "cardio", "nutrition", "coaching"}

func main() {
	products := flag.Int("products", 25, "number of products to create")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one")
	adminUser := flag.String("admin-user", "admin", "admin user name")
	adminEmail := flag.String("admin-email", "admin@fitness.local", "admin email")
	adminPassword := flag.String("admin-password", "", "admin password, required to create the admin")
	flag.Parse()

	log := logger.SetupDefault(os.Stdout, "info")
	cfg := config.Load()

	if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := repository.NewStore(database.DB)
	faker := gofakeit.New(*seed)
	catalog := services.NewProductService(store.Products(), services.NewDescriptionSanitizer(), nil, log)

	created := 0
	for i := 0; i < *products; i++ {
		req := fakeProduct(faker)
		if _, err := catalog.Create(ctx, req); err != nil {
			log.Warn("skipping product", "name", req.ProductName, "error", err)
			continue
		}
		created++
	}
	log.Info("products seeded", "count", created)

	if *adminPassword == "" {
		log.Info("no -admin-password given, admin account not created")
		return
	}
	if err := seedAdmin(ctx, store, *adminUser, *adminEmail, *adminPassword, faker); err != nil {
		log.Error("failed to create admin", "error", err)
		os.Exit(1)
	}
	log.Info("admin account ready", "user_name", *adminUser)
}

func fakeProduct(f *gofakeit.Faker) models.CreateProductRequest {
	req := models.CreateProductRequest{
		Category:    categories[f.Number(0, len(categories)-1)],
		ProductName: f.ProductName(),
		Price:       math.Round(f.Price(5, 250)*100) / 100,
		Description: "<p>" + f.ProductDescription() + "</p>",
		ProductType: models.ProductTypeProduct,
		Stock:       int64(f.Number(0, 200)),
	}
	if req.Category == "coaching" {
		hours := f.Number(1, 4)
		days := f.Number(7, 90)
		req.ProductType = models.ProductTypeService
		req.Stock = 0
		req.DurationInHoursPerDay = &hours
		req.DurationInDays = &days
	}
	return req
}

func seedAdmin(ctx context.Context, store interfaces.Store, userName, email, password string, f *gofakeit.Faker) error {
	if _, err := store.Accounts().GetByUserName(ctx, userName); err == nil {
		return nil
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return err
	}

	hash, err := services.NewBcryptHasher(bcrypt.DefaultCost).Hash(password)
	if err != nil {
		return err
	}
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		UserName:     userName,
		PasswordHash: hash,
		FirstName:    f.FirstName(),
		LastName:     f.LastName(),
		PhoneNumber:  "+1555" + f.Numerify("#######"),
		Roles:        []string{string(models.RoleUser), string(models.RoleAdmin)},
	}
	return store.WithinTx(ctx, func(tx interfaces.Store) error {
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return err
		}
		return tx.Accounts().MarkVerified(ctx, account.ID, time.Now().UTC())
	})
}
