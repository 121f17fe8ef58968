package main

import (
	"context"
	"fmt"
	"os"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// seedFixture is the YAML layout of a seed file.
type seedFixture struct {
	Users []struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"categories"`
	Listings []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Price       string `yaml:"price"`
		Seller      string `yaml:"seller"`
		Category    string `yaml:"category"`
	} `yaml:"listings"`
}

func loadFixture(path string) (*seedFixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var fixture seedFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &fixture, nil
}

func seedFromFile(ctx context.Context, path string, store repositories.Store, auth *services.AuthService, logger *zap.Logger) error {
	fixture, err := loadFixture(path)
	if err != nil {
		return err
	}
	seed(ctx, fixture, store, auth, logger)
	return nil
}

// seed inserts the fixture. Records that fail are logged and skipped.
func seed(ctx context.Context, fixture *seedFixture, store repositories.Store, auth *services.AuthService, logger *zap.Logger) {
	for _, u := range fixture.Users {
		user := &models.User{Username: u.Username, Email: u.Email, Password: u.Password, Role: models.Role(u.Role)}
		if err := auth.ProvisionUser(ctx, user); err != nil {
			logger.Warn("Error seeding user", zap.String("username", u.Username), zap.Error(err))
			continue
		}
		logger.Info("Seeded user", zap.String("username", u.Username), zap.Uint("id", user.ID))
	}

	categoryIDs := make(map[string]uint)
	for _, c := range fixture.Categories {
		category := &models.Category{Name: c.Name, Description: c.Description}
		if err := store.Categories().Create(ctx, category); err != nil {
			logger.Warn("Error seeding category", zap.String("name", c.Name), zap.Error(err))
			continue
		}
		categoryIDs[c.Name] = category.ID
	}

	for _, l := range fixture.Listings {
		seller, err := store.Users().GetByUsername(ctx, l.Seller)
		if err != nil {
			logger.Warn("Error seeding listing", zap.String("title", l.Title), zap.Error(err))
			continue
		}
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			logger.Warn("Error seeding listing", zap.String("title", l.Title), zap.Error(err))
			continue
		}
		listing := &models.Listing{
			SellerID:    seller.ID,
			Title:       l.Title,
			Description: l.Description,
			Price:       price,
			Status:      models.ListingActive,
		}
		if id, ok := categoryIDs[l.Category]; ok {
			listing.CategoryID = &id
		}
		if err := store.Listings().Create(ctx, listing); err != nil {
			logger.Warn("Error seeding listing", zap.String("title", l.Title), zap.Error(err))
			continue
		}
		logger.Info("Seeded listing", zap.String("title", l.Title), zap.Uint("id", listing.ID))
	}
}
