// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/domain/gallery"
	"github.com/your-org/bakehouse-backend/internal/domain/order"
	"github.com/your-org/bakehouse-backend/internal/domain/product"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
	"github.com/your-org/bakehouse-backend/internal/domain/upload"
	"github.com/your-org/bakehouse-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	config *config.Config
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// Models lists every table in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&product.Category{},
		&product.Product{},
		&gallery.Item{},
		&settings.WebsiteSettings{},
		&order.Order{},
		&order.OrderItem{},
		&order.StatusHistory{},
		&upload.UploadedFile{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations(ctx context.Context) error {
	m.logger.Info("Running database auto-migrations")

	for _, model := range Models() {
		if err := m.db.WithContext(ctx).AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates composite indexes the struct tags cannot express
func (m *Migration) CreateIndexes(ctx context.Context) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_sort ON products(category_id, sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order_changed ON order_status_history(order_id, changed_at)",
		"CREATE INDEX IF NOT EXISTS idx_gallery_items_sort ON gallery_items(sort_order, id)",
		"CREATE INDEX IF NOT EXISTS idx_uploaded_files_category_created ON uploaded_files(category, created_at DESC)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.WithContext(ctx).Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).WithField("sql", indexSQL).Warn("Failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("Database indexes ensured")

	if failed > 0 {
		return fmt.Errorf("%d of %d indexes failed", failed, len(indexes))
	}
	return nil
}

// SeedInitialData inserts the launch menu, gallery, settings and admin account.
// Each step only runs against an empty table.
func (m *Migration) SeedInitialData(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"categories", m.seedCategories},
		{"products", m.seedProducts},
		{"gallery", m.seedGallery},
		{"settings", m.seedSettings},
		{"admin user", m.seedAdminUser},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.name, err)
		}
	}

	m.logger.Info("Initial data seeded")
	return nil
}

func (m *Migration) seedCategories(ctx context.Context) error {
	for _, category := range product.DefaultCategories() {
		category := category
		err := m.db.WithContext(ctx).
			Where(product.Category{Slug: category.Slug}).
			FirstOrCreate(&category).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) seedProducts(ctx context.Context) error {
	empty, err := m.isEmpty(ctx, &product.Product{})
	if err != nil || !empty {
		return err
	}

	catalog := product.NewService(m.db, m.config)
	defaults := product.DefaultProducts()

	slugs := make([]string, 0, len(defaults))
	for slug := range defaults {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		for _, req := range defaults[slug] {
			req := req
			req.Category = slug
			if _, err := catalog.CreateProduct(ctx, &req); err != nil {
				return fmt.Errorf("%s: %w", req.Name, err)
			}
		}
	}
	return nil
}

func (m *Migration) seedGallery(ctx context.Context) error {
	empty, err := m.isEmpty(ctx, &gallery.Item{})
	if err != nil || !empty {
		return err
	}
	items := gallery.DefaultItems()
	return m.db.WithContext(ctx).Create(&items).Error
}

func (m *Migration) seedSettings(ctx context.Context) error {
	empty, err := m.isEmpty(ctx, &settings.WebsiteSettings{})
	if err != nil || !empty {
		return err
	}
	defaults := settings.Defaults()
	return m.db.WithContext(ctx).Create(&defaults).Error
}

func (m *Migration) seedAdminUser(ctx context.Context) error {
	users := user.NewService(m.db, m.config, nil, m.logger)
	admin, created, err := users.EnsureAdmin(ctx, m.config.Security.AdminEmail, m.config.Security.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		m.logger.WithField("email", admin.Email).Warn("Created default admin user, change its credentials")
	}
	return nil
}

func (m *Migration) isEmpty(ctx context.Context, model interface{}) (bool, error) {
	var count int64
	if err := m.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
