package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// zapWriter feeds gorm's logger into zap.
type zapWriter struct{ log *zap.SugaredLogger }

func (w zapWriter) Printf(format string, args ...any) { w.log.Infof(format, args...) }

// Open connects to the catalog database.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	gl := logger.New(zapWriter{log.Named("gorm").Sugar()}, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ChampionModel{}, &RoleStatModel{}, &PairModel{}); err != nil {
		return fmt.Errorf("catalog: migrate: %w", err)
	}
	return nil
}

// Load reads every champion and pair and builds the catalog.
func Load(ctx context.Context, db *gorm.DB) (*Catalog, error) {
	var rows []ChampionModel
	if err := db.WithContext(ctx).Preload("Roles").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("catalog: load champions: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: catalog has no champions", domain.ErrConfiguration)
	}
	champs := make([]domain.Champion, 0, len(rows))
	for _, r := range rows {
		c, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		champs = append(champs, c)
	}

	var pairs []PairModel
	if err := db.WithContext(ctx).Find(&pairs).Error; err != nil {
		return nil, fmt.Errorf("catalog: load pairs: %w", err)
	}
	return Build(champs, pairs)
}

// Seed upserts champs and pairs in one transaction.
func Seed(ctx context.Context, db *gorm.DB, champs []domain.Champion, pairs []PairModel) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range champs {
			m := championModel(c)
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Omit("Roles").Create(&m).Error; err != nil {
				return fmt.Errorf("catalog: seed champion %d: %w", c.ID, err)
			}
			if len(m.Roles) == 0 {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&m.Roles).Error; err != nil {
				return fmt.Errorf("catalog: seed roles of %d: %w", c.ID, err)
			}
		}
		if len(pairs) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(pairs, 500).Error; err != nil {
				return fmt.Errorf("catalog: seed pairs: %w", err)
			}
		}
		return nil
	})
}
