package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/konektanet/konekta/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultPlans are the starter catalog for a fresh install, prices in
// centavos.
var defaultPlans = []struct {
	name  string
	price int64
}{
	{"Basic 10Mbps", 50000},
	{"Standard 25Mbps", 80000},
	{"Premium 50Mbps", 120000},
}

// EnsureDefaultPlans seeds the plan catalog when it is empty so the
// first customer can be enrolled right after startup.
func EnsureDefaultPlans(db *gorm.DB, log *zap.Logger, genID *snowflake.Node) error {
	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM plans`).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, p := range defaultPlans {
		plan := plandomain.Plan{
			ID:           genID.Generate(),
			Name:         p.name,
			MonthlyPrice: p.price,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.Exec(
			`INSERT INTO plans (id, name, monthly_price, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			plan.ID, plan.Name, plan.MonthlyPrice, plan.CreatedAt, plan.UpdatedAt,
		).Error; err != nil {
			return err
		}
	}

	log.Info("seeded default plans", zap.Int("count", len(defaultPlans)))
	return nil
}

var Module = fx.Module("seed",
	fx.Invoke(EnsureDefaultPlans),
)
