package main

import (
	"flag"

	"github.com/cartella/internal/config"
	"github.com/cartella/internal/logger"
	"github.com/cartella/internal/models"
	"github.com/cartella/internal/repository"

	"github.com/google/uuid"
)

// 本地开发辅助：为指定客户插入若干演示购物车行。
// 商品ID不经过目录服务校验，仅用于联调展示链路。
func main() {
	var customerID string
	var count int
	flag.StringVar(&customerID, "customer", "", "客户ID（必填）")
	flag.IntVar(&count, "count", 3, "插入的演示行数")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if customerID == "" {
		customerID = uuid.NewString()
		stdLog.Printf("未指定客户ID，已生成: %s", customerID)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	repo := repository.NewCartLineRepository(models.DB)
	for i := 0; i < count; i++ {
		line := &models.CartLine{
			LineID:     uuid.NewString(),
			CustomerID: customerID,
			ProductID:  uuid.NewString(),
			Quantity:   1,
		}
		if err := repo.AddOne(line); err != nil {
			stdLog.Fatalf("插入演示行失败: %v", err)
		}
	}
	stdLog.Printf("已为客户 %s 插入 %d 条演示购物车行", customerID, count)
}
