package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/schedulehub/backend/internal/config"
	"github.com/schedulehub/backend/internal/repository"
	"github.com/schedulehub/backend/internal/seed"
	"github.com/schedulehub/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var orgID int64
	var orgName string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入演示数据)")
	flag.IntVar(&n, "n", 10, "要插入的员工数量")
	flag.Int64Var(&orgID, "org-id", 0, "插入随机员工时的组织 ID")
	flag.StringVar(&orgName, "org-name", "演示门店", "演示数据的组织名称")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if orgID <= 0 {
			slog.Error("请输入合法的组织 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			worker, err := utils.GenerateRandomWorker(orgID, cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机员工", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(worker); err != nil {
				slog.Error("无法插入员工", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入员工成功", slog.Int("count", n-cnt))
	case 2:
		seed.SeedDemoData(repo, cfg, orgName, n)
	default:
		slog.Error("指定的操作非法")
	}
}
