package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"geoqr/internal/app"
	"geoqr/internal/config"
	auth "geoqr/pkg/jwt"
)

const usage = `用法: geoqr-cli [-config path] <command> [flags]

命令:
  purge                     删除超过保留期的链接
  token -user <id> [-plan p] [-name n]
                            用配置中的密钥签发测试令牌
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	global := flag.NewFlagSet("geoqr-cli", flag.ContinueOnError)
	global.SetOutput(out)
	global.Usage = func() { fmt.Fprint(out, usage) }
	configPath := global.String("config", "configs/config.yaml", "配置文件路径")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return fmt.Errorf("缺少命令")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("配置加载失败: %w", err)
	}

	switch cmd, rest := global.Arg(0), global.Args()[1:]; cmd {
	case "purge":
		return purge(cfg, out)
	case "token":
		return token(cfg, rest, out)
	default:
		global.Usage()
		return fmt.Errorf("未知命令: %s", cmd)
	}
}

func purge(cfg *config.Config, out io.Writer) error {
	app.InitLogger(cfg)
	defer func() { _ = zap.L().Sync() }()

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := app.NewLinkService(cfg, db, nil, zap.S()).PurgeExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "已清理 %d 条过期链接\n", n)
	return nil
}

func token(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(out)
	userID := fs.String("user", "", "用户 ID")
	plan := fs.String("plan", "", "套餐, 如 free / pro / business")
	name := fs.String("name", "", "用户名")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" {
		return fmt.Errorf("-user 不能为空")
	}

	tm := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)
	signed, err := tm.GenerateToken(*userID, *name, *plan)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, signed)
	return nil
}
