package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "corebank/internal/adapter/http"
	"corebank/internal/adapter/middleware"
	"corebank/internal/adapter/repository/mysql"
	"corebank/internal/config"
	"corebank/internal/domain/account"
	"corebank/internal/domain/audit"
	"corebank/internal/domain/billing"
	"corebank/internal/domain/loan"
	"corebank/internal/domain/notification"
	"corebank/internal/domain/transaction"
	"corebank/internal/infrastructure/cache"
	"corebank/internal/infrastructure/db"
	accountuc "corebank/internal/usecase/account"
	billinguc "corebank/internal/usecase/billing"
	"corebank/internal/usecase/creditscore"
	loanuc "corebank/internal/usecase/loan"
	"corebank/internal/usecase/settlement"
	txuc "corebank/internal/usecase/transaction"
	"corebank/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&account.Account{},
		&transaction.Transaction{},
		&loan.Loan{},
		&billing.Billing{},
		&notification.Notification{},
		&audit.Log{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	// repositories
	accounts := mysql.NewAccountRepository(gdb)
	txns := mysql.NewTransactionRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	bills := mysql.NewBillingRepository(gdb)
	gormUoW := mysql.NewGormUoW(gdb)
	recorder := mysql.NewAuditRecorder(gdb)
	notifier := mysql.NewNotificationOutbox(gdb)
	locker := cache.NewRedisCycleLock(rdb)

	// usecases
	accountUC := accountuc.NewUsecase(accounts)
	txUC := txuc.NewUsecase(accounts, txns, gormUoW, recorder)
	scorer := creditscore.NewUsecase(accounts, txns, loans)
	loanUC := loanuc.NewUsecase(loans, accounts, gormUoW, scorer, txUC, recorder, notifier)
	billingUC := billinguc.NewUsecase(bills, gormUoW, txUC, recorder)
	scheduler := settlement.NewScheduler(loans, bills, gormUoW, txUC, locker, notifier, recorder)

	// handlers
	h := httpadp.NewHandler()
	ah := httpadp.NewAccountHandler(accountUC)
	th := httpadp.NewTransactionHandler(txUC)
	lh := httpadp.NewLoanHandler(loanUC)
	bh := httpadp.NewBillingHandler(billingUC)
	sh := httpadp.NewSettlementHandler(scheduler)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	e.GET("/health", h.Health)

	e.POST("/accounts", ah.OpenAccount)
	e.GET("/accounts/:account_id", ah.GetAccount)
	e.GET("/holders/:holder_id/accounts", ah.ListHolderAccounts)

	e.POST("/transactions/deposit", th.CreateDeposit)
	e.POST("/transactions/withdrawal", th.CreateWithdrawal)
	e.POST("/transactions/transfer", th.CreateTransfer)
	e.POST("/transactions/:transaction_id/process", th.Process)
	e.POST("/transactions/:transaction_id/cancel", th.Cancel)
	e.GET("/transactions/:transaction_id", th.Get)

	e.POST("/loans", lh.Apply)
	e.POST("/loans/:loan_id/approve", lh.Approve)
	e.POST("/loans/:loan_id/reject", lh.Reject)
	e.POST("/loans/:loan_id/disburse", lh.Disburse)
	e.POST("/loans/:loan_id/payments", lh.MakePayment)
	e.GET("/loans/:loan_id", lh.Get)
	e.GET("/holders/:holder_id/loans", lh.ListHolderLoans)

	e.POST("/billings", bh.CreateBill)
	e.POST("/billings/:billing_id/send", bh.SendBill)
	e.POST("/billings/:billing_id/pay", bh.PayBill)
	e.POST("/billings/:billing_id/cancel", bh.CancelBill)
	e.GET("/billings/:billing_id", bh.Get)
	e.GET("/holders/:holder_id/billings", bh.ListHolderBills)

	// cron-style triggers, also used by ops to re-run a pass manually
	e.POST("/internal/settlement/run", sh.RunDaily)
	e.POST("/internal/settlement/run/loans", sh.RunLoanPass)
	e.POST("/internal/settlement/run/billing", sh.RunBillingPass)

	if cfg.SettlementEnabled {
		go runSettlementTicker(scheduler, cfg.SettlementHour)
	}

	addr := ":" + cfg.AppPort
	slog.Info("listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// runSettlementTicker fires the daily settlement at the configured UTC hour.
// The redis cycle lock keeps concurrent instances from double-running.
func runSettlementTicker(s *settlement.Scheduler, hour int) {
	for {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		time.Sleep(time.Until(next))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		if err := s.RunDaily(ctx, time.Now().UTC()); err != nil {
			slog.Error("daily settlement failed", "error", err)
		}
		cancel()
	}
}
