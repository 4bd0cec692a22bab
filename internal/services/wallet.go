package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

// Deposit is a pending wallet top-up awaiting payment.
type Deposit struct {
	Reference        string          `json:"reference"`
	Amount           decimal.Decimal `json:"amount"`
	AuthorizationURL string          `json:"authorization_url"`
}

type WalletService struct {
	db      *gorm.DB
	gateway PaymentGateway
	notify  *NotificationService
	log     *slog.Logger
}

func NewWalletService(db *gorm.DB, gateway PaymentGateway, notify *NotificationService, log *slog.Logger) *WalletService {
	return &WalletService{db: db, gateway: gateway, notify: notify, log: log}
}

// GetWallet returns the principal's wallet, creating an empty one for users
// that predate wallets.
func (s *WalletService) GetWallet(p authz.Principal) (*models.Wallet, error) {
	wallet := models.Wallet{UserID: p.UserID}
	if err := s.db.Where(models.Wallet{UserID: p.UserID}).FirstOrCreate(&wallet).Error; err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	return &wallet, nil
}

// ListTransactions returns the wallet ledger newest first; kind filters by
// transaction type when set.
func (s *WalletService) ListTransactions(p authz.Principal, kind models.TransactionType, limit, offset int) ([]models.Transaction, int64, error) {
	wallet, err := s.GetWallet(p)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := s.db.Model(&models.Transaction{}).Where("wallet_id = ?", wallet.ID)
	if kind != "" {
		query = query.Where("type = ?", kind)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txns []models.Transaction
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// InitiateDeposit records a pending deposit and returns where to pay it.
func (s *WalletService) InitiateDeposit(p authz.Principal, amount decimal.Decimal) (*Deposit, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var user models.User
	if err := s.db.First(&user, p.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	wallet, err := s.GetWallet(p)
	if err != nil {
		return nil, err
	}

	amount = amount.Round(2)
	reference := "DEP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	txn := models.Transaction{
		WalletID:    wallet.ID,
		Type:        models.TransactionDeposit,
		Status:      models.TransactionPending,
		Amount:      amount,
		Reference:   reference,
		Description: "Wallet deposit",
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}

	url, err := s.gateway.Initialize(user.Email, amount, reference)
	if err != nil {
		s.log.Error("payment initialization failed", "reference", reference, "error", err)
		if uerr := s.db.Model(&txn).Update("status", models.TransactionFailed).Error; uerr != nil {
			s.log.Error("failed to mark deposit failed", "reference", reference, "error", uerr)
		}
		return nil, err
	}
	return &Deposit{Reference: reference, Amount: amount, AuthorizationURL: url}, nil
}

// VerifyDeposit confirms a pending deposit with the gateway and credits the
// wallet. A deposit is credited at most once.
func (s *WalletService) VerifyDeposit(p authz.Principal, reference string) (*models.Transaction, error) {
	wallet, err := s.GetWallet(p)
	if err != nil {
		return nil, err
	}
	var txn models.Transaction
	err = s.db.Where("reference = ? AND wallet_id = ? AND type = ?", reference, wallet.ID, models.TransactionDeposit).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if txn.Status != models.TransactionPending {
		return nil, ErrDepositNotPending
	}

	paid, err := s.gateway.Verify(reference)
	if err != nil {
		s.log.Warn("deposit verification failed", "reference", reference, "error", err)
		return nil, ErrPaymentNotVerified
	}
	if !paidInFull(paid, txn.Amount) {
		return nil, ErrPaymentNotVerified
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", txn.ID, models.TransactionPending).
			Updates(map[string]interface{}{"status": models.TransactionCompleted, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrDepositNotPending
		}
		_, err := creditWallet(tx, p.UserID, txn.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	txn.Status = models.TransactionCompleted
	txn.CompletedAt = &now
	s.notify.NotifyDepositSuccess(p.UserID, txn.Amount, reference)
	return &txn, nil
}
