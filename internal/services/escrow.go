package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MimiPlatform/internal/authz"
	"MimiPlatform/internal/models"
)

type EscrowService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewEscrowService(db *gorm.DB, notify *NotificationService) *EscrowService {
	return &EscrowService{db: db, notify: notify}
}

// FundMilestone moves the milestone amount from the customer's wallet into a
// held escrow. Debit, escrow, ledger entry and the funded flag are committed
// together or not at all.
func (s *EscrowService) FundMilestone(p authz.Principal, milestoneID uint) (*models.Escrow, error) {
	var escrow models.Escrow
	var milestone models.JobMilestone
	var providerUser uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Job").First(&milestone, milestoneID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMilestoneNotFound
			}
			return err
		}
		if milestone.Funded {
			return ErrAlreadyFunded
		}
		if milestone.Job == nil || milestone.Job.CustomerID != p.UserID || !p.Can(authz.MilestoneFund) {
			return ErrForbidden
		}

		var wallet models.Wallet
		if err := tx.Where("user_id = ?", p.UserID).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsufficientFunds
			}
			return err
		}
		if wallet.Balance.LessThan(milestone.Amount) {
			return ErrInsufficientFunds
		}

		res := tx.Model(&models.JobMilestone{}).
			Where("id = ? AND funded = ?", milestone.ID, false).
			Update("funded", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyFunded
		}

		if err := debitWallet(tx, wallet.ID, milestone.Amount); err != nil {
			return err
		}

		provider, err := providerUserID(tx, milestone.Job.ProviderID)
		if err != nil {
			return err
		}
		providerUser = provider

		escrow = models.Escrow{
			JobID:       milestone.JobID,
			MilestoneID: milestone.ID,
			CustomerID:  p.UserID,
			ProviderID:  provider,
			Amount:      milestone.Amount,
			Status:      models.EscrowHeld,
		}
		if err := tx.Create(&escrow).Error; err != nil {
			return err
		}

		return recordTransaction(tx, wallet.ID, &escrow.ID, models.TransactionDebit, milestone.Amount,
			fmt.Sprintf("Escrow for milestone \"%s\" (job #%d)", milestone.Title, milestone.JobID))
	})
	if err != nil {
		return nil, err
	}

	milestone.Funded = true
	escrow.Milestone = milestone
	s.notify.NotifyMilestoneFunded(providerUser, &milestone)
	return &escrow, nil
}

// ReleaseEscrow pays a held escrow out to the provider. Only the customer who
// funded it may release, and only once the milestone is completed.
func (s *EscrowService) ReleaseEscrow(p authz.Principal, escrowID uint) (*models.Escrow, error) {
	escrow, err := s.load(escrowID)
	if err != nil {
		return nil, err
	}
	if escrow.CustomerID != p.UserID || !p.Can(authz.EscrowRelease) {
		return nil, ErrForbidden
	}
	if escrow.Status != models.EscrowHeld {
		return nil, ErrEscrowNotHeld
	}
	if !escrow.Milestone.Completed {
		return nil, ErrMilestoneIncomplete
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Escrow{}).
			Where("id = ? AND status = ?", escrow.ID, models.EscrowHeld).
			Updates(map[string]interface{}{"status": models.EscrowReleased, "released_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEscrowNotHeld
		}

		walletID, err := creditWallet(tx, escrow.ProviderID, escrow.Amount)
		if err != nil {
			return err
		}
		return recordTransaction(tx, walletID, &escrow.ID, models.TransactionCredit, escrow.Amount,
			fmt.Sprintf("Escrow release for milestone \"%s\" (job #%d)", escrow.Milestone.Title, escrow.JobID))
	})
	if err != nil {
		return nil, err
	}

	escrow.Status = models.EscrowReleased
	escrow.ReleasedAt = &now
	s.notify.NotifyEscrowReleased(escrow.ProviderID, escrow)
	return escrow, nil
}

// RefundEscrow returns a held escrow to the customer and reopens the
// milestone for funding. The provider of the job or staff may refund.
func (s *EscrowService) RefundEscrow(p authz.Principal, escrowID uint) (*models.Escrow, error) {
	escrow, err := s.load(escrowID)
	if err != nil {
		return nil, err
	}
	if !p.Can(authz.EscrowRefund) || (escrow.ProviderID != p.UserID && !p.IsStaff) {
		return nil, ErrForbidden
	}
	if escrow.Status != models.EscrowHeld {
		return nil, ErrEscrowNotHeld
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Escrow{}).
			Where("id = ? AND status = ?", escrow.ID, models.EscrowHeld).
			Updates(map[string]interface{}{"status": models.EscrowRefunded, "refunded_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEscrowNotHeld
		}

		walletID, err := creditWallet(tx, escrow.CustomerID, escrow.Amount)
		if err != nil {
			return err
		}
		if err := recordTransaction(tx, walletID, &escrow.ID, models.TransactionRefund, escrow.Amount,
			fmt.Sprintf("Escrow refund for milestone \"%s\" (job #%d)", escrow.Milestone.Title, escrow.JobID)); err != nil {
			return err
		}
		return tx.Model(&models.JobMilestone{}).Where("id = ?", escrow.MilestoneID).Update("funded", false).Error
	})
	if err != nil {
		return nil, err
	}

	escrow.Status = models.EscrowRefunded
	escrow.RefundedAt = &now
	escrow.Milestone.Funded = false
	s.notify.NotifyEscrowRefunded(escrow.CustomerID, escrow)
	return escrow, nil
}

// ListEscrows returns escrows where the principal is customer or provider,
// optionally filtered by job.
func (s *EscrowService) ListEscrows(p authz.Principal, jobID uint) ([]models.Escrow, error) {
	query := s.db.Preload("Milestone").Order("created_at DESC, id DESC")
	if !p.IsStaff {
		query = query.Where("customer_id = ? OR provider_id = ?", p.UserID, p.UserID)
	}
	if jobID != 0 {
		query = query.Where("job_id = ?", jobID)
	}
	var escrows []models.Escrow
	if err := query.Find(&escrows).Error; err != nil {
		return nil, err
	}
	return escrows, nil
}

func (s *EscrowService) load(id uint) (*models.Escrow, error) {
	var escrow models.Escrow
	if err := s.db.Preload("Milestone").First(&escrow, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEscrowNotFound
		}
		return nil, err
	}
	return &escrow, nil
}

// lockWallet loads the wallet row FOR UPDATE. The sqlite driver drops the
// lock clause; its single connection already serializes writers.
func lockWallet(tx *gorm.DB, query string, args ...interface{}) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(query, args...).First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// debitWallet subtracts amount only while the balance covers it. The new
// balance is computed in decimal so fractional amounts never pass through
// the database's float arithmetic.
func debitWallet(tx *gorm.DB, walletID uint, amount decimal.Decimal) error {
	wallet, err := lockWallet(tx, "id = ?", walletID)
	if err != nil {
		return err
	}
	if wallet.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	res := tx.Model(&models.Wallet{}).
		Where("id = ? AND balance = ?", wallet.ID, wallet.Balance).
		Update("balance", wallet.Balance.Sub(amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// creditWallet adds amount to the user's wallet and returns the wallet id.
func creditWallet(tx *gorm.DB, userID uint, amount decimal.Decimal) (uint, error) {
	wallet, err := lockWallet(tx, "user_id = ?", userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		wallet = &models.Wallet{UserID: userID, Balance: decimal.Zero}
		if err := tx.Create(wallet).Error; err != nil {
			return 0, err
		}
	}
	err = tx.Model(&models.Wallet{}).
		Where("id = ?", wallet.ID).
		Update("balance", wallet.Balance.Add(amount)).Error
	if err != nil {
		return 0, err
	}
	return wallet.ID, nil
}

func recordTransaction(tx *gorm.DB, walletID uint, escrowID *uint, kind models.TransactionType, amount decimal.Decimal, description string) error {
	now := time.Now()
	return tx.Create(&models.Transaction{
		WalletID:    walletID,
		EscrowID:    escrowID,
		Type:        kind,
		Status:      models.TransactionCompleted,
		Amount:      amount,
		Reference:   uuid.NewString(),
		Description: description,
		CompletedAt: &now,
	}).Error
}
