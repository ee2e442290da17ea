package kyc

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"homescout-backend/internal/domain"
	"homescout-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const minimumAge = 18

// Notifier delivers a notification to a user.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

type Service struct {
	DB       *gorm.DB
	Notifier Notifier         // optional
	Now      func() time.Time // defaults to time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type SubmitInput struct {
	FullName         string `json:"full_name"`
	DateOfBirth      string `json:"date_of_birth"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	DocumentType     string `json:"document_type"`
	DocumentNumber   string `json:"document_number"`
	DocumentFrontURL string `json:"document_front_url"`
	DocumentBackURL  string `json:"document_back_url"`
	SelfieURL        string `json:"selfie_url"`
}

func (s *Service) validate(in SubmitInput) (*domain.KYCSubmission, error) {
	name := strings.Join(strings.Fields(in.FullName), " ")
	if !validation.IsValidFullname(name) {
		return nil, ErrInvalidFullname
	}
	dob, err := time.Parse(time.DateOnly, strings.TrimSpace(in.DateOfBirth))
	if err != nil {
		return nil, ErrInvalidDateOfBirth
	}
	if validation.AgeOn(dob, s.now()) < minimumAge {
		return nil, ErrUnderage
	}
	if !validation.IsValidPhone(in.Phone) {
		return nil, ErrInvalidPhone
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}
	docType := strings.ToLower(strings.TrimSpace(in.DocumentType))
	if !validation.IsKnownDocumentType(docType) {
		return nil, ErrInvalidDocumentType
	}
	if !validation.IsValidDocumentNumber(docType, in.DocumentNumber) {
		return nil, ErrInvalidDocumentNumber
	}
	if !validation.IsHTTPURL(in.DocumentFrontURL) || !validation.IsHTTPURL(in.SelfieURL) {
		return nil, ErrInvalidDocumentURL
	}
	sub := &domain.KYCSubmission{
		FullName:         name,
		DateOfBirth:      dob,
		Phone:            validation.NormalizePhone(in.Phone),
		Address:          address,
		DocumentType:     docType,
		DocumentNumber:   validation.NormalizeDocumentNumber(in.DocumentNumber),
		DocumentFrontURL: strings.TrimSpace(in.DocumentFrontURL),
		SelfieURL:        strings.TrimSpace(in.SelfieURL),
		Status:           domain.StatusPending,
	}
	if back := strings.TrimSpace(in.DocumentBackURL); back != "" {
		if !validation.IsHTTPURL(back) {
			return nil, ErrInvalidDocumentURL
		}
		sub.DocumentBackURL = &back
	}
	return sub, nil
}

// Submit files a new submission. A Pending or Approved submission blocks another one;
// a Rejected one may be followed by a fresh attempt.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, in SubmitInput) (*domain.KYCSubmission, error) {
	sub, err := s.validate(in)
	if err != nil {
		return nil, err
	}
	sub.UserID = userID
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&domain.KYCSubmission{}).
			Where("user_id = ? AND status IN ?", userID, []domain.ModerationStatus{domain.StatusPending, domain.StatusApproved}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveSubmission
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Status returns the user's latest submission.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*domain.KYCSubmission, error) {
	var sub domain.KYCSubmission
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order(`"createdAt" DESC`).Order("id DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListPending returns submissions awaiting review, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]domain.KYCSubmission, error) {
	var out []domain.KYCSubmission
	if err := s.DB.WithContext(ctx).Where("status = ?", domain.StatusPending).Order(`"createdAt" ASC`).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Approve(ctx context.Context, adminID uuid.UUID, id uint) (*domain.KYCSubmission, error) {
	return s.review(ctx, adminID, id, domain.StatusApproved, "")
}

func (s *Service) Reject(ctx context.Context, adminID uuid.UUID, id uint, reason string) (*domain.KYCSubmission, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.review(ctx, adminID, id, domain.StatusRejected, reason)
}

func (s *Service) review(ctx context.Context, adminID uuid.UUID, id uint, to domain.ModerationStatus, reason string) (*domain.KYCSubmission, error) {
	var sub domain.KYCSubmission
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if sub.Status != domain.StatusPending {
			return ErrAlreadyReviewed
		}
		now := s.now()
		sub.Status = to
		sub.ReviewedBy = &adminID
		sub.ReviewedAt = &now
		if reason != "" {
			sub.RejectionReason = &reason
		}
		if err := tx.Model(&sub).Updates(map[string]interface{}{
			"status":           sub.Status,
			"reviewed_by":      sub.ReviewedBy,
			"reviewed_at":      sub.ReviewedAt,
			"rejection_reason": sub.RejectionReason,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).Where("user_id = ?", sub.UserID).
			Update("kyc_verified", to == domain.StatusApproved).Error
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, &sub)
	return &sub, nil
}

func (s *Service) notify(ctx context.Context, sub *domain.KYCSubmission) {
	if s.Notifier == nil {
		return
	}
	n := &domain.Notification{
		UserID:    sub.UserID,
		Reference: "kyc:" + strconv.FormatUint(uint64(sub.ID), 10),
	}
	if sub.Status == domain.StatusApproved {
		n.Type = domain.NotifyKYCApproved
		n.Title = "Identity verified"
		n.Body = "Your KYC verification is complete. You can now contact owners and list properties."
	} else {
		n.Type = domain.NotifyKYCRejected
		n.Title = "Identity verification unsuccessful"
		n.Body = "Your KYC submission was rejected: " + *sub.RejectionReason
	}
	if err := s.Notifier.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Uint("kyc_id", sub.ID).Msg("kyc notification failed")
	}
}
