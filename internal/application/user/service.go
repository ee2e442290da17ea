package user

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"homescout-backend/internal/application/emails"
	"homescout-backend/internal/domain"
	"homescout-backend/internal/pkg/constants"
	"homescout-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds the DB and optional email sender for account operations.
type Service struct {
	DB     *gorm.DB
	Emails emails.Sender
	Cost   int // bcrypt cost; 0 means bcrypt.DefaultCost
}

type RegisterInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a user with the "user" role and sends the welcome email in the background.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validation.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrInvalidPassword
	}
	fullname := strings.TrimSpace(in.Fullname)
	if !validation.IsValidFullname(fullname) {
		return nil, ErrInvalidFullname
	}
	phone := validation.NormalizePhone(in.Phone)
	if phone != "" && !validation.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Fullname:     titleCaseAndNormalize(fullname),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         constants.User,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}

	if s.Emails != nil {
		first := strings.Fields(u.Fullname)[0]
		go func() {
			if err := s.Emails.SendWelcome(context.Background(), u.Email, first); err != nil {
				log.Warn().Err(err).Str("user_id", u.UserID.String()).Msg("welcome email failed")
			}
		}()
	}
	return u, nil
}

// Profile returns the user by id.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfileInput carries optional changes; nil fields are left alone.
// Changing the password requires CurrentPassword.
type UpdateProfileInput struct {
	Fullname        *string `json:"fullname"`
	Phone           *string `json:"phone"`
	Password        *string `json:"password"`
	CurrentPassword string  `json:"current_password"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*domain.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	upd := map[string]interface{}{}
	if in.Fullname != nil {
		name := strings.TrimSpace(*in.Fullname)
		if !validation.IsValidFullname(name) {
			return nil, ErrInvalidFullname
		}
		upd["fullname"] = titleCaseAndNormalize(name)
	}
	if in.Phone != nil {
		phone := validation.NormalizePhone(*in.Phone)
		if phone != "" && !validation.IsValidPhone(phone) {
			return nil, ErrInvalidPhone
		}
		upd["phone"] = phone
	}
	if in.Password != nil {
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
			return nil, ErrIncorrectPassword
		}
		if !validation.IsValidPassword(*in.Password) {
			return nil, ErrInvalidPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.cost())
		if err != nil {
			return nil, err
		}
		upd["password_hash"] = string(hash)
	}
	if len(upd) == 0 {
		return nil, ErrNoUpdateFields
	}
	if err := s.DB.WithContext(ctx).Model(u).Updates(upd).Error; err != nil {
		return nil, err
	}
	return s.Profile(ctx, userID)
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

// titleCaseAndNormalize collapses whitespace and capitalises each word.
func titleCaseAndNormalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	var b strings.Builder
	capitalize := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !capitalize {
				b.WriteRune(' ')
				capitalize = true
			}
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(r))
			capitalize = false
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
