package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterCustomerInput carries the customer registration form
type RegisterCustomerInput struct {
	Name     string
	Phone    string
	Password string
	Location string
}

// RegisterTechnicianInput carries the technician signup form
type RegisterTechnicianInput struct {
	Name       string
	Phone      string
	Profession string
	Experience int
	Location   string
	Password   string  // optional
	PhotoKey   *string // storage key of an already uploaded photo
}

// UserService owns customer and technician accounts
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService over db
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// createUnique inserts user unless its phone is already registered
func createUnique(tx *gorm.DB, user *models.User) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("phone = ?", user.Phone).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check phone: %w", err)
	}
	if count > 0 {
		return ErrPhoneTaken
	}
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPhoneTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// RegisterCustomer creates a customer account and logs the registration
func (s *UserService) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = utils.NormalizePhone(in.Phone)
	in.Location = strings.TrimSpace(in.Location)
	switch {
	case in.Name == "":
		return nil, required("name")
	case in.Phone == "":
		return nil, required("phone")
	case in.Password == "":
		return nil, required("password")
	case in.Location == "":
		return nil, required("location")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         in.Name,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
		Location:     in.Location,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createUnique(tx, user); err != nil {
			return err
		}
		return writeLog(tx, Actor{ID: user.ID, Name: user.Name, Role: user.Role},
			ActionRegister, fmt.Sprintf("انضم عميل جديد: %s", user.Name))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterTechnician records a pending technician application
func (s *UserService) RegisterTechnician(ctx context.Context, in RegisterTechnicianInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = utils.NormalizePhone(in.Phone)
	in.Location = strings.TrimSpace(in.Location)
	switch {
	case in.Name == "":
		return nil, required("name")
	case in.Phone == "":
		return nil, required("phone")
	case in.Location == "":
		return nil, required("location")
	case in.Experience < 0:
		return nil, &ValidationError{Field: "experience", Message: "must not be negative"}
	}

	category, ok := models.FindCategory(strings.TrimSpace(in.Profession))
	if !ok {
		return nil, ErrUnknownCategory
	}

	user := &models.User{
		Name:            in.Name,
		Phone:           in.Phone,
		Role:            models.RoleTechnician,
		Location:        in.Location,
		Profession:      category.Name,
		Experience:      in.Experience,
		Status:          models.TechnicianPending,
		ProfileImageKey: in.PhotoKey,
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createUnique(tx, user); err != nil {
			return err
		}
		return writeLog(tx, Actor{}, ActionTechnicianSignup,
			fmt.Sprintf("طلب انضمام من %s (%s)", user.Name, user.Profession))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks phone and password and logs the login.
// Blocked accounts are rejected even with the right password.
func (s *UserService) Authenticate(ctx context.Context, phone, password string) (*models.User, error) {
	phone = utils.NormalizePhone(phone)
	if phone == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone = ?", phone).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCredentials
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		if !checkPassword(user.PasswordHash, password) {
			return ErrInvalidCredentials
		}
		if user.IsBlocked {
			return ErrAccountBlocked
		}
		action, details := SessionEntry(user.Role, user.Name, true)
		return writeLog(tx, Actor{ID: user.ID, Name: user.Name, Role: user.Role}, action, details)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Get loads a user by id
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// List returns users, optionally narrowed to one role, oldest first
func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	query := s.db.WithContext(ctx).Order("created_at ASC")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ApproveTechnician makes a technician available for assignments
func (s *UserService) ApproveTechnician(ctx context.Context, actor Actor, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND role = ?", id, models.RoleTechnician).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTechnicianNotFound
			}
			return fmt.Errorf("failed to load technician: %w", err)
		}
		if err := tx.Model(&user).Update("status", models.TechnicianAvailable).Error; err != nil {
			return fmt.Errorf("failed to approve technician: %w", err)
		}
		user.Status = models.TechnicianAvailable
		return writeLog(tx, actor, ActionTechnicianApproved,
			fmt.Sprintf("اعتماد الفني %s", user.Name))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleBlock flips the blocked flag of any user
func (s *UserService) ToggleBlock(ctx context.Context, actor Actor, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}
		blocked := !user.IsBlocked
		if err := tx.Model(&user).Update("is_blocked", blocked).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		user.IsBlocked = blocked
		action := ActionUserUnblocked
		if user.IsBlocked {
			action = ActionUserBlocked
		}
		return writeLog(tx, actor, action, fmt.Sprintf("%s (%s)", user.Name, user.Phone))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
