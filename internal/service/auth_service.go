package service

import (
	"context"
	"strings"
	"time"

	"github.com/etickets/ticket-admin/internal/auth"
	"github.com/etickets/ticket-admin/internal/config"
	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/internal/rules"
	"github.com/etickets/ticket-admin/internal/storage"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

// AuthService coordinates login, signup, and session persistence.
type AuthService struct {
	store    *storage.Gateway
	hasher   auth.PasswordHasher
	tokenMgr *auth.TokenManager
	cfg      config.AuthConfig
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Store  *storage.Gateway
	Hasher auth.PasswordHasher
}

// SignupInput carries the fields collected at signup. Department and Role
// apply to employees, Company and Plan to customers.
type SignupInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Department string
	Role       string
	Company    string
	Plan       domain.CustomerPlan
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		store:    deps.Store,
		hasher:   deps.Hasher,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		cfg:      cfg.Auth,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login verifies the credential for the requested role and persists the
// session. The password check runs for every role, including admin.
func (s *AuthService) Login(ctx context.Context, email, password string, role domain.Role) (*domain.Session, string, time.Time, error) {
	if !domain.ValidRole(role) {
		return nil, "", time.Time{}, errorutil.NewValidationError("unknown role", map[string]any{"role": role})
	}

	s.store.Lock()
	defer s.store.Unlock()

	credentials, _, err := s.store.Credentials(ctx)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	cred := rules.FindCredential(credentials, email)
	if cred == nil || cred.Role != role {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}
	if err := s.hasher.Compare(cred.Password, password); err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid credentials")
	}

	session := domain.Session{Email: cred.Email, Role: cred.Role}
	switch role {
	case domain.RoleEmployee:
		employees, err := s.store.Employees(ctx)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		employee := findEmployeeByEmail(employees, email)
		if employee == nil {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("employee record not found")
		}
		session.EmployeeID = employee.ID
	case domain.RoleCustomer:
		customers, err := s.store.Customers(ctx)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		customer := findCustomerByEmail(customers, email)
		if customer == nil {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("customer record not found")
		}
		session.CustomerID = customer.ID
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(session.Email, session.Role)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	return &session, token, exp, nil
}

// Signup creates an employee or customer record together with its parallel
// credential. Rejected when the email already exists in the credential list
// or among same-role records; a rejected signup writes nothing.
func (s *AuthService) Signup(ctx context.Context, input SignupInput, role domain.Role) (*domain.Session, string, time.Time, error) {
	if role != domain.RoleEmployee && role != domain.RoleCustomer {
		return nil, "", time.Time{}, errorutil.NewValidationError("signup is for employees and customers", nil)
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, "", time.Time{}, errorutil.NewValidationError("password required", nil)
	}

	s.store.Lock()
	defer s.store.Unlock()

	credentials, _, err := s.store.Credentials(ctx)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if rules.FindCredential(credentials, input.Email) != nil {
		return nil, "", time.Time{}, errorutil.NewConflict("email already registered", map[string]any{"email": input.Email})
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}

	seq, err := s.store.Sequences(ctx)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	session := domain.Session{Email: input.Email, Role: role}
	records := map[string]any{}

	switch role {
	case domain.RoleEmployee:
		employees, err := s.store.Employees(ctx)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		var employee domain.Employee
		employees, seq, employee, err = rules.SaveEmployee(employees, seq, rules.EmployeeInput{
			Name:       input.Name,
			Email:      input.Email,
			Phone:      input.Phone,
			Department: input.Department,
			Role:       input.Role,
		})
		if err != nil {
			return nil, "", time.Time{}, err
		}
		session.EmployeeID = employee.ID
		records[storage.KeyEmployees] = employees
	case domain.RoleCustomer:
		customers, err := s.store.Customers(ctx)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		var customer domain.Customer
		customers, seq, customer, err = rules.SaveCustomer(customers, seq, rules.CustomerInput{
			Name:    input.Name,
			Email:   input.Email,
			Phone:   input.Phone,
			Company: input.Company,
			Plan:    input.Plan,
		}, time.Now())
		if err != nil {
			return nil, "", time.Time{}, err
		}
		session.CustomerID = customer.ID
		records[storage.KeyCustomers] = customers
	}

	records[storage.KeySequences] = seq
	records[storage.KeyCredentials] = rules.UpsertCredential(credentials, domain.Credential{
		Email:    input.Email,
		Password: hashed,
		Role:     role,
	})

	if err := s.store.StoreAll(ctx, records); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(session.Email, session.Role)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewInternalError(err)
	}
	return &session, token, exp, nil
}

// Logout drops the persisted session and authentication flag.
func (s *AuthService) Logout(ctx context.Context) error {
	s.store.Lock()
	defer s.store.Unlock()
	return s.store.ClearAuth(ctx)
}

// Session returns the persisted session, if the authenticated flag is set.
func (s *AuthService) Session(ctx context.Context) (*domain.Session, error) {
	authenticated, err := s.store.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !authenticated {
		return nil, nil
	}
	return s.store.Session(ctx)
}

// EnsureAdminSeed writes the configured administrator credential, but only
// when no credential list exists yet. Never overwrites.
func (s *AuthService) EnsureAdminSeed(ctx context.Context) error {
	s.store.Lock()
	defer s.store.Unlock()
	return s.seedLocked(ctx)
}

// Reset clears the whole key space and reseeds the admin credential. The
// admin-only full storage reset.
func (s *AuthService) Reset(ctx context.Context) error {
	s.store.Lock()
	defer s.store.Unlock()
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	return s.seedLocked(ctx)
}

func (s *AuthService) seedLocked(ctx context.Context) error {
	_, found, err := s.store.Credentials(ctx)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	hashed, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	return s.store.Store(ctx, storage.KeyCredentials, []domain.Credential{{
		Email:    s.cfg.AdminEmail,
		Password: hashed,
		Role:     domain.RoleAdmin,
	}})
}

func findEmployeeByEmail(employees []domain.Employee, email string) *domain.Employee {
	for i := range employees {
		if strings.EqualFold(employees[i].Email, email) {
			return &employees[i]
		}
	}
	return nil
}

func findCustomerByEmail(customers []domain.Customer, email string) *domain.Customer {
	for i := range customers {
		if strings.EqualFold(customers[i].Email, email) {
			return &customers[i]
		}
	}
	return nil
}
