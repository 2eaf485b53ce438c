package payroll

import (
	"context"
	"errors"
	"regexp"

	"crewhub/internal/domain/access"
	"crewhub/internal/platform/crypto"
)

var (
	ErrForbidden    = errors.New("payroll: forbidden")
	ErrInvalidMonth = errors.New("payroll: month must be YYYY-MM")
	ErrBadAmounts   = errors.New("payroll: deductions exceed gross")
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Service struct {
	Store  *Store
	Access *access.Service
	Crypto *crypto.Service
}

func NewService(store *Store, accessSvc *access.Service, cryptoSvc *crypto.Service) *Service {
	return &Service{Store: store, Access: accessSvc, Crypto: cryptoSvc}
}

// visible applies the standard visibility check plus the stricter payroll
// rule: Sub-Admin never sees Admin-owned rows.
func (s *Service) visible(p access.Principal, r Row, memberships []access.TeamMembership) bool {
	if !access.CanView(p, r.Owner(), memberships) {
		return false
	}
	if p.Role == access.RoleSubAdmin && r.OwnerRole == access.RoleAdmin {
		return false
	}
	return true
}

func (s *Service) decrypt(r *Row) error {
	if len(r.BankRefEnc) == 0 {
		return nil
	}
	plain, err := s.Crypto.DecryptString(r.BankRefEnc)
	if err != nil {
		return err
	}
	r.BankRef = plain
	r.BankRefEnc = nil
	return nil
}

func (s *Service) ListMonth(ctx context.Context, p access.Principal, month string) ([]Row, error) {
	if !monthPattern.MatchString(month) {
		return nil, ErrInvalidMonth
	}
	all, err := s.Store.ListMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(all))
	for _, r := range all {
		if !s.visible(p, r, memberships) {
			continue
		}
		if err := s.decrypt(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, p access.Principal, rowID string) (Row, error) {
	r, err := s.Store.Get(ctx, rowID)
	if err != nil {
		return Row{}, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return Row{}, err
	}
	if !s.visible(p, r, memberships) {
		return Row{}, ErrForbidden
	}
	if err := s.decrypt(&r); err != nil {
		return Row{}, err
	}
	return r, nil
}

// Upsert writes or replaces the row for a user and month. The bank reference
// is encrypted before it reaches the store.
func (s *Service) Upsert(ctx context.Context, p access.Principal, userID, month string, gross, deductions int64, bankRef string) (Row, error) {
	if !monthPattern.MatchString(month) {
		return Row{}, ErrInvalidMonth
	}
	if deductions < 0 || gross < 0 || deductions > gross {
		return Row{}, ErrBadAmounts
	}
	// The ownership gate runs against the target user's role, not against an
	// existing row, so creating a row is checked the same as replacing one.
	owner, err := s.Access.ResolveOwner(ctx, userID)
	if err != nil {
		return Row{}, err
	}
	if !access.CanMutate(p, owner, nil) {
		return Row{}, ErrForbidden
	}
	var enc []byte
	if bankRef != "" {
		if enc, err = s.Crypto.EncryptString(bankRef); err != nil {
			return Row{}, err
		}
	}
	id, err := s.Store.Upsert(ctx, userID, month, gross, deductions, enc)
	if err != nil {
		return Row{}, err
	}
	return s.Get(ctx, p, id)
}

func (s *Service) SetStatus(ctx context.Context, p access.Principal, rowID, status string) (Row, error) {
	switch status {
	case StatusDraft, StatusFinalized, StatusPaid:
	default:
		return Row{}, errors.New("payroll: unknown status")
	}
	r, err := s.Store.Get(ctx, rowID)
	if err != nil {
		return Row{}, err
	}
	if !access.CanMutate(p, r.Owner(), nil) || (p.Role == access.RoleSubAdmin && r.OwnerRole == access.RoleAdmin) {
		return Row{}, ErrForbidden
	}
	if err := s.Store.SetStatus(ctx, rowID, status); err != nil {
		return Row{}, err
	}
	return s.Get(ctx, p, rowID)
}
