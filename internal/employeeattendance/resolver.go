package employeeattendance

import (
	"context"
	"errors"

	"attendly/internal/employee"
	"attendly/internal/user"

	"gorm.io/gorm"
)

// ResolveStrategy attempts one way of finding the employee record for a user
// account; (nil, nil) means "no match here, try the next one".
type ResolveStrategy func(ctx context.Context, account *user.User) (*employee.Employee, error)

// Resolver walks an ordered list of strategies and returns the first match.
// The order is deliberate and auditable: explicit user link, then email,
// then case-insensitive name. No match is an empty result, not an error.
type Resolver struct {
	strategies []ResolveStrategy
}

func NewResolver(repo employee.Repository) *Resolver {
	return &Resolver{
		strategies: []ResolveStrategy{
			byUserLink(repo),
			byEmail(repo),
			byNameFold(repo),
		},
	}
}

func (r *Resolver) Resolve(ctx context.Context, account *user.User) (*employee.Employee, error) {
	for _, strategy := range r.strategies {
		match, err := strategy(ctx, account)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return match, nil
		}
	}
	return nil, nil
}

func noMatch(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func byUserLink(repo employee.Repository) ResolveStrategy {
	return func(ctx context.Context, account *user.User) (*employee.Employee, error) {
		e, err := repo.FindByUserID(ctx, account.ID.String())
		if err != nil {
			if noMatch(err) {
				return nil, nil
			}
			return nil, err
		}
		return e, nil
	}
}

func byEmail(repo employee.Repository) ResolveStrategy {
	return func(ctx context.Context, account *user.User) (*employee.Employee, error) {
		e, err := repo.FindByEmail(ctx, account.Email)
		if err != nil {
			if noMatch(err) {
				return nil, nil
			}
			return nil, err
		}
		return e, nil
	}
}

func byNameFold(repo employee.Repository) ResolveStrategy {
	return func(ctx context.Context, account *user.User) (*employee.Employee, error) {
		e, err := repo.FindByNameFold(ctx, account.Name)
		if err != nil {
			if noMatch(err) {
				return nil, nil
			}
			return nil, err
		}
		return e, nil
	}
}
