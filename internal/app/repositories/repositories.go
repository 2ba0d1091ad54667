package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository *StudentRepository
	CompanyRepository *CompanyRepository
	MatchRepository   *MatchRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(db),
		CompanyRepository: NewCompanyRepository(db),
		MatchRepository:   NewMatchRepository(db),
	}
}
