package repository

import (
	"context"
	"database/sql"

	"order-dashboard/internal/entity"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a UserRepository backed by MySQL.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	u := &entity.User{}
	err := r.db.QueryRowContext(ctx, `SELECT id, username, email, role FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role)
	if err != nil {
		return nil, translateErr(err)
	}
	return u, nil
}

func (r *userRepository) GetUserByEmailAndPassword(ctx context.Context, email, password string) (*entity.User, error) {
	u := &entity.User{}
	err := r.db.QueryRowContext(ctx, `SELECT id, username, email, role FROM users WHERE email = ? AND password = ?`, email, password).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role)
	if err != nil {
		return nil, translateErr(err)
	}
	return u, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.Password, user.Role)
	if err != nil {
		return nil, translateErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetUserByID(ctx, int(id))
}
