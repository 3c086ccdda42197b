package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Mohanapriya2828/schoolapp-ado/internal/domain"
	pkgdto "github.com/Mohanapriya2828/schoolapp-ado/pkg/dto"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const uniqueViolationCode = "23505"

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (res domain.User, err error)
	GetUserByID(ctx context.Context, id int64) (data domain.User, err error)
	AddUser(ctx context.Context, data domain.User) (id int64, err error)
	UpdateUserIfUnchanged(ctx context.Context, data domain.User, expectedVersion int64) (err error)
	SoftDeleteUser(ctx context.Context, id int64) (err error)
	GetUsers(ctx context.Context, filter pkgdto.Filter) (data []domain.User, err error)
	CountUsers(ctx context.Context, filter pkgdto.Filter) (count int64, err error)
}

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// GetUserByEmail looks up a record by email across active and inactive rows,
// since email uniqueness spans both. A zero ID on the result means no match.
func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (res domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE email = $1", email)
	err = row.StructScan(&res)
	if err != nil {
		if err == sql.ErrNoRows {
			return res, nil
		}
		log.Error().Err(err).Str("component", "GetUserByEmail").Msg("")
		return res, errs.ErrInternalServer
	}

	return
}

// GetUserByID returns the record regardless of its active flag; visibility
// policy is the service's concern.
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id int64) (data domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE id = $1", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "GetUserByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}
	defer tx.Rollback()

	timestamp := time.Now().UnixMilli()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp
	data.Version = 1

	nstmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO users(external_id, name, dob, age, gender, designation, department, email, phone_number, address, hashed_password, role, profile_image_url, is_active, version, created_at, updated_at)
		VALUES (:external_id, :name, :dob, :age, :gender, :designation, :department, :email, :phone_number, :address, :hashed_password, :role, :profile_image_url, :is_active, :version, :created_at, :updated_at) RETURNING id`)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolationCode {
			return 0, errs.ErrEmailAlreadyUsed
		}
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	if err = r.insertHistory(ctx, tx, data); err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	return data.ID, nil
}

// UpdateUserIfUnchanged writes the full record conditioned on the version
// being the one the caller read. Zero affected rows means another writer got
// there first.
func (r *UserRepositoryImpl) UpdateUserIfUnchanged(ctx context.Context, data domain.User, expectedVersion int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUserIfUnchanged").Msg("")
		return errs.ErrInternalServer
	}
	defer tx.Rollback()

	data.UpdatedAt = time.Now().UnixMilli()
	data.Version = expectedVersion + 1

	result, err := tx.ExecContext(ctx, `UPDATE users SET name=$1, dob=$2, age=$3, gender=$4, designation=$5, department=$6, email=$7, phone_number=$8, address=$9, hashed_password=$10, profile_image_url=$11, version=$12, updated_at=$13
		WHERE id=$14 AND version=$15 AND deleted_at IS NULL`,
		data.Name, data.Dob, data.Age, data.Gender, data.Designation, data.Department, data.Email, data.PhoneNumber, data.Address, data.HashedPassword, data.ProfileImageURL, data.Version, data.UpdatedAt, data.ID, expectedVersion)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolationCode {
			return errs.ErrEmailAlreadyUsed
		}
		log.Error().Err(err).Str("component", "UpdateUserIfUnchanged").Msg("")
		return errs.ErrInternalServer
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUserIfUnchanged").Msg("")
		return errs.ErrInternalServer
	}
	if affected == 0 {
		return errs.ErrConflict
	}

	if err = r.insertHistory(ctx, tx, data); err != nil {
		log.Error().Err(err).Str("component", "UpdateUserIfUnchanged").Msg("")
		return errs.ErrInternalServer
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Str("component", "UpdateUserIfUnchanged").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

// SoftDeleteUser flips the active flag and stamps deleted_at exactly once.
// Rows already soft deleted are treated as absent.
func (r *UserRepositoryImpl) SoftDeleteUser(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error().Err(err).Str("component", "SoftDeleteUser").Msg("")
		return errs.ErrInternalServer
	}
	defer tx.Rollback()

	timestamp := time.Now().UnixMilli()

	var data domain.User
	row := tx.QueryRowxContext(ctx, `UPDATE users SET is_active=false, deleted_at=$1, updated_at=$1, version=version+1
		WHERE id=$2 AND deleted_at IS NULL RETURNING *`, timestamp, id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return errs.ErrNotFound
		}
		log.Error().Err(err).Str("component", "SoftDeleteUser").Msg("")
		return errs.ErrInternalServer
	}

	if err = r.insertHistory(ctx, tx, data); err != nil {
		log.Error().Err(err).Str("component", "SoftDeleteUser").Msg("")
		return errs.ErrInternalServer
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Str("component", "SoftDeleteUser").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *UserRepositoryImpl) GetUsers(ctx context.Context, filter pkgdto.Filter) (data []domain.User, err error) {
	query := "SELECT * FROM users WHERE is_active = true AND deleted_at IS NULL"

	args := make(map[string]interface{})

	if filter.Limit != 0 && filter.Page != 0 {
		offset := (filter.Page - 1) * filter.Limit
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = filter.Limit
		args["offset"] = offset
	}

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
		return nil, errs.ErrInternalServer
	}

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

func (r *UserRepositoryImpl) CountUsers(ctx context.Context, filter pkgdto.Filter) (count int64, err error) {
	err = r.db.GetContext(ctx, &count, "SELECT COUNT(id) FROM users WHERE is_active = true AND deleted_at IS NULL")
	if err != nil {
		log.Error().Err(err).Str("component", "CountUsers").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) insertHistory(ctx context.Context, tx *sqlx.Tx, data domain.User) error {
	hist := domain.UserHistory{
		UserID:          data.ID,
		ExternalID:      data.ExternalID,
		Name:            data.Name,
		Dob:             data.Dob,
		Age:             data.Age,
		Gender:          data.Gender,
		Designation:     data.Designation,
		Department:      data.Department,
		Email:           data.Email,
		PhoneNumber:     data.PhoneNumber,
		Address:         data.Address,
		HashedPassword:  data.HashedPassword,
		Role:            data.Role,
		ProfileImageURL: data.ProfileImageURL,
		IsActive:        data.IsActive,
		Version:         data.Version,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
		DeletedAt:       data.DeletedAt,
	}

	_, err := tx.NamedExecContext(ctx, `INSERT INTO user_histories(user_id, external_id, name, dob, age, gender, designation, department, email, phone_number, address, hashed_password, role, profile_image_url, is_active, version, created_at, updated_at, deleted_at)
		VALUES (:user_id, :external_id, :name, :dob, :age, :gender, :designation, :department, :email, :phone_number, :address, :hashed_password, :role, :profile_image_url, :is_active, :version, :created_at, :updated_at, :deleted_at)`, hist)
	return err
}
