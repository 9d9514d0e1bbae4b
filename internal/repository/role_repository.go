package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

// RoleRepository provides database access for roles and the permission
// catalog.
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository creates a new instance of RoleRepository.
func NewRoleRepository(db *sqlx.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// RegisterPermission inserts a catalog code if absent and reports whether it
// was newly created. Re-registration is the expected steady state.
func (r *RoleRepository) RegisterPermission(ctx context.Context, code models.PermissionCode, description string) (bool, error) {
	const query = `INSERT INTO permissions (id, code, description, created_at)
	VALUES ($1, $2, $3, $4) ON CONFLICT (code) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, uuid.NewString(), code, description, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("register permission %s: %w", code, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("register permission %s: %w", code, err)
	}
	return affected > 0, nil
}

// ListPermissions returns the persisted catalog ordered by code.
func (r *RoleRepository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	const query = `SELECT id, code, description, created_at FROM permissions ORDER BY code`
	var perms []models.Permission
	if err := r.db.SelectContext(ctx, &perms, query); err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return perms, nil
}

// FindByID returns a role with its permission codes.
func (r *RoleRepository) FindByID(ctx context.Context, id string) (*models.Role, error) {
	const query = `SELECT id, name, description, created_at FROM roles WHERE id = $1 LIMIT 1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role by id: %w", err)
	}
	codes, err := r.permissionCodes(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = codes
	return &role, nil
}

// FindByName returns a role by its unique name.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	const query = `SELECT id, name, description, created_at FROM roles WHERE name = $1 LIMIT 1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find role by name: %w", err)
	}
	codes, err := r.permissionCodes(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = codes
	return &role, nil
}

// List returns all roles with their permission codes.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT id, name, description, created_at FROM roles ORDER BY name`
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	for i := range roles {
		codes, err := r.permissionCodes(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = codes
	}
	return roles, nil
}

// Create inserts a role along with its initial permission set.
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) (err error) {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	if role.CreatedAt.IsZero() {
		role.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin role create: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO roles (id, name, description, created_at) VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, query, role.ID, role.Name, role.Description, role.CreatedAt); err != nil {
		if isUniqueViolation(err, "roles_name_key") {
			return appErrors.ErrDuplicateName
		}
		return fmt.Errorf("create role: %w", err)
	}

	if err = addPermissionsTx(ctx, tx, role.ID, role.Permissions); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit role create: %w", err)
	}
	return nil
}

// Update renames a role and, when codes is non-nil, replaces its entire
// permission set. A nil slice leaves the set untouched; an empty non-nil
// slice clears it.
func (r *RoleRepository) Update(ctx context.Context, role *models.Role, codes []models.PermissionCode) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin role update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE roles SET name = $2, description = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, query, role.ID, role.Name, role.Description); err != nil {
		if isUniqueViolation(err, "roles_name_key") {
			return appErrors.ErrDuplicateName
		}
		return fmt.Errorf("update role: %w", err)
	}

	if codes != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, role.ID); err != nil {
			return fmt.Errorf("clear role permissions: %w", err)
		}
		if err = addPermissionsTx(ctx, tx, role.ID, codes); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit role update: %w", err)
	}
	return nil
}

// AddPermissions adds codes to a role's set; already-present codes are
// no-ops.
func (r *RoleRepository) AddPermissions(ctx context.Context, roleID string, codes []models.PermissionCode) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin permission assign: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = addPermissionsTx(ctx, tx, roleID, codes); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit permission assign: %w", err)
	}
	return nil
}

// Delete removes a role. Users referencing it fall back to no role via the
// schema's ON DELETE SET NULL.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *RoleRepository) permissionCodes(ctx context.Context, roleID string) ([]models.PermissionCode, error) {
	const query = `SELECT p.code FROM permissions p
	JOIN role_permissions rp ON rp.permission_id = p.id
	WHERE rp.role_id = $1 ORDER BY p.code`
	var codes []models.PermissionCode
	if err := r.db.SelectContext(ctx, &codes, query, roleID); err != nil {
		return nil, fmt.Errorf("load role permissions: %w", err)
	}
	return codes, nil
}

func addPermissionsTx(ctx context.Context, tx *sqlx.Tx, roleID string, codes []models.PermissionCode) error {
	if len(codes) == 0 {
		return nil
	}
	const query = `INSERT INTO role_permissions (role_id, permission_id)
	SELECT $1, p.id FROM permissions p WHERE p.code = ANY($2)
	ON CONFLICT DO NOTHING`
	raw := make([]string, len(codes))
	for i, c := range codes {
		raw[i] = string(c)
	}
	if _, err := tx.ExecContext(ctx, query, roleID, pq.Array(raw)); err != nil {
		return fmt.Errorf("assign role permissions: %w", err)
	}
	return nil
}
