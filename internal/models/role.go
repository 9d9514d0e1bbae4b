package models

import "time"

// PermissionCode identifies one capability. The vocabulary is closed and
// known at build time; free-text codes coming over the wire are resolved
// against the catalog and unknown codes fail closed.
type PermissionCode string

const (
	PermManageUsers     PermissionCode = "can_manage_users"
	PermManageRoles     PermissionCode = "can_manage_roles"
	PermManageDivisions PermissionCode = "can_manage_divisions"
	PermManageProposals PermissionCode = "can_manage_proposals"
	PermCrudStudents    PermissionCode = "can_crud_mahasiswa"
	PermCrudLecturers   PermissionCode = "can_crud_dosen"
	PermCrudPrograms    PermissionCode = "can_crud_prodis"
	PermCrudMajors      PermissionCode = "can_crud_konsentrasi_utama"
	PermCrudEducations  PermissionCode = "can_crud_educations"
	PermCrudRegions     PermissionCode = "can_crud_wilayah"
	PermCrudReligions   PermissionCode = "can_crud_religions"
)

// PermissionCatalog maps every known capability to its presentation string.
// The catalog is the single source of truth for code recognition.
var PermissionCatalog = map[PermissionCode]string{
	PermManageUsers:     "Can manage all users",
	PermManageRoles:     "Can manage roles",
	PermManageDivisions: "Can manage divisions",
	PermManageProposals: "Can approve/reject proposals",
	PermCrudStudents:    "Can create, read, update, delete mahasiswa data",
	PermCrudLecturers:   "Can create, read, update, delete dosen data",
	PermCrudPrograms:    "Can create, read, update, delete prodi data",
	PermCrudMajors:      "Can create, read, update, delete konsentrasi utama data",
	PermCrudEducations:  "Can create, read, update, delete educations data",
	PermCrudRegions:     "Can create, read, update, delete wilayah data",
	PermCrudReligions:   "Can create, read, update, delete religion data",
}

// KnownPermission reports whether the code belongs to the catalog.
func KnownPermission(code PermissionCode) bool {
	_, ok := PermissionCatalog[code]
	return ok
}

// Permission represents a persisted capability row.
type Permission struct {
	ID          string         `db:"id" json:"id"`
	Code        PermissionCode `db:"code" json:"code"`
	Description string         `db:"description" json:"description"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Role bundles capabilities for assignment to users.
type Role struct {
	ID          string           `db:"id" json:"id"`
	Name        string           `db:"name" json:"name"`
	Description string           `db:"description" json:"description"`
	Permissions []PermissionCode `db:"-" json:"permissions"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// HasPermission reports membership of a code in the role's set.
func (r *Role) HasPermission(code PermissionCode) bool {
	if r == nil {
		return false
	}
	for _, p := range r.Permissions {
		if p == code {
			return true
		}
	}
	return false
}
