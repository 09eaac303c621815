package enum

// Role is the access level of a back-office account
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// CanManage reports whether the role may edit the catalog, staff and void orders.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleManager
}
