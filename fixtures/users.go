package fixtures

import "restaurant-console/models"

// Credential is one row of the mock login table.
type Credential struct {
	User     models.User
	Password string
}

// Credentials is the fixed staff login table, one account per role.
func Credentials() []Credential {
	return []Credential{
		{models.User{ID: "u-1", Name: "Ava Admin", Email: "admin@restaurant.test", Role: models.RoleAdmin, Avatar: "/images/staff/admin.png"}, "admin123"},
		{models.User{ID: "u-2", Name: "Milo Manager", Email: "manager@restaurant.test", Role: models.RoleManager, Avatar: "/images/staff/manager.png"}, "manager123"},
		{models.User{ID: "u-3", Name: "Chen Chef", Email: "chef@restaurant.test", Role: models.RoleChef}, "chef123"},
		{models.User{ID: "u-4", Name: "Cora Cashier", Email: "cashier@restaurant.test", Role: models.RoleCashier}, "cashier123"},
		{models.User{ID: "u-5", Name: "Will Waiter", Email: "waiter@restaurant.test", Role: models.RoleWaiter}, "waiter123"},
		{models.User{ID: "u-6", Name: "Cleo Cleaner", Email: "cleaner@restaurant.test", Role: models.RoleCleaner}, "cleaner123"},
	}
}
