package utils

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
	OutletIDKey  contextKey = "outlet_id"
)

const (
	RoleOperator    = "OPERATOR"
	RoleDistributor = "DISTRIBUTOR"
	RoleOutlet      = "OUTLET"
)
